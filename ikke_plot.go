/* Copyright (C) 2024 Philipp Benner
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */


package kmerenrich

/* -------------------------------------------------------------------------- */

import "gonum.org/v1/plot"
import "gonum.org/v1/plot/plotter"
import "gonum.org/v1/plot/vg"

/* -------------------------------------------------------------------------- */

func (obj IkkeResult) newPlot(normalized bool) (*plot.Plot, error) {
  p := plot.New()
  p.Title.Text   = "Iterative k-mer knockout enrichment"
  p.X.Label.Text = "iteration"
  if normalized {
    p.Y.Label.Text = "log2 enrichment"
  } else {
    p.Y.Label.Text = "enrichment"
  }
  xys    := make(plotter.XYs, len(obj))
  labels := make([]string, len(obj))
  for i, r := range obj {
    xys[i].X  = float64(r.Iteration)
    xys[i].Y  = r.Score
    labels[i] = r.Name()
  }
  line, points, err := plotter.NewLinePoints(xys)
  if err != nil {
    return nil, err
  }
  l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
  if err != nil {
    return nil, err
  }
  p.Add(line, points, l)
  return p, nil
}

// Plot the score of every selected k-mer against its iteration. The image
// format is determined by the file extension.
func (obj IkkeResult) ExportPlot(filename string, normalized bool) error {
  if len(obj) == 0 {
    return newError(ErrInvalidArgument, "no IKKE records to plot")
  }
  p, err := obj.newPlot(normalized)
  if err != nil {
    return err
  }
  if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
    return wrapError(ErrIO, err, "writing `%s'", filename)
  }
  return nil
}
