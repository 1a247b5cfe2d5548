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

import "bufio"
import "bytes"
import "fmt"
import "io"

/* -------------------------------------------------------------------------- */

func exportTable(filename string, write func(io.Writer) error) error {
  var buffer bytes.Buffer

  writer := bufio.NewWriter(&buffer)
  if err := write(writer); err != nil {
    return err
  }
  if err := writer.Flush(); err != nil {
    return err
  }
  if err := writeFile(filename, &buffer, IsGzipFilename(filename)); err != nil {
    return wrapError(ErrIO, err, "writing `%s'", filename)
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// Write counts as tab separated table. A standard deviation column is
// added for bootstrap results.
func (obj CountResult) WriteTable(writer io.Writer, header bool) error {
  if header {
    if obj.Bootstrap {
      if _, err := fmt.Fprintf(writer, "kmer\tcount\tsd\n"); err != nil {
        return err
      }
    } else {
      if _, err := fmt.Fprintf(writer, "kmer\tcount\n"); err != nil {
        return err
      }
    }
  }
  for _, r := range obj.Records {
    var err error
    if obj.Bootstrap {
      _, err = fmt.Fprintf(writer, "%s\t%f\t%f\n", r.Name(), r.Count, r.Dispersion)
    } else {
      _, err = fmt.Fprintf(writer, "%s\t%d\n", r.Name(), int(r.Count))
    }
    if err != nil {
      return err
    }
  }
  return nil
}

// Export counts to file, output is compressed if the filename ends
// with .gz.
func (obj CountResult) ExportTable(filename string, header bool) error {
  return exportTable(filename, func(w io.Writer) error {
    return obj.WriteTable(w, header)
  })
}

/* -------------------------------------------------------------------------- */

func (obj EnrichmentResult) WriteTable(writer io.Writer, header bool) error {
  if header {
    s := "kmer\ttest\tbackground\tenrichment"
    if obj.Bootstrap {
      s += "\tsd"
    }
    if _, err := fmt.Fprintf(writer, "%s\n", s); err != nil {
      return err
    }
  }
  for _, r := range obj.Records {
    if _, err := fmt.Fprintf(writer, "%s\t%e\t%e\t%f", r.Name(), r.Test, r.Background, r.Enrichment); err != nil {
      return err
    }
    if obj.Bootstrap {
      if _, err := fmt.Fprintf(writer, "\t%f", r.Dispersion); err != nil {
        return err
      }
    }
    if _, err := fmt.Fprintf(writer, "\n"); err != nil {
      return err
    }
  }
  return nil
}

func (obj EnrichmentResult) ExportTable(filename string, header bool) error {
  return exportTable(filename, func(w io.Writer) error {
    return obj.WriteTable(w, header)
  })
}

/* -------------------------------------------------------------------------- */

func (obj IkkeResult) WriteTable(writer io.Writer, header bool) error {
  if header {
    if _, err := fmt.Fprintf(writer, "iteration\tkmer\tscore\n"); err != nil {
      return err
    }
  }
  for _, r := range obj {
    if _, err := fmt.Fprintf(writer, "%d\t%s\t%f\n", r.Iteration, r.Name(), r.Score); err != nil {
      return err
    }
  }
  return nil
}

func (obj IkkeResult) ExportTable(filename string, header bool) error {
  return exportTable(filename, func(w io.Writer) error {
    return obj.WriteTable(w, header)
  })
}
