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


package main

/* -------------------------------------------------------------------------- */

import   "fmt"
import   "os"

import   "github.com/pborman/getopt"
import   log "github.com/sirupsen/logrus"

import . "github.com/pbenner/kmerenrich"

/* -------------------------------------------------------------------------- */

func seqseq(sequence, pattern string, all bool) {
  positions, err := Seqseq(sequence, pattern, all)
  if err != nil {
    log.Fatal(err)
  }
  if all && len(positions) == 0 {
    fmt.Println(0)
  }
  for _, i := range positions {
    fmt.Println(i)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

  options := getopt.New()

  optAll  := options.BoolLong("all",   0 , "report all (possibly overlapping) matches")
  optHelp := options.BoolLong("help", 'h', "print help")

  options.SetParameters("<SEQUENCE> <PATTERN>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  seqseq(options.Args()[0], options.Args()[1], *optAll)
}
