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

import   "bufio"
import   "context"
import   "fmt"
import   "os"
import   "strconv"

import   "github.com/pborman/getopt"
import   log "github.com/sirupsen/logrus"

import . "github.com/pbenner/kmerenrich"

/* -------------------------------------------------------------------------- */

type Config struct {
  IkkeConfig
  Header  bool
  Force   bool
  Plot    string
  Verbose int
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

func WriteResult(config Config, result IkkeResult, filenameOut string) {
  if filenameOut == "" {
    writer := bufio.NewWriter(os.Stdout)
    defer writer.Flush()
    if err := result.WriteTable(writer, config.Header); err != nil {
      log.Fatal(err)
    }
  } else {
    PrintStderr(config, 1, "Writing table `%s'... ", filenameOut)
    if err := result.ExportTable(filenameOut, config.Header); err != nil {
      PrintStderr(config, 1, "failed\n")
      log.Fatal(err)
    }
    PrintStderr(config, 1, "done\n")
  }
}

func WritePlot(config Config, result IkkeResult) {
  if config.Plot == "" {
    return
  }
  if len(result) == 0 {
    log.Warn("no k-mer selected, skipping plot")
    return
  }
  PrintStderr(config, 1, "Writing plot `%s'... ", config.Plot)
  if err := result.ExportPlot(config.Plot, config.Normalize); err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
}

/* -------------------------------------------------------------------------- */

func ikke(config Config, filenameTest, filenameControl, filenameOut string) {
  if config.K > 12 && config.K <= MaxKmerLength && !config.Force {
    rows, bytes := EstimatedOutputSize(config.K)
    log.Fatalf("k-mer tables for k=%d may have up to %d entries (%d bytes), use `--force' to proceed", config.K, rows, bytes)
  }
  PrintStderr(config, 1, "Running %d IKKE iterations on %d-mers in `%s'...\n", config.Iterations, config.K, filenameTest)
  result, err := Ikke(context.Background(), filenameTest, filenameControl, config.IkkeConfig)
  if err != nil {
    log.Fatal(err)
  }
  if len(result) < config.Iterations {
    PrintStderr(config, 1, "Stopped after %d iterations, no enriched k-mer left\n", len(result))
  }
  WriteResult(config, result, filenameOut)
  WritePlot  (config, result)
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

  config  := Config{IkkeConfig: DefaultIkkeConfig()}
  options := getopt.New()

  optControl       := options. StringLong("control",       0 , "",    "control sequences, required unless --probabilistic is given")
  optIterations    := options.    IntLong("iterations",    0 , 10,    "number of k-mers to knock out [default: 10]")
  optProbabilistic := options.   BoolLong("probabilistic", 0 ,        "use a background model based on base frequencies")
  optNormalize     := options.   BoolLong("normalize",     0 ,        "report log2 enrichments")
  optPlot          := options. StringLong("plot",          0 , "",    "plot enrichments to the given file (png, svg, or pdf)")
  optDenseMaxK     := options.    IntLong("dense-max-k",   0 , DefaultDenseMaxK, "maximal k-mer length for dense count tables")
  optHeader        := options.   BoolLong("header",        0 ,        "print table header")
  optForce         := options.   BoolLong("force",         0 ,        "allow k-mer lengths larger than 12")
  optThreads       := options.    IntLong("threads",       0 ,  1,    "number of threads [default: 1]")
  optVerbose       := options.CounterLong("verbose",      'v',        "verbose level [-v or -vv]")
  optHelp          := options.   BoolLong("help",         'h',        "print help")

  options.SetParameters("<K> <TEST> [OUTPUT.table[.gz]]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) < 2 || len(options.Args()) > 3 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Iterations    = *optIterations
  config.Probabilistic = *optProbabilistic
  config.Normalize     = *optNormalize
  config.Plot          = *optPlot
  config.DenseMaxK     = *optDenseMaxK
  config.Header        = *optHeader
  config.Force         = *optForce
  config.Threads       = *optThreads
  config.Verbose       = *optVerbose
  if config.Verbose >= 2 {
    log.SetLevel(log.DebugLevel)
  }
  // check required arguments
  k, err := strconv.ParseInt(options.Args()[0], 10, 64); if err != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.K = int(k)

  filenameTest := options.Args()[1]
  filenameOut  := ""
  if len(options.Args()) == 3 {
    filenameOut = options.Args()[2]
  }
  ikke(config, filenameTest, *optControl, filenameOut)
}
