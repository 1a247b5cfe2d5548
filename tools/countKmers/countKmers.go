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
import   "strings"

import   "github.com/pborman/getopt"
import   log "github.com/sirupsen/logrus"

import . "github.com/pbenner/kmerenrich"
import   "github.com/pbenner/kmerenrich/lib/progress"

/* -------------------------------------------------------------------------- */

type Config struct {
  CountConfig
  Header  bool
  Force   bool
  Verbose int
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

func WriteResult(config Config, result CountResult, filenameOut string) {
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

/* -------------------------------------------------------------------------- */

func countKmers(config Config, filenameIn, filenameOut string) {
  if config.K > 12 && config.K <= MaxKmerLength && !config.Force {
    rows, bytes := EstimatedOutputSize(config.K)
    log.Fatalf("output for k=%d may have up to %d rows (%d bytes), use `--force' to proceed", config.K, rows, bytes)
  }
  if config.Verbose >= 1 && config.BootstrapIterations > 0 {
    config.Progress = progress.NewCounter(os.Stderr, config.BootstrapIterations, 100).Tick
  }
  PrintStderr(config, 1, "Counting %d-mers in `%s'...\n", config.K, filenameIn)
  result, err := CountKmers(context.Background(), filenameIn, config.CountConfig)
  if err != nil {
    log.Fatal(err)
  }
  PrintStderr(config, 1, "Found %d distinct k-mers (seed: %d)\n", len(result.Records), int64(result.Seed))

  WriteResult(config, result, filenameOut)
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

  config  := Config{CountConfig: DefaultCountConfig()}
  options := getopt.New()

  optAlgorithm := options. StringLong("algorithm",      0 , "regular", "regular or shuffled")
  optKlet      := options.    IntLong("klet",           0 ,  2,        "size of k-lets preserved by shuffling [default: 2]")
  optBootstrap := options.    IntLong("bootstrap",      0 ,  0,        "number of bootstrap iterations [default: 0]")
  optPercent   := options. StringLong("sample-percent", 0 , "100",     "percentage of sequences drawn in each bootstrap iteration [default: 100]")
  optSeed      := options.    IntLong("seed",           0 , -1,        "seed for the random number generator, -1 selects a random seed")
  optSort      := options. StringLong("sort",           0 , "alphabetical", "alphabetical or descending")
  optDenseMaxK := options.    IntLong("dense-max-k",    0 , DefaultDenseMaxK, "maximal k-mer length for dense count tables")
  optHeader    := options.   BoolLong("header",         0 ,            "print table header")
  optForce     := options.   BoolLong("force",          0 ,            "allow k-mer lengths larger than 12")
  optThreads   := options.    IntLong("threads",        0 ,  1,        "number of threads [default: 1]")
  optVerbose   := options.CounterLong("verbose",       'v',            "verbose level [-v or -vv]")
  optHelp      := options.   BoolLong("help",          'h',            "print help")

  options.SetParameters("<K> <INPUT> [OUTPUT.table[.gz]]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) < 2 || len(options.Args()) > 3 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  switch strings.ToLower(*optAlgorithm) {
  case "regular" : config.Shuffled = false
  case "shuffled": config.Shuffled = true
  default:
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  switch strings.ToLower(*optSort) {
  case "alphabetical": config.SortDescending = false
  case "descending"  : config.SortDescending = true
  default:
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  if p, err := strconv.ParseFloat(*optPercent, 64); err != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  } else {
    config.SamplePercent = p
  }
  config.KletForShuffle      = *optKlet
  config.BootstrapIterations = *optBootstrap
  config.Seed                = int64(*optSeed)
  config.DenseMaxK           = *optDenseMaxK
  config.Header              = *optHeader
  config.Force               = *optForce
  config.Threads             = *optThreads
  config.Verbose             = *optVerbose
  if config.Verbose >= 2 {
    log.SetLevel(log.DebugLevel)
  }
  // check required arguments
  k, err := strconv.ParseInt(options.Args()[0], 10, 64); if err != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.K = int(k)

  filenameIn  := options.Args()[1]
  filenameOut := ""
  if len(options.Args()) == 3 {
    filenameOut = options.Args()[2]
  }
  countKmers(config, filenameIn, filenameOut)
}
