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

type Config struct {
  Klet     int
  Seed     int64
  Compress bool
  Verbose  int
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

func ImportSequenceCollection(config Config, filename string) SequenceCollection {
  PrintStderr(config, 1, "Reading sequences `%s'... ", filename)
  s, err := ImportSequences(filename)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return s
}

/* -------------------------------------------------------------------------- */

func shuffleSequences(config Config, filenameIn, filenameOut string) {
  sequences := ImportSequenceCollection(config, filenameIn)
  seed      := NewSeed(config.Seed)

  PrintStderr(config, 1, "Shuffling %d sequences preserving %d-lets (seed: %d)\n", sequences.Len(), config.Klet, int64(seed))
  shuffled  := sequences.Shuffle(config.Klet, seed)

  PrintStderr(config, 1, "Writing fasta file `%s'... ", filenameOut)
  if err := shuffled.ExportFasta(filenameOut, config.Compress || IsGzipFilename(filenameOut)); err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

  config  := Config{}
  options := getopt.New()

  optKlet     := options.    IntLong("klet",      0 ,  DefaultKlet, "size of k-lets preserved by shuffling [default: 2]")
  optSeed     := options.    IntLong("seed",      0 , -1,           "seed for the random number generator, -1 selects a random seed")
  optCompress := options.   BoolLong("compress",  0 ,               "compress output")
  optVerbose  := options.CounterLong("verbose",  'v',               "verbose level [-v or -vv]")
  optHelp     := options.   BoolLong("help",     'h',               "print help")

  options.SetParameters("<INPUT> <OUTPUT.fasta[.gz]>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Klet     = *optKlet
  config.Seed     = int64(*optSeed)
  config.Compress = *optCompress
  config.Verbose  = *optVerbose

  shuffleSequences(config, options.Args()[0], options.Args()[1])
}
