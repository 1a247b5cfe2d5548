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

import "context"
import "sort"

import "github.com/sirupsen/logrus"
import "gonum.org/v1/gonum/stat"

/* -------------------------------------------------------------------------- */

type CountConfig struct {
  K                   int
  // count k-mers of k-let preserving shuffles of the input
  Shuffled            bool
  KletForShuffle      int
  BootstrapIterations int
  SamplePercent       float64
  // -1 selects a random seed, which is reported in the result
  Seed                int64
  SortDescending      bool
  Threads             int
  DenseMaxK           int
  // called after every bootstrap iteration
  Progress            func()
  Logger             *logrus.Logger
}

func DefaultCountConfig() CountConfig {
  return CountConfig{
    K             : 6,
    KletForShuffle: -1,
    SamplePercent : 100.0,
    Seed          : RandomSeed,
    Threads       : 1,
    DenseMaxK     : DefaultDenseMaxK,
    Logger        : logrus.StandardLogger() }
}

type CountRecord struct {
  Kmer       Kmer
  K          int
  // count, or mean count over bootstrap iterations
  Count      float64
  // standard deviation over bootstrap iterations
  Dispersion float64
}

func (obj CountRecord) Name() string {
  return kmerName(obj.Kmer, obj.K)
}

type CountResult struct {
  K          int
  Seed       Seed
  Bootstrap  bool
  Records  []CountRecord
  // one table, or one table per bootstrap iteration
  Tables   []CountTable
}

/* -------------------------------------------------------------------------- */

type EnrichmentConfig struct {
  K                   int
  Algorithm           EnrichmentAlgorithm
  BootstrapIterations int
  SamplePercent       float64
  Seed                int64
  KletForBackground   int
  SortDescending      bool
  Threads             int
  DenseMaxK           int
  Progress            func()
  Logger             *logrus.Logger
}

func DefaultEnrichmentConfig() EnrichmentConfig {
  return EnrichmentConfig{
    K                : 6,
    Algorithm        : EnrichmentNormal,
    SamplePercent    : 100.0,
    Seed             : RandomSeed,
    KletForBackground: -1,
    Threads          : 1,
    DenseMaxK        : DefaultDenseMaxK,
    Logger           : logrus.StandardLogger() }
}

type EnrichmentResult struct {
  K          int
  Algorithm  EnrichmentAlgorithm
  Seed       Seed
  Bootstrap  bool
  Records    EnrichmentRecords
}

/* -------------------------------------------------------------------------- */

func newSeed(seed int64, logger *logrus.Logger) Seed {
  s := NewSeed(seed)
  if seed == RandomSeed {
    logger.Infof("using random seed %d", int64(s))
  }
  return s
}

func checkBootstrap(iterations int, percent float64, logger *logrus.Logger) error {
  if iterations < 0 {
    return newError(ErrInvalidArgument, "number of bootstrap iterations must not be negative, got %d", iterations)
  }
  if iterations > 0 {
    p, err := quantizePercent(percent)
    if err != nil {
      return err
    }
    // subsamples are drawn without replacement
    if p == 100000 {
      logger.Warnf("all %d bootstrap iterations use every sequence, dispersions will be zero; lower the sample percent", iterations)
    }
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// Count all k-mers in a raw, FASTA or FASTQ file.
func CountKmers(ctx context.Context, filename string, config CountConfig) (CountResult, error) {
  if config.Logger == nil {
    config.Logger = logrus.StandardLogger()
  }
  if err := checkBootstrap(config.BootstrapIterations, config.SamplePercent, config.Logger); err != nil {
    return CountResult{}, err
  }
  counter, err := NewKmerCounter(config.K, config.Threads, config.DenseMaxK)
  if err != nil {
    return CountResult{}, err
  }
  defer counter.Close()
  sequences, err := ImportSequences(filename)
  if err != nil {
    return CountResult{}, err
  }
  seed := newSeed(config.Seed, config.Logger)

  tables, err := counter.CountTables(ctx, sequences, CountOptions{
    Shuffle            : config.Shuffled,
    Klet               : config.KletForShuffle,
    BootstrapIterations: config.BootstrapIterations,
    SamplePercent      : config.SamplePercent,
    Seed               : seed,
    Progress           : config.Progress })
  if err != nil {
    return CountResult{}, err
  }
  r := CountResult{
    K        : config.K,
    Seed     : seed,
    Bootstrap: config.BootstrapIterations > 0,
    Records  : summarizeCountTables(tables),
    Tables   : tables }
  if config.SortDescending {
    sort.SliceStable(r.Records, func(i, j int) bool {
      if r.Records[i].Count != r.Records[j].Count {
        return r.Records[i].Count > r.Records[j].Count
      }
      return r.Records[i].Kmer < r.Records[j].Kmer
    })
  }
  return r, nil
}

// Counts of all k-mers in alphabetical order. For more than one table the
// mean and standard deviation are reported, k-mers missing in a table
// count as zero.
func summarizeCountTables(tables []CountTable) []CountRecord {
  n := len(tables)
  k := tables[0].K()
  m := make(map[Kmer][]float64)
  for i, table := range tables {
    for it := table.Iterate(); it.Ok(); it.Next() {
      x, ok := m[it.GetKmer()]
      if !ok {
        x = make([]float64, n)
        m[it.GetKmer()] = x
      }
      x[i] = float64(it.GetCount())
    }
  }
  r := make([]CountRecord, 0, len(m))
  for kmer, x := range m {
    record := CountRecord{Kmer: kmer, K: k}
    if n > 1 {
      record.Count, record.Dispersion = stat.MeanStdDev(x, nil)
    } else {
      record.Count = x[0]
    }
    r = append(r, record)
  }
  sort.Slice(r, func(i, j int) bool { return r[i].Kmer < r[j].Kmer })
  return r
}

/* -------------------------------------------------------------------------- */

// Enrichment of k-mers in the test file. The control file is required by
// the normal algorithm and ignored by all other algorithms, an empty
// filename means no control.
func Enrichments(ctx context.Context, testFilename, controlFilename string, config EnrichmentConfig) (EnrichmentResult, error) {
  if config.Logger == nil {
    config.Logger = logrus.StandardLogger()
  }
  if err := checkBootstrap(config.BootstrapIterations, config.SamplePercent, config.Logger); err != nil {
    return EnrichmentResult{}, err
  }
  if config.Algorithm.NeedsControl() && controlFilename == "" {
    return EnrichmentResult{}, newError(ErrInvalidArgument, "enrichment algorithm `%s' requires a control file", config.Algorithm)
  }
  if !config.Algorithm.NeedsControl() && controlFilename != "" {
    config.Logger.Warnf("enrichment algorithm `%s' ignores control file `%s'", config.Algorithm, controlFilename)
    controlFilename = ""
  }
  counter, err := NewKmerCounter(config.K, config.Threads, config.DenseMaxK)
  if err != nil {
    return EnrichmentResult{}, err
  }
  defer counter.Close()
  test, err := ImportSequences(testFilename)
  if err != nil {
    return EnrichmentResult{}, err
  }
  var control *SequenceCollection
  if controlFilename != "" {
    if s, err := ImportSequences(controlFilename); err != nil {
      return EnrichmentResult{}, err
    } else {
      control = &s
    }
  }
  seed   := newSeed(config.Seed, config.Logger)
  engine := NewEnrichmentEngine(counter, config.Algorithm, config.KletForBackground)

  records, err := engine.EnrichBootstrap(ctx, test, control, config.BootstrapIterations, config.SamplePercent, seed, config.Progress)
  if err != nil {
    return EnrichmentResult{}, err
  }
  if config.SortDescending {
    records.SortDescending()
  }
  return EnrichmentResult{
    K        : config.K,
    Algorithm: config.Algorithm,
    Seed     : seed,
    Bootstrap: config.BootstrapIterations > 0,
    Records  : records }, nil
}

/* -------------------------------------------------------------------------- */

// Iterative k-mer knockout enrichment on sequence files. The control file
// must be given unless config.Probabilistic is set, in which case it is
// ignored.
func Ikke(ctx context.Context, testFilename, controlFilename string, config IkkeConfig) (IkkeResult, error) {
  if config.Logger == nil {
    config.Logger = logrus.StandardLogger()
  }
  if config.Probabilistic && controlFilename != "" {
    config.Logger.Warnf("probabilistic IKKE ignores control file `%s'", controlFilename)
    controlFilename = ""
  }
  if !config.Probabilistic && controlFilename == "" {
    return nil, newError(ErrInvalidArgument, "IKKE requires a control file unless the probabilistic background is used")
  }
  if err := checkK(config.K); err != nil {
    return nil, err
  }
  test, err := ImportSequences(testFilename)
  if err != nil {
    return nil, err
  }
  var control *SequenceCollection
  if controlFilename != "" {
    if s, err := ImportSequences(controlFilename); err != nil {
      return nil, err
    } else {
      control = &s
    }
  }
  controller, err := NewIkkeController(test, control, config)
  if err != nil {
    return nil, err
  }
  defer controller.Close()

  return controller.Run(ctx)
}

/* -------------------------------------------------------------------------- */

// Search pattern in sequence. Returns the 1-based position of the first
// match (0 if there is none) as a single element, or all positions if
// findAll is set.
func Seqseq(sequence, pattern string, findAll bool) ([]int, error) {
  matcher, err := NewSeqseqMatcher(pattern)
  if err != nil {
    return nil, err
  }
  if findAll {
    r := matcher.FindAll([]byte(sequence))
    if r == nil {
      r = []int{}
    }
    return r, nil
  }
  return []int{matcher.Find([]byte(sequence))}, nil
}

/* -------------------------------------------------------------------------- */

// Upper bound for the size of a table listing all k-mers of length k. The
// number of rows grows as 4^k, bytes assume a count column of up to ten
// digits. Zero is returned for invalid k.
func EstimatedOutputSize(k int) (rows, bytes int64) {
  if checkK(k) != nil {
    return 0, 0
  }
  rows  = int64(1) << uint(2*k)
  bytes = rows*int64(k+1+10+1)
  return rows, bytes
}
