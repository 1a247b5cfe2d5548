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
import "fmt"
import "math"
import "sort"
import "strings"

import "github.com/pbenner/threadpool"
import "gonum.org/v1/gonum/stat"

/* -------------------------------------------------------------------------- */

type EnrichmentAlgorithm int

const (
  // test frequency relative to a control population
  EnrichmentNormal EnrichmentAlgorithm = iota
  // test frequency relative to k-let shuffled test sequences
  EnrichmentShuffled
  // test frequency relative to a model of independent bases
  EnrichmentProbabilistic
  // geometric mean of the shuffled and probabilistic enrichments
  EnrichmentShuffledProbabilistic
)

func ParseEnrichmentAlgorithm(s string) (EnrichmentAlgorithm, error) {
  switch strings.ToLower(s) {
  case "normal"       : return EnrichmentNormal, nil
  case "shuffled"     : return EnrichmentShuffled, nil
  case "probabilistic": return EnrichmentProbabilistic, nil
  case "shuf+prob"    : return EnrichmentShuffledProbabilistic, nil
  default:
    return EnrichmentNormal, newError(ErrInvalidArgument, "unknown enrichment algorithm `%s'", s)
  }
}

func (obj EnrichmentAlgorithm) String() string {
  switch obj {
  case EnrichmentNormal               : return "normal"
  case EnrichmentShuffled             : return "shuffled"
  case EnrichmentProbabilistic        : return "probabilistic"
  case EnrichmentShuffledProbabilistic: return "shuf+prob"
  default:
    return fmt.Sprintf("EnrichmentAlgorithm(%d)", int(obj))
  }
}

// Only the normal algorithm compares against a control population.
func (obj EnrichmentAlgorithm) NeedsControl() bool {
  return obj == EnrichmentNormal
}

/* -------------------------------------------------------------------------- */

type EnrichmentRecord struct {
  Kmer       Kmer
  K          int
  // frequency of the k-mer among all valid windows of the test
  // sequences
  Test       float64
  // frequency of the k-mer in the control or background
  Background float64
  Enrichment float64
  // standard deviation of the enrichment over bootstrap iterations
  Dispersion float64
}

func (obj EnrichmentRecord) Name() string {
  return kmerName(obj.Kmer, obj.K)
}

/* -------------------------------------------------------------------------- */

type EnrichmentRecords []EnrichmentRecord

func (obj EnrichmentRecords) SortAlphabetical() {
  sort.SliceStable(obj, func(i, j int) bool {
    return obj[i].Kmer < obj[j].Kmer
  })
}

// Sort by decreasing enrichment, ties are sorted alphabetically.
func (obj EnrichmentRecords) SortDescending() {
  sort.SliceStable(obj, func(i, j int) bool {
    if obj[i].Enrichment != obj[j].Enrichment {
      return obj[i].Enrichment > obj[j].Enrichment
    }
    return obj[i].Kmer < obj[j].Kmer
  })
}

// Record with maximal enrichment, the alphabetically first one if there are
// ties. Returns false if no record has a positive finite enrichment.
func (obj EnrichmentRecords) Max() (EnrichmentRecord, bool) {
  r  := EnrichmentRecord{}
  ok := false
  for _, record := range obj {
    e := record.Enrichment
    if math.IsNaN(e) || math.IsInf(e, 0) || e <= 0.0 {
      continue
    }
    if !ok || e > r.Enrichment || (e == r.Enrichment && record.Kmer < r.Kmer) {
      r  = record
      ok = true
    }
  }
  return r, ok
}

func (obj EnrichmentRecords) Get(kmer Kmer) (EnrichmentRecord, bool) {
  for _, record := range obj {
    if record.Kmer == kmer {
      return record, true
    }
  }
  return EnrichmentRecord{}, false
}

/* -------------------------------------------------------------------------- */

func frequency(count, total int) float64 {
  if total == 0 {
    return 0.0
  }
  return float64(count)/float64(total)
}

// Ratio of test and background frequencies for every k-mer that occurs in
// either table. The enrichment is zero if the background count is zero.
func EnrichCounts(test, background CountTable) EnrichmentRecords {
  r := EnrichmentRecords{}
  for it := test.Iterate(); it.Ok(); it.Next() {
    kmer := it.GetKmer()
    tf   := frequency(it.GetCount(), test.Total())
    bf   := frequency(background.Get(kmer), background.Total())
    e    := 0.0
    if bf > 0.0 {
      e = tf/bf
    }
    r = append(r, EnrichmentRecord{Kmer: kmer, K: test.K(), Test: tf, Background: bf, Enrichment: e})
  }
  for it := background.Iterate(); it.Ok(); it.Next() {
    if test.Get(it.GetKmer()) != 0 {
      continue
    }
    bf := frequency(it.GetCount(), background.Total())
    r = append(r, EnrichmentRecord{Kmer: it.GetKmer(), K: test.K(), Background: bf})
  }
  r.SortAlphabetical()
  return r
}

// Test frequency relative to the probability of the k-mer under a model of
// independent bases with the given composition.
func EnrichProbabilistic(test CountTable, composition Composition) EnrichmentRecords {
  r := EnrichmentRecords{}
  for it := test.Iterate(); it.Ok(); it.Next() {
    kmer := it.GetKmer()
    tf   := frequency(it.GetCount(), test.Total())
    bf   := composition.Probability(kmer, test.K())
    e    := 0.0
    if bf > 0.0 {
      e = tf/bf
    }
    r = append(r, EnrichmentRecord{Kmer: kmer, K: test.K(), Test: tf, Background: bf, Enrichment: e})
  }
  r.SortAlphabetical()
  return r
}

// Geometric mean of two enrichments. K-mers missing in either argument or
// with a zero enrichment on either side receive zero.
func CombineEnrichments(a, b EnrichmentRecords) EnrichmentRecords {
  m := make(map[Kmer]EnrichmentRecord)
  for _, record := range b {
    m[record.Kmer] = record
  }
  r := EnrichmentRecords{}
  for _, ra := range a {
    rb, ok := m[ra.Kmer]
    if !ok {
      r = append(r, EnrichmentRecord{Kmer: ra.Kmer, K: ra.K, Test: ra.Test})
      continue
    }
    delete(m, ra.Kmer)
    record := EnrichmentRecord{
      Kmer      : ra.Kmer,
      K         : ra.K,
      Test      : ra.Test,
      Background: math.Sqrt(ra.Background*rb.Background) }
    if ra.Enrichment > 0.0 && rb.Enrichment > 0.0 {
      record.Enrichment = math.Sqrt(ra.Enrichment*rb.Enrichment)
    }
    r = append(r, record)
  }
  for _, rb := range m {
    r = append(r, EnrichmentRecord{Kmer: rb.Kmer, K: rb.K, Test: rb.Test})
  }
  r.SortAlphabetical()
  return r
}

/* -------------------------------------------------------------------------- */

type EnrichmentEngine struct {
  counter   *KmerCounter
  algorithm  EnrichmentAlgorithm
  klet       int
}

// The klet is used for shuffled backgrounds, -1 selects DefaultKlet.
func NewEnrichmentEngine(counter *KmerCounter, algorithm EnrichmentAlgorithm, klet int) *EnrichmentEngine {
  return &EnrichmentEngine{counter: counter, algorithm: algorithm, klet: klet}
}

func (obj *EnrichmentEngine) Algorithm() EnrichmentAlgorithm {
  return obj.algorithm
}

func (obj *EnrichmentEngine) checkControl(control *SequenceCollection) error {
  if obj.algorithm.NeedsControl() && control == nil {
    return newError(ErrInvalidArgument, "enrichment algorithm `%s' requires control sequences", obj.algorithm)
  }
  return nil
}

func (obj *EnrichmentEngine) enrich(ctx context.Context, test SequenceCollection, control *SequenceCollection, seed Seed, parallel bool) (EnrichmentRecords, error) {
  count := func(s SequenceCollection, shuffle bool) (CountTable, error) {
    if parallel {
      return obj.counter.count(ctx, s, shuffle, obj.klet, seed)
    }
    if err := ctx.Err(); err != nil {
      return nil, err
    }
    if shuffle {
      s = s.Shuffle(obj.klet, seed)
    }
    return obj.counter.countSequences(s), nil
  }
  testCounts, err := count(test, false)
  if err != nil {
    return nil, err
  }
  switch obj.algorithm {
  case EnrichmentNormal:
    if controlCounts, err := count(*control, false); err != nil {
      return nil, err
    } else {
      return EnrichCounts(testCounts, controlCounts), nil
    }
  case EnrichmentShuffled:
    if shuffledCounts, err := count(test, true); err != nil {
      return nil, err
    } else {
      return EnrichCounts(testCounts, shuffledCounts), nil
    }
  case EnrichmentProbabilistic:
    return EnrichProbabilistic(testCounts, test.Composition()), nil
  case EnrichmentShuffledProbabilistic:
    if shuffledCounts, err := count(test, true); err != nil {
      return nil, err
    } else {
      return CombineEnrichments(
        EnrichCounts(testCounts, shuffledCounts),
        EnrichProbabilistic(testCounts, test.Composition())), nil
    }
  default:
    return nil, newError(ErrInvalidArgument, "unknown enrichment algorithm `%s'", obj.algorithm)
  }
}

// Enrichment of all k-mers in the test sequences. The control is required
// by the normal algorithm and ignored otherwise. The seed is used for
// shuffled backgrounds. Records are sorted alphabetically.
func (obj *EnrichmentEngine) Enrich(ctx context.Context, test SequenceCollection, control *SequenceCollection, seed Seed) (EnrichmentRecords, error) {
  if err := obj.checkControl(control); err != nil {
    return nil, err
  }
  return obj.enrich(ctx, test, control, seed, true)
}

// Compute enrichments on bootstrap subsamples and report the mean and
// standard deviation for every k-mer. Iteration i subsamples the test
// sequences with seed.Derive(i).Derive(0), the control sequences with
// seed.Derive(i).Derive(1) and shuffles with seed.Derive(i).Derive(2).
func (obj *EnrichmentEngine) EnrichBootstrap(ctx context.Context, test SequenceCollection, control *SequenceCollection, iterations int, percent float64, seed Seed, progress func()) (EnrichmentRecords, error) {
  if err := obj.checkControl(control); err != nil {
    return nil, err
  }
  if iterations < 0 {
    return nil, newError(ErrInvalidArgument, "number of bootstrap iterations must not be negative, got %d", iterations)
  }
  if iterations == 0 {
    return obj.enrich(ctx, test, control, seed, true)
  }
  if _, err := quantizePercent(percent); err != nil {
    return nil, err
  }
  results := make([]EnrichmentRecords, iterations)
  pool    := obj.counter.pool
  jg      := pool.NewJobGroup()

  if err := pool.AddRangeJob(0, iterations, jg, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    s := seed.Derive(i)
    t, err := test.Subsample(percent, s.Derive(0))
    if err != nil {
      return err
    }
    var c *SequenceCollection
    if control != nil && obj.algorithm.NeedsControl() {
      if tmp, err := control.Subsample(percent, s.Derive(1)); err != nil {
        return err
      } else {
        c = &tmp
      }
    }
    if results[i], err = obj.enrich(ctx, t, c, s.Derive(2), false); err != nil {
      return err
    }
    if progress != nil {
      progress()
    }
    return nil
  }); err != nil {
    return nil, err
  }
  if err := pool.Wait(jg); err != nil {
    return nil, err
  }
  return AggregateEnrichments(results), nil
}

/* -------------------------------------------------------------------------- */

// Summarize enrichments of several bootstrap iterations by mean and
// standard deviation. A k-mer missing in an iteration contributes zero.
func AggregateEnrichments(results []EnrichmentRecords) EnrichmentRecords {
  n     := len(results)
  index := make(map[Kmer]int)
  r     := EnrichmentRecords{}
  test  := [][]float64{}
  back  := [][]float64{}
  enr   := [][]float64{}
  for i, records := range results {
    for _, record := range records {
      j, ok := index[record.Kmer]
      if !ok {
        j = len(r)
        index[record.Kmer] = j
        r    = append(r, EnrichmentRecord{Kmer: record.Kmer, K: record.K})
        test = append(test, make([]float64, n))
        back = append(back, make([]float64, n))
        enr  = append(enr,  make([]float64, n))
      }
      test[j][i] = record.Test
      back[j][i] = record.Background
      enr [j][i] = record.Enrichment
    }
  }
  for j := range r {
    r[j].Test       = stat.Mean(test[j], nil)
    r[j].Background = stat.Mean(back[j], nil)
    if n > 1 {
      r[j].Enrichment, r[j].Dispersion = stat.MeanStdDev(enr[j], nil)
    } else {
      r[j].Enrichment = stat.Mean(enr[j], nil)
    }
  }
  r.SortAlphabetical()
  return r
}
