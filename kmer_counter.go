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

import "github.com/pbenner/threadpool"

/* -------------------------------------------------------------------------- */

// Maximal number of dense table entries allocated by a bootstrap run.
const maxBootstrapDenseEntries = 1 << 24

type CountOptions struct {
  // replace every sequence by a k-let preserving shuffle before counting
  Shuffle             bool
  Klet                int
  // number of bootstrap subsamples, zero disables resampling
  BootstrapIterations int
  // size of each subsample in percent of all sequences
  SamplePercent       float64
  Seed                Seed
  // called after every bootstrap iteration, must be safe for concurrent
  // use
  Progress            func()
}

/* -------------------------------------------------------------------------- */

// Counts all k-mers of a fixed length. Sequences are split into shards
// which are counted in parallel and merged afterwards.
type KmerCounter struct {
  codec     KmerCodec
  denseMaxK int
  pool      threadpool.ThreadPool
}

/* -------------------------------------------------------------------------- */

func NewKmerCounter(k, threads, denseMaxK int) (*KmerCounter, error) {
  codec, err := NewKmerCodec(k)
  if err != nil {
    return nil, err
  }
  if err := checkThreads(threads); err != nil {
    return nil, err
  }
  return &KmerCounter{
    codec    : codec,
    denseMaxK: denseMaxK,
    pool     : threadpool.New(threads, 100*threads) }, nil
}

/* -------------------------------------------------------------------------- */

func (obj *KmerCounter) K() int {
  return obj.codec.K()
}

func (obj *KmerCounter) Codec() KmerCodec {
  return obj.codec
}

func (obj *KmerCounter) Threads() int {
  return obj.pool.NumberOfThreads()
}

// Stop the worker goroutines of the counter. The counter must not be used
// afterwards.
func (obj *KmerCounter) Close() {
  obj.pool.Stop()
}

func (obj *KmerCounter) NewCountTable() CountTable {
  return NewCountTable(obj.codec.K(), obj.denseMaxK)
}

/* -------------------------------------------------------------------------- */

// Add all valid windows of a sequence to the table, windows containing
// characters other than A, C, G, T or U are skipped.
func (obj *KmerCounter) addSequence(table CountTable, sequence []byte) {
  k    := obj.codec.K()
  mask := obj.codec.Mask()
  code := Kmer(0)
  run  := 0
  for _, b := range sequence {
    c := nucleotideCodes[b]
    if c == invalidCode {
      run = 0
      continue
    }
    code = (code<<2 | Kmer(c)) & mask
    run++
    if run >= k {
      table.Increment(code)
    }
  }
}

// Count sequences in the calling goroutine.
func (obj *KmerCounter) countSequences(sequences SequenceCollection) CountTable {
  return obj.countSequencesInto(obj.NewCountTable(), sequences)
}

func (obj *KmerCounter) countSequencesInto(r CountTable, sequences SequenceCollection) CountTable {
  for i := 0; i < sequences.Len(); i++ {
    obj.addSequence(r, sequences.At(i))
  }
  return r
}

// Table constructor for bootstrap runs. All tables of a run are kept, so
// dense storage is used only while the total number of dense entries is
// at most maxBootstrapDenseEntries.
func (obj *KmerCounter) bootstrapTable(iterations int) func() CountTable {
  if obj.codec.K() <= obj.denseMaxK && obj.codec.Size() <= maxBootstrapDenseEntries/iterations {
    return obj.NewCountTable
  }
  k := obj.codec.K()
  return func() CountTable {
    return NewSparseCountTable(k)
  }
}

func (obj *KmerCounter) count(ctx context.Context, sequences SequenceCollection, shuffle bool, klet int, seed Seed) (CountTable, error) {
  shards := sequences.Shards(obj.pool.NumberOfThreads())
  tables := make([]CountTable, len(shards))
  jg     := obj.pool.NewJobGroup()

  if err := obj.pool.AddRangeJob(0, len(shards), jg, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    if err := ctx.Err(); err != nil {
      return err
    }
    s := shards[i]
    if shuffle {
      s = s.Shuffle(klet, seed)
    }
    tables[i] = obj.countSequences(s)
    return nil
  }); err != nil {
    return nil, err
  }
  if err := obj.pool.Wait(jg); err != nil {
    return nil, err
  }
  // merge partial tables
  r := tables[0]
  for _, t := range tables[1:] {
    if err := r.Merge(t); err != nil {
      return nil, err
    }
  }
  return r, nil
}

/* -------------------------------------------------------------------------- */

func (obj *KmerCounter) Count(ctx context.Context, sequences SequenceCollection) (CountTable, error) {
  return obj.count(ctx, sequences, false, 0, 0)
}

// Count k-mers after replacing every sequence by a k-let preserving
// shuffle. The result does not depend on the number of threads.
func (obj *KmerCounter) CountShuffled(ctx context.Context, sequences SequenceCollection, klet int, seed Seed) (CountTable, error) {
  return obj.count(ctx, sequences, true, klet, seed)
}

// Count k-mers either once, or once for every bootstrap subsample. Tables
// of bootstrap iterations are returned separately and in iteration order.
func (obj *KmerCounter) CountTables(ctx context.Context, sequences SequenceCollection, options CountOptions) ([]CountTable, error) {
  if options.BootstrapIterations < 0 {
    return nil, newError(ErrInvalidArgument, "number of bootstrap iterations must not be negative, got %d", options.BootstrapIterations)
  }
  if options.BootstrapIterations == 0 {
    if r, err := obj.count(ctx, sequences, options.Shuffle, options.Klet, options.Seed); err != nil {
      return nil, err
    } else {
      return []CountTable{r}, nil
    }
  }
  if _, err := quantizePercent(options.SamplePercent); err != nil {
    return nil, err
  }
  tables   := make([]CountTable, options.BootstrapIterations)
  newTable := obj.bootstrapTable(options.BootstrapIterations)
  jg       := obj.pool.NewJobGroup()

  if err := obj.pool.AddRangeJob(0, options.BootstrapIterations, jg, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    if err := ctx.Err(); err != nil {
      return err
    }
    seed := options.Seed.Derive(i)
    s, err := sequences.Subsample(options.SamplePercent, seed.Derive(0))
    if err != nil {
      return err
    }
    if options.Shuffle {
      s = s.Shuffle(options.Klet, seed.Derive(1))
    }
    tables[i] = obj.countSequencesInto(newTable(), s)
    if options.Progress != nil {
      options.Progress()
    }
    return nil
  }); err != nil {
    return nil, err
  }
  if err := obj.pool.Wait(jg); err != nil {
    return nil, err
  }
  return tables, nil
}
