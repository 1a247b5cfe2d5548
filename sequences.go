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

import "math"
import "sort"

/* -------------------------------------------------------------------------- */

// An ordered collection of reads. A collection is never modified after
// construction, operations that change sequences return a new collection
// which shares unchanged reads with the original one.
type SequenceCollection struct {
  sequences [][]byte
  // index of the first sequence within the collection this one was
  // derived from by sharding
  offset      int
}

/* -------------------------------------------------------------------------- */

// The collection takes ownership of sequences, they must not be modified
// by the caller afterwards.
func NewSequenceCollection(sequences [][]byte) SequenceCollection {
  return SequenceCollection{sequences: sequences}
}

func NewSequenceCollectionFromStrings(sequences ...string) SequenceCollection {
  r := make([][]byte, len(sequences))
  for i, s := range sequences {
    r[i] = []byte(s)
  }
  return NewSequenceCollection(r)
}

/* -------------------------------------------------------------------------- */

func (obj SequenceCollection) Len() int {
  return len(obj.sequences)
}

// The returned slice must not be modified.
func (obj SequenceCollection) At(i int) []byte {
  return obj.sequences[i]
}

// Total number of bases in all sequences.
func (obj SequenceCollection) NumBases() int {
  n := 0
  for _, s := range obj.sequences {
    n += len(s)
  }
  return n
}

// Number of windows of length k consisting only of A, C, G, T or U.
func (obj SequenceCollection) NumValidWindows(k int) int {
  n := 0
  for _, s := range obj.sequences {
    run := 0
    for _, b := range s {
      if nucleotideCodes[b] == invalidCode {
        run = 0
      } else {
        run++
      }
      if run >= k {
        n++
      }
    }
  }
  return n
}

/* -------------------------------------------------------------------------- */

// Split the collection into at most n contiguous shards of roughly equal
// number of bases. Sequences are never split.
func (obj SequenceCollection) Shards(n int) []SequenceCollection {
  if n < 1 {
    n = 1
  }
  if n > obj.Len() {
    n = obj.Len()
  }
  if n <= 1 {
    return []SequenceCollection{obj}
  }
  target := divIntUp(obj.NumBases(), n)
  r      := make([]SequenceCollection, 0, n)
  from   := 0
  size   := 0
  for i, s := range obj.sequences {
    size += len(s)
    if size >= target && len(r) < n-1 {
      r    = append(r, obj.slice(from, i+1))
      from = i+1
      size = 0
    }
  }
  if from < obj.Len() {
    r = append(r, obj.slice(from, obj.Len()))
  }
  return r
}

func (obj SequenceCollection) slice(i, j int) SequenceCollection {
  return SequenceCollection{sequences: obj.sequences[i:j], offset: obj.offset+i}
}

/* -------------------------------------------------------------------------- */

// Convert a sample percentage into thousandths of a percent. Valid
// percentages are in (0, 100].
func quantizePercent(percent float64) (int, error) {
  if math.IsNaN(percent) {
    return 0, newError(ErrInvalidArgument, "sample percent is not a number")
  }
  p := int(math.Round(percent*1000.0))
  if p <= 0 || p > 100000 {
    return 0, newError(ErrInvalidArgument, "sample percent %g is outside of (0, 100]", percent)
  }
  return p, nil
}

// Draw percent% of all sequences without replacement. The order of the
// sequences is preserved and the selection depends only on the seed.
func (obj SequenceCollection) Subsample(percent float64, seed Seed) (SequenceCollection, error) {
  p, err := quantizePercent(percent)
  if err != nil {
    return SequenceCollection{}, err
  }
  n := obj.Len()
  if n == 0 {
    return obj, nil
  }
  m := int(math.Round(float64(n)*float64(p)/100000.0))
  if m < 1 {
    m = 1
  }
  if m > n {
    m = n
  }
  // partial Fisher-Yates shuffle of indices
  rng := seed.Rand()
  idx := make([]int, n)
  for i := range idx {
    idx[i] = i
  }
  for i := 0; i < m; i++ {
    j := i + rng.Intn(n-i)
    idx[i], idx[j] = idx[j], idx[i]
  }
  idx = idx[0:m]
  sort.Ints(idx)
  r := make([][]byte, m)
  for i, j := range idx {
    r[i] = obj.sequences[j]
  }
  return NewSequenceCollection(r), nil
}

/* -------------------------------------------------------------------------- */

// Replace every sequence by a k-let preserving shuffle. Sequence i is
// shuffled with seed.Derive(i), where i is the position within the
// collection this one was sharded from.
func (obj SequenceCollection) Shuffle(klet int, seed Seed) SequenceCollection {
  r := make([][]byte, obj.Len())
  for i, s := range obj.sequences {
    r[i] = ShuffleSequence(s, klet, seed.Derive(obj.offset+i))
  }
  return SequenceCollection{sequences: r, offset: obj.offset}
}

// Replace every occurrence of the k-mer by N. Occurrences are searched
// case-insensitive and U matches T.
func (obj SequenceCollection) Mask(matcher SeqseqMatcher) SequenceCollection {
  r := make([][]byte, obj.Len())
  k := matcher.Len()
  for i, s := range obj.sequences {
    hits := matcher.FindAll(s)
    if len(hits) == 0 {
      r[i] = s
      continue
    }
    t := make([]byte, len(s))
    copy(t, s)
    for _, j := range hits {
      for l := j-1; l < j-1+k; l++ {
        t[l] = 'N'
      }
    }
    r[i] = t
  }
  return SequenceCollection{sequences: r, offset: obj.offset}
}

/* -------------------------------------------------------------------------- */

// Base composition of a collection, indexed by nucleotide code.
type Composition [4]int

func (obj SequenceCollection) Composition() Composition {
  r := Composition{}
  for _, s := range obj.sequences {
    for _, b := range s {
      if c := nucleotideCodes[b]; c != invalidCode {
        r[c]++
      }
    }
  }
  return r
}

func (obj Composition) Total() int {
  return obj[0] + obj[1] + obj[2] + obj[3]
}

// Probability of a k-mer under a model of independent bases.
func (obj Composition) Probability(kmer Kmer, k int) float64 {
  n := float64(obj.Total())
  if n == 0.0 {
    return 0.0
  }
  p := 1.0
  for i := 0; i < k; i++ {
    p   *= float64(obj[kmer & 3])/n
    kmer >>= 2
  }
  return p
}
