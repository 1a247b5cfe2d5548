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

import "encoding/binary"
import "sort"

import "github.com/zeebo/wyhash"

/* -------------------------------------------------------------------------- */

// Tables for k-mers up to this length use dense storage by default.
const DefaultDenseMaxK = 10

// Map from k-mers of a fixed length to counts. Total() is the number of
// windows counted, i.e. the sum of all counts.
type CountTable interface {
  K       ()                 int
  Total   ()                 int
  Len     ()                 int
  Get     (kmer Kmer)        int
  Increment(kmer Kmer)
  Add     (kmer Kmer, n int)
  Merge   (b CountTable)     error
  Iterate ()                 CountTableIterator
}

// Iterate over all k-mers with non-zero count in increasing order:
//
//   for it := table.Iterate(); it.Ok(); it.Next() {
//     it.GetKmer(), it.GetCount()
//   }
type CountTableIterator interface {
  Ok      () bool
  Next    ()
  GetKmer () Kmer
  GetCount() int
}

/* -------------------------------------------------------------------------- */

// Allocate a dense table if k <= denseMaxK and a sparse hash table
// otherwise.
func NewCountTable(k, denseMaxK int) CountTable {
  if k <= denseMaxK {
    return NewDenseCountTable(k)
  } else {
    return NewSparseCountTable(k)
  }
}

func mergeCountTables(a, b CountTable) error {
  if a.K() != b.K() {
    return newError(ErrInvalidArgument, "cannot merge count tables with k=%d and k=%d", a.K(), b.K())
  }
  for it := b.Iterate(); it.Ok(); it.Next() {
    a.Add(it.GetKmer(), it.GetCount())
  }
  return nil
}

/* dense storage
 * -------------------------------------------------------------------------- */

// Count table with one entry for every possible k-mer.
type DenseCountTable struct {
  k       int
  total   int
  n       int
  counts []int
}

func NewDenseCountTable(k int) *DenseCountTable {
  return &DenseCountTable{k: k, counts: make([]int, 1 << uint(2*k))}
}

func (obj *DenseCountTable) K() int {
  return obj.k
}

func (obj *DenseCountTable) Total() int {
  return obj.total
}

func (obj *DenseCountTable) Len() int {
  return obj.n
}

func (obj *DenseCountTable) Get(kmer Kmer) int {
  return obj.counts[kmer]
}

func (obj *DenseCountTable) Increment(kmer Kmer) {
  obj.Add(kmer, 1)
}

func (obj *DenseCountTable) Add(kmer Kmer, n int) {
  if n == 0 {
    return
  }
  if obj.counts[kmer] == 0 {
    obj.n++
  }
  obj.counts[kmer] += n
  obj.total        += n
}

func (obj *DenseCountTable) Merge(b CountTable) error {
  return mergeCountTables(obj, b)
}

func (obj *DenseCountTable) Iterate() CountTableIterator {
  it := &denseCountTableIterator{table: obj, i: -1}
  it.Next()
  return it
}

type denseCountTableIterator struct {
  table *DenseCountTable
  i      int
}

func (obj *denseCountTableIterator) Ok() bool {
  return obj.i < len(obj.table.counts)
}

func (obj *denseCountTableIterator) Next() {
  for obj.i++; obj.i < len(obj.table.counts) && obj.table.counts[obj.i] == 0; obj.i++ {
  }
}

func (obj *denseCountTableIterator) GetKmer() Kmer {
  return Kmer(obj.i)
}

func (obj *denseCountTableIterator) GetCount() int {
  return obj.table.counts[obj.i]
}

/* sparse storage
 * -------------------------------------------------------------------------- */

const sparseCountTableMaxLoad = 0.7

// Open addressing hash table with linear probing. A slot is empty if its
// count is zero.
type SparseCountTable struct {
  k       int
  total   int
  n       int
  mask    uint64
  kmers  []Kmer
  counts []int
}

func NewSparseCountTable(k int) *SparseCountTable {
  return newSparseCountTable(k, 1024)
}

// size must be a power of two
func newSparseCountTable(k, size int) *SparseCountTable {
  return &SparseCountTable{
    k     : k,
    mask  : uint64(size-1),
    kmers : make([]Kmer, size),
    counts: make([]int,  size) }
}

func (obj *SparseCountTable) K() int {
  return obj.k
}

func (obj *SparseCountTable) Total() int {
  return obj.total
}

func (obj *SparseCountTable) Len() int {
  return obj.n
}

// Number of slots.
func (obj *SparseCountTable) Capacity() int {
  return len(obj.counts)
}

func (obj *SparseCountTable) hash(kmer Kmer) uint64 {
  var b [4]byte
  binary.LittleEndian.PutUint32(b[:], uint32(kmer))
  return wyhash.Hash(b[:], 0)
}

// Returns the slot of a k-mer or the empty slot where it has to be
// inserted.
func (obj *SparseCountTable) slot(kmer Kmer) uint64 {
  i := obj.hash(kmer) & obj.mask
  for obj.counts[i] != 0 && obj.kmers[i] != kmer {
    i = (i+1) & obj.mask
  }
  return i
}

func (obj *SparseCountTable) Get(kmer Kmer) int {
  return obj.counts[obj.slot(kmer)]
}

func (obj *SparseCountTable) Increment(kmer Kmer) {
  obj.Add(kmer, 1)
}

func (obj *SparseCountTable) Add(kmer Kmer, n int) {
  if n == 0 {
    return
  }
  i := obj.slot(kmer)
  if obj.counts[i] == 0 {
    obj.kmers[i] = kmer
    obj.n++
  }
  obj.counts[i] += n
  obj.total     += n
  if float64(obj.n) > sparseCountTableMaxLoad*float64(len(obj.counts)) {
    obj.grow()
  }
}

func (obj *SparseCountTable) grow() {
  r := newSparseCountTable(obj.k, 2*len(obj.counts))
  for i, c := range obj.counts {
    if c != 0 {
      j := r.slot(obj.kmers[i])
      r.kmers [j] = obj.kmers[i]
      r.counts[j] = c
    }
  }
  obj.mask   = r.mask
  obj.kmers  = r.kmers
  obj.counts = r.counts
}

func (obj *SparseCountTable) Merge(b CountTable) error {
  return mergeCountTables(obj, b)
}

// K-mers are visited in increasing order.
func (obj *SparseCountTable) Iterate() CountTableIterator {
  slots := make([]int, 0, obj.n)
  for i, c := range obj.counts {
    if c != 0 {
      slots = append(slots, i)
    }
  }
  sort.Slice(slots, func(i, j int) bool {
    return obj.kmers[slots[i]] < obj.kmers[slots[j]]
  })
  return &sparseCountTableIterator{table: obj, slots: slots}
}

type sparseCountTableIterator struct {
  table *SparseCountTable
  slots []int
  i      int
}

func (obj *sparseCountTableIterator) Ok() bool {
  return obj.i < len(obj.slots)
}

func (obj *sparseCountTableIterator) Next() {
  obj.i++
}

func (obj *sparseCountTableIterator) GetKmer() Kmer {
  return obj.table.kmers[obj.slots[obj.i]]
}

func (obj *sparseCountTableIterator) GetCount() int {
  return obj.table.counts[obj.slots[obj.i]]
}
