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

import "testing"

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

func testCountTable(test *testing.T, table CountTable) {
  a, _ := EncodeKmer("ACG")
  b, _ := EncodeKmer("TTT")
  table.Increment(a)
  table.Increment(a)
  table.Add(b, 3)
  if table.Get(a) != 2 || table.Get(b) != 3 {
    test.Error("test failed")
  }
  if table.Total() != 5 || table.Len() != 2 {
    test.Error("test failed")
  }
  // iteration in alphabetical order skips zeros
  kmers  := []Kmer{}
  counts := []int{}
  for it := table.Iterate(); it.Ok(); it.Next() {
    kmers  = append(kmers,  it.GetKmer())
    counts = append(counts, it.GetCount())
  }
  if len(kmers) != 2 {
    test.Error("test failed")
  } else {
    if kmers[0] != a || kmers[1] != b || counts[0] != 2 || counts[1] != 3 {
      test.Error("test failed")
    }
  }
}

func TestCountTable1(test *testing.T) {
  testCountTable(test, NewDenseCountTable(3))
  testCountTable(test, NewSparseCountTable(3))
}

func TestCountTable2(test *testing.T) {
  // sparse tables grow beyond their initial capacity
  table := NewSparseCountTable(8)
  for i := 0; i < 5000; i++ {
    table.Add(Kmer(i*7), i+1)
  }
  if table.Len() != 5000 || table.Capacity() <= 5000 {
    test.Error("test failed")
  }
  for i := 0; i < 5000; i++ {
    if table.Get(Kmer(i*7)) != i+1 {
      test.Errorf("test failed for k-mer %d", i*7)
      break
    }
  }
  last := Kmer(0)
  for it := table.Iterate(); it.Ok(); it.Next() {
    if it.GetKmer() < last {
      test.Error("test failed: iteration is not sorted")
      break
    }
    last = it.GetKmer()
  }
}

func TestCountTable3(test *testing.T) {
  // merging is order independent and works across storage types
  a := NewDenseCountTable (2)
  b := NewSparseCountTable(2)
  c := NewDenseCountTable (2)
  for i := 0; i < 16; i++ {
    a.Add(Kmer(i), i)
    b.Add(Kmer(i), 2*i)
  }
  c.Add(Kmer(3), 1)

  ab := NewCountTable(2, 0)
  ab.Merge(a); ab.Merge(b); ab.Merge(c)
  ba := NewCountTable(2, 10)
  ba.Merge(c); ba.Merge(b); ba.Merge(a)

  if ab.Total() != ba.Total() || ab.Len() != ba.Len() {
    test.Error("test failed")
  }
  for i := 0; i < 16; i++ {
    if ab.Get(Kmer(i)) != ba.Get(Kmer(i)) {
      test.Error("test failed")
    }
  }
  if ab.Get(Kmer(3)) != 10 {
    test.Error("test failed")
  }
}

func TestCountTable4(test *testing.T) {
  a := NewDenseCountTable(2)
  b := NewDenseCountTable(3)
  if err := a.Merge(b); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
}
