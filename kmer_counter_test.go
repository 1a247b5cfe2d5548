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
import "testing"

/* -------------------------------------------------------------------------- */

func testSequences() SequenceCollection {
  return NewSequenceCollectionFromStrings(
    "ACGTACGTTTGACCA",
    "acgtnnacgu",
    "",
    "GG",
    "TTTTTTTTTTACGATCGATCGGGGCTAGCATCGACTAGCTAGCAT",
    "CCCCNCCCCNCCCC",
    "AGCTAGCTGATCGTAGCTAGCTAGGCTAGCTAGCTAGCATCGAC")
}

func equalCountTables(a, b CountTable) bool {
  if a.K() != b.K() || a.Total() != b.Total() || a.Len() != b.Len() {
    return false
  }
  for it := a.Iterate(); it.Ok(); it.Next() {
    if b.Get(it.GetKmer()) != it.GetCount() {
      return false
    }
  }
  return true
}

/* -------------------------------------------------------------------------- */

func TestKmerCounter1(test *testing.T) {
  counter, err := NewKmerCounter(2, 1, DefaultDenseMaxK)
  if err != nil {
    test.Fatal(err)
  }
  table, err := counter.Count(context.Background(), NewSequenceCollectionFromStrings("ACGTNACGu"))
  if err != nil {
    test.Fatal(err)
  }
  r := map[string]int{"AC": 2, "CG": 2, "GT": 2}
  if table.Total() != 6 || table.Len() != 3 {
    test.Error("test failed")
  }
  for it := table.Iterate(); it.Ok(); it.Next() {
    if r[kmerName(it.GetKmer(), 2)] != it.GetCount() {
      test.Error("test failed")
    }
  }
}

func TestKmerCounter2(test *testing.T) {
  // total equals the number of valid windows
  s := testSequences()
  for _, k := range []int{1, 3, 5, 11} {
    counter, _ := NewKmerCounter(k, 1, DefaultDenseMaxK)
    table, err := counter.Count(context.Background(), s)
    if err != nil {
      test.Fatal(err)
    }
    if table.Total() != s.NumValidWindows(k) {
      test.Errorf("test failed for k=%d", k)
    }
  }
}

func TestKmerCounter3(test *testing.T) {
  // counts do not depend on the number of threads or the storage type
  s := testSequences()
  c1, _ := NewKmerCounter(4, 1, DefaultDenseMaxK)
  c2, _ := NewKmerCounter(4, 3, 0)
  t1, _ := c1.Count(context.Background(), s)
  t2, _ := c2.Count(context.Background(), s)
  if !equalCountTables(t1, t2) {
    test.Error("test failed")
  }
  // shuffled counts neither
  u1, _ := c1.CountShuffled(context.Background(), s, 2, 42)
  u2, _ := c2.CountShuffled(context.Background(), s, 2, 42)
  if !equalCountTables(u1, u2) {
    test.Error("test failed")
  }
}

func TestKmerCounter4(test *testing.T) {
  // counts of disjoint subsets merge to the counts of the union
  s := testSequences()
  a := NewSequenceCollection([][]byte{s.At(0), s.At(1), s.At(2)})
  b := NewSequenceCollection([][]byte{s.At(3), s.At(4), s.At(5), s.At(6)})
  counter, _ := NewKmerCounter(3, 2, DefaultDenseMaxK)
  ta, _ := counter.Count(context.Background(), a)
  tb, _ := counter.Count(context.Background(), b)
  ts, _ := counter.Count(context.Background(), s)
  if err := ta.Merge(tb); err != nil {
    test.Fatal(err)
  }
  if !equalCountTables(ta, ts) {
    test.Error("test failed")
  }
}

func TestKmerCounter5(test *testing.T) {
  s := testSequences()
  counter, _ := NewKmerCounter(3, 2, DefaultDenseMaxK)
  options := CountOptions{BootstrapIterations: 5, SamplePercent: 50, Seed: 7}
  r1, err := counter.CountTables(context.Background(), s, options)
  if err != nil {
    test.Fatal(err)
  }
  r2, _ := counter.CountTables(context.Background(), s, options)
  if len(r1) != 5 || len(r2) != 5 {
    test.Fatal("test failed")
  }
  for i := range r1 {
    if !equalCountTables(r1[i], r2[i]) {
      test.Error("test failed: bootstrap is not reproducible")
    }
  }
  options.SamplePercent = 0
  if _, err := counter.CountTables(context.Background(), s, options); err == nil {
    test.Error("test failed")
  }
}

func TestKmerCounter6(test *testing.T) {
  if _, err := NewKmerCounter(3, 0, DefaultDenseMaxK); err == nil {
    test.Error("test failed")
  }
  ctx, cancel := context.WithCancel(context.Background())
  cancel()
  counter, _ := NewKmerCounter(3, 1, DefaultDenseMaxK)
  if _, err := counter.Count(ctx, testSequences()); err == nil {
    test.Error("test failed")
  }
}

func TestKmerCounter7(test *testing.T) {
  counter, err := NewKmerCounter(10, 2, DefaultDenseMaxK)
  if err != nil {
    test.Fatal(err)
  }
  defer counter.Close()
  // dense tables of all iterations together are bounded
  if _, ok := counter.bootstrapTable(16)().(*DenseCountTable); !ok {
    test.Error("test failed")
  }
  if _, ok := counter.bootstrapTable(17)().(*SparseCountTable); !ok {
    test.Error("test failed")
  }
  s := testSequences()
  options := CountOptions{BootstrapIterations: 2, SamplePercent: 60, Seed: 3}
  r1, err := counter.CountTables(context.Background(), s, options)
  if err != nil {
    test.Fatal(err)
  }
  options.BootstrapIterations = 17
  r2, err := counter.CountTables(context.Background(), s, options)
  if err != nil {
    test.Fatal(err)
  }
  if len(r2) != 17 {
    test.Fatal("test failed")
  }
  if _, ok := r2[0].(*SparseCountTable); !ok {
    test.Error("test failed")
  }
  // subsamples depend only on the seed and the iteration
  for i := range r1 {
    if !equalCountTables(r1[i], r2[i]) {
      test.Error("test failed")
    }
  }
}
