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

func TestKmer1(test *testing.T) {
  codec, err := NewKmerCodec(4)
  if err != nil {
    test.Fatal(err)
  }
  for _, s := range []string{"AAAA", "ACGT", "TTTT", "GATC", "CCGA"} {
    if kmer, ok := codec.Encode([]byte(s)); !ok {
      test.Errorf("encoding `%s' failed", s)
    } else
    if r := codec.Decode(kmer); r != s {
      test.Errorf("test failed: expected `%s' but got `%s'", s, r)
    }
  }
}

func TestKmer2(test *testing.T) {
  // lower case and U are accepted
  a, ok1 := EncodeKmer("acgu")
  b, ok2 := EncodeKmer("ACGT")
  if !ok1 || !ok2 || a != b {
    test.Error("test failed")
  }
  if s, err := DecodeKmer(a, 4); err != nil || s != "ACGT" {
    test.Error("test failed")
  }
}

func TestKmer3(test *testing.T) {
  codec, _ := NewKmerCodec(3)
  for _, s := range []string{"ANT", "AC-", "ACGT", "AC"} {
    if _, ok := codec.Encode([]byte(s)); ok {
      test.Errorf("test failed: `%s' should be rejected", s)
    }
  }
}

func TestKmer4(test *testing.T) {
  // numeric order equals alphabetical order
  names := []string{"AA", "AC", "AG", "AT", "CA", "TT"}
  for i := 1; i < len(names); i++ {
    a, _ := EncodeKmer(names[i-1])
    b, _ := EncodeKmer(names[i])
    if a >= b {
      test.Error("test failed")
    }
  }
}

func TestKmer5(test *testing.T) {
  if _, err := NewKmerCodec(0); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
  if _, err := NewKmerCodec(17); !errors.Is(err, ErrUnsupportedLength) {
    test.Error("test failed")
  }
  if codec, err := NewKmerCodec(16); err != nil {
    test.Error("test failed")
  } else {
    if codec.Mask() != ^Kmer(0) {
      test.Error("test failed")
    }
    s := "TTTTTTTTTTTTTTTT"
    if kmer, ok := codec.Encode([]byte(s)); !ok || codec.Decode(kmer) != s {
      test.Error("test failed")
    }
  }
}

func TestKmer6(test *testing.T) {
  if CanonicalizeKmer("gcCuu") != "GCCTT" {
    test.Error("test failed")
  }
}

func TestKmer7(test *testing.T) {
  // invalid lengths are reported, not fatal
  if _, err := DecodeKmer(0, 17); !errors.Is(err, ErrUnsupportedLength) {
    test.Error("test failed")
  }
  if _, err := DecodeKmer(0, 0); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
  if r := (EnrichmentRecord{Kmer: 5, K: 0}).Name(); r != "Kmer(5)" {
    test.Errorf("test failed: got `%s'", r)
  }
}
