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

import "fmt"

/* -------------------------------------------------------------------------- */

// Maximal k-mer length that fits into a Kmer.
const MaxKmerLength = 16

// A k-mer of length at most 16 packed with two bits per base, the first
// base occupies the most significant bits. Sorting codes numerically is
// equivalent to sorting the decoded k-mers alphabetically.
type Kmer uint32

/* -------------------------------------------------------------------------- */

type KmerCodec struct {
  k  int
  al Alphabet
}

func NewKmerCodec(k int) (KmerCodec, error) {
  if err := checkK(k); err != nil {
    return KmerCodec{}, err
  }
  return KmerCodec{k: k, al: NucleotideAlphabet{}}, nil
}

/* -------------------------------------------------------------------------- */

func (obj KmerCodec) K() int {
  return obj.k
}

// Number of distinct k-mers, i.e. 4^k.
func (obj KmerCodec) Size() int {
  return 1 << uint(2*obj.k)
}

func (obj KmerCodec) Mask() Kmer {
  if obj.k == MaxKmerLength {
    return ^Kmer(0)
  }
  return Kmer(1) << uint(2*obj.k) - 1
}

// Encode a window of exactly k bases. The second return value is false if
// the window has the wrong length or contains a character other than
// A, C, G, T or U.
func (obj KmerCodec) Encode(window []byte) (Kmer, bool) {
  if len(window) != obj.k {
    return 0, false
  }
  r := Kmer(0)
  for _, b := range window {
    c := nucleotideCodes[b]
    if c == invalidCode {
      return 0, false
    }
    r = r<<2 | Kmer(c)
  }
  return r, true
}

func (obj KmerCodec) Decode(kmer Kmer) string {
  s := make([]byte, obj.k)
  for i := obj.k-1; i >= 0; i-- {
    s[i], _ = obj.al.Decode(byte(kmer & 3))
    kmer >>= 2
  }
  return string(s)
}

/* -------------------------------------------------------------------------- */

// Encode a k-mer of length len(s).
func EncodeKmer(s string) (Kmer, bool) {
  codec, err := NewKmerCodec(len(s))
  if err != nil {
    return 0, false
  }
  return codec.Encode([]byte(s))
}

// Decode a k-mer of length k, k must be in [1, MaxKmerLength].
func DecodeKmer(kmer Kmer, k int) (string, error) {
  codec, err := NewKmerCodec(k)
  if err != nil {
    return "", err
  }
  return codec.Decode(kmer), nil
}

// Name of a k-mer for tables and logs, records with an invalid length
// are printed as raw code.
func kmerName(kmer Kmer, k int) string {
  s, err := DecodeKmer(kmer, k)
  if err != nil {
    return fmt.Sprintf("Kmer(%d)", uint32(kmer))
  }
  return s
}

// Upper case copy of s where U is replaced by T.
func CanonicalizeKmer(s string) string {
  r := make([]byte, len(s))
  for i := 0; i < len(s); i++ {
    r[i] = nucleotideCanonical[s[i]]
  }
  return string(r)
}
