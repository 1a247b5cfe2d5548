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

// Maximal length of a seqseq pattern.
const MaxPatternLength = 255

/* -------------------------------------------------------------------------- */

// Knuth-Morris-Pratt matcher for short nucleotide patterns. Matching is
// case-insensitive and U matches T.
type SeqseqMatcher struct {
  pattern []byte
  failure []int
}

func NewSeqseqMatcher(pattern string) (SeqseqMatcher, error) {
  if len(pattern) == 0 {
    return SeqseqMatcher{}, newError(ErrInvalidArgument, "pattern must not be empty")
  }
  if len(pattern) > MaxPatternLength {
    return SeqseqMatcher{}, newError(ErrInvalidArgument, "pattern length %d exceeds maximum of %d", len(pattern), MaxPatternLength)
  }
  p := []byte(CanonicalizeKmer(pattern))
  // failure[i] is the length of the longest proper prefix of p[0:i+1]
  // which is also a suffix
  f := make([]int, len(p))
  for i, j := 1, 0; i < len(p); i++ {
    for j > 0 && p[i] != p[j] {
      j = f[j-1]
    }
    if p[i] == p[j] {
      j++
    }
    f[i] = j
  }
  return SeqseqMatcher{pattern: p, failure: f}, nil
}

/* -------------------------------------------------------------------------- */

func (obj SeqseqMatcher) Len() int {
  return len(obj.pattern)
}

func (obj SeqseqMatcher) Pattern() string {
  return string(obj.pattern)
}

// 1-based position of the first match, zero if the pattern does not
// occur.
func (obj SeqseqMatcher) Find(haystack []byte) int {
  if r := obj.scan(haystack, false); len(r) > 0 {
    return r[0]
  }
  return 0
}

// 1-based positions of all, possibly overlapping, matches.
func (obj SeqseqMatcher) FindAll(haystack []byte) []int {
  return obj.scan(haystack, true)
}

func (obj SeqseqMatcher) scan(haystack []byte, all bool) []int {
  var r []int
  m := len(obj.pattern)
  if m == 0 {
    return r
  }
  for i, j := 0, 0; i < len(haystack); i++ {
    c := nucleotideCanonical[haystack[i]]
    for j > 0 && c != obj.pattern[j] {
      j = obj.failure[j-1]
    }
    if c == obj.pattern[j] {
      j++
    }
    if j == m {
      r = append(r, i-m+2)
      if !all {
        return r
      }
      j = obj.failure[j-1]
    }
  }
  return r
}
