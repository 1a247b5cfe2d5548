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

type Alphabet interface {
  Code  (i byte) (byte, error)
  Decode(i byte) (byte, error)
  Length()       int
  String()       string
}

/* -------------------------------------------------------------------------- */

// Nucleotide alphabet for DNA and RNA reads. Thymine and uracil share
// the same code.
type NucleotideAlphabet struct {
}

func (NucleotideAlphabet) Code(i byte) (byte, error) {
  switch i {
  case 'A', 'a': return 0, nil
  case 'C', 'c': return 1, nil
  case 'G', 'g': return 2, nil
  case 'T', 't': return 3, nil
  case 'U', 'u': return 3, nil
  default:  return 0xFF, fmt.Errorf("Code(): `%c' is not part of the alphabet", i)
  }
}

func (NucleotideAlphabet) Decode(i byte) (byte, error) {
  switch i {
  case 0:  return 'A', nil
  case 1:  return 'C', nil
  case 2:  return 'G', nil
  case 3:  return 'T', nil
  default: return 0xFF, fmt.Errorf("Decode(): `%d' is not a code of the alphabet", int(i))
  }
}

func (NucleotideAlphabet) Length() int {
  return 4
}

func (NucleotideAlphabet) String() string {
  return "nucleotide alphabet"
}

/* lookup tables
 * -------------------------------------------------------------------------- */

const invalidCode = 0xFF

// code of every byte, invalidCode for bytes outside of the alphabet
var nucleotideCodes [256]byte

// canonical upper case letter of every byte, T for U; bytes outside of
// the alphabet are mapped to upper case
var nucleotideCanonical [256]byte

func init() {
  al := NucleotideAlphabet{}
  for i := 0; i < 256; i++ {
    if c, err := al.Code(byte(i)); err != nil {
      nucleotideCodes[i] = invalidCode
      if i >= 'a' && i <= 'z' {
        nucleotideCanonical[i] = byte(i) - 'a' + 'A'
      } else {
        nucleotideCanonical[i] = byte(i)
      }
    } else {
      nucleotideCodes    [i] = c
      nucleotideCanonical[i], _ = al.Decode(c)
    }
  }
}
