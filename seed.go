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

import "math/rand"
import "time"

/* -------------------------------------------------------------------------- */

// Seed of a random number generator. All random decisions (subsampling,
// shuffling) are derived from an explicit seed so that results can be
// reproduced.
type Seed int64

// Value requesting a fresh seed.
const RandomSeed = -1

// Returns the given seed, or a freshly drawn one if seed is -1. The result
// should be reported to the user so that a run can be repeated.
func NewSeed(seed int64) Seed {
  if seed == RandomSeed {
    return Seed(time.Now().UnixNano() & 0x7fffffffffffffff)
  }
  return Seed(seed)
}

/* -------------------------------------------------------------------------- */

// Derive the i-th child seed. Child seeds depend only on the parent seed
// and i, never on the order in which they are requested.
func (obj Seed) Derive(i int) Seed {
  return Seed(splitmix64(splitmix64(uint64(obj)) ^ uint64(i)))
}

func (obj Seed) Rand() *rand.Rand {
  return rand.New(rand.NewSource(int64(obj)))
}

/* -------------------------------------------------------------------------- */

func splitmix64(x uint64) uint64 {
  x += 0x9e3779b97f4a7c15
  x  = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
  x  = (x ^ (x >> 27)) * 0x94d049bb133111eb
  return x ^ (x >> 31)
}
