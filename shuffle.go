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

// Default length of substrings preserved by shuffling.
const DefaultKlet = 2

/* -------------------------------------------------------------------------- */

// Random permutation of a sequence that preserves the number of
// occurrences of every substring of length at most klet (Altschul and
// Erikson, 1985). Overlapping (klet-1)-mers are the vertices of a de Bruijn
// multigraph whose edges are the klets of the sequence. A random Eulerian
// path from the first to the last vertex is obtained by fixing a random
// last exit edge for every vertex (Wilson's algorithm) and randomly
// ordering all other edges. A klet of -1 selects DefaultKlet.
func ShuffleSequence(sequence []byte, klet int, seed Seed) []byte {
  if klet < 1 {
    klet = DefaultKlet
  }
  n := len(sequence)
  r := make([]byte, n)
  copy(r, sequence)

  rng := seed.Rand()
  if klet == 1 {
    rng.Shuffle(n, func(i, j int) { r[i], r[j] = r[j], r[i] })
    return r
  }
  if klet >= n {
    return r
  }
  m := klet-1
  // vertex ids in order of first occurrence
  ids      := make(map[string]int)
  vertexAt := make([]int, n-m+1)
  lastChar := []byte{}
  for i := 0; i+m <= n; i++ {
    key := string(sequence[i:i+m])
    id, ok := ids[key]
    if !ok {
      id       = len(ids)
      ids[key] = id
      lastChar = append(lastChar, sequence[i+m-1])
    }
    vertexAt[i] = id
  }
  nv    := len(ids)
  edges := make([][]int, nv)
  for i := 0; i+1 < len(vertexAt); i++ {
    edges[vertexAt[i]] = append(edges[vertexAt[i]], vertexAt[i+1])
  }
  first := vertexAt[0]
  last  := vertexAt[len(vertexAt)-1]

  // random arborescence directed towards the last vertex, next[v] is the
  // last edge used to leave v
  inTree := make([]bool, nv)
  next   := make([]int,  nv)
  inTree[last] = true
  for v := 0; v < nv; v++ {
    for u := v; !inTree[u]; u = edges[u][next[u]] {
      next[u] = rng.Intn(len(edges[u]))
    }
    for u := v; !inTree[u]; u = edges[u][next[u]] {
      inTree[u] = true
    }
  }
  // shuffle edges, keeping the last exit edge at the end
  for v := 0; v < nv; v++ {
    e := edges[v]
    if len(e) == 0 {
      continue
    }
    j := len(e)
    if v != last {
      e[next[v]], e[j-1] = e[j-1], e[next[v]]
      j--
    }
    rng.Shuffle(j, func(a, b int) { e[a], e[b] = e[b], e[a] })
  }
  // walk the Eulerian path
  pos := make([]int, nv)
  u   := first
  for i := m; i < n; i++ {
    w := edges[u][pos[u]]
    pos[u]++
    r[i] = lastChar[w]
    u    = w
  }
  return r
}
