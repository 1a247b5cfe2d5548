/* Copyright (C) 2016 Philipp Benner
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


package progress

/* -------------------------------------------------------------------------- */

import "bytes"
import "strings"
import "sync"
import "testing"

/* -------------------------------------------------------------------------- */

func TestProgress1(test *testing.T) {
  p := New(10, 5)
  if s := p.Exec(10); !strings.HasSuffix(s, "100.00%\n") {
    test.Error("test failed")
  }
  if s := p.Exec(5); !strings.HasSuffix(s, " 50.00%") {
    test.Error("test failed")
  }
}

func TestProgress2(test *testing.T) {
  var buffer bytes.Buffer
  var wg     sync.WaitGroup
  c := NewCounter(&buffer, 100, 10)
  for i := 0; i < 4; i++ {
    wg.Add(1)
    go func() {
      defer wg.Done()
      for j := 0; j < 30; j++ {
        c.Tick()
      }
    }()
  }
  wg.Wait()
  if c.Value() != 100 {
    test.Error("test failed")
  }
  if !strings.HasSuffix(buffer.String(), "100.00%\n") {
    test.Error("test failed")
  }
}
