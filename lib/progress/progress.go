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
import "bufio"
import "fmt"
import "io"
import "os"
import "sync"

/* -------------------------------------------------------------------------- */

type Progress struct {
  N, K, LineWidth int
}

/* -------------------------------------------------------------------------- */

func New(n, k int) Progress {
  progress := Progress{n, n/k, 40}
  if k > n {
    progress.K = 1
  }
  return progress
}

/* -------------------------------------------------------------------------- */

const __line_del__ = "\033[2K\r"

func (progress Progress) Exec(i int) string {
  var buffer bytes.Buffer
  writer := bufio.NewWriter(&buffer)

  p := float64(i)/float64(progress.N)
  // carriage return
  fmt.Fprintf(writer, "%s|", __line_del__)

  for i := 1; i < progress.LineWidth-1; i++ {
    if float64(i)/float64(progress.LineWidth) < p {
      fmt.Fprintf(writer, ">")
    } else {
      fmt.Fprintf(writer, " ")
    }
  }
  fmt.Fprintf(writer, "| %6.2f%%", p*100)
  // add newline if finished
  if p == 1.0 {
    fmt.Fprintf(writer, "\n")
  }
  writer.Flush()

  return buffer.String()
}

func (progress Progress) Print(writer io.Writer, i int) {
  if i == 0 || i == progress.N || (i % progress.K == 0) {
    fmt.Fprint(writer, progress.Exec(i))
  }
}

func (progress Progress) PrintStdout(i int) {
  progress.Print(os.Stdout, i)
}

func (progress Progress) PrintStderr(i int) {
  progress.Print(os.Stderr, i)
}

/* -------------------------------------------------------------------------- */

// Counter is a progress bar that may be advanced from several goroutines.
type Counter struct {
  progress Progress
  writer   io.Writer
  mtx      sync.Mutex
  i        int
}

func NewCounter(writer io.Writer, n, k int) *Counter {
  c := Counter{progress: New(n, k), writer: writer}
  c.progress.Print(writer, 0)
  return &c
}

// Advance progress by one step.
func (obj *Counter) Tick() {
  obj.mtx.Lock()
  defer obj.mtx.Unlock()
  if obj.i < obj.progress.N {
    obj.i++
    obj.progress.Print(obj.writer, obj.i)
  }
}

func (obj *Counter) Value() int {
  obj.mtx.Lock()
  defer obj.mtx.Unlock()
  return obj.i
}
