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

import "bufio"
import "bytes"
import "fmt"
import "io"
import "os"
import "sync"

import "github.com/klauspost/pgzip"
import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

type SequenceFormat int

const (
  FormatRaw SequenceFormat = iota
  FormatFasta
  FormatFastq
)

func (obj SequenceFormat) String() string {
  switch obj {
  case FormatRaw  : return "raw"
  case FormatFasta: return "fasta"
  case FormatFastq: return "fastq"
  default:
    return fmt.Sprintf("SequenceFormat(%d)", int(obj))
  }
}

/* -------------------------------------------------------------------------- */

const sequenceReaderBufferSize = 1 << 20

// Remembers the last error of the underlying reader, which separates
// failing reads from corrupt compressed data.
type sourceReader struct {
  reader io.Reader
  mtx    sync.Mutex
  err    error
}

func (obj *sourceReader) Read(p []byte) (int, error) {
  n, err := obj.reader.Read(p)
  if err != nil && err != io.EOF {
    obj.mtx.Lock()
    obj.err = err
    obj.mtx.Unlock()
  }
  return n, err
}

func (obj *sourceReader) Err() error {
  obj.mtx.Lock()
  defer obj.mtx.Unlock()
  return obj.err
}

/* -------------------------------------------------------------------------- */

type sequenceLineReader struct {
  reader     *bufio.Reader
  source     *sourceReader
  compressed  bool
  line        int
}

// Returns the next line without trailing newline characters and io.EOF
// if there are no more lines.
func (obj *sequenceLineReader) next() ([]byte, error) {
  l, err := obj.reader.ReadBytes('\n')
  if err != nil {
    if err != io.EOF {
      if obj.compressed && obj.source.Err() == nil {
        return nil, wrapError(ErrFormat, err, "line %d: corrupt gzip stream", obj.line+1)
      }
      return nil, wrapError(ErrIO, err, "line %d", obj.line+1)
    }
    if len(l) == 0 {
      return nil, io.EOF
    }
  }
  obj.line++
  return bytes.TrimRight(l, "\r\n"), nil
}

// Skip empty lines.
func (obj *sequenceLineReader) nextNonEmpty() ([]byte, error) {
  for {
    l, err := obj.next()
    if err != nil {
      return nil, err
    }
    if len(bytes.TrimSpace(l)) > 0 {
      return l, nil
    }
  }
}

/* -------------------------------------------------------------------------- */

func isSequenceByte(b byte) bool {
  return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '-' || b == '.' || b == '*'
}

func isSpaceByte(b byte) bool {
  return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}

// Append the sequence data of a line to dst, white space is removed.
func appendSequenceLine(dst, line []byte, lineNumber int) ([]byte, error) {
  for _, b := range line {
    if isSpaceByte(b) {
      continue
    }
    if !isSequenceByte(b) {
      return nil, newError(ErrFormat, "line %d: unexpected character `%c'", lineNumber, b)
    }
    dst = append(dst, b)
  }
  return dst, nil
}

/* -------------------------------------------------------------------------- */

// Read sequences from a raw, FASTA or FASTQ stream, which may be gzip
// compressed. Every sequence is passed to f as soon as it is complete,
// headers and quality strings are discarded. The slice passed to f is not
// reused by the reader.
func ScanSequences(reader io.Reader, f func(sequence []byte) error) (SequenceFormat, error) {
  source := &sourceReader{reader: reader}
  r      := bufio.NewReaderSize(source, sequenceReaderBufferSize)
  lr     := &sequenceLineReader{reader: r, source: source}
  // check if stream is gzipped
  if b, err := r.Peek(2); err == nil && b[0] == 0x1f && b[1] == 0x8b {
    g, err := pgzip.NewReader(r)
    if err != nil {
      if source.Err() != nil {
        return FormatRaw, wrapError(ErrIO, err, "reading gzip header")
      }
      return FormatRaw, wrapError(ErrFormat, err, "invalid gzip header")
    }
    defer g.Close()
    lr.reader     = bufio.NewReaderSize(g, sequenceReaderBufferSize)
    lr.compressed = true
  }

  first, err := lr.nextNonEmpty()
  if err == io.EOF {
    return FormatRaw, nil
  }
  if err != nil {
    return FormatRaw, err
  }
  switch first[0] {
  case '>':
    return FormatFasta, scanFasta(lr, first, f)
  case '@':
    return FormatFastq, scanFastq(lr, first, f)
  default:
    return FormatRaw, scanRaw(lr, first, f)
  }
}

func scanRaw(lr *sequenceLineReader, line []byte, f func([]byte) error) error {
  for {
    if seq, err := appendSequenceLine(nil, line, lr.line); err != nil {
      return err
    } else {
      if len(seq) > 0 {
        if err := f(seq); err != nil {
          return err
        }
      }
    }
    l, err := lr.next()
    if err == io.EOF {
      return nil
    }
    if err != nil {
      return err
    }
    line = l
  }
}

func scanFasta(lr *sequenceLineReader, header []byte, f func([]byte) error) error {
  seq := []byte{}
  for {
    line, err := lr.next()
    if err == io.EOF {
      return f(seq)
    }
    if err != nil {
      return err
    }
    if len(line) > 0 && line[0] == '>' {
      // save data from previous entry
      if err := f(seq); err != nil {
        return err
      }
      seq = []byte{}
      continue
    }
    if seq, err = appendSequenceLine(seq, line, lr.line); err != nil {
      return err
    }
  }
}

func scanFastq(lr *sequenceLineReader, header []byte, f func([]byte) error) error {
  for {
    if header[0] != '@' {
      return newError(ErrFormat, "line %d: expected FASTQ header starting with `@'", lr.line)
    }
    // sequence
    line, err := lr.next()
    if err == io.EOF {
      return newError(ErrFormat, "line %d: FASTQ record is missing its sequence", lr.line)
    }
    if err != nil {
      return err
    }
    seq, err := appendSequenceLine(nil, line, lr.line)
    if err != nil {
      return err
    }
    // separator
    line, err = lr.next()
    if err == io.EOF {
      return newError(ErrFormat, "line %d: FASTQ record is missing the `+' line", lr.line)
    }
    if err != nil {
      return err
    }
    if len(line) == 0 || line[0] != '+' {
      return newError(ErrFormat, "line %d: expected `+' separator in FASTQ record", lr.line)
    }
    // quality
    line, err = lr.next()
    if err == io.EOF {
      return newError(ErrFormat, "line %d: FASTQ record is missing its quality line", lr.line)
    }
    if err != nil {
      return err
    }
    if n := len(bytes.TrimSpace(line)); n != len(seq) {
      return newError(ErrFormat, "line %d: quality length %d does not match sequence length %d", lr.line, n, len(seq))
    }
    if err := f(seq); err != nil {
      return err
    }
    header, err = lr.nextNonEmpty()
    if err == io.EOF {
      return nil
    }
    if err != nil {
      return err
    }
  }
}

/* -------------------------------------------------------------------------- */

func ReadSequences(reader io.Reader) (SequenceCollection, SequenceFormat, error) {
  sequences := [][]byte{}
  format, err := ScanSequences(reader, func(sequence []byte) error {
    sequences = append(sequences, sequence)
    return nil
  })
  if err != nil {
    return SequenceCollection{}, format, err
  }
  return NewSequenceCollection(sequences), format, nil
}

// Import sequences from a raw, FASTA or FASTQ file. Gzip compression is
// detected automatically.
func ImportSequences(filename string) (SequenceCollection, error) {
  f, err := os.Open(filename)
  if err != nil {
    return SequenceCollection{}, wrapError(ErrIO, err, "opening `%s'", filename)
  }
  defer f.Close()

  s, _, err := ReadSequences(f)
  if err != nil {
    return SequenceCollection{}, errors.WithMessagef(err, "reading `%s'", filename)
  }
  return s, nil
}

/* -------------------------------------------------------------------------- */

func (obj SequenceCollection) WriteFasta(writer io.Writer) error {
  for i, seq := range obj.sequences {
    if _, err := fmt.Fprintf(writer, ">seq%d\n", i+1); err != nil {
      return err
    }
    for j := 0; j < len(seq); j += 80 {
      if _, err := fmt.Fprintf(writer, "%s\n", seq[j:iMin(j+80, len(seq))]); err != nil {
        return err
      }
    }
  }
  return nil
}

func (obj SequenceCollection) ExportFasta(filename string, compress bool) error {
  var buffer bytes.Buffer

  writer := bufio.NewWriter(&buffer)
  if err := obj.WriteFasta(writer); err != nil {
    return err
  }
  writer.Flush()

  if err := writeFile(filename, &buffer, compress); err != nil {
    return wrapError(ErrIO, err, "writing `%s'", filename)
  }
  return nil
}
