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

import "github.com/pkg/errors"

/* -------------------------------------------------------------------------- */

// Error kinds returned by this package. Use errors.Is to test for a kind,
// the message of the returned error names the offending file or parameter.
var (
  ErrIO                = errors.New("i/o error")
  ErrFormat            = errors.New("invalid sequence format")
  ErrInvalidArgument   = errors.New("invalid argument")
  // k-mers longer than 16 bases are not supported, this is also an
  // invalid argument
  ErrUnsupportedLength = errors.WithMessage(ErrInvalidArgument, "unsupported k-mer length")
)

/* -------------------------------------------------------------------------- */

func newError(kind error, format string, args ...interface{}) error {
  return errors.WithMessagef(kind, format, args...)
}

// Error of a given kind caused by another error. errors.Is matches both
// the kind and every error in the chain of the cause.
type kindError struct {
  kind  error
  cause error
}

func (obj *kindError) Error() string {
  return fmt.Sprintf("%v: %v", obj.cause, obj.kind)
}

func (obj *kindError) Is(target error) bool {
  return errors.Is(obj.kind, target)
}

func (obj *kindError) Unwrap() error {
  return obj.cause
}

func (obj *kindError) Cause() error {
  return obj.cause
}

func wrapError(kind error, err error, format string, args ...interface{}) error {
  return &kindError{kind: kind, cause: errors.WithMessagef(err, format, args...)}
}

/* -------------------------------------------------------------------------- */

func checkK(k int) error {
  if k < 1 {
    return newError(ErrInvalidArgument, "k-mer length k=%d must be at least 1", k)
  }
  if k > MaxKmerLength {
    return newError(ErrUnsupportedLength, "k-mer length k=%d exceeds maximum of %d", k, MaxKmerLength)
  }
  return nil
}

func checkThreads(threads int) error {
  if threads < 1 {
    return newError(ErrInvalidArgument, "number of threads must be at least 1, got %d", threads)
  }
  return nil
}
