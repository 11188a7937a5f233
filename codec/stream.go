// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of dsdecmp.
//
// dsdecmp is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dsdecmp is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dsdecmp.  If not, see <https://www.gnu.org/licenses/>.

package codec

import (
	"errors"
	"io"
)

// countingReader wraps an io.LimitReader so a decoder can tell, once it
// has finished producing decompressedSize bytes of output, how many input
// bytes it actually consumed versus how many declaredLength allowed.
type countingReader struct {
	lr *io.LimitedReader
	n  int64
}

func newCountingReader(r io.Reader, declaredLength int64) *countingReader {
	return &countingReader{lr: &io.LimitedReader{R: r, N: declaredLength}}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.lr.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) readByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(c, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// countingWriter tracks how many bytes have been written through it, so
// Compress implementations can report their own compressed_length without
// every codec hand-rolling a counter.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) writeByte(b byte) error {
	_, err := c.Write([]byte{b})
	return err
}

// checkTrailing reports ErrTooMuchInput when declaredLength leaves more
// than a 4-byte alignment pad unread after consumed bytes have satisfied
// the format's own end-of-stream condition. It never performs I/O: the
// check is purely arithmetic, per §7's "too-much-input" soft error.
func checkTrailing(codecName string, consumed, declaredLength int64) error {
	pad := (4 - consumed%4) % 4
	if declaredLength > consumed+pad {
		return &TooMuchInputError{Codec: codecName, Remaining: int(declaredLength - consumed)}
	}
	return nil
}

// wrapReadErr classifies an error from a limited reader as either a clean
// EOF-derived StreamTooShortError (the underlying source ran dry) or
// passes through any other I/O error verbatim, per §4.1/§7.
func wrapReadErr(codecName string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &StreamTooShortError{Codec: codecName}
	}
	return err
}
