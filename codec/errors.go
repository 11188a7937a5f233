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

// Package codec implements the byte-stream compression formats used by
// first-party GBA/NDS games: LZ10, LZ11, the end-of-file LZ-Overlay
// variant, RLE, and 4-bit/8-bit Huffman.
package codec

import (
	"errors"
	"fmt"
)

// Sentinel error categories. Every codec-level error wraps one of these so
// callers can classify a failure with errors.Is regardless of which codec
// or which specific struct produced it.
var (
	// ErrNotEnoughData indicates the declared length was exhausted before
	// the format's end-of-stream condition was reached.
	ErrNotEnoughData = errors.New("dsdecmp: not enough data")

	// ErrStreamTooShort indicates the underlying input reader hit EOF
	// before the declared length was satisfied.
	ErrStreamTooShort = errors.New("dsdecmp: stream shorter than declared length")

	// ErrTooMuchInput is a soft error: decoding finished successfully, but
	// the declared length contained unconsumed bytes beyond alignment
	// padding. The decoded output is still valid.
	ErrTooMuchInput = errors.New("dsdecmp: more input than necessary")

	// ErrInvalidData indicates a format rule was violated: bad magic, an
	// out-of-range back-reference, a tree walk past its declared end, etc.
	ErrInvalidData = errors.New("dsdecmp: invalid compressed data")

	// ErrInputTooLarge indicates the encoder cannot represent the
	// declared length in the format's header size field.
	ErrInputTooLarge = errors.New("dsdecmp: input too large to encode")

	// ErrUnsupportedCodec indicates no registered codec claims a stream.
	ErrUnsupportedCodec = errors.New("dsdecmp: no codec supports this stream")
)

// NotEnoughDataError reports a premature end of the logical bit/byte
// stream: the codec needed more bytes than the declared length allowed.
type NotEnoughDataError struct {
	Codec    string
	Written  int64
	Expected int64
}

func (e *NotEnoughDataError) Error() string {
	return fmt.Sprintf("%s: not enough data: wrote %d of %d expected bytes", e.Codec, e.Written, e.Expected)
}

func (e *NotEnoughDataError) Unwrap() error { return ErrNotEnoughData }

// StreamTooShortError reports that the underlying io.Reader ended before
// the declared length was reached.
type StreamTooShortError struct {
	Codec string
}

func (e *StreamTooShortError) Error() string {
	return fmt.Sprintf("%s: input stream ended before declared length", e.Codec)
}

func (e *StreamTooShortError) Unwrap() error { return ErrStreamTooShort }

// TooMuchInputError reports leftover bytes after a successful decode.
// Output is valid; callers may treat this as a warning.
type TooMuchInputError struct {
	Codec     string
	Remaining int
}

func (e *TooMuchInputError) Error() string {
	return fmt.Sprintf("%s: %d unread byte(s) remain after decoding", e.Codec, e.Remaining)
}

func (e *TooMuchInputError) Unwrap() error { return ErrTooMuchInput }

// InvalidDataError reports a format rule violation at a specific offset
// within the stream, for diagnostics.
type InvalidDataError struct {
	Codec  string
	Offset int64
	Reason string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("%s: invalid data at offset 0x%x: %s", e.Codec, e.Offset, e.Reason)
}

func (e *InvalidDataError) Unwrap() error { return ErrInvalidData }

// InputTooLargeError reports that declaredLength cannot be represented by
// the codec's header length field.
type InputTooLargeError struct {
	Codec          string
	DeclaredLength int64
	MaxLength      int64
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("%s: input length %d exceeds maximum encodable length %d",
		e.Codec, e.DeclaredLength, e.MaxLength)
}

func (e *InputTooLargeError) Unwrap() error { return ErrInputTooLarge }

// UnsupportedCodecError reports that a registry lookup found no codec for
// the requested flag or magic byte.
type UnsupportedCodecError struct {
	Flag string
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("dsdecmp: unsupported codec flag %q", e.Flag)
}

func (e *UnsupportedCodecError) Unwrap() error { return ErrUnsupportedCodec }
