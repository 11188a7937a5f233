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

import "io"

const nullMagicByte = 0x00

func init() {
	RegisterCodec(func() Codec { return &NullCodec{} })
}

// NullCodec is a trivial passthrough codec, magic 0x00 (§4.8), useful for
// completeness in a codec set and as a composite baseline.
type NullCodec struct{}

// Descriptor implements Codec.
func (c *NullCodec) Descriptor() Descriptor {
	return Descriptor{
		ShortName:          "NULL",
		Description:        "Passthrough, magic 0x00",
		Flag:               "null",
		SupportsCompress:   true,
		SupportsDecompress: true,
	}
}

// Supports implements Codec.
func (c *NullCodec) Supports(header []byte, declaredLength int64) (bool, error) {
	if len(header) < 1 || header[0] != nullMagicByte {
		return false, nil
	}
	if len(header) >= 4 {
		length24 := int64(header[1]) | int64(header[2])<<8 | int64(header[3])<<16
		if length24 != 0 && length24+4 != declaredLength {
			return false, nil
		}
	}
	return true, nil
}

// ParseCompressionOptions implements Codec. NULL has no options.
func (c *NullCodec) ParseCompressionOptions(args []string) (int, error) {
	return 0, nil
}

// Decompress implements Codec.
func (c *NullCodec) Decompress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	cr := newCountingReader(stream, declaredLength)

	decompressedSize, _, err := decodeHeader(cr, nullMagicByte)
	if err != nil {
		return 0, wrapReadErr(name, err)
	}

	n, err := io.CopyN(out, cr, decompressedSize)
	if err != nil {
		return n, wrapReadErr(name, err)
	}
	if err := checkTrailing(name, cr.n, declaredLength); err != nil {
		return n, err
	}
	return n, nil
}

// Compress implements Codec.
func (c *NullCodec) Compress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	if declaredLength > 0xFFFFFFFF {
		return 0, &InputTooLargeError{Codec: name, DeclaredLength: declaredLength, MaxLength: 0xFFFFFFFF}
	}

	cw := &countingWriter{w: out}
	if err := encodeHeader(cw, nullMagicByte, declaredLength, 0); err != nil {
		return 0, err
	}
	if _, err := io.CopyN(cw, stream, declaredLength); err != nil {
		return 0, wrapReadErr(name, err)
	}
	return cw.n, nil
}
