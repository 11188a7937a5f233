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

const (
	rleMagicByte  = 0x30
	rleRunMin     = 3
	rleRunMax     = 130 // 3 + 0x7F
	rleLiteralMin = 1
	rleLiteralMax = 128 // 1 + 0x7F
)

func init() {
	RegisterCodec(func() Codec { return &RLECodec{} })
}

// RLECodec implements the GBA/NDS run-length scheme, magic 0x30 (§4.5).
// Each flag byte's high bit selects a run (low 7 bits + 3, followed by
// one repeated byte) or a literal block (low 7 bits + 1, followed by
// that many literal bytes).
type RLECodec struct{}

// Descriptor implements Codec.
func (c *RLECodec) Descriptor() Descriptor {
	return Descriptor{
		ShortName:          "RLE",
		Description:        "GBA/NDS run-length encoding, magic 0x30",
		Flag:               "rle",
		SupportsCompress:   true,
		SupportsDecompress: true,
	}
}

// Supports implements Codec.
func (c *RLECodec) Supports(header []byte, _ int64) (bool, error) {
	return len(header) >= 1 && header[0] == rleMagicByte, nil
}

// ParseCompressionOptions implements Codec. RLE has no tunable options.
func (c *RLECodec) ParseCompressionOptions(args []string) (int, error) {
	return 0, nil
}

// Decompress implements Codec.
func (c *RLECodec) Decompress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	cr := newCountingReader(stream, declaredLength)

	decompressedSize, _, err := decodeHeader(cr, rleMagicByte)
	if err != nil {
		return 0, wrapReadErr(name, err)
	}

	buf := make([]byte, 0, decompressedSize)
	for int64(len(buf)) < decompressedSize {
		flag, err := cr.readByte()
		if err != nil {
			return 0, &NotEnoughDataError{Codec: name, Written: int64(len(buf)), Expected: decompressedSize}
		}
		count := int(flag & 0x7F)
		if flag&0x80 != 0 {
			length := count + 3
			b, err := cr.readByte()
			if err != nil {
				return 0, &NotEnoughDataError{Codec: name, Written: int64(len(buf)), Expected: decompressedSize}
			}
			for i := 0; i < length && int64(len(buf)) < decompressedSize; i++ {
				buf = append(buf, b)
			}
		} else {
			length := count + 1
			for i := 0; i < length; i++ {
				b, err := cr.readByte()
				if err != nil {
					return 0, &NotEnoughDataError{Codec: name, Written: int64(len(buf)), Expected: decompressedSize}
				}
				if int64(len(buf)) < decompressedSize {
					buf = append(buf, b)
				}
			}
		}
	}

	if _, err := out.Write(buf); err != nil {
		return 0, err
	}
	if err := checkTrailing(name, cr.n, declaredLength); err != nil {
		return int64(len(buf)), err
	}
	return int64(len(buf)), nil
}

// Compress implements Codec. It greedily prefers a run whenever three or
// more consecutive bytes repeat, and otherwise accumulates a literal block
// up to rleLiteralMax bytes long.
func (c *RLECodec) Compress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	if declaredLength > 0xFFFFFFFF {
		return 0, &InputTooLargeError{Codec: name, DeclaredLength: declaredLength, MaxLength: 0xFFFFFFFF}
	}
	data := make([]byte, declaredLength)
	if _, err := io.ReadFull(stream, data); err != nil {
		return 0, wrapReadErr(name, err)
	}

	cw := &countingWriter{w: out}
	if err := encodeHeader(cw, rleMagicByte, declaredLength, 0); err != nil {
		return 0, err
	}

	pos := 0
	for pos < len(data) {
		runLen := 1
		for pos+runLen < len(data) && data[pos+runLen] == data[pos] && runLen < rleRunMax {
			runLen++
		}
		if runLen >= rleRunMin {
			if err := cw.writeByte(0x80 | byte(runLen-3)); err != nil {
				return 0, err
			}
			if err := cw.writeByte(data[pos]); err != nil {
				return 0, err
			}
			pos += runLen
			continue
		}

		start := pos
		for pos < len(data) && pos-start < rleLiteralMax {
			runAhead := 1
			for pos+runAhead < len(data) && data[pos+runAhead] == data[pos] && runAhead < rleRunMin {
				runAhead++
			}
			if runAhead >= rleRunMin {
				break
			}
			pos++
		}
		length := pos - start
		if err := cw.writeByte(byte(length - 1)); err != nil {
			return 0, err
		}
		if _, err := cw.Write(data[start:pos]); err != nil {
			return 0, err
		}
	}

	return cw.n, nil
}
