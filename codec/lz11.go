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
	"fmt"
	"io"
)

const (
	lz11MinMatch  = 3
	lz11Tier0Max  = 16       // indicator > 1, 2-byte form
	lz11Tier1Max  = 0x110    // indicator == 0, 3-byte form
	lz11Tier2Max  = 0x10110  // indicator == 1, 4-byte form
	lz11Tier1Base = 0x11
	lz11Tier2Base = 0x111
)

func init() {
	RegisterCodec(func() Codec { return &LZ11Codec{} })
}

// LZ11Codec implements the NDS-native extended LZ77 variant, magic 0x11
// (§4.3). Matched blocks use one of three variable-width encodings
// selected by an indicator nibble in the first match byte.
type LZ11Codec struct {
	// LookAhead enables the dynamic-programming optimal parse ("-opt").
	LookAhead bool
}

// Descriptor implements Codec.
func (c *LZ11Codec) Descriptor() Descriptor {
	return Descriptor{
		ShortName:          "LZ11",
		Description:        "NDS-native extended LZ77, magic 0x11",
		Flag:               "lz11",
		SupportsCompress:   true,
		SupportsDecompress: true,
	}
}

// Supports implements Codec.
func (c *LZ11Codec) Supports(header []byte, _ int64) (bool, error) {
	return len(header) >= 1 && header[0] == magicLZ11, nil
}

// ParseCompressionOptions implements Codec.
func (c *LZ11Codec) ParseCompressionOptions(args []string) (int, error) {
	if len(args) > 0 && args[0] == "-opt" {
		c.LookAhead = true
		return 1, nil
	}
	return 0, nil
}

func lz11MatchCost(length int) (int, bool) {
	switch {
	case length >= lz11MinMatch && length <= lz11Tier0Max:
		return 17, true
	case length > lz11Tier0Max && length <= lz11Tier1Max:
		return 25, true
	case length > lz11Tier1Max && length <= lz11Tier2Max:
		return 33, true
	default:
		return 0, false
	}
}

// Decompress implements Codec.
func (c *LZ11Codec) Decompress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	cr := newCountingReader(stream, declaredLength)

	decompressedSize, _, err := decodeHeader(cr, magicLZ11)
	if err != nil {
		return 0, wrapReadErr(name, err)
	}

	buf := make([]byte, 0, decompressedSize)
	needByte := func() (byte, error) {
		b, err := cr.readByte()
		if err != nil {
			return 0, &NotEnoughDataError{Codec: name, Written: int64(len(buf)), Expected: decompressedSize}
		}
		return b, nil
	}

	for int64(len(buf)) < decompressedSize {
		flag, err := needByte()
		if err != nil {
			return 0, err
		}
		for bit := 7; bit >= 0 && int64(len(buf)) < decompressedSize; bit-- {
			if (flag>>uint(bit))&1 == 0 {
				b, err := needByte()
				if err != nil {
					return 0, err
				}
				buf = append(buf, b)
				continue
			}

			b1, err := needByte()
			if err != nil {
				return 0, err
			}
			indicator := b1 >> 4

			var length, dist int
			switch {
			case indicator > 1:
				b2, err := needByte()
				if err != nil {
					return 0, err
				}
				length = int(indicator) + 1
				dist = (int(b1&0x0F)<<8 | int(b2)) + 1
			case indicator == 0:
				b2, err := needByte()
				if err != nil {
					return 0, err
				}
				b3, err := needByte()
				if err != nil {
					return 0, err
				}
				length = ((int(b1&0x0F) << 4) | int(b2>>4)) + lz11Tier1Base
				dist = (int(b2&0x0F)<<8 | int(b3)) + 1
			default: // indicator == 1
				b2, err := needByte()
				if err != nil {
					return 0, err
				}
				b3, err := needByte()
				if err != nil {
					return 0, err
				}
				b4, err := needByte()
				if err != nil {
					return 0, err
				}
				length = ((int(b1&0x0F) << 12) | (int(b2) << 4) | int(b3>>4)) + lz11Tier2Base
				dist = (int(b3&0x0F)<<8 | int(b4)) + 1
			}

			if dist > len(buf) {
				return 0, &InvalidDataError{
					Codec: name, Offset: int64(len(buf)),
					Reason: fmt.Sprintf("displacement %d exceeds %d written bytes", dist, len(buf)),
				}
			}
			start := len(buf) - dist
			for k := 0; k < length && int64(len(buf)) < decompressedSize; k++ {
				buf = append(buf, buf[start+k])
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

// Compress implements Codec.
func (c *LZ11Codec) Compress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	if declaredLength > 0xFFFFFFFF {
		return 0, &InputTooLargeError{Codec: name, DeclaredLength: declaredLength, MaxLength: 0xFFFFFFFF}
	}
	data := make([]byte, declaredLength)
	if _, err := io.ReadFull(stream, data); err != nil {
		return 0, wrapReadErr(name, err)
	}

	cw := &countingWriter{w: out}
	if err := encodeHeader(cw, magicLZ11, declaredLength, 0); err != nil {
		return 0, err
	}

	var ops []lzOp
	if c.LookAhead {
		ops = optimalParse(data, lzWindowSize, lz11MinMatch, lz11Tier2Max, lz11MatchCost)
	} else {
		ops = greedyParse(data, lzWindowSize, lz11MinMatch, lz11Tier2Max)
	}

	if err := writeLZBlocks(cw, ops, encodeLZ11Match); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// encodeLZ11Match picks the smallest of the three match encodings that
// fits op.length, per §4.3.
func encodeLZ11Match(op lzOp) []byte {
	d := op.distance - 1
	switch {
	case op.length <= lz11Tier0Max:
		indicator := op.length - 1
		return []byte{byte(indicator<<4) | byte((d>>8)&0x0F), byte(d & 0xFF)}
	case op.length <= lz11Tier1Max:
		l := op.length - lz11Tier1Base
		return []byte{
			byte((l >> 4) & 0x0F),
			byte(l<<4) | byte((d>>8)&0x0F),
			byte(d & 0xFF),
		}
	default:
		l := op.length - lz11Tier2Base
		return []byte{
			0x10 | byte((l>>12)&0x0F),
			byte(l >> 4),
			byte(l<<4) | byte((d>>8)&0x0F),
			byte(d & 0xFF),
		}
	}
}
