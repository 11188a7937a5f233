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

const lzOverlayTrailerMin = 8 // u24 compressedLength + u8 headerSize + u32 extraSize

// LZOverlayCodec implements the NDS overlay / arm9.bin end-of-file reverse
// LZ scheme (§4.4): a trailer at the very end of the file describes a
// compressed region that decodes backward, from high addresses to low.
// Only decompression is documented well enough here to implement; an
// encoder would have to reverse-engineer padding/heuristic choices the
// original tool made and isn't specified.
type LZOverlayCodec struct {
	// Strict disables the documented D=2 fallback quirk (§4.4, §9):
	// when set, a match whose displacement exceeds the bytes written so
	// far is always treated as invalid data rather than being silently
	// corrected.
	Strict bool
}

func init() {
	RegisterCodec(func() Codec { return &LZOverlayCodec{} })
}

// Descriptor implements Codec.
func (c *LZOverlayCodec) Descriptor() Descriptor {
	return Descriptor{
		ShortName:          "LZ-Overlay",
		Description:        "NDS overlay/arm9.bin end-of-file reverse LZ77",
		Flag:               "lzovl",
		SupportsCompress:   false,
		SupportsDecompress: true,
	}
}

// Supports implements Codec. The format has no leading magic: its trailer
// sits at the end of the file, so a caller identifies an overlay by
// context (it's loading an overlayN.bin or arm9.bin), not by header peek.
// Supports therefore always reports false; callers that know they have an
// overlay file select this codec directly via CodecByFlag("lzovl").
func (c *LZOverlayCodec) Supports(header []byte, declaredLength int64) (bool, error) {
	return false, nil
}

// ParseCompressionOptions implements Codec.
func (c *LZOverlayCodec) ParseCompressionOptions(args []string) (int, error) {
	if len(args) > 0 && args[0] == "-strict" {
		c.Strict = true
		return 1, nil
	}
	return 0, nil
}

// Decompress implements Codec. It buffers the entire declared region,
// reads the trailer from its tail, then fills the decoded compressed
// region from its last byte back to its first before emitting the whole
// result (the untouched prefix, then the decoded region) in forward order.
func (c *LZOverlayCodec) Decompress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	name := c.Descriptor().ShortName
	if declaredLength < 4 {
		return 0, &StreamTooShortError{Codec: name}
	}

	data := make([]byte, declaredLength)
	if _, err := io.ReadFull(stream, data); err != nil {
		return 0, wrapReadErr(name, err)
	}
	n := len(data)

	extraSize := int64(data[n-4]) | int64(data[n-3])<<8 | int64(data[n-2])<<16 | int64(data[n-1])<<24
	if extraSize == 0 {
		if _, err := out.Write(data[:n-4]); err != nil {
			return 0, err
		}
		return int64(n - 4), nil
	}

	if n < lzOverlayTrailerMin+1 {
		return 0, &StreamTooShortError{Codec: name}
	}
	headerSize := int(data[n-5])
	if headerSize < lzOverlayTrailerMin || headerSize > n {
		return 0, &InvalidDataError{Codec: name, Offset: int64(n - 5), Reason: "header size out of range"}
	}
	compressedLength := int64(data[n-8]) | int64(data[n-7])<<8 | int64(data[n-6])<<16

	trailerStart := n - headerSize
	compressedRegionStart := trailerStart - int(compressedLength)
	if compressedRegionStart < 0 {
		return 0, &InvalidDataError{Codec: name, Offset: int64(trailerStart), Reason: "compressed region runs before start of file"}
	}

	comp := data[compressedRegionStart:trailerStart]
	decodedSize := compressedLength + extraSize
	decoded := make([]byte, decodedSize)

	cur := newReverseCursor(comp)
	bits := newLZOverlayBitReader(cur)

	writePos := len(decoded)
	for writePos > 0 {
		for flagBits := 0; flagBits < 8 && writePos > 0; flagBits++ {
			bit, err := bits.readFlag()
			if err != nil {
				return 0, &NotEnoughDataError{Codec: name, Written: int64(len(decoded) - writePos), Expected: decodedSize}
			}

			if bit == 0 {
				b, err := cur.next()
				if err != nil {
					return 0, &NotEnoughDataError{Codec: name, Written: int64(len(decoded) - writePos), Expected: decodedSize}
				}
				writePos--
				decoded[writePos] = b
				continue
			}

			b1, err := cur.next()
			if err != nil {
				return 0, &NotEnoughDataError{Codec: name, Written: int64(len(decoded) - writePos), Expected: decodedSize}
			}
			b2, err := cur.next()
			if err != nil {
				return 0, &NotEnoughDataError{Codec: name, Written: int64(len(decoded) - writePos), Expected: decodedSize}
			}

			length := int(b1>>4) + 3
			dist := (int(b1&0x0F)<<8 | int(b2)) + 3

			writtenSoFar := len(decoded) - writePos
			if dist > writtenSoFar {
				if writtenSoFar < 2 {
					return 0, &InvalidDataError{
						Codec: name, Offset: int64(writePos),
						Reason: fmt.Sprintf("displacement %d exceeds %d bytes written so far", dist, writtenSoFar),
					}
				}
				if c.Strict {
					return 0, &InvalidDataError{
						Codec: name, Offset: int64(writePos),
						Reason: fmt.Sprintf("displacement %d exceeds %d bytes written so far (strict mode)", dist, writtenSoFar),
					}
				}
				dist = 2
			}

			for k := 0; k < length && writePos > 0; k++ {
				writePos--
				decoded[writePos] = decoded[writePos+dist]
			}
		}
	}

	if _, err := out.Write(data[:compressedRegionStart]); err != nil {
		return 0, err
	}
	if _, err := out.Write(decoded); err != nil {
		return 0, err
	}
	return int64(compressedRegionStart) + decodedSize, nil
}

// Compress implements Codec. Encoding is not specified (§4.4 Non-goals).
func (c *LZOverlayCodec) Compress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	return 0, &UnsupportedCodecError{Flag: c.Descriptor().Flag}
}
