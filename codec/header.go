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
	"encoding/binary"
	"fmt"
	"io"
)

// Magic type nibbles (header byte 0, bits 4-7), per §3.
const (
	typeNibbleNull    = 0x0
	typeNibbleLZ10    = 0x1
	typeNibbleHuffman = 0x2
	typeNibbleRLE     = 0x3
)

// magicLZ11 is a full-byte magic rather than a type nibble: LZ11 puts 0x1
// in both the type nibble and the data-size nibble.
const magicLZ11 = 0x11

// maxLength24 is the largest decompressed length a 24-bit header field can
// hold without overflowing into the 32-bit extension word.
const maxLength24 = 0xFFFFFF

// decodeHeader reads the 4-byte magic+length header (and, if the 24-bit
// length field is zero, the following 4-byte 32-bit length) from r.
// wantMagic is the full first header byte expected (e.g. 0x10 for LZ10,
// 0x24 for Huffman-4); dataSize receives bits 0-3 of that byte.
func decodeHeader(r io.Reader, wantMagic byte) (length int64, dataSize byte, err error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	if hdr[0] != wantMagic {
		return 0, 0, fmt.Errorf("%w: magic 0x%02x, want 0x%02x", ErrInvalidData, hdr[0], wantMagic)
	}
	dataSize = hdr[0] & 0x0F
	length24 := int64(hdr[1]) | int64(hdr[2])<<8 | int64(hdr[3])<<16
	if length24 != 0 {
		return length24, dataSize, nil
	}
	var ext [4]byte
	if _, err := io.ReadFull(r, ext[:]); err != nil {
		return 0, 0, fmt.Errorf("read extended length: %w", err)
	}
	return int64(binary.LittleEndian.Uint32(ext[:])), dataSize, nil
}

// encodeHeader writes the 4-byte magic+length header for the given magic
// byte and decompressed length, emitting the 32-bit extension word when
// length doesn't fit in 24 bits. dataSize occupies bits 0-3 of the first
// byte when magic itself doesn't already encode it (LZ11's magic is a full
// byte, so dataSize is ignored for it).
func encodeHeader(w io.Writer, magic byte, length int64, dataSize byte) error {
	if length < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInputTooLarge, length)
	}
	var hdr [4]byte
	if magic == magicLZ11 {
		hdr[0] = magicLZ11
	} else {
		hdr[0] = magic | (dataSize & 0x0F)
	}
	if length > 0 && length <= maxLength24 {
		hdr[1] = byte(length)
		hdr[2] = byte(length >> 8)
		hdr[3] = byte(length >> 16)
		_, err := w.Write(hdr[:])
		return err
	}
	if length > 0xFFFFFFFF {
		return &InputTooLargeError{DeclaredLength: length, MaxLength: 0xFFFFFFFF}
	}
	// A zero 24-bit field always signals "read the 32-bit extension word"
	// (decodeHeader has no other way to tell a real zero length from the
	// extension marker), so length == 0 must take this branch too.
	hdr[1], hdr[2], hdr[3] = 0, 0, 0
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	var ext [4]byte
	binary.LittleEndian.PutUint32(ext[:], uint32(length))
	_, err := w.Write(ext[:])
	return err
}
