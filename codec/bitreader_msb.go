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
	"io"

	"github.com/icza/bitio"
)

// The Huffman bitstream (§3, §4.6) is packed into 32-bit little-endian
// words with bit 31 consumed first. icza/bitio reads and writes bits
// MSB-first within each byte it is handed, so a wordSwapReader/Writer sits
// underneath it to present each 4-byte little-endian word to bitio in
// big-endian byte order (word byte 3 first); bitio's own MSB-first bit
// order then lines up with "bit 31 first" exactly.

// wordSwapReader re-emits the bytes of each 4-byte little-endian word read
// from in as [b3, b2, b1, b0].
type wordSwapReader struct {
	in  io.Reader
	buf [4]byte
	pos int
	len int
}

func (r *wordSwapReader) Read(p []byte) (int, error) {
	if r.pos >= r.len {
		var raw [4]byte
		n, err := io.ReadFull(r.in, raw[:])
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
		if n < 4 {
			// A genuinely truncated word: propagate the error instead of
			// fabricating zero bits, so the caller's NotEnoughDataError/
			// StreamTooShortError classification fires.
			return 0, err
		}
		r.buf = [4]byte{raw[3], raw[2], raw[1], raw[0]}
		r.pos = 0
		r.len = 4
	}
	n := copy(p, r.buf[r.pos:r.len])
	r.pos += n
	return n, nil
}

// huffmanBitReader walks the Huffman codeword stream one bit at a time,
// MSB-of-each-32-bit-little-endian-word first.
type huffmanBitReader struct {
	br *bitio.Reader
}

func newHuffmanBitReader(r io.Reader) *huffmanBitReader {
	return &huffmanBitReader{br: bitio.NewReader(&wordSwapReader{in: r})}
}

// ReadBit returns the next bit as 0 or 1.
func (h *huffmanBitReader) ReadBit() (byte, error) {
	b, err := h.br.ReadBool()
	if err != nil {
		return 0, err
	}
	if b {
		return 1, nil
	}
	return 0, nil
}
