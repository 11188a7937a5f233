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

// reverseCursor walks a byte slice from its last byte to its first. It is
// the small, dedicated abstraction design note §9 calls for instead of
// reusing the MSB-first reader: LZ-Overlay traversal runs backward, and
// trying to bolt that onto icza/bitio (which only ever advances forward
// through an io.Reader) would obscure more than it shares.
type reverseCursor struct {
	data []byte
	pos  int // one past the next byte to read
}

func newReverseCursor(data []byte) *reverseCursor {
	return &reverseCursor{data: data, pos: len(data)}
}

func (c *reverseCursor) next() (byte, error) {
	if c.pos <= 0 {
		return 0, io.ErrUnexpectedEOF
	}
	c.pos--
	return c.data[c.pos], nil
}

// consumed reports how many bytes have been read so far.
func (c *reverseCursor) consumed() int { return len(c.data) - c.pos }

// lzOverlayBitReader reads LZ-Overlay flag bits LSB-first: bit 0 of each
// flag byte is the first flag, bit 7 the last (§3, §4.4) — the opposite
// order of every other codec in this package, because the whole format
// traverses back to front.
type lzOverlayBitReader struct {
	cur  *reverseCursor
	flag byte
	bit  int // next bit index to consume, 0..7; 8 means "need a new flag byte"
}

func newLZOverlayBitReader(cur *reverseCursor) *lzOverlayBitReader {
	return &lzOverlayBitReader{cur: cur, bit: 8}
}

func (r *lzOverlayBitReader) readFlag() (byte, error) {
	if r.bit == 8 {
		b, err := r.cur.next()
		if err != nil {
			return 0, err
		}
		r.flag = b
		r.bit = 0
	}
	v := (r.flag >> uint(r.bit)) & 1
	r.bit++
	return v, nil
}
