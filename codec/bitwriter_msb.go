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

// wordSwapWriter buffers logical bytes four at a time and writes them to
// out reversed, turning a big-endian byte sequence (as bitio produces
// MSB-first) back into the little-endian 32-bit words the format requires.
type wordSwapWriter struct {
	out io.Writer
	buf []byte
}

func (w *wordSwapWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		w.buf = append(w.buf, b)
		if len(w.buf) == 4 {
			if err := w.flushWord(); err != nil {
				return 0, err
			}
		}
	}
	return len(p), nil
}

func (w *wordSwapWriter) flushWord() error {
	rev := [4]byte{w.buf[3], w.buf[2], w.buf[1], w.buf[0]}
	w.buf = w.buf[:0]
	_, err := w.out.Write(rev[:])
	return err
}

// flushPartial zero-pads any buffered bytes out to a full word and writes
// them, per §4.6's "flush a partially-filled trailing word".
func (w *wordSwapWriter) flushPartial() error {
	if len(w.buf) == 0 {
		return nil
	}
	for len(w.buf) < 4 {
		w.buf = append(w.buf, 0)
	}
	return w.flushWord()
}

// huffmanBitWriter packs Huffman codewords MSB-first into 32-bit
// little-endian words.
type huffmanBitWriter struct {
	sw *wordSwapWriter
	bw *bitio.Writer
}

func newHuffmanBitWriter(w io.Writer) *huffmanBitWriter {
	sw := &wordSwapWriter{out: w}
	return &huffmanBitWriter{sw: sw, bw: bitio.NewWriter(sw)}
}

// WriteBit writes a single 0/1 bit.
func (h *huffmanBitWriter) WriteBit(bit byte) error {
	return h.bw.WriteBool(bit != 0)
}

// Close flushes any partial byte (zero-padded) and then any partial
// trailing word (also zero-padded), per §4.6's termination rule.
func (h *huffmanBitWriter) Close() error {
	if err := h.bw.Close(); err != nil {
		return err
	}
	return h.sw.flushPartial()
}
