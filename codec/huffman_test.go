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
	"bytes"
	"errors"
	"testing"
)

// TestHuffman8DecodeHandBuiltTree decodes a hand-assembled two-leaf tree (root
// -> left leaf 0x41, right leaf 0x42) to pin down the tree-table/bitstream
// byte layout of §4.6 independently of the encoder.
func TestHuffman8DecodeHandBuiltTree(t *testing.T) {
	t.Parallel()

	t.Run("8-bit", func(t *testing.T) {
		t.Parallel()
		// header: magic 0x28 (8-bit), length24=2
		// treeSizeByte=1 => treeNodeBytes=4
		// table: [0xC0 (root: both children leaves, offset 0), 0x00 (pad), 0x41, 0x42]
		// bitstream: one little-endian word, bits 0 then 1 (MSB-first) => byte
		// stream before word-swap is 0x40 0x00 0x00 0x00, so the LE word on
		// the wire is 0x00 0x00 0x00 0x40.
		stream := []byte{
			0x28, 0x02, 0x00, 0x00,
			0x01,
			0xC0, 0x00, 0x41, 0x42,
			0x00, 0x00, 0x00, 0x40,
		}
		c := &HuffmanCodec{BitWidth: 8}
		var out bytes.Buffer
		n, err := c.Decompress(bytes.NewReader(stream), int64(len(stream)), &out)
		if err != nil {
			t.Fatalf("Decompress error: %v", err)
		}
		want := []byte{0x41, 0x42}
		if n != int64(len(want)) || !bytes.Equal(out.Bytes(), want) {
			t.Errorf("Decompress() = %x (n=%d), want %x", out.Bytes(), n, want)
		}
	})
}

// TestHuffmanRoundTrip exercises every shared fixture at BitWidth 4 (a
// 16-symbol nibble alphabet never accumulates enough internal nodes for the
// breadth-first tree layout's offset to overflow, regardless of how the
// input bytes are distributed) and at BitWidth 8 restricted to fixtures
// whose distinct-byte count stays low enough to guarantee the depth-first
// 8-bit layout can't overflow either (see huffmanSafeFor8Bit). The
// near-uniform, full-256-value fixture is deliberately excluded here and
// covered instead, tolerantly, by TestHuffman8NearUniformAlphabetMayReject.
func TestHuffmanRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("width4", func(t *testing.T) {
		t.Parallel()
		for _, input := range roundTripFixtures() {
			input := input
			t.Run("", func(t *testing.T) {
				t.Parallel()
				huffmanRoundTripOrFatal(t, 4, input)
			})
		}
	})

	t.Run("width8", func(t *testing.T) {
		t.Parallel()
		for _, input := range roundTripFixtures() {
			input := input
			if !huffmanSafeFor8Bit(input) {
				continue
			}
			t.Run("", func(t *testing.T) {
				t.Parallel()
				huffmanRoundTripOrFatal(t, 8, input)
			})
		}
	})
}

// TestHuffman8ExtremeSkewRoundTrip builds a fixture whose byte frequencies
// double at every step (1, 2, 4, ..., 2^15), the classic degenerate
// distribution that forces canonical Huffman construction to produce a pure
// comb tree. Every node on a comb tree's spine places its next sibling
// immediately after itself in both the breadth-first and depth-first
// layouts, so this is safe regardless of alphabet size and is a much
// stronger stress case than the small, low-distinct-count fixtures above.
func TestHuffman8ExtremeSkewRoundTrip(t *testing.T) {
	t.Parallel()

	var data []byte
	for k := 0; k < 16; k++ {
		data = append(data, bytes.Repeat([]byte{byte(15 - k)}, 1<<uint(k))...)
	}
	huffmanRoundTripOrFatal(t, 8, data)
}

// TestHuffman8NearUniformAlphabetMayReject documents a known limitation: a
// Huffman tree over close to all 256 byte values with near-equal
// frequencies is close to perfectly balanced, and no ordering of a
// balanced tree with ~255 internal nodes can keep every node's
// offset-to-children within the wire format's 6-bit field (§4.6's own
// leaf-stem/cascading-shift packing exists to work around exactly this;
// DESIGN.md records why this package uses a simpler depth-first layout
// instead). Compress must either produce a tree that round-trips correctly
// or fail cleanly with ErrInvalidData -- never corrupt output or panic.
func TestHuffman8NearUniformAlphabetMayReject(t *testing.T) {
	t.Parallel()

	data := make([]byte, 257)
	state := uint32(12345)
	for i := range data {
		state = state*1664525 + 1013904223
		data[i] = byte(state >> 24)
	}

	c := &HuffmanCodec{BitWidth: 8}
	var compressed bytes.Buffer
	_, err := c.Compress(bytes.NewReader(data), int64(len(data)), &compressed)
	if err != nil {
		if !errors.Is(err, ErrInvalidData) {
			t.Fatalf("Compress error = %v, want nil or ErrInvalidData", err)
		}
		return
	}

	d := &HuffmanCodec{BitWidth: 8}
	var decompressed bytes.Buffer
	n, err := d.Decompress(bytes.NewReader(compressed.Bytes()), int64(compressed.Len()), &decompressed)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if n != int64(len(data)) || !bytes.Equal(decompressed.Bytes(), data) {
		t.Error("round-trip mismatch for near-uniform 8-bit alphabet")
	}
}

// huffmanSafeFor8Bit reports whether input's distinct-byte count is low
// enough that the tree it produces can have at most 64 internal nodes,
// which guarantees every offset fits in 6 bits no matter how the layout
// orders them (the worst single deferred subtree can hold at most
// total-1 internal nodes).
func huffmanSafeFor8Bit(input []byte) bool {
	seen := make(map[byte]bool)
	for _, b := range input {
		seen[b] = true
	}
	return len(seen) <= 64
}

func huffmanRoundTripOrFatal(t *testing.T, width int, input []byte) {
	t.Helper()

	c := &HuffmanCodec{BitWidth: width}
	var compressed bytes.Buffer
	if _, err := c.Compress(bytes.NewReader(input), int64(len(input)), &compressed); err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	d := &HuffmanCodec{BitWidth: width}
	var decompressed bytes.Buffer
	n, err := d.Decompress(bytes.NewReader(compressed.Bytes()), int64(compressed.Len()), &decompressed)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if n != int64(len(input)) {
		t.Errorf("decompressed length = %d, want %d", n, len(input))
	}
	if !bytes.Equal(decompressed.Bytes(), input) {
		t.Errorf("round-trip mismatch for width=%d input of length %d", width, len(input))
	}
}

// TestHuffman4NibbleAsymmetricData stresses the 4-bit alphabet with data
// whose high and low nibbles are drawn from very different distributions, per
// §8 testable property 4's "nibble-asymmetric data (Huffman-4 stress)".
func TestHuffman4NibbleAsymmetricData(t *testing.T) {
	t.Parallel()

	data := make([]byte, 512)
	for i := range data {
		hi := byte(0x0) // high nibble almost always 0
		if i%97 == 0 {
			hi = 0xF
		}
		lo := byte(i % 16) // low nibble uniformly distributed
		data[i] = hi<<4 | lo
	}

	c := &HuffmanCodec{BitWidth: 4}
	var compressed bytes.Buffer
	if _, err := c.Compress(bytes.NewReader(data), int64(len(data)), &compressed); err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	d := &HuffmanCodec{BitWidth: 4}
	var decompressed bytes.Buffer
	n, err := d.Decompress(bytes.NewReader(compressed.Bytes()), int64(compressed.Len()), &decompressed)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if n != int64(len(data)) || !bytes.Equal(decompressed.Bytes(), data) {
		t.Error("round-trip mismatch for nibble-asymmetric data")
	}
}

func TestHuffmanSupports(t *testing.T) {
	t.Parallel()

	c4 := &HuffmanCodec{BitWidth: 4}
	if ok, err := c4.Supports([]byte{0x24, 0, 0, 0}, 4); err != nil || !ok {
		t.Errorf("Huffman-4 Supports(0x24...) = %v, %v, want true, nil", ok, err)
	}
	if ok, err := c4.Supports([]byte{0x28, 0, 0, 0}, 4); err != nil || ok {
		t.Errorf("Huffman-4 Supports(0x28...) = %v, %v, want false, nil", ok, err)
	}

	c8 := &HuffmanCodec{BitWidth: 8}
	if ok, err := c8.Supports([]byte{0x28, 0, 0, 0}, 4); err != nil || !ok {
		t.Errorf("Huffman-8 Supports(0x28...) = %v, %v, want true, nil", ok, err)
	}
}
