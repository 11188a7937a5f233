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

import "testing"

// checkOffsetInvariant fails the test if any internal-node byte in table
// carries an offset past huffmanMaxOffset.
func checkOffsetInvariant(t *testing.T, table []byte) {
	t.Helper()
	for pos := 0; pos+1 < len(table); pos += 2 {
		b := table[pos]
		isLeftLeaf := b&0x80 != 0
		isRightLeaf := b&0x40 != 0
		if isLeftLeaf && isRightLeaf {
			continue // both children are data bytes, not internal-node bytes
		}
		offset := b & 0x3F
		if offset > huffmanMaxOffset {
			t.Errorf("node at %d has offset %d > 0x3F", pos, offset)
		}
	}
}

// TestHuffmanTreeOffsetInvariantSmallAlphabet exercises §8 testable
// property 6 for distributions whose internal-node count is low enough
// (≤64) that no ordering of the tree can push an offset past 0x3F: the
// single worst deferred subtree can hold at most total-1 internal nodes,
// so layoutTree must always succeed here regardless of shape.
func TestHuffmanTreeOffsetInvariantSmallAlphabet(t *testing.T) {
	t.Parallel()

	distributions := [][]int{
		uniformFreq(64),
		skewedFreq(64),
		allDistinctFreq(64),
	}

	for i, freq := range distributions {
		freq := freq
		t.Run("", func(t *testing.T) {
			t.Parallel()

			arena, root := buildHuffmanTree(freq)
			table, err := layoutTree(arena, root, true)
			if err != nil {
				t.Fatalf("distribution %d: layoutTree error: %v", i, err)
			}
			checkOffsetInvariant(t, table)
		})
	}
}

// TestHuffmanTreeOffsetInvariantExtremeSkew builds a 55-symbol alphabet
// (in a 256-entry frequency table) whose frequencies double at every step
// (1, 2, 4, ..., 2^54), the classic degenerate
// distribution that forces canonical construction into a pure comb tree:
// every spine node's deferred sibling is a single leaf, so both the
// breadth-first and depth-first layouts place it with zero offset no
// matter how large the alphabet is.
func TestHuffmanTreeOffsetInvariantExtremeSkew(t *testing.T) {
	t.Parallel()

	freq := make([]int, 256)
	for i := 0; i < 55; i++ {
		freq[i] = 1 << uint(i)
	}

	arena, root := buildHuffmanTree(freq)
	table, err := layoutTree(arena, root, true)
	if err != nil {
		t.Fatalf("layoutTree error: %v", err)
	}
	checkOffsetInvariant(t, table)
}

// TestHuffmanTreeOffsetInvariantFullAlphabetMayReject documents that a
// near-uniform, full 256-symbol distribution produces a near-complete
// binary tree with up to 255 internal nodes, whose bandwidth can
// genuinely exceed the wire format's 6-bit offset field under any layout
// ordering (§4.6's own leaf-stem/cascading-shift packing exists to work
// around exactly this; see DESIGN.md). layoutTree must either satisfy the
// invariant or fail cleanly via the documented sentinel, never emit an
// out-of-range offset silently.
func TestHuffmanTreeOffsetInvariantFullAlphabetMayReject(t *testing.T) {
	t.Parallel()

	arena, root := buildHuffmanTree(uniformFreq(256))
	table, err := layoutTree(arena, root, true)
	if err != nil {
		return
	}
	checkOffsetInvariant(t, table)
}

func uniformFreq(n int) []int {
	f := make([]int, 256)
	for i := 0; i < n; i++ {
		f[i] = 1
	}
	return f
}

func skewedFreq(n int) []int {
	f := make([]int, 256)
	for i := 0; i < n; i++ {
		f[i] = 1 << uint(i%20)
	}
	return f
}

func allDistinctFreq(n int) []int {
	f := make([]int, 256)
	for i := 0; i < n; i++ {
		f[i] = i + 1
	}
	return f
}

// TestBuildCodesPrefixFree verifies no code is a prefix of another distinct
// code, the defining property of a decodable Huffman assignment.
func TestBuildCodesPrefixFree(t *testing.T) {
	t.Parallel()

	arena, root := buildHuffmanTree(skewedFreq(256))
	codes := buildCodes(arena, root)

	type entry struct {
		bits uint32
		len  int
	}
	var all []entry
	for _, c := range codes {
		all = append(all, entry{c.bits, c.len})
	}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			a, b := all[i], all[j]
			if a.len >= b.len {
				continue
			}
			if a.bits == b.bits>>uint(b.len-a.len) {
				t.Errorf("code %d (len %d) is a prefix of code %d (len %d)", a.bits, a.len, b.bits, b.len)
			}
		}
	}
}
