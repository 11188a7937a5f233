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

// matchFinder is the sliding-window match finder shared by LZ10 and LZ11.
// It is hash-chain based (three-byte prefix hash, chained by position),
// the same shape as the Matcher abstraction (Reset/FindBestMatch/Advance)
// common to LZ77-family encoders in the wider ecosystem, adapted here to
// GBA/NDS semantics: the window is the already-emitted prefix of data
// itself, and matches are allowed to read past their own starting
// position (L > D, "run-of-pattern" copies, §3) because the source array
// already holds the true output bytes at those future positions.
type matchFinder struct {
	data       []byte
	windowSize int
	hashHead   map[uint32]int
	hashPrev   []int
}

// maxChainLen bounds how many candidates at a given hash bucket are
// probed. It only trades optimality-of-search for speed; correctness
// (a valid match is always either found or correctly reported absent
// within the probed set) is unaffected.
const maxChainLen = 128

func newMatchFinder(data []byte, windowSize int) *matchFinder {
	return &matchFinder{
		data:       data,
		windowSize: windowSize,
		hashHead:   make(map[uint32]int),
		hashPrev:   make([]int, len(data)),
	}
}

func hash3(b0, b1, b2 byte) uint32 {
	v := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
	return (v * 2654435761) >> 8
}

// insert registers data[pos:pos+3] in the hash chain. The encoder calls
// this once for every position as it advances, including positions
// consumed as part of an emitted match.
func (m *matchFinder) insert(pos int) {
	if pos+3 > len(m.data) {
		m.hashPrev[pos] = -1
		return
	}
	h := hash3(m.data[pos], m.data[pos+1], m.data[pos+2])
	if prev, ok := m.hashHead[h]; ok {
		m.hashPrev[pos] = prev
	} else {
		m.hashPrev[pos] = -1
	}
	m.hashHead[h] = pos
}

// matchLength returns how many bytes starting at candidate and pos agree,
// capped at maxLen. Reading past pos into the not-yet-matched suffix is
// intentional: data holds the true bytes there already (the encoder knows
// its whole input up front), which is exactly what makes L > D valid.
func matchLength(data []byte, candidate, pos, maxLen int) int {
	n := 0
	for pos+n < len(data) && n < maxLen && data[candidate+n] == data[pos+n] {
		n++
	}
	return n
}

// findLongestMatch returns the longest match at pos within the window
// [pos-windowSize, pos), at least minLen long and at most maxLen long. On
// a tie in length it keeps the smallest displacement, per §4.2's
// tie-break rule (smallest displacement aids cache locality of game
// decoders, and keeps the encoder deterministic).
func (m *matchFinder) findLongestMatch(pos, minLen, maxLen int) (length, distance int, found bool) {
	if pos+3 > len(m.data) {
		return 0, 0, false
	}
	h := hash3(m.data[pos], m.data[pos+1], m.data[pos+2])
	candidate, ok := m.hashHead[h]
	lowBound := pos - m.windowSize
	if lowBound < 0 {
		lowBound = 0
	}
	for steps := 0; ok && candidate >= lowBound && steps < maxChainLen; steps++ {
		l := matchLength(m.data, candidate, pos, maxLen)
		if l >= minLen {
			d := pos - candidate
			if l > length || (l == length && d < distance) {
				length, distance, found = l, d, true
			}
		}
		candidate = m.hashPrev[candidate]
	}
	return length, distance, found
}

// lzOp is one emitted operation: either a single literal byte or a
// (length, distance) back-reference.
type lzOp struct {
	literal  bool
	lit      byte
	length   int
	distance int
}

// matchCoster reports the bit cost of emitting a match of the given
// length, and whether that length is representable at all by the format.
type matchCoster func(length int) (bits int, ok bool)

const literalCostBits = 9

// greedyParse emits the longest available match at every position,
// falling back to a literal otherwise. This is the default (non -opt)
// LZ10/LZ11 encoding strategy.
func greedyParse(data []byte, windowSize, minLen, maxLen int) []lzOp {
	mf := newMatchFinder(data, windowSize)
	var ops []lzOp
	for i := 0; i < len(data); {
		length, distance, found := mf.findLongestMatch(i, minLen, maxLen)
		if !found {
			ops = append(ops, lzOp{literal: true, lit: data[i]})
			mf.insert(i)
			i++
			continue
		}
		ops = append(ops, lzOp{length: length, distance: distance})
		for k := 0; k < length; k++ {
			mf.insert(i + k)
		}
		i += length
	}
	return ops
}

// optimalParse runs a dynamic-programming parse that minimizes total
// bitstream size, per §4.2/§4.3's "-opt" encoder. dpCost[i] holds the
// minimum bit cost of encoding data[i:]; at each position every prefix
// length of the single best candidate match is tried (not just the
// longest), since a shorter match to the same source can yield a cheaper
// suffix encoding even though the candidate choice itself follows the
// longest/smallest-displacement rule used by the greedy matcher.
func optimalParse(data []byte, windowSize, minLen, maxLen int, cost matchCoster) []lzOp {
	n := len(data)
	mf := newMatchFinder(data, windowSize)

	// bestLen[i], bestDist[i] = (maxLength, distance) of the best candidate found
	// starting at position i, computed once in a forward pass so the
	// backward DP can reuse it in O(1) per position.
	bestLen := make([]int, n)
	bestDist := make([]int, n)
	for i := 0; i < n; i++ {
		if l, d, ok := mf.findLongestMatch(i, minLen, maxLen); ok {
			bestLen[i], bestDist[i] = l, d
		}
		mf.insert(i)
	}

	dpCost := make([]int, n+1)
	choice := make([]lzOp, n+1) // choice[i] is the op used to get from i to the next state
	for i := n - 1; i >= 0; i-- {
		// literal
		best := dpCost[i+1] + literalCostBits
		bestOp := lzOp{literal: true, lit: data[i]}

		if bestLen[i] >= minLen {
			for l := minLen; l <= bestLen[i]; l++ {
				bits, ok := cost(l)
				if !ok {
					continue
				}
				c := dpCost[i+l] + bits
				if c < best {
					best = c
					bestOp = lzOp{length: l, distance: bestDist[i]}
				}
			}
		}
		dpCost[i] = best
		choice[i] = bestOp
	}

	var ops []lzOp
	for i := 0; i < n; {
		op := choice[i]
		ops = append(ops, op)
		if op.literal {
			i++
		} else {
			i += op.length
		}
	}
	return ops
}
