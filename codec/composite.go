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
	"io"
)

// Composite wraps a set of member codecs, trying each in turn for decode
// and picking the smallest output for encode, per §4.7.
type Composite struct {
	ShortName   string
	Flag        string
	Description string
	Members     []Codec

	lastUsed string
}

// NewGBAComposite returns the built-in GBA composite: Huffman-4,
// Huffman-8, LZ10.
func NewGBAComposite() *Composite {
	return &Composite{
		ShortName:   "GBA",
		Flag:        "gba",
		Description: "GBA composite: Huffman-4, Huffman-8, LZ10",
		Members: []Codec{
			&HuffmanCodec{BitWidth: 4},
			&HuffmanCodec{BitWidth: 8},
			&LZ10Codec{},
		},
	}
}

// NewNDSComposite returns the built-in NDS composite: Huffman-4,
// Huffman-8, LZ10, LZ11.
func NewNDSComposite() *Composite {
	return &Composite{
		ShortName:   "NDS",
		Flag:        "nds",
		Description: "NDS composite: Huffman-4, Huffman-8, LZ10, LZ11",
		Members: []Codec{
			&HuffmanCodec{BitWidth: 4},
			&HuffmanCodec{BitWidth: 8},
			&LZ10Codec{},
			&LZ11Codec{},
		},
	}
}

// NewHuffmanAnyComposite returns a composite wrapping just the two
// Huffman variants.
func NewHuffmanAnyComposite() *Composite {
	return &Composite{
		ShortName:   "Huffman-any",
		Flag:        "huffman",
		Description: "Composite of Huffman-4 and Huffman-8",
		Members: []Codec{
			&HuffmanCodec{BitWidth: 4},
			&HuffmanCodec{BitWidth: 8},
		},
	}
}

// Descriptor implements Codec.
func (c *Composite) Descriptor() Descriptor {
	supportsCompress, supportsDecompress := false, false
	for _, m := range c.Members {
		d := m.Descriptor()
		supportsCompress = supportsCompress || d.SupportsCompress
		supportsDecompress = supportsDecompress || d.SupportsDecompress
	}
	return Descriptor{
		ShortName:          c.ShortName,
		Description:        c.Description,
		Flag:               c.Flag,
		SupportsCompress:   supportsCompress,
		SupportsDecompress: supportsDecompress,
		LastUsedSubCodec:   c.lastUsed,
	}
}

// Supports implements Codec: true if any member supports the stream.
func (c *Composite) Supports(header []byte, declaredLength int64) (bool, error) {
	for _, m := range c.Members {
		ok, err := m.Supports(header, declaredLength)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Decompress implements Codec: tries each member whose Supports matches,
// in order, returning the first successful decode. A failing member
// (other than input-too-large, which cannot occur during decode) is
// skipped in favor of the next.
func (c *Composite) Decompress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	// Buffered once so each member gets an independent, rewound reader:
	// a member that fails partway through must not leave the next
	// member's attempt reading from the middle of the stream.
	data := make([]byte, declaredLength)
	n, err := io.ReadFull(stream, data)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, err
	}
	data = data[:n]
	header := data
	if len(header) > headerPeekSize {
		header = header[:headerPeekSize]
	}

	for _, m := range c.Members {
		ok, err := m.Supports(header, declaredLength)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		var buf bytes.Buffer
		written, err := m.Decompress(bytes.NewReader(data), declaredLength, &buf)
		if err != nil {
			continue
		}
		if _, err := out.Write(buf.Bytes()); err != nil {
			return 0, err
		}
		c.lastUsed = m.Descriptor().ShortName
		return written, nil
	}
	return 0, &InvalidDataError{Codec: c.ShortName, Offset: 0, Reason: "no member codec could decode the stream"}
}

// Compress implements Codec: runs every compress-capable member, keeps
// the smallest output, and records it as last_used_sub_codec.
func (c *Composite) Compress(stream io.Reader, declaredLength int64, out io.Writer) (int64, error) {
	data := make([]byte, declaredLength)
	if _, err := io.ReadFull(stream, data); err != nil {
		return 0, wrapReadErr(c.ShortName, err)
	}

	var best []byte
	var bestName string
	for _, m := range c.Members {
		if !m.Descriptor().SupportsCompress {
			continue
		}
		var buf bytes.Buffer
		if _, err := m.Compress(bytes.NewReader(data), declaredLength, &buf); err != nil {
			continue
		}
		if best == nil || buf.Len() < len(best) {
			best = buf.Bytes()
			bestName = m.Descriptor().ShortName
		}
	}
	if best == nil {
		return 0, &InvalidDataError{Codec: c.ShortName, Offset: 0, Reason: "no member codec could compress the input"}
	}
	c.lastUsed = bestName
	n, err := out.Write(best)
	return int64(n), err
}

// ParseCompressionOptions implements Codec: forwards args to members in
// rounds, accumulating the maximum consumed count per round, stopping
// when a round consumes nothing (§4.7).
func (c *Composite) ParseCompressionOptions(args []string) (int, error) {
	total := 0
	for {
		consumedThisRound := 0
		for _, m := range c.Members {
			n, err := m.ParseCompressionOptions(args)
			if err != nil {
				return total, err
			}
			if n > consumedThisRound {
				consumedThisRound = n
			}
		}
		if consumedThisRound == 0 {
			return total, nil
		}
		total += consumedThisRound
		args = args[consumedThisRound:]
		if len(args) == 0 {
			return total, nil
		}
	}
}
