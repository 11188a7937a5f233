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
	"sync"
)

// registryMu guards factories, following the sync.RWMutex-guarded map
// pattern the teacher's CHD codec registry uses for RegisterCodec/GetCodec.
var (
	registryMu sync.RWMutex
	factories  []func() Codec
)

// RegisterCodec registers a codec factory. Codecs register themselves
// from an init() in their own file, so the registry is fully populated
// before any package function runs; additional factories (third-party
// codec instances the caller constructs itself) can be registered the
// same way at any time.
func RegisterCodec(factory func() Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories = append(factories, factory)
}

// AllCodecs returns a fresh instance of every registered non-composite
// codec, plus the GBA, NDS, and Huffman-any composites when
// includeComposites is true.
func AllCodecs(includeComposites bool) []Codec {
	registryMu.RLock()
	defer registryMu.RUnlock()

	codecs := make([]Codec, 0, len(factories))
	for _, f := range factories {
		codecs = append(codecs, f())
	}
	if includeComposites {
		codecs = append(codecs, NewGBAComposite(), NewNDSComposite(), NewHuffmanAnyComposite())
	}
	return codecs
}

// CodecByFlag returns a fresh instance of the codec registered under the
// given command-line flag (including the built-in composites' flags), or
// nil if no codec claims that flag.
func CodecByFlag(flag string) Codec {
	for _, c := range AllCodecs(true) {
		if c.Descriptor().Flag == flag {
			return c
		}
	}
	return nil
}

// Identify peeks at the stream's header and returns the descriptor of the
// first registered non-composite codec whose Supports reports true,
// without decompressing anything. It is the registry-level analogue of
// "find the game file, don't extract it yet" (archive.DetectGameFile in
// the identification tooling this library was adapted from).
func Identify(stream io.Reader, declaredLength int64) (Descriptor, bool, error) {
	header, _, err := peekHeader(stream)
	if err != nil {
		return Descriptor{}, false, err
	}
	for _, c := range AllCodecs(false) {
		ok, err := c.Supports(header, declaredLength)
		if err != nil {
			return Descriptor{}, false, err
		}
		if ok {
			return c.Descriptor(), true, nil
		}
	}
	return Descriptor{}, false, nil
}
