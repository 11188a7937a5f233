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

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	lengths := []int64{0, 1, 2, 5, 0xFF, 0xFFFF, maxLength24, maxLength24 + 1, 0x2000000}
	for _, length := range lengths {
		length := length
		t.Run("", func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := encodeHeader(&buf, lz10MagicByte, length, 0); err != nil {
				t.Fatalf("encodeHeader(%d) error: %v", length, err)
			}
			got, _, err := decodeHeader(&buf, lz10MagicByte)
			if err != nil {
				t.Fatalf("decodeHeader error: %v", err)
			}
			if got != length {
				t.Errorf("decodeHeader() = %d, want %d", got, length)
			}
		})
	}
}

func TestDecodeHeaderWrongMagic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := encodeHeader(&buf, lz10MagicByte, 5, 0); err != nil {
		t.Fatalf("encodeHeader error: %v", err)
	}
	if _, _, err := decodeHeader(&buf, magicLZ11); err == nil {
		t.Fatal("decodeHeader with mismatched magic returned nil error")
	}
}

func TestEncodeHeaderInputTooLarge(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := encodeHeader(&buf, lz10MagicByte, 0x100000000, 0)
	if err == nil {
		t.Fatal("encodeHeader with length > 32 bits returned nil error")
	}
	var tooLarge *InputTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Errorf("error = %v, want *InputTooLargeError", err)
	}
}
