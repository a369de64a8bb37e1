// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"strings"
)

//region [UNIVERSAL 1] BOOLEAN
// Implemented as Go bool type.
//endregion

//region [UNIVERSAL 2] INTEGER
// Implemented as Go integer types and *big.Int.
//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits will be encoded and decoded as zero bits.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// RightAlign returns a slice where the padding bits are at the beginning. The
// slice may share memory with the BitString.
func (s BitString) RightAlign() []byte {
	shift := uint(8 - (s.BitLength % 8))
	if shift == 8 || len(s.Bytes) == 0 {
		return s.Bytes
	}

	a := make([]byte, len(s.Bytes))
	a[0] = s.Bytes[0] >> shift
	for i := 1; i < len(s.Bytes); i++ {
		a[i] = s.Bytes[i-1] << (8 - shift)
		a[i] |= s.Bytes[i] >> shift
	}

	return a
}

// String formats s into a readable binary representation. Bits will be grouped
// into bytes. The last group may have fewer than 8 characters.
func (s BitString) String() string {
	if len(s.Bytes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(s.BitLength + s.BitLength/8)
	for i := 0; i < s.BitLength; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte('0' + s.At(i)))
	}
	return sb.String()
}

//endregion

//region [UNIVERSAL 4] OCTET STRING
// Implemented as Go byte slice.
//endregion

//region [UNIVERSAL 5] NULL
// Implemented as Go struct{}; no codec in this tree ever needs a named
// wrapper type for it, so one is not kept.
//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER / [UNIVERSAL 13] RELATIVE-OID
// Implemented as the wire-neutral model.Value.OIDArcs ([]uint) rather than a
// named root-package type: the type model (asn1/model) is what every codec
// dispatches on, and it has no static Go struct to decorate with arc-sequence
// helpers the way a reflection-driven marshaller would.
//endregion

//region [UNIVERSAL 9] REAL
// Implemented as model.Real (mantissa/base/exponent); see asn1/model.
//endregion

//region [UNIVERSAL 10] ENUMERATED
// Implemented as Go integer types, carried through model.Value.Int.
//endregion

//region Restricted character string types, time types, CHOICE of the above
// Implemented as model.Value.Str / model.Value.Time: the resolver
// (asn1/resolve) already knows each restricted string's permitted alphabet
// via Type.Hints, so alphabet validation lives there once rather than in a
// named type's IsValid method per string kind.
//endregion
