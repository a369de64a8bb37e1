// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"math/big"
	"math/bits"

	"asn1tool.dev/asn1/model"
)

// encodeReal renders r in the binary form of X.690 §8.5.7: a first octet
// whose top bit is set, the sign, base and exponent-length indicator,
// followed by the exponent and then the mantissa. Only base 2 is
// produced; encodePrimitiveContent rejects a [model.Real.Base] other than
// 0 or 2 before calling this function, and no base conversion is done.
//
// [resolve.specialReal] encodes PLUS-INFINITY/MINUS-INFINITY as Base == 0
// with Exponent +1/-1 respectively; that convention is decoded here too.
func encodeReal(r model.Real) []byte {
	if r.Base == 0 {
		switch r.Exponent {
		case 1:
			return []byte{0b01000000} // PLUS-INFINITY
		case -1:
			return []byte{0b01000001} // MINUS-INFINITY
		}
	}
	if r.IsZero() {
		return nil
	}

	m := new(big.Int).Abs(r.Mantissa)
	exp := r.Exponent
	// Normalize so the mantissa is odd, matching the teacher's floatCodec.
	if m.Sign() != 0 {
		tz := trailingZeroBits(m)
		if tz > 0 {
			m.Rsh(m, uint(tz))
			exp += tz
		}
	}

	el := ((bits.Len(uint(max(exp, -exp-1))) + 1) + 8 - 1) / 8
	if el == 0 {
		el = 1
	}
	ml := (m.BitLen() + 8 - 1) / 8
	if ml == 0 {
		ml = 1
	}

	out := make([]byte, 0, 1+el+ml)
	sign := byte(0)
	if r.Mantissa.Sign() < 0 {
		sign = 1
	}
	first := byte(0b10000000) | (sign << 6)
	if el <= 3 {
		first |= byte(el - 1)
	} else {
		first |= 0b11
	}
	out = append(out, first)
	if el > 3 {
		out = append(out, byte(el-3))
	}
	for j := el - 1; j >= 0; j-- {
		out = append(out, byte(exp>>(8*j)))
	}
	mb := m.Bytes()
	if len(mb) == 0 {
		mb = []byte{0}
	}
	out = append(out, mb...)
	return out
}

func trailingZeroBits(m *big.Int) int {
	n := 0
	for m.Bit(n) == 0 {
		n++
	}
	return n
}

func decodeReal(content []byte) (model.Real, error) {
	if len(content) == 0 {
		return model.Real{Mantissa: big.NewInt(0)}, nil
	}
	b := content[0]
	content = content[1:]
	if b&0xc0 == 0x40 {
		switch b {
		case 0b01000000:
			return model.Real{Base: 0, Exponent: 1}, nil
		case 0b01000001:
			return model.Real{Base: 0, Exponent: -1}, nil
		case 0b01000011:
			return model.Real{Mantissa: big.NewInt(0)}, nil
		default:
			return model.Real{}, errContent("unsupported special REAL value")
		}
	}
	if b&0x80 == 0 {
		return model.Real{}, errContent("decimal REAL encoding not supported")
	}
	sign := (b & 0x40) >> 6
	base := (b & 0x30) >> 4
	if base != 0 {
		return model.Real{}, errContent("only base 2 REAL values are supported")
	}
	f := int((b & 0x0c) >> 2)
	es := int(1 + b&0x03)
	if es >= 4 {
		if len(content) == 0 {
			return model.Real{}, errContent("truncated REAL exponent length")
		}
		es = int(content[0]) + 3
		content = content[1:]
	}
	if len(content) < es {
		return model.Real{}, errContent("truncated REAL exponent")
	}
	var exp int64
	for i := 0; i < es; i++ {
		exp = exp<<8 | int64(content[i])
	}
	exp <<= 64 - es*8
	exp >>= 64 - es*8
	exp += int64(f)
	content = content[es:]
	if len(content) == 0 {
		return model.Real{}, errContent("empty REAL mantissa")
	}
	m := new(big.Int).SetBytes(content)
	if sign != 0 {
		m.Neg(m)
	}
	return model.Real{Mantissa: m, Base: 2, Exponent: int(exp)}, nil
}
