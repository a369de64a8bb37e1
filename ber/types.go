// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"errors"
	"math/big"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/internal/vlq"
)

// encodeBoolean renders b per X.690 §8.2: false is a single 0x00 octet,
// true a single 0xFF octet under DER/CER (any nonzero octet is accepted on
// decode, matching BER's permissive reading).
func encodeBoolean(b bool) []byte {
	if b {
		return []byte{0xff}
	}
	return []byte{0x00}
}

func decodeBoolean(content []byte) (bool, error) {
	if len(content) != 1 {
		return false, errContent("invalid BOOLEAN length")
	}
	return content[0] != 0, nil
}

// encodeInteger renders i as a minimal-length two's-complement big-endian
// integer per X.690 §8.3. Ported from the teacher's bigIntCodec.BerEncode,
// generalized from a fixed big.Int field to the arbitrary *big.Int the
// Value Marshaller passes in.
func encodeInteger(i *big.Int) []byte {
	if i == nil || i.Sign() == 0 {
		return []byte{0x00}
	}
	if i.Sign() < 0 {
		nMinus1 := new(big.Int).Neg(i)
		nMinus1.Sub(nMinus1, big.NewInt(1))
		bs := nMinus1.Bytes()
		for j := range bs {
			bs[j] ^= 0xff
		}
		if len(bs) == 0 || bs[0]&0x80 == 0 {
			return append([]byte{0xff}, bs...)
		}
		return bs
	}
	bs := i.Bytes()
	if len(bs) > 0 && bs[0]&0x80 != 0 {
		return append([]byte{0x00}, bs...)
	}
	return bs
}

// decodeInteger parses a two's-complement big-endian integer, rejecting
// non-minimal encodings (a leading 0x00 or 0xFF byte whose presence does
// not change the sign of the following byte) per X.690 §8.3.2 / §11.3.
func decodeInteger(content []byte) (*big.Int, error) {
	if len(content) == 0 {
		return nil, errContent("empty INTEGER")
	}
	if len(content) > 1 && ((content[0] == 0x00 && content[1]&0x80 == 0x00) ||
		(content[0] == 0xff && content[1]&0x80 == 0x80)) {
		return nil, errContent("INTEGER is not minimally encoded")
	}
	i := new(big.Int)
	if content[0]&0x80 == 0x80 {
		bs := append([]byte(nil), content...)
		for j := range bs {
			bs[j] = ^bs[j]
		}
		i.SetBytes(bs)
		i.Add(i, big.NewInt(1))
		i.Neg(i)
	} else {
		i.SetBytes(content)
	}
	return i, nil
}

// encodeBitString renders bs per X.690 §8.6: one leading octet giving the
// number of unused bits in the final content octet, then the bits
// themselves with padding bits forced to zero. Ported from the teacher's
// bitStringCodec.BerEncode.
func encodeBitString(bs asn1.BitString) []byte {
	padding := byte((8 - bs.BitLength%8) % 8)
	out := make([]byte, 0, 1+len(bs.Bytes))
	out = append(out, padding)
	if len(bs.Bytes) == 0 {
		return out
	}
	out = append(out, bs.Bytes[:len(bs.Bytes)-1]...)
	last := bs.Bytes[len(bs.Bytes)-1] & ^byte(1<<uint(padding)-1)
	out = append(out, last)
	return out
}

func decodeBitString(content []byte) (asn1.BitString, error) {
	if len(content) == 0 {
		return asn1.BitString{}, errContent("empty BIT STRING")
	}
	padding := content[0]
	if padding > 7 || (padding > 0 && len(content) == 1) {
		return asn1.BitString{}, errContent("invalid BIT STRING padding")
	}
	bs := asn1.BitString{
		BitLength: (len(content)-1)*8 - int(padding),
		Bytes:     append([]byte(nil), content[1:]...),
	}
	if len(bs.Bytes) > 0 {
		bs.Bytes[len(bs.Bytes)-1] &= ^byte(1<<uint(padding) - 1)
	}
	return bs, nil
}

// encodeOID renders arcs per X.690 §8.19: the first two arcs are combined
// into a single base-128 value (40*arc0 + arc1), remaining arcs each
// base-128 encoded. Ported from the teacher's oidCodec/relativeOIDCodec.
func encodeOID(arcs []uint, relative bool) ([]byte, error) {
	var buf []byte
	if !relative {
		if len(arcs) < 2 || arcs[0] > 2 || (arcs[0] < 2 && arcs[1] > 39) {
			return nil, errContent("invalid OBJECT IDENTIFIER")
		}
		buf = appendBase128(buf, arcs[0]*40+arcs[1])
		arcs = arcs[2:]
	}
	for _, a := range arcs {
		buf = appendBase128(buf, a)
	}
	return buf, nil
}

func decodeOID(content []byte, relative bool) ([]uint, error) {
	if len(content) == 0 {
		if relative {
			return nil, nil
		}
		return nil, errContent("empty OBJECT IDENTIFIER")
	}
	var arcs []uint
	pos := 0
	first := true
	for pos < len(content) {
		v, n, err := readBase128(content[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		if first && !relative {
			if v < 80 {
				arcs = append(arcs, v/40, v%40)
			} else {
				arcs = append(arcs, 2, v-80)
			}
		} else {
			arcs = append(arcs, v)
		}
		first = false
	}
	return arcs, nil
}

func appendBase128(buf []byte, n uint) []byte {
	var w bytes.Buffer
	vlq.Write(&w, n) // bytes.Buffer.WriteByte never errors
	return append(buf, w.Bytes()...)
}

func readBase128(b []byte) (uint, int, error) {
	r := bytes.NewReader(b)
	n, err := vlq.ReadMinimal[uint](r)
	switch {
	case err == nil:
		return n, len(b) - r.Len(), nil
	case errors.Is(err, vlq.ErrNotMinimal):
		return 0, 0, errContent("base 128 integer is not minimally encoded")
	case errors.Is(err, vlq.ErrOverflow):
		return 0, 0, errContent("base 128 integer too large")
	default:
		return 0, 0, errContent("truncated base 128 integer")
	}
}

// errContent wraps a plain message as an error for the small leaf helpers
// in this file; callers attach it to a *model.CodecError with the path and
// offset they know about.
func errContent(msg string) error { return contentError(msg) }

type contentError string

func (e contentError) Error() string { return string(e) }
