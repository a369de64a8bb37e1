package oer

import (
	"math/big"

	"asn1tool.dev/asn1/model"
)

// fixedOctets reports the canonical COER fixed-size encoding width for a
// constrained whole number bounded by [lo, hi] (X.696 clause 9.4): the
// smallest of {1, 2, 4, 8} octets able to hold every value in range, two's
// complement if the range admits negative values, unsigned otherwise. ok is
// false when no such width exists (the range needs more than 8 octets, or
// is unbounded), in which case the general length-determinant form applies.
func fixedOctets(lo, hi *big.Int) (octets int, signed bool, ok bool) {
	signed = lo.Sign() < 0
	for _, n := range [...]int{1, 2, 4, 8} {
		bits := uint(n * 8)
		if signed {
			min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
			max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
			if lo.Cmp(min) >= 0 && hi.Cmp(max) <= 0 {
				return n, true, true
			}
		} else {
			max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
			if hi.Cmp(max) <= 0 {
				return n, false, true
			}
		}
	}
	return 0, signed, false
}

// encodeFixedInt renders i as a two's-complement (signed) or plain unsigned
// big-endian integer padded to octets bytes.
func encodeFixedInt(i *big.Int, octets int, signed bool) []byte {
	out := make([]byte, octets)
	if signed && i.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(octets*8))
		u := new(big.Int).Add(i, mod)
		fillBigEndian(out, u)
		return out
	}
	fillBigEndian(out, i)
	return out
}

func fillBigEndian(out []byte, i *big.Int) {
	b := i.Bytes()
	if len(b) > len(out) {
		b = b[len(b)-len(out):]
	}
	copy(out[len(out)-len(b):], b)
}

func decodeFixedInt(content []byte, signed bool) *big.Int {
	i := new(big.Int).SetBytes(content)
	if signed && len(content) > 0 && content[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(content)*8))
		i.Sub(i, mod)
	}
	return i
}

// minimalTwosComplement renders i as the shortest two's-complement
// big-endian encoding of its value, matching the content octets BER uses
// for unconstrained INTEGER (X.690 §8.3), since X.696 clause 9.5 falls back
// to the same rule when no fixed-size constraint applies.
func minimalTwosComplement(i *big.Int) []byte {
	if i.Sign() == 0 {
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

func decodeMinimalTwosComplement(content []byte) (*big.Int, error) {
	if len(content) == 0 {
		return nil, errContent("empty INTEGER")
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

// encodeInteger renders i per t's constraint: fixed-width if t.Constraint
// reduces to a closed range narrow enough for COER's {1,2,4,8}-octet rule,
// length-determinant-prefixed minimal two's complement otherwise.
func encodeInteger(t *model.Type, i *big.Int) []byte {
	if lo, hi, ok := t.Constraint.Bounds(); ok {
		if octets, signed, ok := fixedOctets(lo, hi); ok {
			return encodeFixedInt(i, octets, signed)
		}
	}
	body := minimalTwosComplement(i)
	buf := appendLength(make([]byte, 0, 1+len(body)), len(body))
	return append(buf, body...)
}

// decodeInteger is the inverse of encodeInteger; it reports the number of
// octets of data it consumed.
func decodeInteger(t *model.Type, data []byte) (*big.Int, int, error) {
	if lo, hi, ok := t.Constraint.Bounds(); ok {
		if octets, signed, ok := fixedOctets(lo, hi); ok {
			if len(data) < octets {
				return nil, 0, errContent("truncated fixed-width INTEGER")
			}
			return decodeFixedInt(data[:octets], signed), octets, nil
		}
	}
	n, consumed, err := readLength(data)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < consumed+n {
		return nil, 0, errContent("truncated INTEGER content")
	}
	i, err := decodeMinimalTwosComplement(data[consumed : consumed+n])
	if err != nil {
		return nil, 0, err
	}
	return i, consumed + n, nil
}

// enumeratedFitsOneOctet reports whether every named number of t (an
// ENUMERATED) fits in a single signed octet. Unlike INTEGER's per-value
// choice of fixed-size width, X.696 clause 11.4 picks the short or long
// form once per enumeration, from its declared value set: a per-value
// choice would leave the decoder unable to tell the two forms apart.
func enumeratedFitsOneOctet(t *model.Type) bool {
	for _, nn := range t.NamedNumbers {
		if nn.Value < -128 || nn.Value > 127 {
			return false
		}
	}
	return true
}

// encodeEnumerated renders i per X.696 clause 11: a single two's-complement
// octet when every value of t's enumeration fits in [-128, 127], the
// general length-determinant form otherwise.
func encodeEnumerated(t *model.Type, i *big.Int) []byte {
	if enumeratedFitsOneOctet(t) {
		return []byte{byte(i.Int64())}
	}
	body := minimalTwosComplement(i)
	buf := appendLength(make([]byte, 0, 1+len(body)), len(body))
	return append(buf, body...)
}

func decodeEnumerated(t *model.Type, data []byte) (*big.Int, int, error) {
	if enumeratedFitsOneOctet(t) {
		if len(data) == 0 {
			return nil, 0, errContent("truncated ENUMERATED")
		}
		return big.NewInt(int64(int8(data[0]))), 1, nil
	}
	n, consumed, err := readLength(data)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < consumed+n {
		return nil, 0, errContent("truncated ENUMERATED content")
	}
	i, err := decodeMinimalTwosComplement(data[consumed : consumed+n])
	if err != nil {
		return nil, 0, err
	}
	return i, consumed + n, nil
}
