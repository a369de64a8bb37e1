package uper

import "math/bits"

// oidArcs renders arcs as the X.690 §8.19 base-128 arc packing (the first
// two arcs combined into 40*arc0+arc1 for an absolute OID) — identical
// content octets to BER/OER, framed here by writeCountedBytes's general
// length determinant instead of a TLV header or OER-style prefix. Ported
// from ber's OID content-octet logic (also ported once already into
// asn1/oer, for the same reason — unexported there, can't be imported).
func oidArcs(arcs []uint, relative bool) []byte {
	var body []byte
	if !relative {
		if len(arcs) < 2 {
			return nil
		}
		body = appendBase128(body, arcs[0]*40+arcs[1])
		arcs = arcs[2:]
	}
	for _, a := range arcs {
		body = appendBase128(body, a)
	}
	return body
}

func decodeOIDArcs(content []byte, relative bool) ([]uint, error) {
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
		v, adv, err := readBase128(content[pos:])
		if err != nil {
			return nil, err
		}
		pos += adv
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
	l := base128Len(n)
	start := len(buf)
	buf = append(buf, make([]byte, l)...)
	for j := l - 1; j >= 0; j-- {
		b := byte(n>>uint(j*7)) & 0x7f
		if j != 0 {
			b |= 0x80
		}
		buf[start+l-1-j] = b
	}
	return buf
}

func base128Len(n uint) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

func readBase128(b []byte) (uint, int, error) {
	var ret uint
	var numBits int
	for i, c := range b {
		if i == 0 && c == 0x80 {
			return 0, 0, errContent("base 128 integer is not minimally encoded")
		}
		ret = ret<<7 | uint(c&0x7f)
		if numBits == 0 {
			numBits = bits.Len8(c & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > bits.UintSize {
			return 0, 0, errContent("base 128 integer too large")
		}
		if c&0x80 == 0 {
			return ret, i + 1, nil
		}
	}
	return 0, 0, errContent("truncated base 128 integer")
}
