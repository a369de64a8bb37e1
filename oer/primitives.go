package oer

import (
	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
)

// encodeBoolean renders b as a single octet: 0x00 for false, 0xFF for true
// (X.696 clause 8.2, identical to BER's canonical form).
func encodeBoolean(b bool) []byte {
	if b {
		return []byte{0xff}
	}
	return []byte{0x00}
}

func decodeBoolean(data []byte) (bool, int, error) {
	if len(data) == 0 {
		return false, 0, errContent("truncated BOOLEAN")
	}
	return data[0] != 0, 1, nil
}

// encodeOctetString renders b either as raw octets (when t's size
// constraint fixes its length, X.696 clause 16.2) or length-determinant
// prefixed otherwise.
func encodeOctetString(t *model.Type, b []byte) []byte {
	if t.Hints.FixedLength {
		return append([]byte(nil), b...)
	}
	buf := appendLength(make([]byte, 0, 4+len(b)), len(b))
	return append(buf, b...)
}

func decodeOctetString(t *model.Type, data []byte) ([]byte, int, error) {
	if t.Hints.FixedLength {
		if len(data) < t.Hints.ByteLength {
			return nil, 0, errContent("truncated fixed-length OCTET STRING")
		}
		return append([]byte(nil), data[:t.Hints.ByteLength]...), t.Hints.ByteLength, nil
	}
	n, consumed, err := readLength(data)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < consumed+n {
		return nil, 0, errContent("truncated OCTET STRING content")
	}
	return append([]byte(nil), data[consumed:consumed+n]...), consumed + n, nil
}

// encodeBitString renders bs per X.696 clause 15: a leading unused-bits
// octet followed by the content octets, the whole thing length-determinant
// prefixed unless t's size constraint fixes the bit length at a multiple of
// 8 (clause 15.10), in which case the length and the unused-bits octet
// (always zero then) are both dropped. A fixed bit length that is not a
// multiple of 8 keeps the length and the unused-bits octet.
func encodeBitString(t *model.Type, bs asn1.BitString) []byte {
	if t.Hints.FixedLength && t.Hints.ByteLength%8 == 0 {
		out := make([]byte, 0, len(bs.Bytes))
		out = append(out, bs.Bytes...)
		return out
	}
	padding := byte((8 - bs.BitLength%8) % 8)
	body := append([]byte{padding}, bs.Bytes...)
	buf := appendLength(make([]byte, 0, 4+len(body)), len(body))
	return append(buf, body...)
}

func decodeBitString(t *model.Type, data []byte) (asn1.BitString, int, error) {
	if t.Hints.FixedLength && t.Hints.ByteLength%8 == 0 {
		n := t.Hints.ByteLength / 8
		if len(data) < n {
			return asn1.BitString{}, 0, errContent("truncated fixed-length BIT STRING")
		}
		return asn1.BitString{BitLength: t.Hints.ByteLength, Bytes: append([]byte(nil), data[:n]...)}, n, nil
	}
	n, consumed, err := readLength(data)
	if err != nil {
		return asn1.BitString{}, 0, err
	}
	if n == 0 || len(data) < consumed+n {
		return asn1.BitString{}, 0, errContent("truncated BIT STRING content")
	}
	body := data[consumed : consumed+n]
	padding := body[0]
	if padding > 7 {
		return asn1.BitString{}, 0, errContent("invalid BIT STRING padding")
	}
	bits := asn1.BitString{BitLength: (len(body)-1)*8 - int(padding), Bytes: append([]byte(nil), body[1:]...)}
	return bits, consumed + n, nil
}
