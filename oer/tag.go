package oer

import "asn1tool.dev/asn1"

// encodeChoiceTag renders tag as identifier octets in the X.690 §8.1.2
// form (without the constructed bit, which OER's CHOICE alternative octets
// do not carry): X.696 clause 23 identifies the chosen alternative "as
// specified in ITU-T Rec. X.690".
func encodeChoiceTag(tag asn1.Tag) []byte {
	b := byte(tag.Class() >> 8)
	if tag.Number() < 31 {
		b |= byte(tag.Number())
		return []byte{b}
	}
	b |= 0x1f
	return appendBase128([]byte{b}, tag.Number())
}

func decodeChoiceTag(data []byte) (asn1.Tag, int, error) {
	if len(data) == 0 {
		return 0, 0, errContent("truncated CHOICE alternative tag")
	}
	b := data[0]
	class := asn1.Tag(b>>6) << 14
	if b&0x1f != 0x1f {
		return class | asn1.Tag(b&0x1f), 1, nil
	}
	n, adv, err := readBase128(data[1:])
	if err != nil {
		return 0, 0, err
	}
	return class | (asn1.Tag(n) &^ (0b11 << 14)), 1 + adv, nil
}
