package oer

import (
	"asn1tool.dev/asn1/model"
)

// Encode renders v as t in canonical OER. See [asn1tool.dev/asn1/oer.Encode]
// for the facade entry point; this file holds the recursive Kind dispatch,
// mirroring ber/encode.go's structure without the TLV framing OER omits.
func encodeValue(out *[]byte, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	if v == nil {
		return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("missing value")}
	}

	switch t.Kind {
	case model.KindTagged:
		// OER carries no identifier octets: an EXPLICIT tag changes nothing
		// on the wire, only how BER names the value (see [model.Type.Tag]).
		return encodeValue(out, path, t.Wrapped(), v)

	case model.KindChoice:
		_, idx, ok := t.Member(v.Selector)
		if !ok {
			return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1,
				Err: errContent("unknown CHOICE alternative " + v.Selector)}
		}
		*out = append(*out, encodeChoiceTag(t.Members[idx].Tag)...)
		return encodeValue(out, append(path, model.PathSegment{Member: v.Selector}), t.MemberType(idx), v.Choice)

	case model.KindSequence, model.KindSet:
		return encodeStructured(out, path, t, v)

	case model.KindSequenceOf, model.KindSetOf:
		return encodeCollection(out, path, t, v)

	case model.KindAny:
		*out = appendLength(*out, len(v.Bytes))
		*out = append(*out, v.Bytes...)
		return nil

	default:
		if t.Constraint != nil && !t.Constraint.Admits(v) {
			return &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: -1,
				Err: &model.ConstraintError{Value: v, Root: t.Constraint}}
		}
		content, err := encodePrimitive(t, v)
		if err != nil {
			return &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: -1, Err: err}
		}
		*out = append(*out, content...)
		return nil
	}
}

// encodeStructured renders a SEQUENCE/SET's preamble bitmap (one bit per
// OPTIONAL/DEFAULT root member, MSB first, plus a leading extension bit
// when t.Extensible) followed by the present members' content in
// declaration order (X.696 clause 14). Extension additions are not
// produced: the extension bit is always written as 0.
func encodeStructured(out *[]byte, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	optIdx := t.OptionalOrDefaultRootMembers()
	nBits := len(optIdx)
	if t.Extensible {
		nBits++
	}
	present := make([]bool, len(optIdx))
	for i, mi := range optIdx {
		m := t.Members[mi]
		fv, ok := v.Field(m.Name)
		if ok && m.Default != nil && fv.Equal(m.Default) {
			ok = false // canonical OER omits DEFAULT members equal to their default
		}
		present[i] = ok
	}

	if nBits > 0 {
		bitmap := make([]byte, (nBits+7)/8)
		bit := 0
		if t.Extensible {
			bit++ // extension-additions bit, always 0
		}
		for _, p := range present {
			if p {
				bitmap[bit/8] |= 1 << uint(7-bit%8)
			}
			bit++
		}
		*out = append(*out, bitmap...)
	}

	for i, m := range t.Members {
		if m.ExtensionGroup != 0 {
			continue
		}
		optPos := indexOf(optIdx, i)
		if optPos >= 0 && !present[optPos] {
			continue
		}
		fv, ok := v.Field(m.Name)
		if !ok {
			return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1,
				Err: errContent("missing required member " + m.Name)}
		}
		if cerr := encodeValue(out, append(path, model.PathSegment{Member: m.Name}), t.MemberType(i), fv); cerr != nil {
			return cerr
		}
	}
	return nil
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

// fixedElementCount reports the element count of a SEQUENCE OF/SET OF whose
// SIZE constraint pins it to a single value, in which case the length
// determinant that otherwise precedes the elements (their total octet
// length) is not written (X.696 clause 19.6).
func fixedElementCount(t *model.Type) (int, bool) {
	c := t.Constraint
	if c == nil || c.Kind != model.ConstraintSize || c.Lo == nil || c.Hi == nil || c.Lo.Cmp(c.Hi) != 0 {
		return 0, false
	}
	return int(c.Lo.Int64()), true
}

func encodeCollection(out *[]byte, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	elemType := t.Elem()
	var body []byte
	for i, e := range v.List {
		if cerr := encodeValue(&body, append(path, model.PathSegment{Index: i}), elemType, e); cerr != nil {
			return cerr
		}
	}
	if _, fixed := fixedElementCount(t); fixed {
		*out = append(*out, body...)
		return nil
	}
	*out = appendLength(*out, len(body))
	*out = append(*out, body...)
	return nil
}

func encodePrimitive(t *model.Type, v *model.Value) ([]byte, error) {
	switch t.Kind {
	case model.KindBoolean:
		return encodeBoolean(v.Bool), nil
	case model.KindInteger:
		return encodeInteger(t, v.Int), nil
	case model.KindEnumerated:
		return encodeEnumerated(t, v.Int), nil
	case model.KindNull:
		return nil, nil
	case model.KindReal:
		return encodeReal(v.Real), nil
	case model.KindBitString:
		return encodeBitString(t, v.Bits), nil
	case model.KindOctetString:
		return encodeOctetString(t, v.Bytes), nil
	case model.KindObjectIdentifier:
		return encodeOIDArcs(v.OIDArcs, false)
	case model.KindRelativeOID:
		return encodeOIDArcs(v.OIDArcs, true)
	default:
		if v.IsString() {
			return encodeOctetString(t, []byte(v.Str)), nil
		}
		return nil, errContent("unsupported kind for OER encoding")
	}
}
