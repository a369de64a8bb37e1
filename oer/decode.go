package oer

import (
	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
)

func decodeValue(path []model.PathSegment, t *model.Type, data []byte) (*model.Value, int, *model.CodecError) {
	switch t.Kind {
	case model.KindTagged:
		return decodeValue(path, t.Wrapped(), data)

	case model.KindChoice:
		tag, adv, err := decodeChoiceTag(data)
		if err != nil {
			return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: err}
		}
		name, alt, ok := resolveChoiceTag(t, tag)
		if !ok {
			return nil, 0, &model.CodecError{Kind: model.UnexpectedTag, Path: path, Offset: -1,
				Err: errContent("no CHOICE alternative matches the given tag")}
		}
		inner, n, cerr := decodeValue(append(path, model.PathSegment{Member: name}), alt, data[adv:])
		if cerr != nil {
			return nil, adv + n, cerr
		}
		return &model.Value{Kind: model.KindChoice, Selector: name, Choice: inner}, adv + n, nil

	case model.KindSequence, model.KindSet:
		return decodeStructured(path, t, data)

	case model.KindSequenceOf, model.KindSetOf:
		return decodeCollection(path, t, data)

	case model.KindAny:
		n, consumed, err := readLength(data)
		if err != nil {
			return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: err}
		}
		if len(data) < consumed+n {
			return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: errContent("truncated ANY content")}
		}
		return &model.Value{Kind: model.KindAny, Bytes: append([]byte(nil), data[consumed:consumed+n]...)}, consumed + n, nil

	default:
		v, n, err := decodePrimitive(t, data)
		if err != nil {
			return nil, 0, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: err}
		}
		if t.Constraint != nil && !t.Constraint.Admits(v) {
			return nil, n, &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: -1,
				Err: &model.ConstraintError{Value: v, Root: t.Constraint}}
		}
		return v, n, nil
	}
}

// resolveChoiceTag mirrors ber/decode.go's helper of the same name: it
// recurses into untagged nested CHOICE alternatives, which contribute no
// identifier octets of their own.
func resolveChoiceTag(t *model.Type, tag asn1.Tag) (string, *model.Type, bool) {
	for i, m := range t.Members {
		mt := t.MemberType(i)
		if mt.Kind == model.KindChoice && m.Tag == 0 {
			if name, inner, ok := resolveChoiceTag(mt, tag); ok {
				return name, inner, ok
			}
			continue
		}
		if m.Tag == tag {
			return m.Name, mt, true
		}
	}
	return "", nil, false
}

func decodeStructured(path []model.PathSegment, t *model.Type, data []byte) (*model.Value, int, *model.CodecError) {
	optIdx := t.OptionalOrDefaultRootMembers()
	nBits := len(optIdx)
	if t.Extensible {
		nBits++
	}
	pos := 0
	present := make([]bool, len(optIdx))
	if nBits > 0 {
		nBytes := (nBits + 7) / 8
		if len(data) < nBytes {
			return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: errContent("truncated preamble")}
		}
		bitmap := data[:nBytes]
		pos = nBytes
		bit := 0
		if t.Extensible {
			bit++ // extension-additions bit: ignored, no extension additions supported
		}
		for i := range present {
			present[i] = bitmap[bit/8]&(1<<uint(7-bit%8)) != 0
			bit++
		}
	}

	v := &model.Value{Kind: t.Kind}
	for i, m := range t.Members {
		if m.ExtensionGroup != 0 {
			continue
		}
		optPos := indexOf(optIdx, i)
		if optPos >= 0 && !present[optPos] {
			continue
		}
		if pos > len(data) {
			return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: errContent("truncated SEQUENCE content")}
		}
		fv, n, cerr := decodeValue(append(path, model.PathSegment{Member: m.Name}), t.MemberType(i), data[pos:])
		if cerr != nil {
			return nil, 0, cerr
		}
		pos += n
		v.Sequence = append(v.Sequence, model.Field{Name: m.Name, Value: fv})
	}
	return v, pos, nil
}

func decodeCollection(path []model.PathSegment, t *model.Type, data []byte) (*model.Value, int, *model.CodecError) {
	elemType := t.Elem()
	v := &model.Value{Kind: t.Kind}

	if count, fixed := fixedElementCount(t); fixed {
		pos := 0
		for i := 0; i < count; i++ {
			ev, n, cerr := decodeValue(append(path, model.PathSegment{Index: i}), elemType, data[pos:])
			if cerr != nil {
				return nil, 0, cerr
			}
			v.List = append(v.List, ev)
			pos += n
		}
		return v, pos, nil
	}

	n, consumed, err := readLength(data)
	if err != nil {
		return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: err}
	}
	if len(data) < consumed+n {
		return nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: -1, Err: errContent("truncated SEQUENCE OF content")}
	}
	content := data[consumed : consumed+n]
	pos := 0
	for i := 0; pos < len(content); i++ {
		ev, adv, cerr := decodeValue(append(path, model.PathSegment{Index: i}), elemType, content[pos:])
		if cerr != nil {
			return nil, 0, cerr
		}
		v.List = append(v.List, ev)
		pos += adv
	}
	return v, consumed + n, nil
}

func decodePrimitive(t *model.Type, data []byte) (*model.Value, int, error) {
	switch t.Kind {
	case model.KindBoolean:
		b, n, err := decodeBoolean(data)
		if err != nil {
			return nil, 0, err
		}
		return model.Bool(b), n, nil
	case model.KindInteger:
		i, n, err := decodeInteger(t, data)
		if err != nil {
			return nil, 0, err
		}
		return model.BigInt(i), n, nil
	case model.KindEnumerated:
		i, n, err := decodeEnumerated(t, data)
		if err != nil {
			return nil, 0, err
		}
		return &model.Value{Kind: model.KindEnumerated, Int: i}, n, nil
	case model.KindNull:
		return &model.Value{Kind: model.KindNull}, 0, nil
	case model.KindReal:
		r, n, err := decodeReal(data)
		if err != nil {
			return nil, 0, err
		}
		return &model.Value{Kind: model.KindReal, Real: r}, n, nil
	case model.KindBitString:
		bs, n, err := decodeBitString(t, data)
		if err != nil {
			return nil, 0, err
		}
		return model.BitStr(bs), n, nil
	case model.KindOctetString:
		b, n, err := decodeOctetString(t, data)
		if err != nil {
			return nil, 0, err
		}
		return model.OctetString(b), n, nil
	case model.KindObjectIdentifier:
		arcs, n, err := decodeOIDArcs(data, false)
		if err != nil {
			return nil, 0, err
		}
		return model.OID(arcs...), n, nil
	case model.KindRelativeOID:
		arcs, n, err := decodeOIDArcs(data, true)
		if err != nil {
			return nil, 0, err
		}
		return model.RelOID(arcs...), n, nil
	default:
		if t.Kind.IsString() {
			b, n, err := decodeOctetString(t, data)
			if err != nil {
				return nil, 0, err
			}
			return model.StrVal(t.Kind, string(b)), n, nil
		}
		return nil, 0, errContent("unsupported kind for OER decoding")
	}
}
