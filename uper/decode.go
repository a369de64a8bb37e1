package uper

import (
	"math/big"

	"asn1tool.dev/asn1/internal/bitio"
	"asn1tool.dev/asn1/model"
)

func decodeValue(r *bitio.Reader, aligned bool, path []model.PathSegment, t *model.Type) (*model.Value, *model.CodecError) {
	switch t.Kind {
	case model.KindTagged:
		return decodeValue(r, aligned, path, t.Wrapped())

	case model.KindChoice:
		return decodeChoice(r, aligned, path, t)

	case model.KindSequence, model.KindSet:
		return decodeStructured(r, aligned, path, t)

	case model.KindSequenceOf, model.KindSetOf:
		return decodeCollection(r, aligned, path, t)

	case model.KindAny:
		if aligned {
			r.Align()
		}
		b, err := readCountedBytes(r, aligned, nil)
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		return &model.Value{Kind: model.KindAny, Bytes: b}, nil

	default:
		v, err := decodePrimitive(r, aligned, t)
		if err != nil {
			return nil, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: int64(r.BitPos()), Err: err}
		}
		return v, nil
	}
}

func wrapErr(path []model.PathSegment, r *bitio.Reader, err error) *model.CodecError {
	if ce, ok := err.(*model.CodecError); ok {
		return ce
	}
	return &model.CodecError{Kind: model.OutOfBuffer, Path: path, Offset: int64(r.BitPos()), Err: err}
}

func decodeChoice(r *bitio.Reader, aligned bool, path []model.PathSegment, t *model.Type) (*model.Value, *model.CodecError) {
	ext := false
	if t.Extensible {
		b, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		ext = b
	}
	if !ext {
		root := rootMemberIndices(t)
		idx, err := readConstrainedWholeNumber(r, aligned, big.NewInt(0), big.NewInt(int64(len(root)-1)))
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		k := int(idx.Int64())
		if k < 0 || k >= len(root) {
			return nil, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: int64(r.BitPos()), Err: errContent("CHOICE root index out of range")}
		}
		mi := root[k]
		name := t.Members[mi].Name
		inner, cerr := decodeValue(r, aligned, append(path, model.PathSegment{Member: name}), t.MemberType(mi))
		if cerr != nil {
			return nil, cerr
		}
		return &model.Value{Kind: model.KindChoice, Selector: name, Choice: inner}, nil
	}
	extIdx, err := readNormallySmallLength(r, aligned)
	if err != nil {
		return nil, wrapErr(path, r, err)
	}
	ext2 := extensionMemberIndices(t)
	if extIdx < 0 || extIdx >= len(ext2) {
		return nil, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: int64(r.BitPos()), Err: errContent("CHOICE extension index unknown to this schema")}
	}
	mi := ext2[extIdx]
	name := t.Members[mi].Name
	inner, cerr := decodeOpenType(r, aligned, append(path, model.PathSegment{Member: name}), t.MemberType(mi))
	if cerr != nil {
		return nil, cerr
	}
	return &model.Value{Kind: model.KindChoice, Selector: name, Choice: inner}, nil
}

func decodeOpenType(r *bitio.Reader, aligned bool, path []model.PathSegment, t *model.Type) (*model.Value, *model.CodecError) {
	if aligned {
		r.Align()
	}
	content, err := readCountedBytes(r, aligned, nil)
	if err != nil {
		return nil, wrapErr(path, r, err)
	}
	sub := bitio.NewReader(content)
	return decodeValue(sub, aligned, path, t)
}

func decodeStructured(r *bitio.Reader, aligned bool, path []model.PathSegment, t *model.Type) (*model.Value, *model.CodecError) {
	groups := extensionGroups(t)
	hasExt := false
	if t.Extensible {
		b, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		hasExt = b
	}

	optIdx := t.OptionalOrDefaultRootMembers()
	present := make([]bool, len(optIdx))
	for i := range present {
		b, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		present[i] = b
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
		fv, cerr := decodeValue(r, aligned, append(path, model.PathSegment{Member: m.Name}), t.MemberType(i))
		if cerr != nil {
			return nil, cerr
		}
		v.Sequence = append(v.Sequence, model.Field{Name: m.Name, Value: fv})
	}

	if !hasExt {
		return v, nil
	}
	if aligned {
		r.Align()
	}
	count, err := readNormallySmallLength(r, aligned)
	if err != nil {
		return nil, wrapErr(path, r, err)
	}
	extPresent := make([]bool, count)
	for i := range extPresent {
		b, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		extPresent[i] = b
	}
	for i, p := range extPresent {
		if !p {
			continue
		}
		if i >= len(groups) {
			// Extension addition group this schema doesn't know about
			// (a newer encoder's version): skip its open type content.
			if _, err := readCountedBytes(r, aligned, nil); err != nil {
				return nil, wrapErr(path, r, err)
			}
			continue
		}
		g := groups[i]
		if aligned {
			r.Align()
		}
		content, err := readCountedBytes(r, aligned, nil)
		if err != nil {
			return nil, wrapErr(path, r, err)
		}
		sub := bitio.NewReader(content)
		for mi, m := range t.Members {
			if m.ExtensionGroup != g {
				continue
			}
			present, err := sub.ReadBit()
			if err != nil {
				return nil, wrapErr(path, sub, err)
			}
			if !present {
				continue
			}
			fv, cerr := decodeValue(sub, aligned, append(path, model.PathSegment{Member: m.Name}), t.MemberType(mi))
			if cerr != nil {
				return nil, cerr
			}
			v.Sequence = append(v.Sequence, model.Field{Name: m.Name, Value: fv})
		}
	}
	return v, nil
}

func decodeCollection(r *bitio.Reader, aligned bool, path []model.PathSegment, t *model.Type) (*model.Value, *model.CodecError) {
	elemType := t.Elem()
	if aligned {
		r.Align()
	}
	v := &model.Value{Kind: t.Kind}
	idx := 0
	var innerErr *model.CodecError
	err := readCount(r, aligned, t.Constraint, func(size int) error {
		for k := 0; k < size; k++ {
			ev, cerr := decodeValue(r, aligned, append(path, model.PathSegment{Index: idx}), elemType)
			if cerr != nil {
				innerErr = cerr
				return cerr
			}
			v.List = append(v.List, ev)
			idx++
		}
		return nil
	})
	if innerErr != nil {
		return nil, innerErr
	}
	if err != nil {
		return nil, wrapErr(path, r, err)
	}
	return v, nil
}

func decodePrimitive(r *bitio.Reader, aligned bool, t *model.Type) (*model.Value, error) {
	switch t.Kind {
	case model.KindBoolean:
		b, err := decodeBoolean(r)
		if err != nil {
			return nil, err
		}
		return model.Bool(b), nil
	case model.KindInteger:
		i, err := decodeInteger(r, aligned, t)
		if err != nil {
			return nil, err
		}
		return model.BigInt(i), nil
	case model.KindEnumerated:
		i, err := decodeEnumerated(r, aligned, t)
		if err != nil {
			return nil, err
		}
		return &model.Value{Kind: model.KindEnumerated, Int: i}, nil
	case model.KindNull:
		return &model.Value{Kind: model.KindNull}, nil
	case model.KindReal:
		rv, err := decodeReal(r, aligned)
		if err != nil {
			return nil, err
		}
		return &model.Value{Kind: model.KindReal, Real: rv}, nil
	case model.KindBitString:
		bs, err := decodeBitString(r, aligned, t)
		if err != nil {
			return nil, err
		}
		return model.BitStr(bs), nil
	case model.KindOctetString:
		b, err := decodeOctetString(r, aligned, t)
		if err != nil {
			return nil, err
		}
		return model.OctetString(b), nil
	case model.KindObjectIdentifier:
		if aligned {
			r.Align()
		}
		b, err := readCountedBytes(r, aligned, nil)
		if err != nil {
			return nil, err
		}
		arcs, err := decodeOIDArcs(b, false)
		if err != nil {
			return nil, err
		}
		return model.OID(arcs...), nil
	case model.KindRelativeOID:
		if aligned {
			r.Align()
		}
		b, err := readCountedBytes(r, aligned, nil)
		if err != nil {
			return nil, err
		}
		arcs, err := decodeOIDArcs(b, true)
		if err != nil {
			return nil, err
		}
		return model.RelOID(arcs...), nil
	default:
		if t.Kind.IsString() {
			s, err := decodeCharString(r, aligned, t)
			if err != nil {
				return nil, err
			}
			return model.StrVal(t.Kind, s), nil
		}
		return nil, errContent("unsupported kind for PER/UPER decoding")
	}
}
