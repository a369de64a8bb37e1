package uper

import (
	"math/big"

	"asn1tool.dev/asn1/internal/bitio"
	"asn1tool.dev/asn1/model"
)

// encodeValue writes v as t per X.691, dispatching on t.Kind exactly like
// ber/encode.go and oer/encode.go but onto a bit cursor instead of a byte
// buffer — PER/UPER's member, alternative and length encodings routinely
// end mid-octet.
func encodeValue(w *bitio.Writer, aligned bool, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	if v == nil {
		return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: int64(w.BitLen()), Err: errContent("missing value")}
	}

	switch t.Kind {
	case model.KindTagged:
		return encodeValue(w, aligned, path, t.Wrapped(), v)

	case model.KindChoice:
		return encodeChoice(w, aligned, path, t, v)

	case model.KindSequence, model.KindSet:
		return encodeStructured(w, aligned, path, t, v)

	case model.KindSequenceOf, model.KindSetOf:
		return encodeCollection(w, aligned, path, t, v)

	case model.KindAny:
		if aligned {
			w.Align()
		}
		writeCountedBytes(w, aligned, nil, v.Bytes)
		return nil

	default:
		if t.Constraint != nil && !t.Constraint.Admits(v) {
			return &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: int64(w.BitLen()),
				Err: &model.ConstraintError{Value: v, Root: t.Constraint}}
		}
		if err := encodePrimitive(w, aligned, t, v); err != nil {
			return &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: int64(w.BitLen()), Err: err}
		}
		return nil
	}
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

func rootMemberIndices(t *model.Type) []int {
	var idx []int
	for i, m := range t.Members {
		if m.ExtensionGroup == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func extensionGroups(t *model.Type) []int {
	seen := map[int]bool{}
	var groups []int
	for _, m := range t.Members {
		if m.ExtensionGroup != 0 && !seen[m.ExtensionGroup] {
			seen[m.ExtensionGroup] = true
			groups = append(groups, m.ExtensionGroup)
		}
	}
	return groups
}

// encodeChoice writes the root alternative's index as a constrained whole
// number over the root alternatives (X.691 §23), or, for an extensible
// CHOICE selecting an extension addition, an extension bit followed by
// its normally-small-number index among the extension additions and its
// value wrapped as an open type (X.691 §23.8).
func encodeChoice(w *bitio.Writer, aligned bool, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	_, idx, ok := t.Member(v.Selector)
	if !ok {
		return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: int64(w.BitLen()),
			Err: errContent("unknown CHOICE alternative " + v.Selector)}
	}
	m := t.Members[idx]
	memberPath := append(path, model.PathSegment{Member: v.Selector})

	if t.Extensible {
		w.WriteBit(m.ExtensionGroup != 0)
	}
	if m.ExtensionGroup == 0 {
		root := rootMemberIndices(t)
		pos := indexOf(root, idx)
		writeConstrainedWholeNumber(w, aligned, big.NewInt(0), big.NewInt(int64(len(root)-1)), big.NewInt(int64(pos)))
		return encodeValue(w, aligned, memberPath, t.MemberType(idx), v.Choice)
	}
	ext := extensionMemberIndices(t)
	pos := indexOf(ext, idx)
	writeNormallySmallLength(w, aligned, pos)
	return encodeOpenType(w, aligned, memberPath, t.MemberType(idx), v.Choice)
}

func extensionMemberIndices(t *model.Type) []int {
	var idx []int
	for i, m := range t.Members {
		if m.ExtensionGroup != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// encodeOpenType encodes v as t in its own bit-cursor, octet-aligns the
// result, and writes it length-determinant-prefixed into w (X.691 §11.2's
// "open type" rule — used for CHOICE extension alternatives and SEQUENCE
// extension additions, both forward-compatible-skippable by an older
// decoder that doesn't know t).
func encodeOpenType(w *bitio.Writer, aligned bool, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	sub := bitio.NewWriter()
	if cerr := encodeValue(sub, aligned, path, t, v); cerr != nil {
		return cerr
	}
	sub.Align()
	if aligned {
		w.Align()
	}
	writeCountedBytes(w, aligned, nil, sub.Bytes())
	return nil
}

// encodeStructured writes a SEQUENCE/SET's extension bit (if extensible),
// its optional/default bitmap, then the present root members in
// declaration order, and finally — if the extension bit was set — the
// extension-addition-group presence bitmap and each present group's open
// type content (X.691 §18).
func encodeStructured(w *bitio.Writer, aligned bool, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	groups := extensionGroups(t)
	extPresent := make([]bool, len(groups))
	hasExt := false
	if t.Extensible {
		for gi, g := range groups {
			for _, m := range t.Members {
				if m.ExtensionGroup == g {
					if _, ok := v.Field(m.Name); ok {
						extPresent[gi] = true
						hasExt = true
					}
				}
			}
		}
		w.WriteBit(hasExt)
	}

	optIdx := t.OptionalOrDefaultRootMembers()
	present := make([]bool, len(optIdx))
	for i, mi := range optIdx {
		m := t.Members[mi]
		fv, ok := v.Field(m.Name)
		if ok && m.Default != nil && fv.Equal(m.Default) {
			ok = false
		}
		present[i] = ok
	}
	for _, p := range present {
		w.WriteBit(p)
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
			return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: int64(w.BitLen()),
				Err: errContent("missing required member " + m.Name)}
		}
		if cerr := encodeValue(w, aligned, append(path, model.PathSegment{Member: m.Name}), t.MemberType(i), fv); cerr != nil {
			return cerr
		}
	}

	if !hasExt {
		return nil
	}
	if aligned {
		w.Align()
	}
	writeNormallySmallLength(w, aligned, len(groups))
	for _, p := range extPresent {
		w.WriteBit(p)
	}
	for gi, g := range groups {
		if !extPresent[gi] {
			continue
		}
		sub := bitio.NewWriter()
		for i, m := range t.Members {
			if m.ExtensionGroup != g {
				continue
			}
			fv, ok := v.Field(m.Name)
			sub.WriteBit(ok)
			if ok {
				if cerr := encodeValue(sub, aligned, append(path, model.PathSegment{Member: m.Name}), t.MemberType(i), fv); cerr != nil {
					return cerr
				}
			}
		}
		sub.Align()
		if aligned {
			w.Align()
		}
		writeCountedBytes(w, aligned, nil, sub.Bytes())
	}
	return nil
}

// encodeCollection writes a SEQUENCE OF/SET OF's element count (per
// writeCount's constrained/general-length-determinant choice) followed by
// that many element encodings (X.691 §19).
func encodeCollection(w *bitio.Writer, aligned bool, path []model.PathSegment, t *model.Type, v *model.Value) *model.CodecError {
	elemType := t.Elem()
	if aligned {
		w.Align()
	}
	var outerErr *model.CodecError
	writeCount(w, aligned, t.Constraint, len(v.List), func(start, size int) {
		if outerErr != nil {
			return
		}
		for i := start; i < start+size; i++ {
			if cerr := encodeValue(w, aligned, append(path, model.PathSegment{Index: i}), elemType, v.List[i]); cerr != nil {
				outerErr = cerr
				return
			}
		}
	})
	return outerErr
}

func encodePrimitive(w *bitio.Writer, aligned bool, t *model.Type, v *model.Value) error {
	switch t.Kind {
	case model.KindBoolean:
		encodeBoolean(w, v.Bool)
		return nil
	case model.KindInteger:
		encodeInteger(w, aligned, t, v.Int)
		return nil
	case model.KindEnumerated:
		return encodeEnumerated(w, aligned, t, v.Int)
	case model.KindNull:
		return nil
	case model.KindReal:
		encodeReal(w, aligned, v.Real)
		return nil
	case model.KindBitString:
		encodeBitString(w, aligned, t, v.Bits)
		return nil
	case model.KindOctetString:
		encodeOctetString(w, aligned, t, v.Bytes)
		return nil
	case model.KindObjectIdentifier:
		if aligned {
			w.Align()
		}
		writeCountedBytes(w, aligned, nil, oidArcs(v.OIDArcs, false))
		return nil
	case model.KindRelativeOID:
		if aligned {
			w.Align()
		}
		writeCountedBytes(w, aligned, nil, oidArcs(v.OIDArcs, true))
		return nil
	default:
		if v.IsString() {
			encodeCharString(w, aligned, t, v.Str)
			return nil
		}
		return errContent("unsupported kind for PER/UPER encoding")
	}
}
