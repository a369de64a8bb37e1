// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
)

// Decode parses data as t under rules and reports how many leading bytes of
// data it consumed. It is the [asn1tool.dev/asn1/schema] facade's entry
// point into this codec for decoding.
func Decode(t *model.Type, data []byte, rules Rules) (*model.Value, int, error) {
	v, n, err := decodeValue(nil, t, data, rules)
	if err != nil {
		return nil, n, err
	}
	return v, n, nil
}

// splitTLV reads one data value encoding from the front of data, resolving
// both definite and constructed indefinite length forms (X.690 §8.1.3). It
// never interprets the content octets; h.Length is left at
// [LengthIndefinite] when the source used that form, so callers can reject
// it under DER.
func splitTLV(data []byte) (h Header, content []byte, total int, cerr *model.CodecError) {
	r := bytes.NewReader(data)
	hdr, err := decodeHeader(r)
	if err != nil {
		return Header{}, nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Offset: -1, Err: err}
	}
	headerLen := len(data) - r.Len()

	if hdr.Length != LengthIndefinite {
		end := headerLen + hdr.Length
		if hdr.Length < 0 || end > len(data) {
			return Header{}, nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Offset: int64(len(data)), Err: errContent("truncated content")}
		}
		return hdr, data[headerLen:end], end, nil
	}

	if !hdr.Constructed {
		return Header{}, nil, 0, &model.CodecError{Kind: model.Unsupported, Offset: int64(headerLen), Err: errContent("indefinite length on a primitive encoding")}
	}
	pos := headerLen
	for {
		if pos+1 >= len(data) {
			return Header{}, nil, 0, &model.CodecError{Kind: model.OutOfBuffer, Offset: int64(pos), Err: errContent("truncated indefinite-length content")}
		}
		if data[pos] == 0x00 && data[pos+1] == 0x00 {
			return hdr, data[headerLen:pos], pos + 2, nil
		}
		_, _, childTotal, cerr := splitTLV(data[pos:])
		if cerr != nil {
			return Header{}, nil, 0, cerr
		}
		pos += childTotal
	}
}

func decodeValue(path []model.PathSegment, t *model.Type, data []byte, rules Rules) (*model.Value, int, *model.CodecError) {
	switch t.Kind {
	case model.KindChoice:
		h, _, _, cerr := splitTLV(data)
		if cerr != nil {
			return nil, 0, withPath(cerr, path)
		}
		name, alt, ok := resolveChoiceTag(t, h.Tag)
		if !ok {
			return nil, 0, &model.CodecError{Kind: model.UnexpectedTag, Path: path, Offset: -1, Err: errContent("no CHOICE alternative matches the given tag")}
		}
		inner, n, cerr := decodeValue(append(path, model.PathSegment{Member: name}), alt, data, rules)
		if cerr != nil {
			return nil, n, cerr
		}
		return &model.Value{Kind: model.KindChoice, Selector: name, Choice: inner}, n, nil

	case model.KindTagged:
		// Implicit tagging never produces a KindTagged node (see Type.Tag
		// doc); KindTagged only ever wraps an EXPLICIT outer tag.
		h, content, total, cerr := splitTLV(data)
		if cerr != nil {
			return nil, 0, withPath(cerr, path)
		}
		if rules == DER && h.Length == LengthIndefinite {
			return nil, total, &model.CodecError{Kind: model.IndefiniteInDER, Path: path, Offset: -1}
		}
		if h.Tag != t.Tag {
			return nil, 0, &model.CodecError{Kind: model.UnexpectedTag, Path: path, Offset: -1}
		}
		if !h.Constructed {
			return nil, 0, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("explicit tag must be constructed")}
		}
		inner, n, cerr := decodeValue(path, t.Wrapped(), content, rules)
		if cerr != nil {
			return nil, total, cerr
		}
		if n != len(content) {
			return nil, total, &model.CodecError{Kind: model.TrailingData, Path: path, Offset: int64(n)}
		}
		return inner, total, nil

	case model.KindSequence, model.KindSet:
		h, content, total, cerr := splitTLV(data)
		if cerr != nil {
			return nil, 0, withPath(cerr, path)
		}
		if rules == DER && h.Length == LengthIndefinite {
			return nil, total, &model.CodecError{Kind: model.IndefiniteInDER, Path: path, Offset: -1}
		}
		if h.Tag != t.Tag || !h.Constructed {
			return nil, 0, &model.CodecError{Kind: model.UnexpectedTag, Path: path, Offset: -1}
		}
		v, cerr := parseMembers(path, t, content, rules)
		return v, total, cerr

	case model.KindSequenceOf, model.KindSetOf:
		h, content, total, cerr := splitTLV(data)
		if cerr != nil {
			return nil, 0, withPath(cerr, path)
		}
		if rules == DER && h.Length == LengthIndefinite {
			return nil, total, &model.CodecError{Kind: model.IndefiniteInDER, Path: path, Offset: -1}
		}
		if h.Tag != t.Tag || !h.Constructed {
			return nil, 0, &model.CodecError{Kind: model.UnexpectedTag, Path: path, Offset: -1}
		}
		v, cerr := parseElements(path, t, content, rules)
		return v, total, cerr

	case model.KindAny:
		_, _, total, cerr := splitTLV(data)
		if cerr != nil {
			return nil, 0, withPath(cerr, path)
		}
		return &model.Value{Kind: model.KindAny, Bytes: append([]byte(nil), data[:total]...)}, total, nil

	default:
		h, content, total, cerr := splitTLV(data)
		if cerr != nil {
			return nil, 0, withPath(cerr, path)
		}
		if rules == DER && h.Length == LengthIndefinite {
			return nil, total, &model.CodecError{Kind: model.IndefiniteInDER, Path: path, Offset: -1}
		}
		if h.Tag != t.Tag {
			return nil, 0, &model.CodecError{Kind: model.UnexpectedTag, Path: path, Offset: -1}
		}
		if h.Constructed && isStringLike(t.Kind) {
			content, cerr = flattenConstructed(content)
			if cerr != nil {
				return nil, total, withPath(cerr, path)
			}
		} else if h.Constructed {
			return nil, total, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("unexpected constructed encoding")}
		}
		v, err := parsePrimitiveValue(t, content)
		if err != nil {
			return nil, total, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: err}
		}
		if t.Constraint != nil && !t.Constraint.Admits(v) {
			return nil, total, &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: -1,
				Err: &model.ConstraintError{Value: v, Root: t.Constraint}}
		}
		return v, total, nil
	}
}

// flattenConstructed concatenates the content octets of a constructed
// string/BIT STRING encoding's nested primitive (or further constructed)
// segments (X.690 §8.21.3 / §8.6.3). Segment contents are concatenated
// verbatim: no per-segment unused-bits octet is removed, so for a BIT
// STRING the first octet of the first segment is read as the unused-bit
// count of the whole string. This matches writeChunkedCER, which splits an
// already-encoded BIT STRING content (one leading unused-bits octet) into
// segments.
func flattenConstructed(content []byte) ([]byte, *model.CodecError) {
	var out []byte
	pos := 0
	for pos < len(content) {
		h, c, total, cerr := splitTLV(content[pos:])
		if cerr != nil {
			return nil, cerr
		}
		if h.Constructed {
			flat, cerr := flattenConstructed(c)
			if cerr != nil {
				return nil, cerr
			}
			out = append(out, flat...)
		} else {
			out = append(out, c...)
		}
		pos += total
	}
	return out, nil
}

// resolveChoiceTag finds the alternative of t (a CHOICE) whose wire tag is
// tag, recursing into untagged nested CHOICE alternatives (an alternative
// whose own type is itself a CHOICE contributes no tag of its own; its
// alternatives' tags apply instead).
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

func parseMembers(path []model.PathSegment, t *model.Type, content []byte, rules Rules) (*model.Value, *model.CodecError) {
	if t.Kind == model.KindSet {
		return parseSetMembers(path, t, content, rules)
	}

	v := &model.Value{Kind: t.Kind}
	pos := 0
	for i, m := range t.Members {
		if pos >= len(content) {
			if m.Optional || m.Default != nil {
				continue
			}
			return nil, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("missing required member " + m.Name)}
		}
		fv, n, cerr := decodeValue(append(path, model.PathSegment{Member: m.Name}), t.MemberType(i), content[pos:], rules)
		if cerr != nil {
			if cerr.Kind == model.UnexpectedTag && (m.Optional || m.Default != nil) {
				continue
			}
			return nil, cerr
		}
		pos += n
		v.Sequence = append(v.Sequence, model.Field{Name: m.Name, Value: fv})
	}
	if pos != len(content) {
		return nil, &model.CodecError{Kind: model.TrailingData, Path: path, Offset: int64(pos)}
	}
	return v, nil
}

func parseSetMembers(path []model.PathSegment, t *model.Type, content []byte, rules Rules) (*model.Value, *model.CodecError) {
	v := &model.Value{Kind: model.KindSet}
	remaining := make([]int, len(t.Members))
	for i := range t.Members {
		remaining[i] = i
	}
	pos := 0
	for pos < len(content) {
		matched := false
		for ri, mi := range remaining {
			m := t.Members[mi]
			fv, n, cerr := decodeValue(append(path, model.PathSegment{Member: m.Name}), t.MemberType(mi), content[pos:], rules)
			if cerr != nil {
				continue
			}
			pos += n
			v.Sequence = append(v.Sequence, model.Field{Name: m.Name, Value: fv})
			remaining = append(remaining[:ri], remaining[ri+1:]...)
			matched = true
			break
		}
		if !matched {
			return nil, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("no SET member matches the next encoded tag")}
		}
	}
	for _, mi := range remaining {
		m := t.Members[mi]
		if !m.Optional && m.Default == nil {
			return nil, &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("missing required member " + m.Name)}
		}
	}
	return v, nil
}

func parseElements(path []model.PathSegment, t *model.Type, content []byte, rules Rules) (*model.Value, *model.CodecError) {
	elemType := t.Elem()
	v := &model.Value{Kind: t.Kind}
	pos := 0
	for i := 0; pos < len(content); i++ {
		ev, n, cerr := decodeValue(append(path, model.PathSegment{Index: i}), elemType, content[pos:], rules)
		if cerr != nil {
			return nil, cerr
		}
		v.List = append(v.List, ev)
		pos += n
	}
	return v, nil
}

func parsePrimitiveValue(t *model.Type, content []byte) (*model.Value, error) {
	switch t.Kind {
	case model.KindBoolean:
		b, err := decodeBoolean(content)
		if err != nil {
			return nil, err
		}
		return model.Bool(b), nil
	case model.KindInteger:
		i, err := decodeInteger(content)
		if err != nil {
			return nil, err
		}
		return model.BigInt(i), nil
	case model.KindEnumerated:
		i, err := decodeInteger(content)
		if err != nil {
			return nil, err
		}
		return &model.Value{Kind: model.KindEnumerated, Int: i}, nil
	case model.KindNull:
		if len(content) != 0 {
			return nil, errContent("NULL must have empty content")
		}
		return &model.Value{Kind: model.KindNull}, nil
	case model.KindReal:
		r, err := decodeReal(content)
		if err != nil {
			return nil, err
		}
		return &model.Value{Kind: model.KindReal, Real: r}, nil
	case model.KindBitString:
		bs, err := decodeBitString(content)
		if err != nil {
			return nil, err
		}
		return model.BitStr(bs), nil
	case model.KindOctetString:
		return model.OctetString(append([]byte(nil), content...)), nil
	case model.KindObjectIdentifier:
		arcs, err := decodeOID(content, false)
		if err != nil {
			return nil, err
		}
		return model.OID(arcs...), nil
	case model.KindRelativeOID:
		arcs, err := decodeOID(content, true)
		if err != nil {
			return nil, err
		}
		return model.RelOID(arcs...), nil
	default:
		if t.Kind.IsString() {
			return model.StrVal(t.Kind, string(content)), nil
		}
		return nil, errContent("unsupported kind for BER decoding")
	}
}

// withPath returns a copy of cerr with its Path set to path. Used for
// errors that originate below the Value Marshaller's path tracking (a
// truncated header, a bad length) and so arrive with no Path of their own.
func withPath(cerr *model.CodecError, path []model.PathSegment) *model.CodecError {
	out := *cerr
	out.Path = path
	return &out
}
