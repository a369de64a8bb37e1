// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"sort"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
)

// Encode renders v as t under rules. It is the [asn1tool.dev/asn1/schema]
// facade's entry point into this codec.
func Encode(t *model.Type, v *model.Value, rules Rules) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, nil, t, v, rules); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, path []model.PathSegment, t *model.Type, v *model.Value, rules Rules) *model.CodecError {
	if v == nil {
		return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1, Err: errContent("missing value")}
	}

	switch t.Kind {
	case model.KindTagged:
		// Implicit tagging never produces a KindTagged node: the resolver
		// folds the tag directly into the wrapped Type (see [model.Type]).
		// KindTagged only ever wraps an EXPLICIT outer tag.
		var inner bytes.Buffer
		if err := encodeValue(&inner, path, t.Wrapped(), v, rules); err != nil {
			return err
		}
		return writeTLV(buf, t.Tag, true, inner.Bytes())

	case model.KindChoice:
		_, idx, ok := t.Member(v.Selector)
		if !ok {
			return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1,
				Err: errContent("unknown CHOICE alternative " + v.Selector)}
		}
		return encodeValue(buf, append(path, model.PathSegment{Member: v.Selector}), t.MemberType(idx), v.Choice, rules)

	case model.KindSequence, model.KindSet:
		return encodeStructured(buf, path, t, v, rules)

	case model.KindSequenceOf, model.KindSetOf:
		return encodeCollection(buf, path, t, v, rules)

	case model.KindAny:
		buf.Write(v.Bytes)
		return nil

	default:
		if t.Constraint != nil && !t.Constraint.Admits(v) {
			return &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: -1,
				Err: &model.ConstraintError{Value: v, Root: t.Constraint}}
		}
		content, err := encodePrimitiveContent(t, v)
		if err != nil {
			return &model.CodecError{Kind: model.ConstraintViolation, Path: path, Offset: -1, Err: err}
		}
		if rules == CER && isStringLike(t.Kind) && len(content) > cerChunkSize {
			return writeChunkedCER(buf, t.Tag, content)
		}
		return writeTLV(buf, t.Tag, false, content)
	}
}

func encodeStructured(buf *bytes.Buffer, path []model.PathSegment, t *model.Type, v *model.Value, rules Rules) *model.CodecError {
	type encoded struct {
		tag   asn1.Tag
		bytes []byte
	}
	var parts []encoded
	for i, m := range t.Members {
		fv, present := v.Field(m.Name)
		if !present {
			if m.Optional || m.Default != nil {
				continue
			}
			return &model.CodecError{Kind: model.ShapeMismatch, Path: path, Offset: -1,
				Err: errContent("missing required member " + m.Name)}
		}
		if m.Default != nil && rules != Basic && fv.Equal(m.Default) {
			continue // DER/CER omit DEFAULT members that equal their default
		}
		var mb bytes.Buffer
		if err := encodeValue(&mb, append(path, model.PathSegment{Member: m.Name}), t.MemberType(i), fv, rules); err != nil {
			return err
		}
		parts = append(parts, encoded{tag: m.Tag, bytes: mb.Bytes()})
	}

	if t.Kind == model.KindSet && rules != Basic {
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].tag < parts[j].tag })
	}

	var content bytes.Buffer
	for _, p := range parts {
		content.Write(p.bytes)
	}
	return writeTLV(buf, t.Tag, true, content.Bytes())
}

func encodeCollection(buf *bytes.Buffer, path []model.PathSegment, t *model.Type, v *model.Value, rules Rules) *model.CodecError {
	elemType := t.Elem()
	encodedElems := make([][]byte, len(v.List))
	for i, e := range v.List {
		var eb bytes.Buffer
		if err := encodeValue(&eb, append(path, model.PathSegment{Index: i}), elemType, e, rules); err != nil {
			return err
		}
		encodedElems[i] = eb.Bytes()
	}
	if t.Kind == model.KindSetOf && rules != Basic {
		sort.Slice(encodedElems, func(i, j int) bool { return bytes.Compare(encodedElems[i], encodedElems[j]) < 0 })
	}
	var content bytes.Buffer
	for _, e := range encodedElems {
		content.Write(e)
	}
	return writeTLV(buf, t.Tag, true, content.Bytes())
}

func encodePrimitiveContent(t *model.Type, v *model.Value) ([]byte, error) {
	switch t.Kind {
	case model.KindBoolean:
		return encodeBoolean(v.Bool), nil
	case model.KindInteger, model.KindEnumerated:
		return encodeInteger(v.Int), nil
	case model.KindNull:
		return nil, nil
	case model.KindReal:
		if v.Real.Base != 0 && v.Real.Base != 2 {
			return nil, errContent("only base 2 REAL values are supported")
		}
		return encodeReal(v.Real), nil
	case model.KindBitString:
		return encodeBitString(v.Bits), nil
	case model.KindOctetString:
		return v.Bytes, nil
	case model.KindObjectIdentifier:
		return encodeOID(v.OIDArcs, false)
	case model.KindRelativeOID:
		return encodeOID(v.OIDArcs, true)
	default:
		if v.IsString() {
			return []byte(v.Str), nil
		}
		return nil, errContent("unsupported kind for BER encoding")
	}
}

func isStringLike(k model.Kind) bool {
	switch k {
	case model.KindOctetString, model.KindUTF8String, model.KindIA5String, model.KindPrintableString,
		model.KindNumericString, model.KindVisibleString, model.KindGeneralString, model.KindUniversalString,
		model.KindBMPString, model.KindTeletexString, model.KindGraphicString, model.KindBitString:
		return true
	default:
		return false
	}
}

func writeTLV(buf *bytes.Buffer, tag asn1.Tag, constructed bool, content []byte) *model.CodecError {
	h := Header{Tag: tag, Length: len(content), Constructed: constructed}
	if _, err := h.writeTo(buf); err != nil {
		return &model.CodecError{Kind: model.Unsupported, Offset: -1, Err: err}
	}
	buf.Write(content)
	return nil
}

// writeChunkedCER renders content as a CER constructed, indefinite-length
// string (X.690 §9.1/§10.1): successive primitive segments of at most
// cerChunkSize octets under the same tag, terminated by end-of-contents.
func writeChunkedCER(buf *bytes.Buffer, tag asn1.Tag, content []byte) *model.CodecError {
	h := Header{Tag: tag, Length: LengthIndefinite, Constructed: true}
	if _, err := h.writeTo(buf); err != nil {
		return &model.CodecError{Kind: model.Unsupported, Offset: -1, Err: err}
	}
	for len(content) > 0 {
		n := cerChunkSize
		if n > len(content) {
			n = len(content)
		}
		if cerr := writeTLV(buf, tag, false, content[:n]); cerr != nil {
			return cerr
		}
		content = content[n:]
	}
	buf.WriteByte(0x00)
	buf.WriteByte(0x00)
	return nil
}
