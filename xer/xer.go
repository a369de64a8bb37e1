// Package xer implements the XML Encoding Rules (Rec. ITU-T X.693)
// against [asn1tool.dev/asn1/model], built on the standard library's
// encoding/xml token stream (xml.Encoder/xml.Decoder) rather than its
// reflection-based, Go-struct-tag Marshal/Unmarshal, since there is no
// static Go type per ASN.1 type to hang struct tags off of — the same
// reasoning [asn1tool.dev/asn1/jer] applies to encoding/json. XER is an
// external collaborator (spec §1): it is not exercised by the resolver/
// codec invariant tests the core suites cover.
package xer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"asn1tool.dev/asn1/model"
)

// Encode renders v as t in XER, wrapped in a single root element named
// after t.Name (or "value" for an anonymous top-level type).
func Encode(t *model.Type, v *model.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	name := t.Name
	if name == "" {
		name = "value"
	}
	if err := encodeElement(enc, xml.Name{Local: name}, t, v); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses data as t in XER and reports how many leading bytes it
// consumed (always len(data): one XML document is one top-level value).
func Decode(t *model.Type, data []byte) (*model.Value, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	tok, err := nextStart(dec)
	if err != nil {
		return nil, 0, err
	}
	v, err := decodeElement(dec, tok, t)
	if err != nil {
		return nil, 0, err
	}
	return v, len(data), nil
}

func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

func encodeElement(enc *xml.Encoder, name xml.Name, t *model.Type, v *model.Value) error {
	if t.Kind == model.KindTagged {
		return encodeElement(enc, name, t.Wrapped(), v)
	}
	start := xml.StartElement{Name: name}

	switch t.Kind {
	case model.KindSequence, model.KindSet:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, f := range v.Sequence {
			_, idx, ok := t.Member(f.Name)
			if !ok {
				return fmt.Errorf("xer: unknown member %q", f.Name)
			}
			if err := encodeElement(enc, xml.Name{Local: f.Name}, t.MemberType(idx), f.Value); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	case model.KindSequenceOf, model.KindSetOf:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		elemType := t.Elem()
		elemName := xml.Name{Local: "item"}
		for _, e := range v.List {
			if err := encodeElement(enc, elemName, elemType, e); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	case model.KindChoice:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		_, idx, ok := t.Member(v.Selector)
		if !ok {
			return fmt.Errorf("xer: unknown CHOICE alternative %q", v.Selector)
		}
		if err := encodeElement(enc, xml.Name{Local: v.Selector}, t.MemberType(idx), v.Choice); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())

	case model.KindAny:
		return fmt.Errorf("xer: ANY is not supported")

	default:
		text, err := leafText(t, v)
		if err != nil {
			return err
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if text != "" {
			if err := enc.EncodeToken(xml.CharData(text)); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	}
}

func leafText(t *model.Type, v *model.Value) (string, error) {
	switch t.Kind {
	case model.KindBoolean:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case model.KindInteger:
		return v.Int.String(), nil
	case model.KindEnumerated:
		for _, nn := range t.NamedNumbers {
			if nn.Value == v.Int.Int64() {
				return nn.Name, nil
			}
		}
		return v.Int.String(), nil
	case model.KindNull:
		return "", nil
	case model.KindReal:
		return fmt.Sprintf("%v", realToFloatXER(v.Real)), nil
	case model.KindOctetString:
		return fmt.Sprintf("%X", v.Bytes), nil
	case model.KindBitString:
		return v.Bits.String(), nil
	case model.KindObjectIdentifier, model.KindRelativeOID:
		return oidStringXER(v.OIDArcs), nil
	default:
		if v.IsString() {
			return v.Str, nil
		}
		return "", fmt.Errorf("xer: unsupported kind %v", t.Kind)
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement, t *model.Type) (*model.Value, error) {
	if t.Kind == model.KindTagged {
		return decodeElement(dec, start, t.Wrapped())
	}
	switch t.Kind {
	case model.KindSequence, model.KindSet:
		var fields []model.Field
		for {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			switch tt := tok.(type) {
			case xml.StartElement:
				_, idx, ok := t.Member(tt.Name.Local)
				if !ok {
					if err := dec.Skip(); err != nil {
						return nil, err
					}
					continue
				}
				fv, err := decodeElement(dec, tt, t.MemberType(idx))
				if err != nil {
					return nil, err
				}
				fields = append(fields, model.Field{Name: tt.Name.Local, Value: fv})
			case xml.EndElement:
				return &model.Value{Kind: t.Kind, Sequence: fields}, nil
			}
		}

	case model.KindSequenceOf, model.KindSetOf:
		elemType := t.Elem()
		out := &model.Value{Kind: t.Kind}
		for {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			switch tt := tok.(type) {
			case xml.StartElement:
				ev, err := decodeElement(dec, tt, elemType)
				if err != nil {
					return nil, err
				}
				out.List = append(out.List, ev)
			case xml.EndElement:
				return out, nil
			}
		}

	case model.KindChoice:
		inner, err := nextStart(dec)
		if err != nil {
			return nil, err
		}
		_, idx, ok := t.Member(inner.Name.Local)
		if !ok {
			return nil, fmt.Errorf("xer: unknown CHOICE alternative %q", inner.Name.Local)
		}
		iv, err := decodeElement(dec, inner, t.MemberType(idx))
		if err != nil {
			return nil, err
		}
		if _, err := nextEnd(dec); err != nil {
			return nil, err
		}
		return &model.Value{Kind: model.KindChoice, Selector: inner.Name.Local, Choice: iv}, nil

	default:
		text, err := charData(dec)
		if err != nil {
			return nil, err
		}
		return leafValue(t, text)
	}
}

func charData(dec *xml.Decoder) (string, error) {
	var text string
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			text += string(tt)
		case xml.EndElement:
			return text, nil
		}
	}
}

func nextEnd(dec *xml.Decoder) (xml.EndElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return xml.EndElement{}, nil
			}
			return xml.EndElement{}, err
		}
		if ee, ok := tok.(xml.EndElement); ok {
			return ee, nil
		}
	}
}

func leafValue(t *model.Type, text string) (*model.Value, error) {
	switch t.Kind {
	case model.KindBoolean:
		return model.Bool(text == "true"), nil
	case model.KindInteger:
		i, ok := parseBigInt(text)
		if !ok {
			return nil, fmt.Errorf("xer: invalid INTEGER %q", text)
		}
		return model.BigInt(i), nil
	case model.KindEnumerated:
		for _, nn := range t.NamedNumbers {
			if nn.Name == text {
				return &model.Value{Kind: model.KindEnumerated, Int: bigFromInt64XER(nn.Value)}, nil
			}
		}
		i, ok := parseBigInt(text)
		if !ok {
			return nil, fmt.Errorf("xer: unknown ENUMERATED name %q", text)
		}
		return &model.Value{Kind: model.KindEnumerated, Int: i}, nil
	case model.KindNull:
		return model.Null(), nil
	case model.KindOctetString:
		b, err := hexDecodeXER(text)
		if err != nil {
			return nil, err
		}
		return model.OctetString(b), nil
	case model.KindObjectIdentifier:
		arcs, err := parseOIDXER(text)
		if err != nil {
			return nil, err
		}
		return model.OID(arcs...), nil
	case model.KindRelativeOID:
		arcs, err := parseOIDXER(text)
		if err != nil {
			return nil, err
		}
		return model.RelOID(arcs...), nil
	default:
		if t.Kind.IsString() {
			return model.StrVal(t.Kind, text), nil
		}
		return nil, fmt.Errorf("xer: unsupported kind %v", t.Kind)
	}
}
