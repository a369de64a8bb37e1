// Package jer implements the JSON Encoding Rules (Rec. ITU-T X.697)
// against [asn1tool.dev/asn1/model], built on the standard library's
// encoding/json the way the core codecs are grounded on ITU-T recs: no
// pack repo wraps a third-party JSON library for a schema-driven dynamic
// tree, so this adapter walks [model.Type]/[model.Value] into a plain
// interface{} tree and hands that to encoding/json directly, rather than
// defining a Go struct per ASN.1 type the way encoding/json's usual
// reflection-based Marshal expects. JER is an external collaborator (spec
// §1): it is not exercised by the resolver/codec invariant tests the core
// suites cover.
package jer

import (
	"encoding/json"
	"fmt"

	"asn1tool.dev/asn1/model"
)

// Encode renders v as t in JER.
func Encode(t *model.Type, v *model.Value) ([]byte, error) {
	node, err := toJSON(t, v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

// Decode parses data as t in JER. JER carries no trailing-byte framing of
// its own (a JSON document is self-delimiting), so the returned count is
// always len(data) on success.
func Decode(t *model.Type, data []byte) (*model.Value, int, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, err
	}
	v, err := fromJSON(t, raw)
	if err != nil {
		return nil, 0, err
	}
	return v, len(data), nil
}

func toJSON(t *model.Type, v *model.Value) (interface{}, error) {
	if t.Kind == model.KindTagged {
		return toJSON(t.Wrapped(), v)
	}
	switch t.Kind {
	case model.KindBoolean:
		return v.Bool, nil
	case model.KindInteger:
		if v.Int.IsInt64() {
			return v.Int.Int64(), nil
		}
		return v.Int.String(), nil
	case model.KindEnumerated:
		for _, nn := range t.NamedNumbers {
			if nn.Value == v.Int.Int64() {
				return nn.Name, nil
			}
		}
		return v.Int.Int64(), nil
	case model.KindNull:
		return nil, nil
	case model.KindReal:
		return realToFloat(v.Real), nil
	case model.KindOctetString:
		return fmt.Sprintf("%X", v.Bytes), nil
	case model.KindBitString:
		return v.Bits.String(), nil
	case model.KindObjectIdentifier, model.KindRelativeOID:
		return oidString(v.OIDArcs), nil
	case model.KindSequence, model.KindSet:
		out := make(map[string]interface{}, len(v.Sequence))
		for _, f := range v.Sequence {
			_, idx, ok := t.Member(f.Name)
			if !ok {
				return nil, fmt.Errorf("jer: unknown member %q", f.Name)
			}
			jv, err := toJSON(t.MemberType(idx), f.Value)
			if err != nil {
				return nil, err
			}
			out[f.Name] = jv
		}
		return out, nil
	case model.KindSequenceOf, model.KindSetOf:
		elemType := t.Elem()
		out := make([]interface{}, 0, len(v.List))
		for _, e := range v.List {
			jv, err := toJSON(elemType, e)
			if err != nil {
				return nil, err
			}
			out = append(out, jv)
		}
		return out, nil
	case model.KindChoice:
		_, idx, ok := t.Member(v.Selector)
		if !ok {
			return nil, fmt.Errorf("jer: unknown CHOICE alternative %q", v.Selector)
		}
		jv, err := toJSON(t.MemberType(idx), v.Choice)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{v.Selector: jv}, nil
	case model.KindAny:
		return nil, fmt.Errorf("jer: ANY is not supported")
	default:
		if v.IsString() {
			return v.Str, nil
		}
		return nil, fmt.Errorf("jer: unsupported kind %v", t.Kind)
	}
}

func fromJSON(t *model.Type, raw interface{}) (*model.Value, error) {
	if t.Kind == model.KindTagged {
		return fromJSON(t.Wrapped(), raw)
	}
	switch t.Kind {
	case model.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("jer: expected bool, got %T", raw)
		}
		return model.Bool(b), nil
	case model.KindInteger:
		return model.BigInt(jsonToBigInt(raw)), nil
	case model.KindEnumerated:
		if s, ok := raw.(string); ok {
			for _, nn := range t.NamedNumbers {
				if nn.Name == s {
					return &model.Value{Kind: model.KindEnumerated, Int: bigFromInt64(nn.Value)}, nil
				}
			}
			return nil, fmt.Errorf("jer: unknown ENUMERATED name %q", s)
		}
		return &model.Value{Kind: model.KindEnumerated, Int: jsonToBigInt(raw)}, nil
	case model.KindNull:
		if raw != nil {
			return nil, fmt.Errorf("jer: expected null")
		}
		return model.Null(), nil
	case model.KindReal:
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("jer: expected number for REAL")
		}
		return &model.Value{Kind: model.KindReal, Real: floatToReal(f)}, nil
	case model.KindOctetString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("jer: expected hex string for OCTET STRING")
		}
		b, err := hexDecode(s)
		if err != nil {
			return nil, err
		}
		return model.OctetString(b), nil
	case model.KindObjectIdentifier:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("jer: expected dotted string for OBJECT IDENTIFIER")
		}
		arcs, err := parseOID(s)
		if err != nil {
			return nil, err
		}
		return model.OID(arcs...), nil
	case model.KindRelativeOID:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("jer: expected dotted string for RELATIVE-OID")
		}
		arcs, err := parseOID(s)
		if err != nil {
			return nil, err
		}
		return model.RelOID(arcs...), nil
	case model.KindSequence, model.KindSet:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("jer: expected object for %v", t.Kind)
		}
		var fields []model.Field
		for i, mem := range t.Members {
			jv, present := m[mem.Name]
			if !present {
				continue
			}
			fv, err := fromJSON(t.MemberType(i), jv)
			if err != nil {
				return nil, err
			}
			fields = append(fields, model.Field{Name: mem.Name, Value: fv})
		}
		return &model.Value{Kind: t.Kind, Sequence: fields}, nil
	case model.KindSequenceOf, model.KindSetOf:
		arr, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("jer: expected array for %v", t.Kind)
		}
		elemType := t.Elem()
		out := &model.Value{Kind: t.Kind}
		for _, e := range arr {
			ev, err := fromJSON(elemType, e)
			if err != nil {
				return nil, err
			}
			out.List = append(out.List, ev)
		}
		return out, nil
	case model.KindChoice:
		m, ok := raw.(map[string]interface{})
		if !ok || len(m) != 1 {
			return nil, fmt.Errorf("jer: expected single-key object for CHOICE")
		}
		for name, jv := range m {
			_, idx, ok := t.Member(name)
			if !ok {
				return nil, fmt.Errorf("jer: unknown CHOICE alternative %q", name)
			}
			inner, err := fromJSON(t.MemberType(idx), jv)
			if err != nil {
				return nil, err
			}
			return &model.Value{Kind: model.KindChoice, Selector: name, Choice: inner}, nil
		}
		return nil, fmt.Errorf("jer: empty CHOICE object")
	default:
		if t.Kind.IsString() {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("jer: expected string for %v", t.Kind)
			}
			return model.StrVal(t.Kind, s), nil
		}
		return nil, fmt.Errorf("jer: unsupported kind %v", t.Kind)
	}
}
