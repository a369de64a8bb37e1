package model

import (
	"math/big"
	"time"

	"asn1tool.dev/asn1"
)

// ToGo converts v into a plain Go value: bool, *big.Int, float64-based
// Real structs become model.Real, []byte, asn1.BitString, []uint (OIDs),
// string, map[string]any (SEQUENCE/SET), []any (SEQUENCE OF/SET OF), or a
// single-entry map[string]any{selector: value} for CHOICE. This is the
// "Mapping of ASN.1 Types to Go Types" idea from the teacher's root package
// doc comment, generalized from static Go structs (which the teacher can
// reflect over) to a dynamic Value (which a compiled Schema cannot, since
// there is no static Go type describing a dynamically-compiled schema).
func ToGo(v *Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindInteger, KindEnumerated:
		return v.Int
	case KindReal:
		return v.Real
	case KindNull:
		return nil
	case KindOctetString:
		return v.Bytes
	case KindBitString:
		return v.Bits
	case KindObjectIdentifier, KindRelativeOID:
		return v.OIDArcs
	case KindSequence, KindSet:
		m := make(map[string]any, len(v.Sequence))
		for _, f := range v.Sequence {
			m[f.Name] = ToGo(f.Value)
		}
		return m
	case KindSequenceOf, KindSetOf:
		l := make([]any, len(v.List))
		for i, e := range v.List {
			l[i] = ToGo(e)
		}
		return l
	case KindChoice:
		return map[string]any{v.Selector: ToGo(v.Choice)}
	default:
		if v.IsString() {
			return v.Str
		}
		if !v.Time.IsZero() {
			return v.Time
		}
	}
	return nil
}

// FromGo is the inverse of ToGo: it builds a Value of the given Kind from a
// plain Go value, applying the same mapping table. For constructed kinds
// (SEQUENCE/SET/CHOICE/SEQUENCE OF/SET OF) the caller must still supply the
// target Type so FromGo knows each field's intended Kind; this mirrors
// [Type] being required input to a codec's Encode in the first place.
func FromGo(t *Type, g any) *Value {
	if g == nil {
		return &Value{Kind: t.Kind}
	}
	switch t.Kind {
	case KindBoolean:
		return &Value{Kind: KindBoolean, Bool: g.(bool)}
	case KindInteger, KindEnumerated:
		switch n := g.(type) {
		case *big.Int:
			return &Value{Kind: t.Kind, Int: n}
		case int:
			return &Value{Kind: t.Kind, Int: big.NewInt(int64(n))}
		case int64:
			return &Value{Kind: t.Kind, Int: big.NewInt(n)}
		}
	case KindOctetString:
		return &Value{Kind: KindOctetString, Bytes: g.([]byte)}
	case KindReal:
		return &Value{Kind: KindReal, Real: g.(Real)}
	case KindBitString:
		return &Value{Kind: KindBitString, Bits: g.(asn1.BitString)}
	case KindObjectIdentifier, KindRelativeOID:
		return &Value{Kind: t.Kind, OIDArcs: g.([]uint)}
	case KindSequence, KindSet:
		m := g.(map[string]any)
		var fields []Field
		for i, mem := range t.Members {
			gv, ok := m[mem.Name]
			if !ok {
				continue
			}
			fields = append(fields, Field{Name: mem.Name, Value: FromGo(t.MemberType(i), gv)})
		}
		return &Value{Kind: t.Kind, Sequence: fields}
	case KindSequenceOf, KindSetOf:
		l := g.([]any)
		items := make([]*Value, len(l))
		for i, e := range l {
			items[i] = FromGo(t.Elem(), e)
		}
		return &Value{Kind: t.Kind, List: items}
	case KindChoice:
		m := g.(map[string]any)
		for sel, gv := range m {
			_, idx, ok := t.Member(sel)
			if !ok {
				continue
			}
			return &Value{Kind: KindChoice, Selector: sel, Choice: FromGo(t.MemberType(idx), gv)}
		}
	default:
		if t.Kind.IsString() {
			return &Value{Kind: t.Kind, Str: g.(string)}
		}
		if tm, ok := g.(time.Time); ok {
			return &Value{Kind: t.Kind, Time: tm}
		}
	}
	return &Value{Kind: t.Kind}
}
