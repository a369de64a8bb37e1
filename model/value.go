package model

import (
	"math/big"
	"time"

	"asn1tool.dev/asn1"
)

// Real is the wire-neutral representation of an ASN.1 REAL value: mantissa
// * base^exponent. Base is either 2 or 10; for base-10 values Mantissa is
// interpreted as a decimal digit string's integer value (NR-form details
// are a codec concern, not a model concern).
type Real struct {
	Mantissa *big.Int
	Base     int
	Exponent int
}

// IsZero reports whether r's Mantissa is nil or zero. Besides the (signed)
// zero values this also holds for the PLUS-INFINITY/MINUS-INFINITY forms
// (Base 0, Exponent +1/-1, nil Mantissa).
func (r Real) IsZero() bool {
	return r.Mantissa == nil || r.Mantissa.Sign() == 0
}

// Field is one named component of a KindSequence/KindSet Value.
type Field struct {
	Name  string
	Value *Value
}

// Value is the runtime payload the Value Marshaller passes to and receives
// from a codec (spec §3 "Value", §4.8). It is a tagged union over Kind; the
// same shape is used for both encode input and decode output, so the
// presence/absence of an OPTIONAL Field or Choice selector round-trips
// without any codec-specific wrapper type.
type Value struct {
	Kind Kind

	Bool bool
	Int  *big.Int
	Real Real
	Bytes []byte
	Bits  asn1.BitString
	Str   string
	Time  time.Time
	// OIDArcs holds the arc sequence of a KindObjectIdentifier or
	// KindRelativeOID value.
	OIDArcs []uint

	// Sequence holds the ordered (name, value) pairs of a KindSequence or
	// KindSet value. Fields absent from Sequence are OPTIONAL/DEFAULT
	// members that were omitted.
	Sequence []Field

	// List holds the ordered elements of a KindSequenceOf/KindSetOf value.
	List []*Value

	// Choice holds the selected alternative of a KindChoice value.
	Selector string
	Choice   *Value
}

// IsString reports whether v holds one of the restricted character string
// kinds.
func (v *Value) IsString() bool {
	return v != nil && v.Kind.IsString()
}

// Field returns the named field of a KindSequence/KindSet value.
func (v *Value) Field(name string) (*Value, bool) {
	if v == nil {
		return nil, false
	}
	for _, f := range v.Sequence {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// WithField returns a copy of v with field name set to fv, replacing any
// existing field of that name. v itself is not mutated (the Value
// Marshaller never retains references across a call, spec §4.8).
func (v *Value) WithField(name string, fv *Value) *Value {
	out := *v
	out.Sequence = append([]Field(nil), v.Sequence...)
	for i, f := range out.Sequence {
		if f.Name == name {
			out.Sequence[i].Value = fv
			return &out
		}
	}
	out.Sequence = append(out.Sequence, Field{Name: name, Value: fv})
	return &out
}

// Equal reports whether v and other represent the same ASN.1 value. It is
// used to decide whether a DEFAULT member may be omitted on encode (spec
// §4.8) and to evaluate ConstraintSingleValue.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBoolean:
		return v.Bool == other.Bool
	case KindInteger, KindEnumerated:
		return bigEqual(v.Int, other.Int)
	case KindReal:
		return bigEqual(v.Real.Mantissa, other.Real.Mantissa) &&
			v.Real.Base == other.Real.Base && v.Real.Exponent == other.Real.Exponent
	case KindNull:
		return true
	case KindOctetString, KindAny:
		return string(v.Bytes) == string(other.Bytes)
	case KindBitString:
		return v.Bits.BitLength == other.Bits.BitLength && string(v.Bits.Bytes) == string(other.Bits.Bytes)
	case KindObjectIdentifier, KindRelativeOID:
		return oidEqual(v.OIDArcs, other.OIDArcs)
	case KindUTCTime, KindGeneralizedTime, KindDate, KindTimeOfDay, KindDateTime:
		return v.Time.Equal(other.Time)
	case KindSequence:
		if len(v.Sequence) != len(other.Sequence) {
			return false
		}
		for i, f := range v.Sequence {
			if f.Name != other.Sequence[i].Name || !f.Value.Equal(other.Sequence[i].Value) {
				return false
			}
		}
		return true
	case KindSet:
		// SET members are unordered: match fields by name.
		if len(v.Sequence) != len(other.Sequence) {
			return false
		}
		for _, f := range v.Sequence {
			of, ok := other.Field(f.Name)
			if !ok || !f.Value.Equal(of) {
				return false
			}
		}
		return true
	case KindSequenceOf, KindSetOf:
		if len(v.List) != len(other.List) {
			return false
		}
		for i, e := range v.List {
			if !e.Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindChoice:
		return v.Selector == other.Selector && v.Choice.Equal(other.Choice)
	default:
		if v.IsString() {
			return v.Str == other.Str
		}
	}
	return false
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func oidEqual(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Convenience constructors. These mirror the teacher's mapping-table
// approach (root package doc comment "Mapping of ASN.1 Types to Go Types")
// generalized to a dynamic Value rather than static Go types.

func Bool(b bool) *Value { return &Value{Kind: KindBoolean, Bool: b} }

func Int(i int64) *Value { return &Value{Kind: KindInteger, Int: big.NewInt(i)} }

func BigInt(i *big.Int) *Value { return &Value{Kind: KindInteger, Int: i} }

func Enum(i int64) *Value { return &Value{Kind: KindEnumerated, Int: big.NewInt(i)} }

func OctetString(b []byte) *Value { return &Value{Kind: KindOctetString, Bytes: b} }

func Null() *Value { return &Value{Kind: KindNull} }

func BitStr(bs asn1.BitString) *Value { return &Value{Kind: KindBitString, Bits: bs} }

func OID(arcs ...uint) *Value { return &Value{Kind: KindObjectIdentifier, OIDArcs: arcs} }

func RelOID(arcs ...uint) *Value { return &Value{Kind: KindRelativeOID, OIDArcs: arcs} }

// StrVal builds a restricted character string value of the given kind, e.g.
// model.StrVal(model.KindUTF8String, "hello").
func StrVal(kind Kind, s string) *Value { return &Value{Kind: kind, Str: s} }

func Seq(fields ...Field) *Value { return &Value{Kind: KindSequence, Sequence: fields} }

func SetVal(fields ...Field) *Value { return &Value{Kind: KindSet, Sequence: fields} }

func SeqOf(items ...*Value) *Value { return &Value{Kind: KindSequenceOf, List: items} }

func SetOf(items ...*Value) *Value { return &Value{Kind: KindSetOf, List: items} }

func ChoiceVal(selector string, v *Value) *Value {
	return &Value{Kind: KindChoice, Selector: selector, Choice: v}
}
