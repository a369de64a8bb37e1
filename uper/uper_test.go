package uper

import (
	"math/big"
	"testing"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
)

func buildType(kind model.Kind) *model.Type {
	a := &model.Arena{}
	t := a.NewType()
	t.Kind = kind
	return t
}

func constrainedIntType(lo, hi int64) *model.Type {
	a := &model.Arena{}
	t := a.NewType()
	t.Kind = model.KindInteger
	t.Constraint = &model.Constraint{Kind: model.ConstraintValueRange, Lo: big.NewInt(lo), Hi: big.NewInt(hi)}
	return t
}

func roundTrip(t *testing.T, typ *model.Type, v *model.Value, aligned bool) *model.Value {
	t.Helper()
	got, err := Encode(typ, v, aligned)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, n, err := Decode(typ, got, aligned)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) {
		t.Fatalf("Decode() consumed %d bytes, want %d (got=% x)", n, len(got), got)
	}
	if !decoded.Equal(v) {
		t.Fatalf("Decode() = %+v, want %+v", decoded, v)
	}
	return decoded
}

func TestBooleanUnaligned(t *testing.T) {
	typ := buildType(model.KindBoolean)
	got, err := Encode(typ, model.Bool(true), false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0x80}) {
		t.Fatalf("Encode() = % x, want [80] (single set bit, MSB-first, padded)", got)
	}
	roundTrip(t, typ, model.Bool(true), false)
	roundTrip(t, typ, model.Bool(false), false)
}

// TestConstrainedIntegerBitPacking checks X.691 §10.5: INTEGER (0..255)
// needs exactly 8 bits, a single octet with no length determinant.
func TestConstrainedIntegerBitPacking(t *testing.T) {
	typ := constrainedIntType(0, 255)
	got, err := Encode(typ, model.Int(200), false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0xc8}) {
		t.Fatalf("Encode() = % x, want [c8]", got)
	}
	roundTrip(t, typ, model.Int(200), false)
}

// TestConstrainedIntegerNarrowRange checks a range needing fewer than 8
// bits packs tightly with no padding in UPER: INTEGER (0..3) needs 2 bits.
func TestConstrainedIntegerNarrowRange(t *testing.T) {
	typ := constrainedIntType(0, 3)
	got, err := Encode(typ, model.Int(2), false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// 2 bits "10" then padded with zero bits to a whole octet: 1000_0000.
	if string(got) != string([]byte{0x80}) {
		t.Fatalf("Encode() = % x, want [80]", got)
	}
	roundTrip(t, typ, model.Int(2), false)
}

// TestConstrainedIntegerAlignedPadsToOctet checks aligned PER (unlike
// UPER) octet-pads a range needing more than 8 bits.
func TestConstrainedIntegerAlignedPadsToOctet(t *testing.T) {
	typ := constrainedIntType(0, 1000)
	got, err := Encode(typ, model.Int(300), true)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0x01, 0x2c}) {
		t.Fatalf("Encode() = % x, want [01 2c]", got)
	}
	roundTrip(t, typ, model.Int(300), true)
}

func TestUnconstrainedIntegerRoundTrip(t *testing.T) {
	typ := buildType(model.KindInteger)
	for _, i := range []int64{0, -1, 127, -128, 300, -300} {
		roundTrip(t, typ, model.Int(i), false)
		roundTrip(t, typ, model.Int(i), true)
	}
}

func TestSemiConstrainedIntegerRoundTrip(t *testing.T) {
	a := &model.Arena{}
	typ := a.NewType()
	typ.Kind = model.KindInteger
	typ.Constraint = &model.Constraint{Kind: model.ConstraintValueRange, Lo: big.NewInt(10), Hi: nil}
	roundTrip(t, typ, model.Int(10), false)
	roundTrip(t, typ, model.Int(1000), false)
}

func TestExtensibleIntegerOutsideRootUsesUnconstrainedForm(t *testing.T) {
	typ := constrainedIntType(0, 10)
	typ.Constraint.Extensible = true
	roundTrip(t, typ, model.Int(5), false)
	roundTrip(t, typ, model.Int(500), false)
}

func TestEncodeRejectsConstraintViolation(t *testing.T) {
	typ := constrainedIntType(0, 10)
	if _, err := Encode(typ, model.Int(11), false); err == nil {
		t.Fatal("Encode() of 11 against INTEGER (0..10) succeeded, want ConstraintViolation")
	} else if ce, ok := err.(*model.CodecError); !ok || ce.Kind != model.ConstraintViolation {
		t.Fatalf("Encode() error = %v, want *model.CodecError{Kind: ConstraintViolation}", err)
	}
}

func TestEnumeratedRoundTrip(t *testing.T) {
	typ := buildType(model.KindEnumerated)
	typ.NamedNumbers = []model.NamedNumber{{Name: "red", Value: 0}, {Name: "green", Value: 1}, {Name: "blue", Value: 2}}
	roundTrip(t, typ, model.Enum(1), false)
	roundTrip(t, typ, model.Enum(2), true)
}

func TestOctetStringRoundTrip(t *testing.T) {
	typ := buildType(model.KindOctetString)
	roundTrip(t, typ, model.OctetString([]byte{0xde, 0xad, 0xbe, 0xef}), false)
	roundTrip(t, typ, model.OctetString(nil), false)
}

func TestFixedOctetStringInlineNoLengthDeterminant(t *testing.T) {
	typ := buildType(model.KindOctetString)
	typ.Hints.FixedLength = true
	typ.Hints.ByteLength = 2
	got, err := Encode(typ, model.OctetString([]byte{0xaa, 0xbb}), false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0xaa, 0xbb}) {
		t.Fatalf("Encode() = % x, want [aa bb] (no length determinant)", got)
	}
	roundTrip(t, typ, model.OctetString([]byte{0xaa, 0xbb}), false)
}

func TestBitStringRoundTrip(t *testing.T) {
	typ := buildType(model.KindBitString)
	bs := asn1.BitString{Bytes: []byte{0b10100000}, BitLength: 3}
	roundTrip(t, typ, model.BitStr(bs), false)
}

func TestFixedBitStringInline(t *testing.T) {
	typ := buildType(model.KindBitString)
	typ.Hints.FixedLength = true
	typ.Hints.ByteLength = 3
	bs := asn1.BitString{Bytes: []byte{0b10100000}, BitLength: 3}
	got, err := Encode(typ, model.BitStr(bs), false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0b10100000}) {
		t.Fatalf("Encode() = % x, want [a0]", got)
	}
	roundTrip(t, typ, model.BitStr(bs), false)
}

func TestCharStringRoundTrip(t *testing.T) {
	typ := buildType(model.KindUTF8String)
	roundTrip(t, typ, model.StrVal(model.KindUTF8String, "hi"), false)
	roundTrip(t, typ, model.StrVal(model.KindUTF8String, "hi"), true)
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	typ := buildType(model.KindObjectIdentifier)
	roundTrip(t, typ, model.OID(1, 2, 840, 113549), false)
}

func TestNullRoundTrip(t *testing.T) {
	typ := buildType(model.KindNull)
	got, err := Encode(typ, model.Null(), false)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Encode() = % x, want empty (NULL has no content)", got)
	}
	roundTrip(t, typ, model.Null(), false)
}

func sequenceType() *model.Type {
	a := &model.Arena{}
	intT := a.NewType()
	intT.Kind = model.KindInteger

	strT := a.NewType()
	strT.Kind = model.KindUTF8String

	seq := a.NewType()
	seq.Kind = model.KindSequence
	seq.Members = []model.Member{
		{Name: "a", TypeIndex: intT.Index},
		{Name: "b", TypeIndex: strT.Index, Optional: true},
	}
	return seq
}

func TestSequenceOptionalBitmap(t *testing.T) {
	seq := sequenceType()
	present := model.Seq(
		model.Field{Name: "a", Value: model.Int(7)},
		model.Field{Name: "b", Value: model.StrVal(model.KindUTF8String, "hi")},
	)
	roundTrip(t, seq, present, false)

	absent := model.Seq(model.Field{Name: "a", Value: model.Int(7)})
	roundTrip(t, seq, absent, false)
}

func choiceType() *model.Type {
	a := &model.Arena{}
	intT := a.NewType()
	intT.Kind = model.KindInteger

	strT := a.NewType()
	strT.Kind = model.KindUTF8String

	ch := a.NewType()
	ch.Kind = model.KindChoice
	ch.Members = []model.Member{
		{Name: "num", TypeIndex: intT.Index},
		{Name: "text", TypeIndex: strT.Index},
	}
	return ch
}

func TestChoiceRootAlternatives(t *testing.T) {
	ch := choiceType()
	roundTrip(t, ch, model.ChoiceVal("num", model.Int(9)), false)
	roundTrip(t, ch, model.ChoiceVal("text", model.StrVal(model.KindUTF8String, "x")), false)
}

func TestChoiceExtensionAlternativeOpenType(t *testing.T) {
	a := &model.Arena{}
	intT := a.NewType()
	intT.Kind = model.KindInteger
	strT := a.NewType()
	strT.Kind = model.KindUTF8String
	boolT := a.NewType()
	boolT.Kind = model.KindBoolean

	ch := a.NewType()
	ch.Kind = model.KindChoice
	ch.Extensible = true
	ch.Members = []model.Member{
		{Name: "num", TypeIndex: intT.Index},
		{Name: "text", TypeIndex: strT.Index},
		{Name: "flag", TypeIndex: boolT.Index, ExtensionGroup: 1},
	}
	roundTrip(t, ch, model.ChoiceVal("flag", model.Bool(true)), false)
	roundTrip(t, ch, model.ChoiceVal("num", model.Int(3)), false)
}

func sequenceOfType(elemKind model.Kind) *model.Type {
	a := &model.Arena{}
	elem := a.NewType()
	elem.Kind = elemKind

	seq := a.NewType()
	seq.Kind = model.KindSequenceOf
	seq.ElemIndex = elem.Index
	return seq
}

func TestSequenceOfRoundTrip(t *testing.T) {
	seq := sequenceOfType(model.KindInteger)
	v := model.SeqOf(model.Int(1), model.Int(2), model.Int(3))
	roundTrip(t, seq, v, false)
}

func TestRealRoundTrip(t *testing.T) {
	typ := buildType(model.KindReal)
	r := model.Real{Mantissa: big.NewInt(314159), Base: 2, Exponent: -15}
	roundTrip(t, typ, &model.Value{Kind: model.KindReal, Real: r}, false)
}

func TestAnyRoundTrip(t *testing.T) {
	typ := buildType(model.KindAny)
	roundTrip(t, typ, &model.Value{Kind: model.KindAny, Bytes: []byte{0x01, 0x02, 0x03}}, false)
}
