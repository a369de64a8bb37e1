package jer

import (
	"testing"

	"asn1tool.dev/asn1/model"
)

func buildType(kind model.Kind) *model.Type {
	a := &model.Arena{}
	t := a.NewType()
	t.Kind = kind
	return t
}

func roundTrip(t *testing.T, typ *model.Type, v *model.Value) {
	t.Helper()
	got, err := Encode(typ, v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, n, err := Decode(typ, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) {
		t.Fatalf("Decode() consumed %d bytes, want %d", n, len(got))
	}
	if !decoded.Equal(v) {
		t.Fatalf("Decode() = %+v, want %+v", decoded, v)
	}
}

func TestPrimitivesRoundTrip(t *testing.T) {
	roundTrip(t, buildType(model.KindBoolean), model.Bool(true))
	roundTrip(t, buildType(model.KindInteger), model.Int(-42))
	roundTrip(t, buildType(model.KindNull), model.Null())
	roundTrip(t, buildType(model.KindOctetString), model.OctetString([]byte{0xde, 0xad}))
	roundTrip(t, buildType(model.KindUTF8String), model.StrVal(model.KindUTF8String, "hello"))
	roundTrip(t, buildType(model.KindObjectIdentifier), model.OID(1, 2, 840, 113549))
}

func TestEnumeratedRoundTrip(t *testing.T) {
	typ := buildType(model.KindEnumerated)
	typ.NamedNumbers = []model.NamedNumber{{Name: "red", Value: 0}, {Name: "green", Value: 1}}
	got, err := Encode(typ, model.Enum(1))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != `"green"` {
		t.Fatalf("Encode() = %s, want \"green\"", got)
	}
	roundTrip(t, typ, model.Enum(1))
}

func TestIntegerEncodedAsNumber(t *testing.T) {
	typ := buildType(model.KindInteger)
	got, err := Encode(typ, model.Int(7))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != "7" {
		t.Fatalf("Encode() = %s, want 7", got)
	}
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

func TestSequenceRoundTrip(t *testing.T) {
	seq := sequenceType()
	v := model.Seq(
		model.Field{Name: "a", Value: model.Int(7)},
		model.Field{Name: "b", Value: model.StrVal(model.KindUTF8String, "hi")},
	)
	roundTrip(t, seq, v)

	absent := model.Seq(model.Field{Name: "a", Value: model.Int(7)})
	roundTrip(t, seq, absent)
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

func TestChoiceRoundTrip(t *testing.T) {
	ch := choiceType()
	got, err := Encode(ch, model.ChoiceVal("num", model.Int(3)))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != `{"num":3}` {
		t.Fatalf("Encode() = %s, want {\"num\":3}", got)
	}
	roundTrip(t, ch, model.ChoiceVal("num", model.Int(3)))
	roundTrip(t, ch, model.ChoiceVal("text", model.StrVal(model.KindUTF8String, "x")))
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
	roundTrip(t, seq, model.SeqOf(model.Int(1), model.Int(2), model.Int(3)))
}

func TestAnyUnsupported(t *testing.T) {
	typ := buildType(model.KindAny)
	if _, err := Encode(typ, &model.Value{Kind: model.KindAny, Bytes: []byte{1}}); err == nil {
		t.Fatal("Encode() error = nil, want error for ANY")
	}
}
