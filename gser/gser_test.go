package gser

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

func TestPrimitives(t *testing.T) {
	cases := []struct {
		typ  *model.Type
		val  *model.Value
		want string
	}{
		{buildType(model.KindBoolean), model.Bool(true), "TRUE"},
		{buildType(model.KindBoolean), model.Bool(false), "FALSE"},
		{buildType(model.KindInteger), model.Int(42), "42"},
		{buildType(model.KindNull), model.Null(), "NULL"},
		{buildType(model.KindUTF8String), model.StrVal(model.KindUTF8String, "hi"), `"hi"`},
		{buildType(model.KindOctetString), model.OctetString([]byte{0xde, 0xad}), "'DEAD'H"},
	}
	for _, tc := range cases {
		got := Format(tc.typ, tc.val)
		if got != tc.want {
			t.Errorf("Format() = %q, want %q", got, tc.want)
		}
	}
}

func TestEnumeratedUsesName(t *testing.T) {
	typ := buildType(model.KindEnumerated)
	typ.NamedNumbers = []model.NamedNumber{{Name: "red", Value: 0}, {Name: "green", Value: 1}}
	got := Format(typ, model.Enum(1))
	if got != "green" {
		t.Fatalf("Format() = %q, want green", got)
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
		{Name: "b", TypeIndex: strT.Index},
	}
	return seq
}

func TestSequence(t *testing.T) {
	seq := sequenceType()
	v := model.Seq(
		model.Field{Name: "a", Value: model.Int(7)},
		model.Field{Name: "b", Value: model.StrVal(model.KindUTF8String, "hi")},
	)
	got := Format(seq, v)
	want := `{ a 7, b "hi" }`
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestChoice(t *testing.T) {
	a := &model.Arena{}
	intT := a.NewType()
	intT.Kind = model.KindInteger
	ch := a.NewType()
	ch.Kind = model.KindChoice
	ch.Members = []model.Member{{Name: "num", TypeIndex: intT.Index}}

	got := Format(ch, model.ChoiceVal("num", model.Int(3)))
	if got != "num 3" {
		t.Fatalf("Format() = %q, want %q", got, "num 3")
	}
}

func TestSequenceOf(t *testing.T) {
	a := &model.Arena{}
	elem := a.NewType()
	elem.Kind = model.KindInteger
	seq := a.NewType()
	seq.Kind = model.KindSequenceOf
	seq.ElemIndex = elem.Index

	got := Format(seq, model.SeqOf(model.Int(1), model.Int(2)))
	want := "{ 1, 2 }"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}
