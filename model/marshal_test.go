package model

import (
	"math/big"
	"reflect"
	"testing"
)

func TestToGoPrimitives(t *testing.T) {
	if got := ToGo(Bool(true)); got != true {
		t.Errorf("ToGo(Bool(true)) = %v", got)
	}
	if got := ToGo(Int(5)).(*big.Int).Int64(); got != 5 {
		t.Errorf("ToGo(Int(5)) = %v", got)
	}
	if got := ToGo(OctetString([]byte{1, 2})); !reflect.DeepEqual(got, []byte{1, 2}) {
		t.Errorf("ToGo(OctetString) = %v", got)
	}
	if got := ToGo(StrVal(KindUTF8String, "hi")); got != "hi" {
		t.Errorf("ToGo(StrVal) = %v", got)
	}
	if got := ToGo(nil); got != nil {
		t.Errorf("ToGo(nil) = %v, want nil", got)
	}
	if got := ToGo(Null()); got != nil {
		t.Errorf("ToGo(Null()) = %v, want nil", got)
	}
}

func TestToGoSequence(t *testing.T) {
	v := Seq(Field{Name: "a", Value: Int(1)}, Field{Name: "b", Value: Bool(true)})
	got, ok := ToGo(v).(map[string]any)
	if !ok {
		t.Fatalf("ToGo(Seq) did not return a map[string]any")
	}
	if got["a"].(*big.Int).Int64() != 1 || got["b"] != true {
		t.Errorf("ToGo(Seq) = %+v", got)
	}
}

func TestToGoSequenceOf(t *testing.T) {
	v := SeqOf(Int(1), Int(2))
	got, ok := ToGo(v).([]any)
	if !ok || len(got) != 2 {
		t.Fatalf("ToGo(SeqOf) = %+v", got)
	}
	if got[0].(*big.Int).Int64() != 1 || got[1].(*big.Int).Int64() != 2 {
		t.Errorf("ToGo(SeqOf) elements = %+v", got)
	}
}

func TestToGoChoice(t *testing.T) {
	v := ChoiceVal("a", Int(1))
	got, ok := ToGo(v).(map[string]any)
	if !ok || len(got) != 1 {
		t.Fatalf("ToGo(Choice) = %+v", got)
	}
	if got["a"].(*big.Int).Int64() != 1 {
		t.Errorf("ToGo(Choice) selector value = %+v", got)
	}
}

func TestFromGoRoundTripsSequence(t *testing.T) {
	a := &Arena{}
	intT := a.NewType()
	intT.Kind = KindInteger
	boolT := a.NewType()
	boolT.Kind = KindBoolean
	seqT := a.NewType()
	seqT.Kind = KindSequence
	seqT.Members = []Member{
		{Name: "a", TypeIndex: intT.Index},
		{Name: "b", TypeIndex: boolT.Index},
	}

	g := map[string]any{"a": int64(5), "b": true}
	v := FromGo(seqT, g)
	fv, ok := v.Field("a")
	if !ok || fv.Int.Int64() != 5 {
		t.Fatalf("FromGo Sequence field a = %+v, %v", fv, ok)
	}
	fb, ok := v.Field("b")
	if !ok || fb.Bool != true {
		t.Fatalf("FromGo Sequence field b = %+v, %v", fb, ok)
	}
}

func TestFromGoNil(t *testing.T) {
	a := &Arena{}
	boolT := a.NewType()
	boolT.Kind = KindBoolean
	v := FromGo(boolT, nil)
	if v.Kind != KindBoolean {
		t.Errorf("FromGo(nil) Kind = %v, want KindBoolean", v.Kind)
	}
}

func TestFromGoSequenceOf(t *testing.T) {
	a := &Arena{}
	intT := a.NewType()
	intT.Kind = KindInteger
	seqOfT := a.NewType()
	seqOfT.Kind = KindSequenceOf
	seqOfT.ElemIndex = intT.Index

	v := FromGo(seqOfT, []any{int64(1), int64(2)})
	if len(v.List) != 2 || v.List[0].Int.Int64() != 1 || v.List[1].Int.Int64() != 2 {
		t.Fatalf("FromGo(SequenceOf) = %+v", v)
	}
}
