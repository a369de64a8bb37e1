package model

import (
	"math/big"
	"testing"

	"asn1tool.dev/asn1"
)

func TestValueFieldAndWithField(t *testing.T) {
	v := Seq(Field{Name: "a", Value: Int(1)})
	fv, ok := v.Field("a")
	if !ok || fv.Int.Int64() != 1 {
		t.Fatalf("Field(a) = %+v, %v", fv, ok)
	}
	if _, ok := v.Field("missing"); ok {
		t.Fatalf("Field(missing) found a value that shouldn't exist")
	}

	v2 := v.WithField("a", Int(2))
	fv2, _ := v2.Field("a")
	if fv2.Int.Int64() != 2 {
		t.Fatalf("WithField(a, 2) = %+v, want 2", fv2)
	}
	// the original value is not mutated.
	orig, _ := v.Field("a")
	if orig.Int.Int64() != 1 {
		t.Fatalf("WithField mutated the receiver: %+v", orig)
	}

	v3 := v.WithField("b", Int(9))
	if _, ok := v.Field("b"); ok {
		t.Fatalf("WithField mutated the receiver's Sequence slice")
	}
	fv3, ok := v3.Field("b")
	if !ok || fv3.Int.Int64() != 9 {
		t.Fatalf("WithField(b, 9) on new field = %+v, %v", fv3, ok)
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name  string
		a, b  *Value
		equal bool
	}{
		{"booleans equal", Bool(true), Bool(true), true},
		{"booleans differ", Bool(true), Bool(false), false},
		{"integers equal", Int(5), BigInt(big.NewInt(5)), true},
		{"integers differ", Int(5), Int(6), false},
		{"octet strings equal", OctetString([]byte{1, 2}), OctetString([]byte{1, 2}), true},
		{"octet strings differ", OctetString([]byte{1, 2}), OctetString([]byte{1, 3}), false},
		{"bit strings equal", BitStr(asn1.BitString{Bytes: []byte{0x80}, BitLength: 1}), BitStr(asn1.BitString{Bytes: []byte{0x80}, BitLength: 1}), true},
		{"oids equal", OID(1, 2, 3), OID(1, 2, 3), true},
		{"oids differ", OID(1, 2, 3), OID(1, 2, 4), false},
		{"strings equal", StrVal(KindUTF8String, "hi"), StrVal(KindUTF8String, "hi"), true},
		{"strings differ", StrVal(KindUTF8String, "hi"), StrVal(KindUTF8String, "bye"), false},
		{"nulls equal", Null(), Null(), true},
		{"choices equal", ChoiceVal("a", Int(1)), ChoiceVal("a", Int(1)), true},
		{"choices differ selector", ChoiceVal("a", Int(1)), ChoiceVal("b", Int(1)), false},
		{"sequences equal", Seq(Field{Name: "x", Value: Int(1)}), Seq(Field{Name: "x", Value: Int(1)}), true},
		{"sequences differ", Seq(Field{Name: "x", Value: Int(1)}), Seq(Field{Name: "x", Value: Int(2)}), false},
		{"sequenceOf equal", SeqOf(Int(1), Int(2)), SeqOf(Int(1), Int(2)), true},
		{"sequenceOf differ length", SeqOf(Int(1)), SeqOf(Int(1), Int(2)), false},
		{"different kinds", Int(1), Bool(true), false},
		{"nil vs nil", nil, nil, true},
		{"nil vs value", nil, Int(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.equal {
				t.Errorf("Equal() = %v, want %v", got, tc.equal)
			}
		})
	}
}

func TestRealIsZero(t *testing.T) {
	if !(Real{}).IsZero() {
		t.Errorf("zero-value Real.IsZero() = false, want true")
	}
	if !(Real{Mantissa: big.NewInt(0)}).IsZero() {
		t.Errorf("Real{Mantissa: 0}.IsZero() = false, want true")
	}
	if (Real{Mantissa: big.NewInt(1)}).IsZero() {
		t.Errorf("Real{Mantissa: 1}.IsZero() = true, want false")
	}
}

func TestIsStringKind(t *testing.T) {
	v := StrVal(KindIA5String, "x")
	if !v.IsString() {
		t.Errorf("IsString() = false for a restricted character string kind")
	}
	if (Int(1)).IsString() {
		t.Errorf("IsString() = true for KindInteger")
	}
	var nilV *Value
	if nilV.IsString() {
		t.Errorf("IsString() = true for a nil Value")
	}
}
