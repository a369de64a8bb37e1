package oer

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

func TestEncodeDecodeRoundTripPrimitives(t *testing.T) {
	cases := []struct {
		name string
		typ  func() *model.Type
		val  *model.Value
		want []byte
	}{
		{
			name: "boolean true",
			typ:  func() *model.Type { return buildType(model.KindBoolean) },
			val:  model.Bool(true),
			want: []byte{0xff},
		},
		{
			name: "boolean false",
			typ:  func() *model.Type { return buildType(model.KindBoolean) },
			val:  model.Bool(false),
			want: []byte{0x00},
		},
		{
			name: "null",
			typ:  func() *model.Type { return buildType(model.KindNull) },
			val:  model.Null(),
			want: nil,
		},
		{
			name: "unconstrained integer zero",
			typ:  func() *model.Type { return buildType(model.KindInteger) },
			val:  model.Int(0),
			want: []byte{0x01, 0x00},
		},
		{
			name: "unconstrained integer negative",
			typ:  func() *model.Type { return buildType(model.KindInteger) },
			val:  model.Int(-129),
			want: []byte{0x02, 0xff, 0x7f},
		},
		{
			name: "octet string",
			typ:  func() *model.Type { return buildType(model.KindOctetString) },
			val:  model.OctetString([]byte{0xde, 0xad}),
			want: []byte{0x02, 0xde, 0xad},
		},
		{
			name: "utf8 string",
			typ:  func() *model.Type { return buildType(model.KindUTF8String) },
			val:  model.StrVal(model.KindUTF8String, "hi"),
			want: []byte{0x02, 'h', 'i'},
		},
		{
			name: "object identifier",
			typ:  func() *model.Type { return buildType(model.KindObjectIdentifier) },
			val:  model.OID(1, 2, 840, 113549),
			want: []byte{0x06, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d},
		},
		{
			name: "bit string with unused bits",
			typ:  func() *model.Type { return buildType(model.KindBitString) },
			val:  model.BitStr(asn1.BitString{Bytes: []byte{0b10100000}, BitLength: 3}),
			want: []byte{0x02, 0x05, 0b10100000},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ := tc.typ()
			got, err := Encode(typ, tc.val)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(got) != string(tc.want) {
				t.Fatalf("Encode() = % x, want % x", got, tc.want)
			}
			decoded, n, err := Decode(typ, got)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if n != len(got) {
				t.Fatalf("Decode() consumed %d bytes, want %d", n, len(got))
			}
			if !decoded.Equal(tc.val) {
				t.Fatalf("Decode() = %+v, want %+v", decoded, tc.val)
			}
		})
	}
}

// constrainedIntType builds INTEGER (lo..hi); with (0..255) it fits COER's
// 1-octet unsigned fixed-width rule.
func constrainedIntType(lo, hi int64) *model.Type {
	a := &model.Arena{}
	t := a.NewType()
	t.Kind = model.KindInteger
	t.Constraint = &model.Constraint{Kind: model.ConstraintValueRange, Lo: big.NewInt(lo), Hi: big.NewInt(hi)}
	return t
}

func TestFixedWidthIntegerEncoding(t *testing.T) {
	typ := constrainedIntType(0, 255)
	got, err := Encode(typ, model.Int(200))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []byte{0xc8}
	if string(got) != string(want) {
		t.Fatalf("Encode() = % x, want % x (no length determinant for a fixed 1-octet range)", got, want)
	}
	decoded, n, err := Decode(typ, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != 1 || decoded.Int.Int64() != 200 {
		t.Fatalf("Decode() = %+v, n=%d, want 200 consuming 1 byte", decoded, n)
	}
}

func TestEncodeDecodeRejectConstraintViolation(t *testing.T) {
	typ := constrainedIntType(0, 100)
	if _, err := Encode(typ, model.Int(127)); err == nil {
		t.Fatal("Encode() of 127 against INTEGER (0..100) succeeded, want ConstraintViolation")
	} else if ce, ok := err.(*model.CodecError); !ok || ce.Kind != model.ConstraintViolation {
		t.Fatalf("Encode() error = %v, want *model.CodecError{Kind: ConstraintViolation}", err)
	}

	// A fixed-width OER encoding of 127 is valid content for any INTEGER in
	// [0,255]; decoding it back against the narrower (0..100) type must
	// still be rejected even though decodePrimitive itself succeeds.
	wide := constrainedIntType(0, 255)
	data, err := Encode(wide, model.Int(127))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, _, err := Decode(typ, data); err == nil {
		t.Fatal("Decode() of 127 against INTEGER (0..100) succeeded, want ConstraintViolation")
	} else if ce, ok := err.(*model.CodecError); !ok || ce.Kind != model.ConstraintViolation {
		t.Fatalf("Decode() error = %v, want *model.CodecError{Kind: ConstraintViolation}", err)
	}
}

func TestFixedWidthSignedIntegerEncoding(t *testing.T) {
	typ := constrainedIntType(-128, 127)
	got, err := Encode(typ, model.Int(-1))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0xff}) {
		t.Fatalf("Encode() = % x, want [ff]", got)
	}
	decoded, _, err := Decode(typ, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Int.Int64() != -1 {
		t.Fatalf("Decode() = %d, want -1", decoded.Int.Int64())
	}
}

func TestTwoOctetFixedWidthIntegerEncoding(t *testing.T) {
	typ := constrainedIntType(0, 1000)
	got, err := Encode(typ, model.Int(300))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []byte{0x01, 0x2c}
	if string(got) != string(want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}
}

// sequenceType builds SEQUENCE { a INTEGER, b UTF8String OPTIONAL }.
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

func TestSequencePreambleOptionalAbsent(t *testing.T) {
	seq := sequenceType()
	v := model.Seq(model.Field{Name: "a", Value: model.Int(7)})

	got, err := Encode(seq, v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// preamble octet 0x00 (bit for b clear), then INTEGER 7's length-prefixed content.
	want := []byte{0x00, 0x01, 0x07}
	if string(got) != string(want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}

	decoded, n, err := Decode(seq, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) {
		t.Fatalf("Decode() consumed %d, want %d", n, len(got))
	}
	if _, ok := decoded.Field("b"); ok {
		t.Fatalf("Decode() unexpectedly populated optional member b")
	}
}

func TestSequencePreambleOptionalPresent(t *testing.T) {
	seq := sequenceType()
	v := model.Seq(
		model.Field{Name: "a", Value: model.Int(7)},
		model.Field{Name: "b", Value: model.StrVal(model.KindUTF8String, "hi")},
	)

	got, err := Encode(seq, v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got[0] != 0x80 {
		t.Fatalf("Encode() preamble = %#x, want bit 0 set for present member b", got[0])
	}
	decoded, n, err := Decode(seq, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) {
		t.Fatalf("Decode() consumed %d, want %d", n, len(got))
	}
	if !decoded.Equal(v) {
		t.Fatalf("Decode() = %+v, want %+v", decoded, v)
	}
}

// choiceType builds CHOICE { a [0] INTEGER, b [1] UTF8String }.
func choiceType() *model.Type {
	a := &model.Arena{}
	ta := a.NewType()
	ta.Kind = model.KindInteger

	tb := a.NewType()
	tb.Kind = model.KindUTF8String

	ch := a.NewType()
	ch.Kind = model.KindChoice
	ch.Members = []model.Member{
		{Name: "a", TypeIndex: ta.Index, Tag: asn1.ClassContextSpecific | 0},
		{Name: "b", TypeIndex: tb.Index, Tag: asn1.ClassContextSpecific | 1},
	}
	return ch
}

func TestChoiceRoundTrip(t *testing.T) {
	ch := choiceType()
	v := model.ChoiceVal("b", model.StrVal(model.KindUTF8String, "ok"))

	got, err := Encode(ch, v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []byte{0x81, 0x02, 'o', 'k'}
	if string(got) != string(want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}

	decoded, n, err := Decode(ch, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) {
		t.Fatalf("Decode() consumed %d, want %d", n, len(got))
	}
	if !decoded.Equal(v) {
		t.Fatalf("Decode() = %+v, want %+v", decoded, v)
	}
}

// sequenceOfType builds SEQUENCE OF INTEGER with no size constraint.
func sequenceOfType() *model.Type {
	a := &model.Arena{}
	elem := a.NewType()
	elem.Kind = model.KindInteger

	seqOf := a.NewType()
	seqOf.Kind = model.KindSequenceOf
	seqOf.ElemIndex = elem.Index
	return seqOf
}

func TestSequenceOfRoundTrip(t *testing.T) {
	seqOf := sequenceOfType()
	v := model.SeqOf(model.Int(1), model.Int(2), model.Int(3))

	got, err := Encode(seqOf, v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// length determinant (6 octets of element content) then 3 length-prefixed INTEGERs.
	want := []byte{0x06, 0x01, 0x01, 0x01, 0x02, 0x01, 0x03}
	if string(got) != string(want) {
		t.Fatalf("Encode() = % x, want % x", got, want)
	}

	decoded, n, err := Decode(seqOf, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) {
		t.Fatalf("Decode() consumed %d, want %d", n, len(got))
	}
	if !decoded.Equal(v) {
		t.Fatalf("Decode() = %+v, want %+v", decoded, v)
	}
}

func TestSequenceOfFixedSizeOmitsLengthDeterminant(t *testing.T) {
	seqOf := sequenceOfType()
	seqOf.Constraint = &model.Constraint{Kind: model.ConstraintSize, Lo: big.NewInt(2), Hi: big.NewInt(2)}
	v := model.SeqOf(model.Int(1), model.Int(2))

	got, err := Encode(seqOf, v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []byte{0x01, 0x01, 0x01, 0x02}
	if string(got) != string(want) {
		t.Fatalf("Encode() = % x, want % x (no length determinant for a fixed element count)", got, want)
	}
	decoded, n, err := Decode(seqOf, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != len(got) || !decoded.Equal(v) {
		t.Fatalf("Decode() = %+v, n=%d, want %+v consuming %d", decoded, n, v, len(got))
	}
}

func TestEnumeratedSmallValueSingleOctet(t *testing.T) {
	a := &model.Arena{}
	e := a.NewType()
	e.Kind = model.KindEnumerated
	e.NamedNumbers = []model.NamedNumber{{Name: "red", Value: 0}, {Name: "green", Value: 1}}

	got, err := Encode(e, model.Enum(1))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{0x01}) {
		t.Fatalf("Encode() = % x, want [01]", got)
	}
	decoded, n, err := Decode(e, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != 1 || decoded.Int.Int64() != 1 {
		t.Fatalf("Decode() = %+v, n=%d", decoded, n)
	}
}

func TestRealEncodeDecode(t *testing.T) {
	cases := []model.Real{
		{Mantissa: big.NewInt(0)},
		{Mantissa: big.NewInt(1), Base: 2, Exponent: 0},
		{Mantissa: big.NewInt(-3), Base: 2, Exponent: 4},
		{Base: 0, Exponent: 1},
		{Base: 0, Exponent: -1},
	}
	for _, r := range cases {
		enc := encodeReal(r)
		dec, n, err := decodeReal(enc)
		if err != nil {
			t.Fatalf("decodeReal(% x) error = %v", enc, err)
		}
		if n != len(enc) {
			t.Fatalf("decodeReal(% x) consumed %d, want %d", enc, n, len(enc))
		}
		if r.IsZero() != dec.IsZero() {
			t.Fatalf("decodeReal(% x) zero mismatch", enc)
		}
		if !r.IsZero() && (dec.Base != r.Base || dec.Exponent != r.Exponent || dec.Mantissa.Cmp(r.Mantissa) != 0) {
			t.Fatalf("decodeReal(% x) = %+v, want %+v", enc, dec, r)
		}
	}
}

func TestFixedLengthOctetStringOmitsLengthDeterminant(t *testing.T) {
	a := &model.Arena{}
	o := a.NewType()
	o.Kind = model.KindOctetString
	o.Hints.FixedLength = true
	o.Hints.ByteLength = 3

	got, err := Encode(o, model.OctetString([]byte{1, 2, 3}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != string([]byte{1, 2, 3}) {
		t.Fatalf("Encode() = % x, want [01 02 03]", got)
	}
	decoded, n, err := Decode(o, got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n != 3 || string(decoded.Bytes) != "\x01\x02\x03" {
		t.Fatalf("Decode() = %+v, n=%d", decoded, n)
	}
}
