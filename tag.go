// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 holds [Tag] and [BitString], the two value types every codec
// package needs a concrete Go representation for. Every other ASN.1 value
// kind is carried by [asn1tool.dev/asn1/model].Value instead, since the
// type model, not a static Go struct, is what each codec actually dispatches
// on. Package asn1 has no dependency on the schema compiler or any codec,
// which lets [asn1tool.dev/asn1/model] and the codec packages import it
// without creating an import cycle back to the compiler facade.
//
// The compiler facade lives in [asn1tool.dev/asn1/schema]:
//
//	s, err := schema.Compile([]schema.Source{{Name: "my.asn1", Text: src}}, schema.WithCodec(schema.DER))
//	if err != nil {
//		// handle *syntax.Error / *resolve.Error
//	}
//	data, err := s.Encode("MyType", v)
//	v2, err := s.Decode("MyType", data)
//
// The subpackages implement the pipeline stages:
//
//   - [asn1tool.dev/asn1/syntax] lexes and parses ASN.1 source into a concrete
//     syntax tree.
//   - [asn1tool.dev/asn1/module] collects parsed modules into a module table.
//   - [asn1tool.dev/asn1/resolve] reduces the syntax tree into the type model.
//   - [asn1tool.dev/asn1/model] holds the canonical, frozen type model and the
//     value marshaller shared by every codec.
//   - [asn1tool.dev/asn1/ber], [asn1tool.dev/asn1/uper] and
//     [asn1tool.dev/asn1/oer] implement BER/DER/CER, PER/UPER and OER.
//   - [asn1tool.dev/asn1/schema] ties all of the above together behind the
//     Compile/Schema facade shown above.
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
package asn1

import (
	"strconv"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. The class
// is indicated by the two most significant bits of the underlying integer. For
// details, see Section 8 of Rec. ITU-T X.680.
//
// Tag values can be constructed using bitwise operations:
//
//	TagMyType := asn1.ClassApplication | 15
//
// The default (zero) class is [asn1.ClassUniversal].
//
// Note that the encoding of the class and tag is different from the identifier
// bits in the BER encoding.
type Tag uint16

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. The relevant bits
// are the two most significant bits of the underlying integer. Class is an
// alias for Tag to make operations involving classes more convenient.
type Class = Tag

// classMask is the bitmask to extract the Class component from a Tag value.
const classMask = Tag(0b11 << 14)

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota << 14
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Class returns the class bits of t. The class bits are the two most
// significant bits of the return value.
func (t Tag) Class() Class {
	return t & classMask
}

// Number returns the tag number of t as an uint. The tag number does not
// include the class of the tag.
func (t Tag) Number() uint {
	return uint(t &^ classMask)
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity, the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	n := strconv.FormatUint(uint64(t.Number()), 10)
	switch t.Class() {
	case ClassUniversal:
		return "[UNIVERSAL " + n + "]"
	case ClassApplication:
		return "[APPLICATION " + n + "]"
	case ClassContextSpecific:
		return "[" + n + "]"
	case ClassPrivate:
		return "[PRIVATE " + n + "]"
	}
	panic("unreachable")
}

// TagReserved is the reserved tag number in the [ClassUniversal] namespace to
// be used by encoding rules. This assignment is defined in Rec. ITU-T X.680,
// Section 8, Table 1.
const TagReserved Tag = ClassUniversal | 0

// These are some ASN.1 tags defined in the [ClassUniversal] namespace. These
// assignments are defined in Rec. ITU-T X.680, Section 8, Table 1.
const (
	TagBoolean          = ClassUniversal | 1
	TagInteger          = ClassUniversal | 2
	TagBitString        = ClassUniversal | 3
	TagOctetString      = ClassUniversal | 4
	TagNull             = ClassUniversal | 5
	TagOID              = ClassUniversal | 6
	TagObjectDescriptor = ClassUniversal | 7
	TagExternal         = ClassUniversal | 8
	TagReal             = ClassUniversal | 9
	TagEnumerated       = ClassUniversal | 10
	TagEmbeddedPDV      = ClassUniversal | 11
	TagUTF8String       = ClassUniversal | 12
	TagRelativeOID      = ClassUniversal | 13
	TagTime             = ClassUniversal | 14
	TagSequence         = ClassUniversal | 16
	TagSet              = ClassUniversal | 17
	TagNumericString    = ClassUniversal | 18
	TagPrintableString  = ClassUniversal | 19
	TagTeletexString    = ClassUniversal | 20
	TagT61String        = TagTeletexString
	TagVideotexString   = ClassUniversal | 21
	TagIA5String        = ClassUniversal | 22
	TagUTCTime          = ClassUniversal | 23
	TagGeneralizedTime  = ClassUniversal | 24
	TagGraphicString    = ClassUniversal | 25
	TagVisibleString    = ClassUniversal | 26
	TagISO646String     = TagVisibleString
	TagGeneralString    = ClassUniversal | 27
	TagUniversalString  = ClassUniversal | 28
	TagCharacterString  = ClassUniversal | 29
	TagBMPString        = ClassUniversal | 30
	TagDate             = ClassUniversal | 31
	TagTimeOfDay        = ClassUniversal | 32
	TagDateTime         = ClassUniversal | 33
	TagDuration         = ClassUniversal | 34
)
