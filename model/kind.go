// Package model holds the canonical, frozen type model produced by
// [asn1tool.dev/asn1/resolve] and shared read-only by every codec
// ([asn1tool.dev/asn1/ber], [asn1tool.dev/asn1/uper], [asn1tool.dev/asn1/oer]).
// It also defines [Value], the language-neutral runtime payload the codecs
// encode and decode, and the Value Marshaller adapters that bridge Value to
// plain Go data.
package model

// Kind identifies the variant of a [Type]. Kind is the tag of the Type
// tagged union: every codec dispatches on Kind rather than walking an
// interface hierarchy (see DESIGN.md, "tagged-union dispatch").
type Kind int

const (
	KindInvalid Kind = iota

	// Primitive kinds.
	KindBoolean
	KindInteger
	KindReal
	KindNull
	KindEnumerated
	KindObjectIdentifier
	KindRelativeOID
	KindOctetString
	KindBitString
	KindUTF8String
	KindIA5String
	KindPrintableString
	KindNumericString
	KindVisibleString
	KindGeneralString
	KindUniversalString
	KindBMPString
	KindTeletexString
	KindGraphicString
	KindVideotexString
	KindUTCTime
	KindGeneralizedTime
	KindDate
	KindTimeOfDay
	KindDateTime
	KindDuration
	KindAny
	KindExternal
	KindEmbeddedPDV
	KindObjectDescriptor

	// Constructed kinds.
	KindSequence
	KindSet
	KindChoice

	// Aggregate kinds.
	KindSequenceOf
	KindSetOf

	// KindTagged marks a Type that wraps another Type in an EXPLICIT outer
	// tag. Implicit tagging never needs this variant: it is folded into the
	// wrapped Type's own Tag field by the resolver (see Type.Explicit).
	KindTagged
)

// String returns the canonical ASN.1 notation for k, e.g. "SEQUENCE OF" or
// "UTF8String". Written by hand rather than generated: the teacher never
// wires up a stringer pass either (no go:generate directive anywhere in its
// tree), it hand-writes Tag.String in the same style.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	case KindNull:
		return "NULL"
	case KindEnumerated:
		return "ENUMERATED"
	case KindObjectIdentifier:
		return "OBJECT IDENTIFIER"
	case KindRelativeOID:
		return "RELATIVE-OID"
	case KindOctetString:
		return "OCTET STRING"
	case KindBitString:
		return "BIT STRING"
	case KindUTF8String:
		return "UTF8String"
	case KindIA5String:
		return "IA5String"
	case KindPrintableString:
		return "PrintableString"
	case KindNumericString:
		return "NumericString"
	case KindVisibleString:
		return "VisibleString"
	case KindGeneralString:
		return "GeneralString"
	case KindUniversalString:
		return "UniversalString"
	case KindBMPString:
		return "BMPString"
	case KindTeletexString:
		return "TeletexString"
	case KindGraphicString:
		return "GraphicString"
	case KindVideotexString:
		return "VideotexString"
	case KindUTCTime:
		return "UTCTime"
	case KindGeneralizedTime:
		return "GeneralizedTime"
	case KindDate:
		return "DATE"
	case KindTimeOfDay:
		return "TIME-OF-DAY"
	case KindDateTime:
		return "DATE-TIME"
	case KindDuration:
		return "DURATION"
	case KindAny:
		return "ANY"
	case KindExternal:
		return "EXTERNAL"
	case KindEmbeddedPDV:
		return "EMBEDDED PDV"
	case KindObjectDescriptor:
		return "ObjectDescriptor"
	case KindSequence:
		return "SEQUENCE"
	case KindSet:
		return "SET"
	case KindChoice:
		return "CHOICE"
	case KindSequenceOf:
		return "SEQUENCE OF"
	case KindSetOf:
		return "SET OF"
	case KindTagged:
		return "TAGGED"
	default:
		return "INVALID"
	}
}

// IsString reports whether k is one of the restricted character string
// kinds. TeletexString, VideotexString and GraphicString are included and
// are carried as raw string bytes like the others (see DESIGN.md open
// questions).
func (k Kind) IsString() bool {
	switch k {
	case KindUTF8String, KindIA5String, KindPrintableString, KindNumericString,
		KindVisibleString, KindGeneralString, KindUniversalString, KindBMPString,
		KindTeletexString, KindGraphicString, KindVideotexString:
		return true
	}
	return false
}

// IsConstructed reports whether values of kind k are structured in the BER
// sense, i.e. composed of nested data values rather than a single content
// octet run.
func (k Kind) IsConstructed() bool {
	switch k {
	case KindSequence, KindSet, KindChoice, KindSequenceOf, KindSetOf:
		return true
	}
	return false
}

// TaggingMode is the module-level directive controlling how member tags are
// assigned during resolution (spec §4.3 step 2).
type TaggingMode int

const (
	// Explicit is the ASN.1 default: tags from struct-tag-like annotations
	// in the source wrap their inner type in an additional TLV layer.
	Explicit TaggingMode = iota
	// Implicit causes explicitly-specified tags to replace the inner type's
	// tag instead of wrapping it.
	Implicit
	// Automatic causes the resolver to assign sequential context tags to
	// every member of a SEQUENCE/SET/CHOICE that has no explicit tag of its
	// own, as long as no sibling member in that same type carries one.
	Automatic
)

func (m TaggingMode) String() string {
	switch m {
	case Explicit:
		return "EXPLICIT TAGS"
	case Implicit:
		return "IMPLICIT TAGS"
	case Automatic:
		return "AUTOMATIC TAGS"
	default:
		return "EXPLICIT TAGS"
	}
}
