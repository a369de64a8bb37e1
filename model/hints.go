package model

// EncodingHints are derived, not source: the resolver computes them once
// from a Type's Kind and Constraint after constraint attachment, so codecs
// never have to re-derive "is this a constrained whole number" logic from
// the constraint tree on every encode/decode call (spec §4.4).
type EncodingHints struct {
	// FixedLength is true if every value of this type has the same,
	// known-at-compile-time wire length. ByteLength holds that length, in
	// the unit of the type's SIZE constraint (octets for OCTET STRING, bits
	// for BIT STRING), when FixedLength is true.
	FixedLength bool
	ByteLength  int

	// ConstrainedWholeNumber is true if this type's Constraint reduces to a
	// single closed range, enabling PER/OER's minimal-width integer
	// encoding (spec §4.6 "Constrained whole number").
	ConstrainedWholeNumber bool
	// Range = Hi - Lo for a constrained whole number (as a bit count it is
	// ceil(log2(Range+1))); BitWidth is that precomputed bit count.
	BitWidth int

	// AlphabetWidth is the per-character bit width implied by a permitted-
	// alphabet constraint (spec §4.6 "Character strings"), or 0 if the
	// canonical per-type alphabet of X.691 §27 applies instead.
	AlphabetWidth int
	AlphabetSize  int
}
