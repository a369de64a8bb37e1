// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber implements the Basic, Distinguished and Canonical Encoding
// Rules (BER, DER, CER; Rec. ITU-T X.690) against [asn1tool.dev/asn1/model]'s
// type model and value marshaller. Unlike the reflection-driven codec this
// package began as, encoding and decoding dispatch on [model.Type.Kind]:
// the compiled Schema has no static Go type to reflect over, only the
// frozen Type tree the resolver produced.
package ber

// Rules selects which of the three encoding rule sets Encode/Decode apply.
// BER accepts everything DER/CER produce plus the permissive forms (longer
// than minimal lengths, indefinite length on primitive-eligible types,
// non-canonical BOOLEAN true octets, unsorted SET OF). Encode under DER
// produces none of those forms. Decode under DER rejects indefinite
// length only; it does not check for non-minimal length octets,
// non-canonical BOOLEAN octets or unsorted SET OF elements. CER requires
// indefinite-length, constructed encoding for any string or BIT STRING
// whose content exceeds 1000 octets and otherwise encodes like DER; Decode
// under CER accepts indefinite length.
type Rules int

const (
	Basic Rules = iota
	DER
	CER
)

// cerChunkSize is the threshold (in octets) past which CER requires the
// constructed, indefinite-length encoding of a string-like value (X.690
// §9.1, §10.1).
const cerChunkSize = 1000
