// Package uper implements the Packed Encoding Rules (Rec. ITU-T X.691), in
// both its aligned (PER) and unaligned (UPER) variants, against
// [asn1tool.dev/asn1/model]'s type model and value marshaller. Like
// [asn1tool.dev/asn1/oer], PER/UPER carries no identifier octets: the wire
// shape of every value is driven entirely by its compiled [model.Type], so
// encoder and decoder walk the same Type tree in lockstep. Unlike ber and
// oer, PER/UPER is also not octet-aligned in general — members, choice
// indices and length determinants routinely end mid-octet — so this
// package reads and writes through [asn1tool.dev/asn1/internal/bitio]'s
// bit cursor rather than a byte slice, octet-aligning explicitly at the
// points X.691 calls for it (and never, in the unaligned variant).
package uper

import (
	"asn1tool.dev/asn1/internal/bitio"
	"asn1tool.dev/asn1/model"
)

// Encode renders v as t in PER (aligned=true) or UPER (aligned=false). It
// is the [asn1tool.dev/asn1/schema] facade's entry point into this codec
// for the PER and UPER codecs.
func Encode(t *model.Type, v *model.Value, aligned bool) ([]byte, error) {
	w := bitio.NewWriter()
	if cerr := encodeValue(w, aligned, nil, t, v); cerr != nil {
		return nil, cerr
	}
	w.Align()
	return w.Bytes(), nil
}

// Decode parses data as t in PER (aligned=true) or UPER (aligned=false)
// and reports how many leading bytes of data it consumed. PER/UPER has no
// notion of a self-delimited top-level value shorter than its containing
// octet string, so the returned count is the bit cursor's final position
// rounded up to a whole octet — callers that need an exact framing
// boundary should wrap the codec in a length-prefixed transport, as X.691
// itself assumes.
func Decode(t *model.Type, data []byte, aligned bool) (*model.Value, int, error) {
	r := bitio.NewReader(data)
	v, cerr := decodeValue(r, aligned, nil, t)
	if cerr != nil {
		return nil, r.BytesConsumed(), cerr
	}
	return v, r.BytesConsumed(), nil
}

func errContent(msg string) error { return contentError(msg) }

type contentError string

func (e contentError) Error() string { return string(e) }
