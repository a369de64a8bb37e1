// Package oer implements the (Canonical) Octet Encoding Rules (Rec.
// ITU-T X.696) against [asn1tool.dev/asn1/model]'s type model and value
// marshaller. Unlike [asn1tool.dev/asn1/ber], OER carries no identifier
// octets: every value's wire shape is determined entirely by its compiled
// [model.Type], so the encoder and decoder must walk the same Type tree in
// lockstep rather than resolving tags from the wire. Dispatch is still on
// [model.Type.Kind], matching the ber package's tagged-union style rather
// than reflection.
package oer

import (
	"asn1tool.dev/asn1/model"
)

// Encode renders v as t in canonical OER. It is the
// [asn1tool.dev/asn1/schema] facade's entry point into this codec.
func Encode(t *model.Type, v *model.Value) ([]byte, error) {
	var out []byte
	if err := encodeValue(&out, nil, t, v); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode parses data as t and reports how many leading bytes of data it
// consumed.
func Decode(t *model.Type, data []byte) (*model.Value, int, error) {
	v, n, err := decodeValue(nil, t, data)
	if err != nil {
		return nil, n, err
	}
	return v, n, nil
}

func errContent(msg string) error { return contentError(msg) }

type contentError string

func (e contentError) Error() string { return string(e) }
