package uper

import (
	"math/big"

	"asn1tool.dev/asn1/internal/bitio"
	"asn1tool.dev/asn1/model"
)

// encodeInteger writes i per X.691 §12: a constrained whole number if t's
// constraint reduces to a closed root range (spec §4.6), a length-
// determinant-prefixed unsigned body if only a lower bound is given
// (semi-constrained), or a length-determinant-prefixed two's-complement
// body otherwise (unconstrained). An extensible constraint whose root
// does not admit i is preceded by an extension bit and always falls back
// to the unconstrained form, per X.691 §12.1's "values outside the root
// are encoded exactly as for an unconstrained integer".
func encodeInteger(w *bitio.Writer, aligned bool, t *model.Type, i *big.Int) {
	c := t.Constraint
	lo, hi, ok := c.Bounds()
	if ok && c.Extensible {
		inRoot := i.Cmp(lo) >= 0 && i.Cmp(hi) <= 0
		w.WriteBit(!inRoot)
		if !inRoot {
			encodeUnconstrainedInteger(w, aligned, i)
			return
		}
		writeConstrainedWholeNumber(w, aligned, lo, hi, i)
		return
	}
	if ok {
		writeConstrainedWholeNumber(w, aligned, lo, hi, i)
		return
	}
	if c != nil && c.Lo != nil && c.Hi == nil {
		encodeSemiConstrainedInteger(w, aligned, c.Lo, i)
		return
	}
	encodeUnconstrainedInteger(w, aligned, i)
}

func decodeInteger(r *bitio.Reader, aligned bool, t *model.Type) (*big.Int, error) {
	c := t.Constraint
	lo, hi, ok := c.Bounds()
	if ok && c.Extensible {
		ext, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		if ext {
			return decodeUnconstrainedInteger(r, aligned)
		}
		return readConstrainedWholeNumber(r, aligned, lo, hi)
	}
	if ok {
		return readConstrainedWholeNumber(r, aligned, lo, hi)
	}
	if c != nil && c.Lo != nil && c.Hi == nil {
		return decodeSemiConstrainedInteger(r, aligned, c.Lo)
	}
	return decodeUnconstrainedInteger(r, aligned)
}

// encodeSemiConstrainedInteger writes (i - lo) as an unsigned minimal
// big-endian body, length-determinant-prefixed in octets (X.691 §12.2.3).
func encodeSemiConstrainedInteger(w *bitio.Writer, aligned bool, lo, i *big.Int) {
	offset := new(big.Int).Sub(i, lo)
	body := offset.Bytes()
	if len(body) == 0 {
		body = []byte{0}
	}
	writeCountedBytes(w, aligned, nil, body)
}

func decodeSemiConstrainedInteger(r *bitio.Reader, aligned bool, lo *big.Int) (*big.Int, error) {
	body, err := readCountedBytes(r, aligned, nil)
	if err != nil {
		return nil, err
	}
	offset := new(big.Int).SetBytes(body)
	return new(big.Int).Add(lo, offset), nil
}

// encodeUnconstrainedInteger writes i as a minimal two's-complement body,
// length-determinant-prefixed in octets (X.691 §12.2.4).
func encodeUnconstrainedInteger(w *bitio.Writer, aligned bool, i *big.Int) {
	writeCountedBytes(w, aligned, nil, minimalTwosComplement(i))
}

func decodeUnconstrainedInteger(r *bitio.Reader, aligned bool) (*big.Int, error) {
	body, err := readCountedBytes(r, aligned, nil)
	if err != nil {
		return nil, err
	}
	return decodeMinimalTwosComplement(body), nil
}

// writeCountedBytes writes a length-determinant-prefixed octet string
// whose size is unconstrained (or, when constraint is non-nil, governed
// by its SIZE bounds) — shared by INTEGER's length-prefixed forms and by
// OCTET STRING/BIT STRING's general form in primitives.go.
func writeCountedBytes(w *bitio.Writer, aligned bool, constraint *model.Constraint, body []byte) {
	writeCount(w, aligned, constraint, len(body), func(start, size int) {
		alignIf(w, aligned)
		w.WriteBytes(body[start : start+size])
	})
}

func readCountedBytes(r *bitio.Reader, aligned bool, constraint *model.Constraint) ([]byte, error) {
	var out []byte
	err := readCount(r, aligned, constraint, func(size int) error {
		alignIfR(r, aligned)
		b, err := r.ReadBytes(size)
		if err != nil {
			return err
		}
		out = append(out, b...)
		return nil
	})
	return out, err
}

// minimalTwosComplement/decodeMinimalTwosComplement port ber/types.go's
// unexported helpers of the same name (also ported into asn1/oer for the
// same reason: they are unexported and cannot be imported cross-package).
func minimalTwosComplement(i *big.Int) []byte {
	if i.Sign() == 0 {
		return []byte{0}
	}
	if i.Sign() > 0 {
		b := i.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	nBits := i.BitLen()
	nBytes := nBits/8 + 1
	twos := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	twos.Add(twos, i)
	b := twos.Bytes()
	for len(b) < nBytes {
		b = append([]byte{0}, b...)
	}
	for len(b) > 1 && b[0] == 0xff && b[1]&0x80 != 0 {
		b = b[1:]
	}
	return b
}

func decodeMinimalTwosComplement(data []byte) *big.Int {
	if len(data) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(data)
	if data[0]&0x80 == 0 {
		return v
	}
	twos := new(big.Int).Lsh(big.NewInt(1), uint(len(data)*8))
	return v.Sub(v, twos)
}

// encodeEnumerated writes i as the constrained whole number index of its
// position among t.NamedNumbers (X.691 §13). model.Type.NamedNumbers only
// ever holds an ENUMERATED's root entries (see model/type.go), so unlike
// SEQUENCE/CHOICE there is no separate extension-addition list to index
// into here; an extensible ENUMERATED whose value isn't in NamedNumbers
// is rejected rather than guessed at.
func encodeEnumerated(w *bitio.Writer, aligned bool, t *model.Type, i *big.Int) error {
	idx := -1
	for k, nn := range t.NamedNumbers {
		if nn.Value == i.Int64() {
			idx = k
			break
		}
	}
	if t.Extensible {
		w.WriteBit(idx < 0)
	}
	if idx < 0 {
		return errContent("ENUMERATED value has no matching NamedNumber")
	}
	writeConstrainedWholeNumber(w, aligned, big.NewInt(0), big.NewInt(int64(len(t.NamedNumbers)-1)), big.NewInt(int64(idx)))
	return nil
}

func decodeEnumerated(r *bitio.Reader, aligned bool, t *model.Type) (*big.Int, error) {
	if t.Extensible {
		ext, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		if ext {
			return nil, errContent("ENUMERATED extension additions are not supported")
		}
	}
	idx, err := readConstrainedWholeNumber(r, aligned, big.NewInt(0), big.NewInt(int64(len(t.NamedNumbers)-1)))
	if err != nil {
		return nil, err
	}
	k := int(idx.Int64())
	if k < 0 || k >= len(t.NamedNumbers) {
		return nil, errContent("ENUMERATED index out of range")
	}
	return big.NewInt(t.NamedNumbers[k].Value), nil
}
