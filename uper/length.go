package uper

import (
	"math/big"

	"asn1tool.dev/asn1/internal/bitio"
	"asn1tool.dev/asn1/model"
)

func alignIf(w *bitio.Writer, aligned bool) {
	if aligned {
		w.Align()
	}
}

func alignIfR(r *bitio.Reader, aligned bool) {
	if aligned {
		r.Align()
	}
}

// bitWidthOf mirrors resolve/constraints.go's unexported bitWidth: the
// number of bits needed to represent every value in [lo, hi].
func bitWidthOf(lo, hi *big.Int) int {
	if lo == nil || hi == nil {
		return 0
	}
	rng := new(big.Int).Sub(hi, lo)
	if rng.Sign() <= 0 {
		return 0
	}
	n := 0
	for rng.Sign() > 0 {
		n++
		rng.Rsh(rng, 1)
	}
	return n
}

func writeBigUint(w *bitio.Writer, v *big.Int, bits int) {
	for i := bits - 1; i >= 0; i-- {
		w.WriteBit(v.Bit(i) == 1)
	}
}

func readBigUint(r *bitio.Reader, bits int) (*big.Int, error) {
	v := new(big.Int)
	for i := 0; i < bits; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		v.Lsh(v, 1)
		if b {
			v.SetBit(v, 0, 1)
		}
	}
	return v, nil
}

// writeConstrainedWholeNumber writes value-lo in the minimum number of
// bits for range [lo, hi] (X.691 §10.5/§11.5). Aligned PER octet-aligns
// and pads to a whole number of octets once the range needs more than 8
// bits; unaligned PER always uses the bare bit count (spec §4.6).
func writeConstrainedWholeNumber(w *bitio.Writer, aligned bool, lo, hi, value *big.Int) {
	n := bitWidthOf(lo, hi)
	if n == 0 {
		return
	}
	offset := new(big.Int).Sub(value, lo)
	if aligned && n > 8 {
		octets := (n + 7) / 8
		w.Align()
		writeBigUint(w, offset, octets*8)
		return
	}
	writeBigUint(w, offset, n)
}

func readConstrainedWholeNumber(r *bitio.Reader, aligned bool, lo, hi *big.Int) (*big.Int, error) {
	n := bitWidthOf(lo, hi)
	if n == 0 {
		return new(big.Int).Set(lo), nil
	}
	bits := n
	if aligned && n > 8 {
		r.Align()
		bits = ((n + 7) / 8) * 8
	}
	offset, err := readBigUint(r, bits)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(lo, offset), nil
}

// normallySmallLength writes n using X.691 §10.6's "normally small
// non-negative whole number": a single 0 bit and a 6-bit field when n <=
// 63, otherwise a single 1 bit followed by n as a general length
// determinant. Used for the count of extension-addition groups present
// in a SEQUENCE/SET's extension bitmap (spec §4.6 "extensions-present
// bitmap using normally-small-length").
func writeNormallySmallLength(w *bitio.Writer, aligned bool, n int) {
	if n <= 63 {
		w.WriteBit(false)
		w.WriteBits(uint64(n), 6)
		return
	}
	w.WriteBit(true)
	writeLengthPrefixedContent(w, aligned, n, func(int, int) {})
}

func readNormallySmallLength(r *bitio.Reader, aligned bool) (int, error) {
	ext, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if !ext {
		v, err := r.ReadBits(6)
		return int(v), err
	}
	n, err := readLengthPrefixedContent(r, aligned, func(int) error { return nil })
	return n, err
}

// writeLengthPrefixedContent writes n content units (octets, bits, or
// elements, depending on caller) framed by X.691 §11.9's general length
// determinant: a plain short/medium form below 16384, otherwise a series
// of 16K-multiple fragments (up to 4 per prefix octet) followed by a
// final short/medium-form remainder. write is invoked once per fragment
// with the [start, start+size) sub-range to emit.
func writeLengthPrefixedContent(w *bitio.Writer, aligned bool, n int, write func(start, size int)) {
	pos := 0
	for {
		remaining := n - pos
		if remaining >= 16384 {
			k := remaining / 16384
			if k > 4 {
				k = 4
			}
			alignIf(w, aligned)
			w.WriteBits(uint64(0xC0|k), 8)
			write(pos, k*16384)
			pos += k * 16384
			continue
		}
		alignIf(w, aligned)
		if remaining < 128 {
			w.WriteBits(uint64(remaining), 8)
		} else {
			w.WriteBits(uint64(remaining)|0x8000, 16)
		}
		write(pos, remaining)
		return
	}
}

// readLengthPrefixedContent is writeLengthPrefixedContent's mirror: read
// is invoked once per fragment with that fragment's size; the final
// return value is the total number of units read.
func readLengthPrefixedContent(r *bitio.Reader, aligned bool, read func(size int) error) (int, error) {
	pos := 0
	for {
		alignIfR(r, aligned)
		b, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		switch {
		case b&0x80 == 0:
			n := int(b)
			if err := read(n); err != nil {
				return 0, err
			}
			return pos + n, nil
		case b&0xC0 == 0x80:
			b2, err := r.ReadBits(8)
			if err != nil {
				return 0, err
			}
			n := int(b&0x3F)<<8 | int(b2)
			if err := read(n); err != nil {
				return 0, err
			}
			return pos + n, nil
		case b&0xC0 == 0xC0:
			k := int(b & 0x3F)
			if k < 1 || k > 4 {
				return 0, errContent("invalid length fragment count")
			}
			n := k * 16384
			if err := read(n); err != nil {
				return 0, err
			}
			pos += n
		default:
			return 0, errContent("invalid length determinant")
		}
	}
}

// sizeBounds mirrors resolve/constraints.go's unexported sizeBounds: the
// closed SIZE bounds of t's constraint, if any, searching through
// intersections the same way the resolver does when computing Hints.
func sizeBounds(c *model.Constraint) (*big.Int, *big.Int, bool) {
	if c == nil {
		return nil, nil, false
	}
	if c.Kind == model.ConstraintSize {
		return c.Lo, c.Hi, c.Lo != nil && c.Hi != nil
	}
	for _, op := range c.Operands {
		if lo, hi, ok := sizeBounds(op); ok {
			return lo, hi, ok
		}
	}
	return nil, nil, false
}

const maxConstrainedSize = 65535

// writeCount writes a count (octets, bits, or elements) using a
// constrained whole number when the governing SIZE constraint is bounded
// and small enough (spec §4.6 "bounded sizes ≤ 65535"), falling back to
// the general fragmented length determinant otherwise. When the
// constraint pins the count to a single value, no length determinant is
// written at all.
func writeCount(w *bitio.Writer, aligned bool, constraint *model.Constraint, n int, write func(start, size int)) {
	if lo, hi, ok := sizeBounds(constraint); ok {
		if lo.Cmp(hi) == 0 {
			write(0, n)
			return
		}
		if hi.IsInt64() && hi.Int64() <= maxConstrainedSize {
			writeConstrainedWholeNumber(w, aligned, lo, hi, big.NewInt(int64(n)))
			write(0, n)
			return
		}
	}
	writeLengthPrefixedContent(w, aligned, n, write)
}

func readCount(r *bitio.Reader, aligned bool, constraint *model.Constraint, read func(size int) error) error {
	if lo, hi, ok := sizeBounds(constraint); ok {
		if lo.Cmp(hi) == 0 {
			return read(int(lo.Int64()))
		}
		if hi.IsInt64() && hi.Int64() <= maxConstrainedSize {
			v, err := readConstrainedWholeNumber(r, aligned, lo, hi)
			if err != nil {
				return err
			}
			return read(int(v.Int64()))
		}
	}
	_, err := readLengthPrefixedContent(r, aligned, read)
	return err
}
