// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"
	"io"
	"math"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/internal/vlq"
)

// LengthIndefinite when used as a magic number for the length of a [Header]
// indicates that the data value is encoded using the constructed
// indefinite-length format.
const LengthIndefinite = -1

// CombinedLength returns the length of a data value encoding (not including its
// header) consisting of data value encodings of the specified lengths. If any
// of the passed lengths are [LengthIndefinite], the result is
// [LengthIndefinite] as well.
func CombinedLength(ls ...int) int {
	sum := 0
	for _, l := range ls {
		if l == LengthIndefinite {
			return LengthIndefinite
		}
		if l > math.MaxInt-sum { // overflow
			return LengthIndefinite
		}
		sum += l
	}
	return sum
}

// Header represents the BER header of an encoded data value. The Length of the
// Header indicates the number of bytes that make up the content octets of the
// encoded data value. Length can also be the special value [LengthIndefinite]
// if the encoding uses the constructed indefinite-length encoding. In that
// case, Constructed must also be set to true.
type Header struct {
	Tag         asn1.Tag
	Length      int
	Constructed bool
}

// numBytes computes the number of bytes required to BER-encode h. The encode
// method will write this exact number of bytes.
func (h Header) numBytes() int {
	l := 1 // class, constructed, tag
	if h.Tag.Number() >= 31 {
		// tag does not fit
		l += vlq.Length(h.Tag.Number())
	}
	l++ // length
	if h.Length == LengthIndefinite || h.Length < 128 {
		return l
	}
	// multi-byte length
	l++
	for hl := h.Length; hl > 255; hl >>= 8 {
		l++
	}
	return l
}

// writeTo writes the BER-encoding of h to w. It returns the number of bytes
// written as well as any error that occurs during writing.
func (h Header) writeTo(w io.ByteWriter) (n int64, err error) {
	b := uint8(h.Tag.Class() >> 8)
	if h.Constructed {
		b |= 0x20
	}
	if h.Tag.Number() < 31 {
		b |= uint8(h.Tag.Number())
		if err = w.WriteByte(b); err != nil {
			return n, err
		}
		n++
	} else {
		b |= 0x1f
		if err = w.WriteByte(b); err != nil {
			return n, err
		}
		var written int
		written, err = vlq.Write(w, h.Tag.Number())
		n += int64(written) + 1
		if err != nil {
			return n, err
		}
	}

	if h.Length == LengthIndefinite {
		err = w.WriteByte(0x80)
	} else if h.Length >= 128 {
		numBytes := 1
		l := h.Length
		for l > 255 {
			numBytes++
			l >>= 8
		}
		err = w.WriteByte(0x80 | byte(numBytes))
		for ; numBytes > 0 && err == nil; numBytes-- {
			n++
			err = w.WriteByte(byte(h.Length >> uint((numBytes-1)*8)))
		}
	} else {
		err = w.WriteByte(byte(h.Length))
	}
	if err == nil {
		n++
	}

	return n, err
}

// decodeHeader reads the identifier and length octets of a data value encoding
// from r and returns them as a [Header] value. If the encoding is invalid an
// error is returned.
//
// If r returns io.EOF on the first read, the returned error will be io.EOF as
// well. If r produces a valid BER-encoded header, this method will not read any
// bytes past the header.
func decodeHeader(r io.ByteReader) (h Header, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return Header{}, err
	}
	h = Header{
		Tag:         asn1.Tag(b>>6)<<14 | asn1.Tag(b&0x1f),
		Constructed: b&0x20 == 0x20,
	}

	// If the bottom five bits are set, then the tag number is actually base 128
	// encoded afterward
	if b&0x1f == 0x1f {
		var n uint
		n, err = vlq.ReadMinimal[uint](r)
		h.Tag = h.Tag.Class() | (asn1.Tag(n) &^ (0b11 << 14))
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return h, err
		}
	}

	if b, err = r.ReadByte(); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return h, err
	}
	if b&0x80 == 0 {
		// The length is encoded in the bottom 7 bits.
		h.Length = int(b & 0x7f)
	} else if b == 0x80 {
		h.Length = LengthIndefinite
	} else {
		// Bottom 7 bits give the number of length bytes to follow.
		numBytes := int(b & 0x7f)
		h.Length = 0
		for i := 0; i < numBytes; i++ {
			if b, err = r.ReadByte(); err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return h, err
			}
			if h.Length >= 1<<23 {
				// We can't shift h.length up without overflowing.
				err = errors.New("length too large")
				continue
			}
			h.Length <<= 8
			h.Length |= int(b)
		}
	}
	return h, err
}

