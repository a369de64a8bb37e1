package bitio

import (
	"bytes"
	"testing"
)

func TestWriterBitPacking(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	w.WriteBits(0b00000, 5) // 1 00000
	w.WriteBits(0b10, 2)    // 10 -> first byte 10000010
	if got, want := w.Bytes(), []byte{0x82}; !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = %#x, want %#x", got, want)
	}
}

func TestWriterAlignPads(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b1, 1)
	w.Align()
	if got, want := w.Bytes(), []byte{0x80}; !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = %#x, want %#x", got, want)
	}
	if w.BitLen() != 8 {
		t.Fatalf("BitLen() = %d, want 8", w.BitLen())
	}
}

func TestWriterBytesUnaligned(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b1, 1)
	w.WriteBytes([]byte{0xff})
	// 1 11111111 -> 11111111 1(pad 0000000)
	want := []byte{0xff, 0x80}
	if got := w.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = %#x, want %#x", got, want)
	}
}

func TestReaderRoundTripsWriter(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	w.WriteBits(42, 7)
	w.WriteBytes([]byte{0x01, 0x02})

	r := NewReader(w.Bytes())
	bit, err := r.ReadBit()
	if err != nil || !bit {
		t.Fatalf("ReadBit() = %v, %v, want true, nil", bit, err)
	}
	v, err := r.ReadBits(7)
	if err != nil || v != 42 {
		t.Fatalf("ReadBits(7) = %v, %v, want 42, nil", v, err)
	}
	b, err := r.ReadBytes(2)
	if err != nil || !bytes.Equal(b, []byte{0x01, 0x02}) {
		t.Fatalf("ReadBytes(2) = %#x, %v, want [01 02], nil", b, err)
	}
}

func TestReaderUnexpectedEOF(t *testing.T) {
	r := NewReader([]byte{0xff})
	if _, err := r.ReadBits(9); err == nil {
		t.Fatal("ReadBits(9) on a 1-byte buffer should fail")
	}
}

func TestReaderAlignSkipsPadding(t *testing.T) {
	r := NewReader([]byte{0x80, 0xff})
	bit, _ := r.ReadBit()
	if !bit {
		t.Fatal("expected leading bit to be 1")
	}
	r.Align()
	if !r.Aligned() {
		t.Fatal("expected reader to be aligned after Align")
	}
	v, err := r.ReadBits(8)
	if err != nil || v != 0xff {
		t.Fatalf("ReadBits(8) = %v, %v, want 0xff, nil", v, err)
	}
}

func TestBytesConsumedRoundsUpPartialOctet(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff})
	_, _ = r.ReadBits(9)
	if got := r.BytesConsumed(); got != 2 {
		t.Fatalf("BytesConsumed() = %d, want 2", got)
	}
}
