package model

import (
	"errors"
	"testing"
)

func TestCodecErrorError(t *testing.T) {
	err := &CodecError{
		Kind: UnexpectedTag,
		Path: []PathSegment{{Type: "MySeq"}, {Member: "field"}, {Index: -1}},
		Err:  errors.New("bad tag"),
	}
	got := err.Error()
	want := "UnexpectedTag at MySeq.field: bad tag"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodecErrorErrorNoPath(t *testing.T) {
	err := &CodecError{Kind: OutOfBuffer}
	if got, want := err.Error(), "OutOfBuffer"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodecErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &CodecError{Kind: ShapeMismatch, Err: inner}
	if !errors.Is(err, inner) {
		t.Errorf("errors.Is(err, inner) = false, want true")
	}
}

func TestCodecErrorWithSegmentPrepends(t *testing.T) {
	err := &CodecError{Path: []PathSegment{{Member: "inner"}}}
	got := err.WithSegment(PathSegment{Member: "outer"})
	want := []string{"outer", "inner"}
	if len(got.Path) != len(want) {
		t.Fatalf("WithSegment() path length = %d, want %d", len(got.Path), len(want))
	}
	for i, seg := range got.Path {
		if seg.String() != want[i] {
			t.Errorf("WithSegment() path[%d] = %q, want %q", i, seg.String(), want[i])
		}
	}
	// the original error is untouched.
	if len(err.Path) != 1 {
		t.Errorf("WithSegment() mutated the original error's Path")
	}
}

func TestPathSegmentString(t *testing.T) {
	cases := []struct {
		seg  PathSegment
		want string
	}{
		{PathSegment{Member: "foo"}, "foo"},
		{PathSegment{Index: 3}, "[3]"},
		{PathSegment{Type: "INTEGER", Index: -1}, "INTEGER"},
	}
	for _, tc := range cases {
		if got := tc.seg.String(); got != tc.want {
			t.Errorf("PathSegment{%+v}.String() = %q, want %q", tc.seg, got, tc.want)
		}
	}
}

func TestCodecErrorKindString(t *testing.T) {
	if got := UnexpectedTag.String(); got != "UnexpectedTag" {
		t.Errorf("UnexpectedTag.String() = %q", got)
	}
	if got := CodecErrorKind(999).String(); got != "Unknown" {
		t.Errorf("unknown kind String() = %q, want %q", got, "Unknown")
	}
}
