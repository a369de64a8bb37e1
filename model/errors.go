package model

import "strings"

// PathSegment is one step of the path from a Schema's root type down to the
// node where an encode or decode operation failed (spec §4.10, §7).
type PathSegment struct {
	// Type is the type name at this step, e.g. "MyType" or "SEQUENCE".
	Type string
	// Member is the member/alternative name at this step, empty if this
	// segment is an array index instead.
	Member string
	// Index is the element index within a SEQUENCE OF/SET OF, or -1 if this
	// segment is a named member instead.
	Index int
}

func (s PathSegment) String() string {
	if s.Member != "" {
		return s.Member
	}
	if s.Type != "" {
		return s.Type
	}
	if s.Index >= 0 {
		return "[" + itoa(s.Index) + "]"
	}
	return ""
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	p := len(buf)
	for i > 0 {
		p--
		buf[p] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		p--
		buf[p] = '-'
	}
	return string(buf[p:])
}

// CodecErrorKind classifies a [CodecError]. The same kind set covers both
// directions: encode failures are typically ConstraintViolation or
// EncodeError{Kind}; decode failures are bounded by input length and must
// produce OutOfBuffer rather than reading past the given input (spec
// §4.10).
type CodecErrorKind int

const (
	ConstraintViolation CodecErrorKind = iota
	UnexpectedTag
	IndefiniteInDER
	NonMinimalLength
	OutOfBuffer
	BadUTF8
	TrailingData
	ShapeMismatch
	Unsupported
)

func (k CodecErrorKind) String() string {
	switch k {
	case ConstraintViolation:
		return "ConstraintViolation"
	case UnexpectedTag:
		return "UnexpectedTag"
	case IndefiniteInDER:
		return "IndefiniteInDER"
	case NonMinimalLength:
		return "NonMinimalLength"
	case OutOfBuffer:
		return "OutOfBuffer"
	case BadUTF8:
		return "BadUTF8"
	case TrailingData:
		return "TrailingData"
	case ShapeMismatch:
		return "ShapeMismatch"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// CodecError is returned by every codec's Encode/Decode. It always
// identifies the path from the root type to the failing node; no recovery
// happens inside a codec and no CodecError mutates Schema state (spec §7).
type CodecError struct {
	Kind   CodecErrorKind
	Path   []PathSegment
	Offset int64 // byte (or bit, for asn1/uper) offset, -1 if not applicable
	Err    error
}

func (e *CodecError) Error() string {
	var s strings.Builder
	s.WriteString(e.Kind.String())
	if len(e.Path) > 0 {
		s.WriteString(" at ")
		first := true
		for _, seg := range e.Path {
			str := seg.String()
			if str == "" {
				continue
			}
			if !first {
				s.WriteByte('.')
			}
			first = false
			s.WriteString(str)
		}
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}

func (e *CodecError) Unwrap() error { return e.Err }

// WithSegment returns a copy of e with seg prepended to its Path. Codecs
// build paths bottom-up as errors propagate out of recursive encode/decode
// calls.
func (e *CodecError) WithSegment(seg PathSegment) *CodecError {
	out := *e
	out.Path = append([]PathSegment{seg}, e.Path...)
	return &out
}
