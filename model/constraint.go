package model

import (
	"math/big"
	"strings"
)

// ConstraintKind identifies the variant of a [Constraint] node (spec §3).
type ConstraintKind int

const (
	ConstraintSingleValue ConstraintKind = iota
	ConstraintValueRange
	ConstraintSize
	ConstraintPermittedAlphabet
	ConstraintContaining
	ConstraintIntersection
	ConstraintUnion
	ConstraintComplement
	ConstraintWithComponents
)

// Presence is the per-member presence requirement of a WITH COMPONENTS
// constraint entry.
type Presence int

const (
	PresenceUnspecified Presence = iota
	PresencePresent
	PresenceAbsent
)

// ComponentConstraint is one entry of a WITH COMPONENTS constraint,
// constraining the presence and/or value of a single named member.
type ComponentConstraint struct {
	Name     string
	Presence Presence
	Value    *Constraint
}

// Constraint is a node in the constraint tree attached to a Type. Nested
// constraints combine per X.680 §47: intersection ("^") binds tighter than
// union ("|"); ALL EXCEPT is complement. An extensible constraint (one that
// used "..." in source) splits into a closed Root and an open Extension:
// values in Root always satisfy the constraint; values in Extension satisfy
// it only when the type itself is used in a context that accepts
// extension-range values (PER/OER set the extension bit; BER/DER accept
// both ranges unconditionally since they carry no such bit).
type Constraint struct {
	Kind ConstraintKind

	// SingleValue
	Value *Value

	// ValueRange / Size: Lo/Hi are inclusive bounds, nil meaning MIN/MAX
	// (an open end). LoOpen/HiOpen mark "<" exclusivity ("a<..<b" syntax).
	Lo, Hi         *big.Int
	LoOpen, HiOpen bool

	// PermittedAlphabet holds the constraint (commonly a union of
	// ConstraintSingleValue/ConstraintValueRange character codepoints)
	// defining the allowed alphabet.
	Alphabet *Constraint

	// Containing names the type a CONTAINING constraint's octets must
	// decode as.
	Containing *Type

	// Intersection/Union/Complement operands.
	Operands []*Constraint // Intersection, Union
	Operand  *Constraint   // Complement (ALL EXCEPT)

	// WithComponents.
	Components []ComponentConstraint

	// Extensible is true iff this constraint carried a "..." marker in
	// source. Extension is nil unless Extensible is true.
	Extensible bool
	Extension  *Constraint
}

// NormalizeRange validates that a value-range or size constraint has lo <=
// hi (when both bounds are closed) and returns an error otherwise. Empty
// ranges are a compile-time error (spec §3 invariants).
func (c *Constraint) NormalizeRange() error {
	if c.Lo != nil && c.Hi != nil && c.Lo.Cmp(c.Hi) > 0 {
		return errEmptyRange
	}
	return nil
}

var errEmptyRange = &rangeError{}

type rangeError struct{}

func (*rangeError) Error() string { return "empty constraint range: lo > hi" }

// Bounds returns the closed numeric bounds of c if c (or its root, for an
// extensible constraint) reduces to a single value-range or single-value
// constraint, e.g. "INTEGER (0..100)" or "INTEGER (5)". ok is false for any
// other shape (unions of disjoint ranges, alphabet constraints, ...), in
// which case callers fall back to semi-constrained/unconstrained encoding.
func (c *Constraint) Bounds() (lo, hi *big.Int, ok bool) {
	if c == nil {
		return nil, nil, false
	}
	switch c.Kind {
	case ConstraintValueRange, ConstraintSize:
		if c.LoOpen || c.HiOpen {
			return nil, nil, false
		}
		return c.Lo, c.Hi, c.Lo != nil && c.Hi != nil
	case ConstraintSingleValue:
		if c.Value == nil || c.Value.Kind != KindInteger {
			return nil, nil, false
		}
		return c.Value.Int, c.Value.Int, true
	}
	return nil, nil, false
}

// Root returns the closed (non-extension) part of c, or c itself if c is
// not extensible.
func (c *Constraint) Root() *Constraint {
	return c
}

// Contains reports whether v satisfies c. It evaluates only the closed
// root of c; callers that need to admit extension-range values must check
// c.Extension separately and set the codec's extension bit accordingly
// (spec §4.6 "Extension bit").
func (c *Constraint) Contains(v *Value) bool {
	if c == nil {
		return true
	}
	switch c.Kind {
	case ConstraintSingleValue:
		return c.Value.Equal(v)
	case ConstraintValueRange:
		n := numericValue(v)
		if n == nil {
			return false
		}
		return withinBound(n, c.Lo, c.LoOpen, true) && withinBound(n, c.Hi, c.HiOpen, false)
	case ConstraintSize:
		n := big.NewInt(int64(valueLength(v)))
		return withinBound(n, c.Lo, c.LoOpen, true) && withinBound(n, c.Hi, c.HiOpen, false)
	case ConstraintPermittedAlphabet:
		return alphabetContains(c.Alphabet, v)
	case ConstraintContaining:
		return v.Kind == KindOctetString || v.Kind == KindBitString
	case ConstraintIntersection:
		for _, op := range c.Operands {
			if !op.Contains(v) {
				return false
			}
		}
		return true
	case ConstraintUnion:
		for _, op := range c.Operands {
			if op.Contains(v) {
				return true
			}
		}
		return len(c.Operands) == 0
	case ConstraintComplement:
		return !c.Operand.Contains(v)
	case ConstraintWithComponents:
		return withComponentsContains(c.Components, v)
	}
	return true
}

func numericValue(v *Value) *big.Int {
	if v == nil {
		return nil
	}
	if v.Kind == KindInteger || v.Kind == KindEnumerated {
		return v.Int
	}
	return nil
}

func valueLength(v *Value) int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case KindOctetString:
		return len(v.Bytes)
	case KindBitString:
		return v.Bits.BitLength
	case KindSequenceOf, KindSetOf:
		return len(v.List)
	default:
		if v.IsString() {
			return len([]rune(v.Str))
		}
	}
	return 0
}

func withinBound(n, bound *big.Int, open bool, lower bool) bool {
	if bound == nil {
		return true
	}
	cmp := n.Cmp(bound)
	if lower {
		if open {
			return cmp > 0
		}
		return cmp >= 0
	}
	if open {
		return cmp < 0
	}
	return cmp <= 0
}

func alphabetContains(alphabet *Constraint, v *Value) bool {
	if alphabet == nil || !v.IsString() {
		return true
	}
	for _, r := range v.Str {
		cv := &Value{Kind: KindInteger, Int: big.NewInt(int64(r))}
		if !alphabet.Contains(cv) {
			return false
		}
	}
	return true
}

// Admits reports whether v satisfies c for the purpose of the Encode/Decode
// ConstraintViolation check (spec §8 "Constraint enforcement"). Unlike
// Contains, which evaluates only the closed root, Admits also accepts
// values outside the root when c is extensible: a "..." marker with no
// further extension-addition constraint leaves the extension range
// unbounded, so any value that fails the root is admitted (this is also
// exactly what asn1/uper's encodeInteger/decodeInteger already assume when
// they fall back to the unconstrained form on ext == true). When an
// extension-addition constraint is present, it narrows that range instead
// of leaving it unbounded. BER/DER carry no extension bit at all, so for
// them Admits is the only gate; PER/OER additionally consult t.Extensible
// themselves to decide the wire's extension bit, then decode/encode
// through Contains once that bit is settled.
func (c *Constraint) Admits(v *Value) bool {
	if c == nil {
		return true
	}
	if c.Contains(v) {
		return true
	}
	if !c.Extensible {
		return false
	}
	if c.Extension != nil {
		return c.Extension.Contains(v)
	}
	return true
}

// ConstraintError is the Err wrapped by a ConstraintViolation CodecError. It
// names the value that failed and the root constraint it was checked
// against (spec §8 scenario 6: "ConstraintViolation{ path, value, root }").
type ConstraintError struct {
	Value *Value
	Root  *Constraint
}

func (e *ConstraintError) Error() string {
	var sb strings.Builder
	sb.WriteString("value")
	if n := numericValue(e.Value); n != nil {
		sb.WriteByte(' ')
		sb.WriteString(n.String())
	}
	sb.WriteString(" does not satisfy constraint")
	if lo, hi, ok := e.Root.Bounds(); ok {
		sb.WriteString(" (")
		if lo != nil {
			sb.WriteString(lo.String())
		} else {
			sb.WriteString("MIN")
		}
		sb.WriteString("..")
		if hi != nil {
			sb.WriteString(hi.String())
		} else {
			sb.WriteString("MAX")
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func withComponentsContains(comps []ComponentConstraint, v *Value) bool {
	if v.Kind != KindSequence {
		return true
	}
	for _, c := range comps {
		f, ok := v.Field(c.Name)
		switch c.Presence {
		case PresencePresent:
			if !ok {
				return false
			}
		case PresenceAbsent:
			if ok {
				return false
			}
		}
		if ok && c.Value != nil && !c.Value.Contains(f) {
			return false
		}
	}
	return true
}
