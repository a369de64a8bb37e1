package model

import "asn1tool.dev/asn1"

// Type is a node in the frozen type model. It is a tagged union over Kind;
// only the fields relevant to Kind are meaningful for any given Type. Every
// Type is owned by exactly one Arena and is immutable once the Resolver
// returns it as part of a Schema: codecs never mutate a Type.
//
// Parameterized and Instantiated types from the ASN.1 source never appear
// here — the resolver substitutes their formal parameters and reduces them
// to a concrete Type before freezing the model (spec §3).
type Type struct {
	arena *Arena
	// Index is this Type's stable position within its Arena.
	Index int

	// Name is the type-reference name this Type was defined under, if any.
	// Anonymous types (inline member types, SEQUENCE OF element types
	// declared in place) have an empty Name.
	Name   string
	Module string

	Kind Kind

	// Tag is the effective wire tag for this Type: either its intrinsic
	// universal tag, or the tag the resolver assigned per the module's
	// TaggingMode.
	Tag asn1.Tag

	// Explicit is true if this Type represents an EXPLICIT-tagged wrapper
	// around WrappedIndex. Implicit tagging never sets Explicit: it is
	// folded into Tag directly on the wrapped Type by the resolver.
	Explicit     bool
	WrappedIndex int

	// ElemIndex is the element type for KindSequenceOf/KindSetOf.
	ElemIndex int

	// Members holds the ordered member list for KindSequence, KindSet and
	// KindChoice.
	Members []Member

	// Extensible reports whether this type's member/alternative list (or,
	// for KindEnumerated, its value list) carries a "..." extension marker.
	Extensible bool

	// NamedNumbers holds the symbolic names of an ENUMERATED type's roots,
	// in declaration order, alongside their integer values.
	NamedNumbers []NamedNumber

	// Constraint is the merged, root/extension-split constraint attached to
	// this type, or nil if unconstrained.
	Constraint *Constraint

	// Hints are precomputed, derived encoding accelerants (spec §4.4):
	// never source, always recomputed from Constraint and Kind by the
	// resolver after constraint attachment.
	Hints EncodingHints
}

// NamedNumber associates an ENUMERATED (or INTEGER-with-named-numbers)
// symbolic name with its integer value.
type NamedNumber struct {
	Name  string
	Value int64
}

// Member is one named component of a SEQUENCE, SET or CHOICE.
type Member struct {
	Name           string
	TypeIndex      int
	Tag            asn1.Tag
	Optional       bool
	Default        *Value
	ExtensionGroup int // 0 = root, k >= 1 = k-th extension addition group
}

// Wrapped returns the inner Type of an EXPLICIT-tagged Type. It must only be
// called when t.Kind == KindTagged && t.Explicit.
func (t *Type) Wrapped() *Type {
	return t.arena.At(t.WrappedIndex)
}

// Elem returns the element Type of a KindSequenceOf/KindSetOf Type.
func (t *Type) Elem() *Type {
	return t.arena.At(t.ElemIndex)
}

// MemberType returns the Type of the i-th Member of t. t must be a
// KindSequence, KindSet or KindChoice.
func (t *Type) MemberType(i int) *Type {
	return t.arena.At(t.Members[i].TypeIndex)
}

// Member looks up a member of t (a KindSequence/KindSet/KindChoice) by
// name. The second return value is false if no such member exists.
func (t *Type) Member(name string) (Member, int, bool) {
	for i, m := range t.Members {
		if m.Name == name {
			return m, i, true
		}
	}
	return Member{}, -1, false
}

// RootMembers returns the number of members of t (a KindSequence or
// KindSet) belonging to the extension root, i.e. with ExtensionGroup == 0.
// Root members always sort before extension additions in Members.
func (t *Type) RootMembers() int {
	n := 0
	for _, m := range t.Members {
		if m.ExtensionGroup == 0 {
			n++
		}
	}
	return n
}

// OptionalOrDefaultRootMembers returns the OPTIONAL/DEFAULT members among
// t's root members, in declaration order. This is exactly the bitmap order
// PER/OER preambles use (spec §4.6, §4.7).
func (t *Type) OptionalOrDefaultRootMembers() []int {
	var idx []int
	for i, m := range t.Members {
		if m.ExtensionGroup != 0 {
			continue
		}
		if m.Optional || m.Default != nil {
			idx = append(idx, i)
		}
	}
	return idx
}
