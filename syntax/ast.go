package syntax

import (
	"math/big"

	"asn1tool.dev/asn1/model"
)

// Module is one parsed ASN.1 module, before import resolution, tag
// assignment or constraint reduction (spec §4.2, §4.3 step 1). The module
// table, [asn1tool.dev/asn1/module.Table], stores these values as they
// are.
type Module struct {
	Name    string
	Tagging model.TaggingMode
	// Extensible is true when the module header carries an EXTENSIBILITY
	// IMPLIED marker (spec GLOSSARY "Extension marker").
	Extensible  bool
	Imports     []Import
	Exports     []string
	ExportsAll  bool // no EXPORTS clause, or "EXPORTS ALL"
	Assignments []Assignment
}

// Import is one "Symbol, Symbol FROM OtherModule" clause.
type Import struct {
	Symbols []string
	From    string
}

// Assignment is a TypeAssignment or a ValueAssignment.
type Assignment interface {
	assignmentName() string
}

// TypeAssignment is "Name ::= Type" or, with Params, a parameterized type
// definition (spec §4.9).
type TypeAssignment struct {
	Name   string
	Params []string
	Type   TypeExpr
}

func (a *TypeAssignment) assignmentName() string { return a.Name }

// ValueAssignment is "name Type ::= Value".
type ValueAssignment struct {
	Name  string
	Type  TypeExpr
	Value ValueExpr
}

func (a *ValueAssignment) assignmentName() string { return a.Name }

// TypeExpr is a type expression as written in source, before the resolver
// reduces it to a [model.Type].
type TypeExpr interface {
	typeExprNode()
}

// BuiltinType is a primitive or parameterless built-in type, e.g. INTEGER,
// BOOLEAN, UTF8String.
type BuiltinType struct {
	Kind model.Kind
}

func (*BuiltinType) typeExprNode() {}

// ActualParameter is one actual argument of a parameterized-type
// instantiation, e.g. the "INTEGER" in "Sequence{INTEGER}" (spec §4.9).
// Exactly one of Type or Value is set.
type ActualParameter struct {
	Type  TypeExpr
	Value ValueExpr
}

// ReferenceType is a reference to another type by name, optionally
// module-qualified and optionally instantiating a parameterized type.
type ReferenceType struct {
	Module  string // empty if unqualified
	Name    string
	Actuals []ActualParameter
}

func (*ReferenceType) typeExprNode() {}

// TaggedType wraps Inner in an explicit or implicit tag (spec §4.4 "Tagging
// modes"). Mode is "" when the tag carries no EXPLICIT/IMPLICIT keyword and
// the module's default tagging environment decides.
type TaggedType struct {
	ClassNum
	Mode  string // "EXPLICIT", "IMPLICIT", or ""
	Inner TypeExpr
}

func (*TaggedType) typeExprNode() {}

// ClassNum is a [class] number tag as written, e.g. "[APPLICATION 2]" or
// "[5]". An empty Class defaults to context-specific per X.680 §8.3.
type ClassNum struct {
	Class  string // "UNIVERSAL", "APPLICATION", "PRIVATE", or ""
	Number int
}

// MemberDecl is one member of a SEQUENCE/SET or one alternative of a
// CHOICE, before resolution assigns it an automatic tag.
type MemberDecl struct {
	Name           string
	Type           TypeExpr
	Optional       bool
	Default        ValueExpr // non-nil if DEFAULT was given
	ExtensionGroup int       // 0 = root; >0 = which "[[ ]]" group, in source order
}

// StructuredType is shared shape for SEQUENCE and SET.
type StructuredType struct {
	IsSet       bool
	Members     []MemberDecl
	Extensible  bool
	ExtraFields *ConstraintExpr // WITH COMPONENTS-style component constraint, rare
}

func (*StructuredType) typeExprNode() {}

// ChoiceType is CHOICE { ... }.
type ChoiceType struct {
	Alternatives []MemberDecl
	Extensible   bool
}

func (*ChoiceType) typeExprNode() {}

// CollectionOfType is SEQUENCE OF/SET OF Elem.
type CollectionOfType struct {
	IsSet bool
	Elem  TypeExpr
}

func (*CollectionOfType) typeExprNode() {}

// EnumItem is one ENUMERATED identifier, with an explicit number if given.
type EnumItem struct {
	Name   string
	Number *int
}

// EnumeratedType is ENUMERATED { ... }.
type EnumeratedType struct {
	Items      []EnumItem
	Extensible bool
}

func (*EnumeratedType) typeExprNode() {}

// ConstrainedTypeExpr is "Inner (Constraint)".
type ConstrainedTypeExpr struct {
	Inner      TypeExpr
	Constraint *ConstraintExpr
}

func (*ConstrainedTypeExpr) typeExprNode() {}

// ConstraintExpr is a constraint as written in source, mirroring
// [model.Constraint] but with unresolved ValueExprs instead of *model.Value
// (spec §4.4 "Subtype constraints").
type ConstraintExpr struct {
	Kind model.ConstraintKind

	// SingleValue
	Value ValueExpr

	// ValueRange
	Lo, LoMin bool // LoMin: lower bound is MIN
	HiVal     ValueExpr
	LoVal     ValueExpr
	HiMax     bool
	LoOpen    bool
	HiOpen    bool

	// Size / PermittedAlphabet / ContainedSubtype share Operand
	Operand *ConstraintExpr

	// Containing
	ContainingType TypeExpr

	// Intersection / Union
	Operands []*ConstraintExpr

	// Extensible marks a trailing ",..." in the constraint.
	Extensible bool

	// WithComponents
	Components []ComponentConstraintExpr
}

// ComponentConstraintExpr is one "Name Presence | Constraint" clause of a
// WITH COMPONENTS constraint.
type ComponentConstraintExpr struct {
	Name       string
	Presence   model.Presence
	Constraint *ConstraintExpr
}

// ValueExpr is a value expression as written in source.
type ValueExpr interface {
	valueExprNode()
}

type IntLiteral struct{ Value *big.Int }

func (*IntLiteral) valueExprNode() {}

type BoolLiteral struct{ Value bool }

func (*BoolLiteral) valueExprNode() {}

type NullLiteral struct{}

func (*NullLiteral) valueExprNode() {}

// StringLiteral is a quoted character-string value, cstring in X.680
// grammar terms.
type StringLiteral struct{ Value string }

func (*StringLiteral) valueExprNode() {}

// BitsLiteral is a 'xxxx'B or 'xx'H literal, already expanded to bytes.
// BitLength is the number of significant bits (may be less than
// len(Bytes)*8 for a 'B' literal whose length isn't a multiple of 8).
type BitsLiteral struct {
	Bytes     []byte
	BitLength int
}

func (*BitsLiteral) valueExprNode() {}

// OIDComponent is one arc of an OBJECT IDENTIFIER or RELATIVE-OID value,
// e.g. in "{ iso(1) member-body(2) 840 }" each arc may carry a name, a
// number, or both.
type OIDComponent struct {
	Name   string // empty if the arc is a bare number
	Number *int   // nil if the arc is a bare reference to another value
}

type OIDLiteral struct{ Arcs []OIDComponent }

func (*OIDLiteral) valueExprNode() {}

// Identifier is a bare lowercase reference to another value assignment, a
// named number, or (inside an ENUMERATED/CHOICE context) an enumeration
// item — disambiguated by the resolver, not the parser.
type Identifier struct{ Name string }

func (*Identifier) valueExprNode() {}

// SpecialRealValue is PLUS-INFINITY or MINUS-INFINITY. NOT-A-NUMBER is
// lexed as a keyword, but the parser produces no value for it.
type SpecialRealValue struct{ Kind string }

func (*SpecialRealValue) valueExprNode() {}
