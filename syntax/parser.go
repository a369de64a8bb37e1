package syntax

import (
	"math/big"

	"asn1tool.dev/asn1/model"
)

// Source is one named chunk of ASN.1 module text (spec §4.1, mirrored by
// [asn1tool.dev/asn1/schema.Source] so callers never import asn1/syntax
// just to build one).
type Source struct {
	Name string
	Text string
}

// Parse lexes and parses every source, returning the concatenation of all
// modules found. It does not stop at the first error: each module parsed
// so far that did not error is kept, and all errors encountered across all
// sources are returned together so a caller sees every syntax problem in
// one pass (spec §7 "batch, not single-shot").
func Parse(sources []Source) ([]*Module, []error) {
	var modules []*Module
	var errs []error
	for _, src := range sources {
		p := &parser{lex: newLexer(src.Name, src.Text)}
		p.advance()
		for p.tok.kind != tokEOF {
			mod, err := p.parseModule()
			if err != nil {
				errs = append(errs, err)
				p.recoverToNextModule()
				continue
			}
			modules = append(modules, mod)
		}
		errs = append(errs, p.errs...)
	}
	return modules, errs
}

type parser struct {
	lex  *lexer
	tok  token
	errs []error
}

func (p *parser) advance() {
	tok, err := p.lex.next()
	if err != nil {
		p.errs = append(p.errs, err)
		// Treat a lex error as EOF for this source; recovery at the module
		// level already bounds the damage.
		p.tok = token{kind: tokEOF}
		return
	}
	p.tok = tok
}

func (p *parser) errorf(expected string) *Error {
	found := p.tok.text
	if p.tok.kind == tokEOF {
		found = "end of input"
	}
	return p.lex.errorf(p.tok.line, p.tok.column, expected, found)
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok.kind == tokKeyword && p.tok.text == kw
}

func (p *parser) isPunct(s string) bool {
	return p.tok.kind == tokPunct && p.tok.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errorf("'" + s + "'")
	}
	p.advance()
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf(kw)
	}
	p.advance()
	return nil
}

// recoverToNextModule skips tokens up to and including the next "END"
// keyword, or to EOF, whichever comes first. This
// bounds the blast radius of one malformed module within a multi-module
// source file.
func (p *parser) recoverToNextModule() {
	for p.tok.kind != tokEOF {
		if p.isKeyword("END") {
			p.advance()
			return
		}
		p.advance()
	}
}

// parseModule parses ModuleDefinition per X.680 §11.
//
//	ModuleIdentifier DEFINITIONS [TagDefault] [ExtensionDefault] "::=" BEGIN
//	  [ExportsList] [ImportsList] AssignmentList
//	END
func (p *parser) parseModule() (*Module, error) {
	if p.tok.kind != tokTypeRef {
		return nil, p.errorf("a module identifier")
	}
	mod := &Module{Name: p.tok.text}
	p.advance()

	// Optional object-identifier-value module identifier suffix, e.g.
	// "Foo { iso(1) 2 3 }" — recognized and discarded; modules are keyed by
	// name alone (spec §4.2).
	if p.isPunct("{") {
		if err := p.skipBraced(); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("DEFINITIONS"); err != nil {
		return nil, err
	}

	switch {
	case p.isKeyword("EXPLICIT"):
		p.advance()
		mod.Tagging = model.Explicit
		if err := p.expectKeyword("TAGS"); err != nil {
			return nil, err
		}
	case p.isKeyword("IMPLICIT"):
		p.advance()
		mod.Tagging = model.Implicit
		if err := p.expectKeyword("TAGS"); err != nil {
			return nil, err
		}
	case p.isKeyword("AUTOMATIC"):
		p.advance()
		mod.Tagging = model.Automatic
		if err := p.expectKeyword("TAGS"); err != nil {
			return nil, err
		}
	default:
		mod.Tagging = model.Explicit
	}

	if p.isKeyword("EXTENSIBILITY") {
		p.advance()
		if err := p.expectKeyword("IMPLIED"); err != nil {
			return nil, err
		}
		mod.Extensible = true
	}

	if err := p.expectPunct("::="); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("BEGIN"); err != nil {
		return nil, err
	}

	if p.isKeyword("EXPORTS") {
		p.advance()
		if p.isKeyword("ALL") {
			p.advance()
			mod.ExportsAll = true
		} else {
			for p.tok.kind == tokTypeRef || p.tok.kind == tokValueRef {
				mod.Exports = append(mod.Exports, p.tok.text)
				p.advance()
				if p.isPunct(",") {
					p.advance()
					continue
				}
				break
			}
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	} else {
		mod.ExportsAll = true
	}

	if p.isKeyword("IMPORTS") {
		p.advance()
		for !p.isPunct(";") && p.tok.kind != tokEOF {
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			mod.Imports = append(mod.Imports, imp)
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}

	for !p.isKeyword("END") {
		if p.tok.kind == tokEOF {
			return nil, p.errorf("END")
		}
		a, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		mod.Assignments = append(mod.Assignments, a)
	}
	p.advance() // END

	return mod, nil
}

func (p *parser) parseImport() (Import, error) {
	var imp Import
	for p.tok.kind == tokTypeRef || p.tok.kind == tokValueRef {
		imp.Symbols = append(imp.Symbols, p.tok.text)
		p.advance()
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return imp, err
	}
	if p.tok.kind != tokTypeRef {
		return imp, p.errorf("a module name")
	}
	imp.From = p.tok.text
	p.advance()
	// Skip an optional OID-value module reference after the module name.
	if p.isPunct("{") {
		if err := p.skipBraced(); err != nil {
			return imp, err
		}
	}
	return imp, nil
}

// skipBraced consumes a balanced "{ ... }" group without interpreting it.
func (p *parser) skipBraced() error {
	if err := p.expectPunct("{"); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.tok.kind == tokEOF {
			return p.errorf("'}'")
		}
		if p.isPunct("{") {
			depth++
		} else if p.isPunct("}") {
			depth--
		}
		p.advance()
	}
	return nil
}

// parseAssignment dispatches on the assignment's leading identifier kind:
// a value assignment starts "valuereference Type ::=" with a lowercase
// identifier, a type assignment (parameterized or not) with a type
// reference, so the first token alone decides.
func (p *parser) parseAssignment() (Assignment, error) {
	if p.tok.kind == tokValueRef {
		name := p.tok.text
		p.advance()
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("::="); err != nil {
			return nil, err
		}
		val, err := p.parseValueExpr()
		if err != nil {
			return nil, err
		}
		return &ValueAssignment{Name: name, Type: typ, Value: val}, nil
	}
	if p.tok.kind == tokTypeRef {
		name := p.tok.text
		p.advance()
		var params []string
		if p.isPunct("{") {
			p.advance()
			for p.tok.kind == tokTypeRef || p.tok.kind == tokValueRef {
				params = append(params, p.tok.text)
				p.advance()
				if p.isPunct(",") {
					p.advance()
					continue
				}
				break
			}
			if err := p.expectPunct("}"); err != nil {
				return nil, err
			}
		}
		if err := p.expectPunct("::="); err != nil {
			return nil, err
		}
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		return &TypeAssignment{Name: name, Params: params, Type: typ}, nil
	}
	return nil, p.errorf("a type or value assignment")
}

// parseTypeExpr parses Type per X.680 §16, including an optional tag
// prefix and an optional trailing "(Constraint)".
func (p *parser) parseTypeExpr() (TypeExpr, error) {
	var t TypeExpr
	var err error

	if p.isPunct("[") {
		t, err = p.parseTaggedType()
	} else {
		t, err = p.parseUntaggedType()
	}
	if err != nil {
		return nil, err
	}

	for p.isPunct("(") {
		c, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		t = &ConstrainedTypeExpr{Inner: t, Constraint: c}
	}
	return t, nil
}

func (p *parser) parseTaggedType() (TypeExpr, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var cn ClassNum
	switch {
	case p.isKeyword("UNIVERSAL"), p.isKeyword("APPLICATION"), p.isKeyword("PRIVATE"):
		cn.Class = p.tok.text
		p.advance()
	}
	if p.tok.kind != tokNumber {
		return nil, p.errorf("a tag number")
	}
	cn.Number = atoiSmall(p.tok.text)
	p.advance()
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	mode := ""
	if p.isKeyword("EXPLICIT") {
		mode = "EXPLICIT"
		p.advance()
	} else if p.isKeyword("IMPLICIT") {
		mode = "IMPLICIT"
		p.advance()
	}
	inner, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	return &TaggedType{ClassNum: cn, Mode: mode, Inner: inner}, nil
}

var builtinKeywordKind = map[string]model.Kind{
	"BOOLEAN":          model.KindBoolean,
	"INTEGER":          model.KindInteger,
	"REAL":             model.KindReal,
	"NULL":             model.KindNull,
	"ObjectDescriptor": model.KindObjectDescriptor,
	"UTF8String":       model.KindUTF8String,
	"IA5String":        model.KindIA5String,
	"PrintableString":  model.KindPrintableString,
	"NumericString":    model.KindNumericString,
	"VisibleString":    model.KindVisibleString,
	"UniversalString":  model.KindUniversalString,
	"BMPString":        model.KindBMPString,
	"TeletexString":    model.KindTeletexString,
	"T61String":        model.KindTeletexString,
	"VideotexString":   model.KindVideotexString,
	"GraphicString":    model.KindGraphicString,
	"GeneralString":    model.KindGeneralString,
	"UTCTime":          model.KindUTCTime,
	"GeneralizedTime":  model.KindGeneralizedTime,
	"DATE":             model.KindDate,
	"TIME-OF-DAY":      model.KindTimeOfDay,
	"DATE-TIME":        model.KindDateTime,
	"DURATION":         model.KindDuration,
}

// parseUntaggedType parses Type without a leading tag: built-ins,
// constructed types, references and parameterized-type instantiations.
func (p *parser) parseUntaggedType() (TypeExpr, error) {
	switch {
	case p.isKeyword("SEQUENCE"):
		return p.parseSequenceOrSet(false)
	case p.isKeyword("SET"):
		return p.parseSequenceOrSet(true)
	case p.isKeyword("CHOICE"):
		return p.parseChoice()
	case p.isKeyword("ENUMERATED"):
		return p.parseEnumerated()
	case p.isKeyword("OBJECT"):
		p.advance()
		if err := p.expectKeyword("IDENTIFIER"); err != nil {
			return nil, err
		}
		return &BuiltinType{Kind: model.KindObjectIdentifier}, nil
	case p.isKeyword("RELATIVE-OID"):
		p.advance()
		return &BuiltinType{Kind: model.KindRelativeOID}, nil
	case p.isKeyword("OCTET"):
		p.advance()
		if err := p.expectKeyword("STRING"); err != nil {
			return nil, err
		}
		return &BuiltinType{Kind: model.KindOctetString}, nil
	case p.isKeyword("BIT"):
		p.advance()
		if err := p.expectKeyword("STRING"); err != nil {
			return nil, err
		}
		if p.isPunct("{") {
			if err := p.skipBraced(); err != nil {
				return nil, err
			}
		}
		return &BuiltinType{Kind: model.KindBitString}, nil
	case p.isKeyword("ANY"):
		p.advance()
		return &BuiltinType{Kind: model.KindAny}, nil
	case p.isKeyword("TIME"):
		p.advance()
		return &BuiltinType{Kind: model.KindGeneralizedTime}, nil
	case p.tok.kind == tokKeyword:
		if kind, ok := builtinKeywordKind[p.tok.text]; ok {
			p.advance()
			return &BuiltinType{Kind: kind}, nil
		}
		return nil, p.errorf("a type")
	case p.tok.kind == tokTypeRef:
		return p.parseReferenceType()
	}
	return nil, p.errorf("a type")
}

func (p *parser) parseReferenceType() (TypeExpr, error) {
	name := p.tok.text
	p.advance()
	ref := &ReferenceType{Name: name}
	if p.isPunct(".") {
		p.advance()
		if p.tok.kind != tokTypeRef {
			return nil, p.errorf("a type name")
		}
		ref.Module = name
		ref.Name = p.tok.text
		p.advance()
	}
	if p.isPunct("{") {
		p.advance()
		for !p.isPunct("}") {
			actual, err := p.parseActualParameter()
			if err != nil {
				return nil, err
			}
			ref.Actuals = append(ref.Actuals, actual)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// parseActualParameter disambiguates a type actual from a value actual by
// trying a type first; ASN.1's grammar is ambiguous here in general, but a
// leading type-reference-or-builtin-keyword token always starts a type in
// the subset this package parses.
func (p *parser) parseActualParameter() (ActualParameter, error) {
	if p.tok.kind == tokTypeRef || p.tok.kind == tokKeyword {
		t, err := p.parseTypeExpr()
		if err != nil {
			return ActualParameter{}, err
		}
		return ActualParameter{Type: t}, nil
	}
	v, err := p.parseValueExpr()
	if err != nil {
		return ActualParameter{}, err
	}
	return ActualParameter{Value: v}, nil
}

func (p *parser) parseSequenceOrSet(isSet bool) (TypeExpr, error) {
	p.advance() // SEQUENCE / SET
	if p.isKeyword("OF") {
		p.advance()
		elem, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		return &CollectionOfType{IsSet: isSet, Elem: elem}, nil
	}
	st := &StructuredType{IsSet: isSet}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	group := 0
	for !p.isPunct("}") {
		if p.isPunct("...") {
			p.advance()
			st.Extensible = true
			if p.isPunct(",") {
				p.advance()
				continue
			}
			continue
		}
		if p.isPunct("[[") {
			p.advance()
			group++
			for !p.isPunct("]]") {
				m, err := p.parseMemberDecl(group)
				if err != nil {
					return nil, err
				}
				st.Members = append(st.Members, m)
				if p.isPunct(",") {
					p.advance()
					continue
				}
				break
			}
			if err := p.expectPunct("]]"); err != nil {
				return nil, err
			}
			if p.isPunct(",") {
				p.advance()
			}
			continue
		}
		m, err := p.parseMemberDecl(0)
		if err != nil {
			return nil, err
		}
		st.Members = append(st.Members, m)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *parser) parseMemberDecl(group int) (MemberDecl, error) {
	if p.tok.kind != tokValueRef {
		return MemberDecl{}, p.errorf("a member name")
	}
	m := MemberDecl{Name: p.tok.text, ExtensionGroup: group}
	p.advance()
	typ, err := p.parseTypeExpr()
	if err != nil {
		return MemberDecl{}, err
	}
	m.Type = typ
	if p.isKeyword("OPTIONAL") {
		p.advance()
		m.Optional = true
	} else if p.isKeyword("DEFAULT") {
		p.advance()
		v, err := p.parseValueExpr()
		if err != nil {
			return MemberDecl{}, err
		}
		m.Default = v
	}
	return m, nil
}

func (p *parser) parseChoice() (TypeExpr, error) {
	p.advance() // CHOICE
	ct := &ChoiceType{}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if p.isPunct("...") {
			p.advance()
			ct.Extensible = true
			if p.isPunct(",") {
				p.advance()
				continue
			}
			continue
		}
		m, err := p.parseMemberDecl(0)
		if err != nil {
			return nil, err
		}
		ct.Alternatives = append(ct.Alternatives, m)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ct, nil
}

func (p *parser) parseEnumerated() (TypeExpr, error) {
	p.advance() // ENUMERATED
	et := &EnumeratedType{}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if p.isPunct("...") {
			p.advance()
			et.Extensible = true
			if p.isPunct(",") {
				p.advance()
				continue
			}
			continue
		}
		if p.tok.kind != tokValueRef {
			return nil, p.errorf("an enumeration identifier")
		}
		item := EnumItem{Name: p.tok.text}
		p.advance()
		if p.isPunct("(") {
			p.advance()
			if p.tok.kind != tokNumber {
				return nil, p.errorf("a number")
			}
			n := atoiSmall(p.tok.text)
			item.Number = &n
			p.advance()
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
		}
		et.Items = append(et.Items, item)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return et, nil
}

// parseConstraint parses "(" ElementSetSpecs ")". Supported element sets:
// single value, value range (with MIN/MAX; "<" exclusive bounds are not
// accepted), SIZE,
// CONTAINING, intersection "^" and union "|", and a trailing extension
// marker. WITH COMPONENTS is supported for the common
// "{ Name Presence, ... }" shape (spec's documented simplification, see
// DESIGN.md).
func (p *parser) parseConstraint() (*ConstraintExpr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	c, err := p.parseConstraintUnion()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *parser) parseConstraintUnion() (*ConstraintExpr, error) {
	first, err := p.parseConstraintIntersection()
	if err != nil {
		return nil, err
	}
	operands := []*ConstraintExpr{first}
	for p.isPunct("|") || p.isKeyword("UNION") {
		p.advance()
		next, err := p.parseConstraintIntersection()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return &ConstraintExpr{Kind: model.ConstraintUnion, Operands: operands}, nil
}

func (p *parser) parseConstraintIntersection() (*ConstraintExpr, error) {
	first, err := p.parseConstraintAtom()
	if err != nil {
		return nil, err
	}
	operands := []*ConstraintExpr{first}
	for p.isPunct("^") || p.isKeyword("INTERSECTION") {
		p.advance()
		next, err := p.parseConstraintAtom()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return &ConstraintExpr{Kind: model.ConstraintIntersection, Operands: operands}, nil
}

func (p *parser) parseConstraintAtom() (*ConstraintExpr, error) {
	if p.isPunct("...") {
		p.advance()
		return &ConstraintExpr{Kind: model.ConstraintSingleValue, Extensible: true}, nil
	}
	if p.isKeyword("SIZE") {
		p.advance()
		inner, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		return &ConstraintExpr{Kind: model.ConstraintSize, Operand: inner}, nil
	}
	if p.isKeyword("FROM") {
		p.advance()
		inner, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		return &ConstraintExpr{Kind: model.ConstraintPermittedAlphabet, Operand: inner}, nil
	}
	if p.isKeyword("CONTAINING") {
		p.advance()
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		return &ConstraintExpr{Kind: model.ConstraintContaining, ContainingType: t}, nil
	}
	if p.isKeyword("WITH") {
		p.advance()
		if err := p.expectKeyword("COMPONENTS"); err != nil {
			return nil, err
		}
		return p.parseWithComponents()
	}
	if p.isKeyword("ALL") {
		p.advance()
		if err := p.expectKeyword("EXCEPT"); err != nil {
			return nil, err
		}
		operand, err := p.parseConstraintAtom()
		if err != nil {
			return nil, err
		}
		return &ConstraintExpr{Kind: model.ConstraintComplement, Operand: operand}, nil
	}
	if p.isPunct("(") {
		return p.parseConstraint()
	}

	lo, loMin, err := p.parseConstraintBound()
	if err != nil {
		return nil, err
	}
	if p.isPunct("..") {
		p.advance()
		hi, hiMax, err := p.parseConstraintBound()
		if err != nil {
			return nil, err
		}
		ce := &ConstraintExpr{Kind: model.ConstraintValueRange}
		if !loMin {
			ce.LoVal = lo
		}
		ce.LoMin = loMin
		if !hiMax {
			ce.HiVal = hi
		}
		ce.HiMax = hiMax
		return ce, nil
	}
	return &ConstraintExpr{Kind: model.ConstraintSingleValue, Value: lo}, nil
}

// parseConstraintBound parses one endpoint of a ValueRange: MIN, MAX, or a
// value expression.
func (p *parser) parseConstraintBound() (ValueExpr, bool, error) {
	if p.isKeyword("MIN") || p.isKeyword("MAX") {
		isMin := p.isKeyword("MIN")
		p.advance()
		return nil, isMin, nil
	}
	v, err := p.parseValueExpr()
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}

func (p *parser) parseWithComponents() (*ConstraintExpr, error) {
	ce := &ConstraintExpr{Kind: model.ConstraintWithComponents}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if p.isPunct("...") {
		p.advance()
		if p.isPunct(",") {
			p.advance()
		}
	}
	for !p.isPunct("}") {
		if p.tok.kind != tokValueRef {
			return nil, p.errorf("a component name")
		}
		cc := ComponentConstraintExpr{Name: p.tok.text}
		p.advance()
		if p.isKeyword("PRESENT") {
			p.advance()
			cc.Presence = model.PresencePresent
		} else if p.isKeyword("ABSENT") {
			p.advance()
			cc.Presence = model.PresenceAbsent
		} else if p.isPunct("(") {
			c, err := p.parseConstraint()
			if err != nil {
				return nil, err
			}
			cc.Constraint = c
		}
		ce.Components = append(ce.Components, cc)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ce, nil
}

// parseValueExpr parses Value per X.680 §14, covering the literal forms
// the model package can represent.
func (p *parser) parseValueExpr() (ValueExpr, error) {
	switch {
	case p.tok.kind == tokNumber:
		n := new(big.Int)
		n.SetString(p.tok.text, 10)
		p.advance()
		return &IntLiteral{Value: n}, nil
	case p.isPunct("-"):
		p.advance()
		if p.tok.kind != tokNumber {
			return nil, p.errorf("a number")
		}
		n := new(big.Int)
		n.SetString(p.tok.text, 10)
		n.Neg(n)
		p.advance()
		return &IntLiteral{Value: n}, nil
	case p.isKeyword("TRUE"):
		p.advance()
		return &BoolLiteral{Value: true}, nil
	case p.isKeyword("FALSE"):
		p.advance()
		return &BoolLiteral{Value: false}, nil
	case p.isKeyword("NULL"):
		p.advance()
		return &NullLiteral{}, nil
	case p.isKeyword("PLUS-INFINITY"):
		p.advance()
		return &SpecialRealValue{Kind: "PLUS-INFINITY"}, nil
	case p.isKeyword("MINUS-INFINITY"):
		p.advance()
		return &SpecialRealValue{Kind: "MINUS-INFINITY"}, nil
	case p.tok.kind == tokCString:
		s := p.tok.text
		p.advance()
		return &StringLiteral{Value: s}, nil
	case p.tok.kind == tokBString:
		bytes, bits := expandBString(p.tok.text)
		p.advance()
		return &BitsLiteral{Bytes: bytes, BitLength: bits}, nil
	case p.tok.kind == tokHString:
		bytes := expandHString(p.tok.text)
		p.advance()
		return &BitsLiteral{Bytes: bytes, BitLength: len(bytes) * 8}, nil
	case p.isPunct("{"):
		return p.parseBracedValue()
	case p.tok.kind == tokValueRef || p.tok.kind == tokTypeRef:
		name := p.tok.text
		p.advance()
		return &Identifier{Name: name}, nil
	}
	return nil, p.errorf("a value")
}

// parseBracedValue parses "{ ... }", which is ambiguous between an OID
// value, a SEQUENCE/SET value and a SEQUENCE OF/SET OF value without type
// information. It is always parsed here as an OBJECT IDENTIFIER arc list:
// every element must look like an arc (bare number, "name(number)", or
// bare lowercase identifier), and any other element is a syntax error.
// Braced SEQUENCE/SET and SEQUENCE OF/SET OF values are not parsed
// (documented simplification, see DESIGN.md).
func (p *parser) parseBracedValue() (ValueExpr, error) {
	p.advance() // {
	oid := &OIDLiteral{}
	for !p.isPunct("}") {
		comp, err := p.parseOIDComponent()
		if err != nil {
			return nil, err
		}
		oid.Arcs = append(oid.Arcs, comp)
		if p.isPunct(",") {
			p.advance()
			continue
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return oid, nil
}

func (p *parser) parseOIDComponent() (OIDComponent, error) {
	if p.tok.kind == tokNumber {
		n := atoiSmall(p.tok.text)
		p.advance()
		return OIDComponent{Number: &n}, nil
	}
	if p.tok.kind == tokValueRef {
		name := p.tok.text
		p.advance()
		if p.isPunct("(") {
			p.advance()
			if p.tok.kind != tokNumber {
				return OIDComponent{}, p.errorf("a number")
			}
			n := atoiSmall(p.tok.text)
			p.advance()
			if err := p.expectPunct(")"); err != nil {
				return OIDComponent{}, err
			}
			return OIDComponent{Name: name, Number: &n}, nil
		}
		return OIDComponent{Name: name}, nil
	}
	return OIDComponent{}, p.errorf("an OID arc")
}

func atoiSmall(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// expandBString turns the stripped contents of a 'xxxx'B literal into
// bytes, MSB first within each octet, padding the final octet with zero
// bits (X.680 §12.20).
func expandBString(bits string) ([]byte, int) {
	n := len(bits)
	out := make([]byte, (n+7)/8)
	for i, c := range bits {
		if c == '1' {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out, n
}

func expandHString(hex string) []byte {
	if len(hex)%2 != 0 {
		hex += "0"
	}
	out := make([]byte, len(hex)/2)
	for i := 0; i < len(out); i++ {
		out[i] = hexNibble(hex[i*2])<<4 | hexNibble(hex[i*2+1])
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}
