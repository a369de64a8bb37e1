package resolve

import (
	"math/big"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/syntax"
)

// resolveValue evaluates a source value expression against the already-
// resolved target type t, folding named-number and value-reference
// identifiers along the way (spec §4.3 step 6, "Default value folding").
// Non-goals (spec §1) bound this to integer arithmetic and references: no
// general expression evaluator.
func (c *context) resolveValue(scope *moduleScope, t *model.Type, v syntax.ValueExpr) (*model.Value, error) {
	switch e := v.(type) {
	case *syntax.IntLiteral:
		return &model.Value{Kind: model.KindInteger, Int: e.Value}, nil
	case *syntax.BoolLiteral:
		return &model.Value{Kind: model.KindBoolean, Bool: e.Value}, nil
	case *syntax.NullLiteral:
		return &model.Value{Kind: model.KindNull}, nil
	case *syntax.StringLiteral:
		return &model.Value{Kind: t.Kind, Str: e.Value}, nil
	case *syntax.BitsLiteral:
		if t.Kind == model.KindOctetString {
			return &model.Value{Kind: model.KindOctetString, Bytes: e.Bytes}, nil
		}
		return &model.Value{Kind: model.KindBitString, Bits: asn1.BitString{Bytes: e.Bytes, BitLength: e.BitLength}}, nil
	case *syntax.OIDLiteral:
		arcs, err := c.resolveOIDArcs(scope, e.Arcs)
		if err != nil {
			return nil, err
		}
		return &model.Value{Kind: t.Kind, OIDArcs: arcs}, nil
	case *syntax.SpecialRealValue:
		return &model.Value{Kind: model.KindReal, Real: specialReal(e.Kind)}, nil
	case *syntax.Identifier:
		return c.resolveValueIdentifier(scope, t, e.Name)
	}
	return nil, errf(TypeMismatch, "", "", nil, "unsupported value expression %T", v)
}

func (c *context) resolveValueIdentifier(scope *moduleScope, t *model.Type, name string) (*model.Value, error) {
	// Named number of an ENUMERATED/INTEGER-with-named-numbers type.
	for _, nn := range t.NamedNumbers {
		if nn.Name == name {
			return &model.Value{Kind: t.Kind, Int: big.NewInt(nn.Value)}, nil
		}
	}
	// Enumerated identifier selects itself as an integer value by position.
	if t.Kind == model.KindEnumerated {
		for i, nn := range t.NamedNumbers {
			if nn.Name == name {
				return &model.Value{Kind: model.KindEnumerated, Int: big.NewInt(int64(i))}, nil
			}
		}
	}
	mod, va, ok := c.lookupValue(scope, name)
	if !ok {
		return nil, errf(UnknownReference, scope.mod.Name, name, nil, "value reference %q not found", name)
	}
	resolvedType, err := c.resolveTypeExpr(newModuleScope(mod), va.Type)
	if err != nil {
		return nil, err
	}
	return c.resolveValue(newModuleScope(mod), resolvedType, va.Value)
}

func (c *context) resolveOIDArcs(scope *moduleScope, comps []syntax.OIDComponent) ([]uint, error) {
	arcs := make([]uint, 0, len(comps))
	for _, comp := range comps {
		switch {
		case comp.Number != nil:
			arcs = append(arcs, uint(*comp.Number))
		case comp.Name != "":
			// A bare reference to another OID-valued assignment expands
			// in-line; its own arcs are spliced into this one (X.680
			// §32.13 "DefinedValue" arcs).
			if mod, va, ok := c.lookupValue(scope, comp.Name); ok {
				if oid, ok := va.Value.(*syntax.OIDLiteral); ok {
					sub, err := c.resolveOIDArcs(newModuleScope(mod), oid.Arcs)
					if err != nil {
						return nil, err
					}
					arcs = append(arcs, sub...)
					continue
				}
			}
			// Otherwise it's a named arc with an implicit number supplied
			// elsewhere in the same braced value (e.g. "iso(1)" appears once
			// and later just "iso" is reused); treat an unrecognized bare
			// name as arc 0 is wrong, so surface it instead.
			return nil, errf(UnknownReference, scope.mod.Name, comp.Name, nil, "OID arc %q not found", comp.Name)
		}
	}
	return arcs, nil
}

func specialReal(kind string) model.Real {
	switch kind {
	case "PLUS-INFINITY":
		return model.Real{Base: 0, Exponent: 1}
	case "MINUS-INFINITY":
		return model.Real{Base: 0, Exponent: -1}
	default:
		return model.Real{}
	}
}
