package resolve

import "asn1tool.dev/asn1/syntax"

// substituteParams returns a copy of body with every reference to a
// formal parameter name replaced by its bound actual (spec §4.3 step 3,
// "Substitution is hygienic (no capture)"). Hygiene here means formals are
// matched by the reference's own unqualified name only, never by walking
// into a nested type assignment's own (separately scoped) formal list —
// this package does not support parameterized types nesting another
// parameterized type's formal in its body, a documented simplification
// (see DESIGN.md).
func substituteParams(body syntax.TypeExpr, params map[string]paramBinding) syntax.TypeExpr {
	if len(params) == 0 {
		return body
	}
	switch te := body.(type) {
	case *syntax.ReferenceType:
		if te.Module == "" && len(te.Actuals) == 0 {
			if b, ok := params[te.Name]; ok && b.typ != nil {
				return *b.typ
			}
		}
		if len(te.Actuals) == 0 {
			return te
		}
		out := *te
		out.Actuals = make([]syntax.ActualParameter, len(te.Actuals))
		for i, a := range te.Actuals {
			out.Actuals[i] = substituteActual(a, params)
		}
		return &out

	case *syntax.TaggedType:
		out := *te
		out.Inner = substituteParams(te.Inner, params)
		return &out

	case *syntax.StructuredType:
		out := *te
		out.Members = make([]syntax.MemberDecl, len(te.Members))
		for i, m := range te.Members {
			out.Members[i] = substituteMember(m, params)
		}
		return &out

	case *syntax.ChoiceType:
		out := *te
		out.Alternatives = make([]syntax.MemberDecl, len(te.Alternatives))
		for i, m := range te.Alternatives {
			out.Alternatives[i] = substituteMember(m, params)
		}
		return &out

	case *syntax.CollectionOfType:
		out := *te
		out.Elem = substituteParams(te.Elem, params)
		return &out

	case *syntax.ConstrainedTypeExpr:
		out := *te
		out.Inner = substituteParams(te.Inner, params)
		out.Constraint = substituteConstraint(te.Constraint, params)
		return &out
	}
	return body
}

func substituteMember(m syntax.MemberDecl, params map[string]paramBinding) syntax.MemberDecl {
	out := m
	out.Type = substituteParams(m.Type, params)
	if m.Default != nil {
		out.Default = substituteValue(m.Default, params)
	}
	return out
}

func substituteActual(a syntax.ActualParameter, params map[string]paramBinding) syntax.ActualParameter {
	out := a
	if a.Type != nil {
		out.Type = substituteParams(a.Type, params)
	}
	if a.Value != nil {
		out.Value = substituteValue(a.Value, params)
	}
	return out
}

func substituteValue(v syntax.ValueExpr, params map[string]paramBinding) syntax.ValueExpr {
	if id, ok := v.(*syntax.Identifier); ok {
		if b, ok := params[id.Name]; ok && b.val != nil {
			return *b.val
		}
	}
	return v
}

func substituteConstraint(ce *syntax.ConstraintExpr, params map[string]paramBinding) *syntax.ConstraintExpr {
	if ce == nil {
		return nil
	}
	out := *ce
	if ce.Value != nil {
		out.Value = substituteValue(ce.Value, params)
	}
	if ce.LoVal != nil {
		out.LoVal = substituteValue(ce.LoVal, params)
	}
	if ce.HiVal != nil {
		out.HiVal = substituteValue(ce.HiVal, params)
	}
	if ce.Operand != nil {
		out.Operand = substituteConstraint(ce.Operand, params)
	}
	if ce.ContainingType != nil {
		out.ContainingType = substituteParams(ce.ContainingType, params)
	}
	if len(ce.Operands) > 0 {
		out.Operands = make([]*syntax.ConstraintExpr, len(ce.Operands))
		for i, op := range ce.Operands {
			out.Operands[i] = substituteConstraint(op, params)
		}
	}
	return &out
}
