package resolve

import (
	"math/big"

	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/syntax"
)

// resolveConstraint translates a source ConstraintExpr, evaluated against
// t's Kind to type-check literal bounds, into a frozen model.Constraint
// (spec §4.3 step 5). Precedence (intersection over union) and the
// root/extension split are already structural in the AST, built by the
// parser's parseConstraintUnion/parseConstraintIntersection.
func (c *context) resolveConstraint(scope *moduleScope, t *model.Type, ce *syntax.ConstraintExpr) (*model.Constraint, error) {
	if ce == nil {
		return nil, nil
	}
	switch ce.Kind {
	case model.ConstraintSingleValue:
		if ce.Extensible {
			return &model.Constraint{Extensible: true}, nil
		}
		v, err := c.resolveValue(scope, t, ce.Value)
		if err != nil {
			return nil, err
		}
		return &model.Constraint{Kind: model.ConstraintSingleValue, Value: v}, nil

	case model.ConstraintValueRange:
		out := &model.Constraint{Kind: model.ConstraintValueRange}
		if !ce.LoMin {
			lo, err := c.boundValue(scope, t, ce.LoVal)
			if err != nil {
				return nil, err
			}
			out.Lo = lo
		}
		if !ce.HiMax {
			hi, err := c.boundValue(scope, t, ce.HiVal)
			if err != nil {
				return nil, err
			}
			out.Hi = hi
		}
		if err := out.NormalizeRange(); err != nil {
			return nil, errf(InvalidConstraint, scope.mod.Name, t.Name, nil, "%s", err)
		}
		return out, nil

	case model.ConstraintSize:
		inner, err := c.resolveConstraint(scope, &model.Type{Kind: model.KindInteger}, ce.Operand)
		if err != nil {
			return nil, err
		}
		out := &model.Constraint{Kind: model.ConstraintSize}
		if inner != nil && (inner.Kind == model.ConstraintUnion || inner.Kind == model.ConstraintIntersection) && len(inner.Operands) == 1 {
			inner = inner.Operands[0]
		}
		if inner != nil {
			out.Lo, out.Hi = inner.Lo, inner.Hi
			out.LoOpen, out.HiOpen = inner.LoOpen, inner.HiOpen
			if inner.Kind == model.ConstraintSingleValue {
				out.Lo, out.Hi, _ = inner.Bounds()
			}
		}
		return out, nil

	case model.ConstraintPermittedAlphabet:
		inner, err := c.resolveConstraint(scope, t, ce.Operand)
		if err != nil {
			return nil, err
		}
		return &model.Constraint{Kind: model.ConstraintPermittedAlphabet, Alphabet: inner}, nil

	case model.ConstraintContaining:
		ct, err := c.resolveTypeExpr(scope, ce.ContainingType)
		if err != nil {
			return nil, err
		}
		return &model.Constraint{Kind: model.ConstraintContaining, Containing: ct}, nil

	case model.ConstraintIntersection, model.ConstraintUnion:
		out := &model.Constraint{Kind: ce.Kind}
		for _, op := range ce.Operands {
			resolved, err := c.resolveConstraint(scope, t, op)
			if err != nil {
				return nil, err
			}
			if resolved == nil {
				continue
			}
			if resolved.Extensible && resolved.Kind == 0 && resolved.Value == nil {
				out.Extensible = true
				continue
			}
			out.Operands = append(out.Operands, resolved)
		}
		return out, nil

	case model.ConstraintComplement:
		inner, err := c.resolveConstraint(scope, t, ce.Operand)
		if err != nil {
			return nil, err
		}
		return &model.Constraint{Kind: model.ConstraintComplement, Operand: inner}, nil

	case model.ConstraintWithComponents:
		out := &model.Constraint{Kind: model.ConstraintWithComponents}
		for _, comp := range ce.Components {
			cc := model.ComponentConstraint{Name: comp.Name, Presence: comp.Presence}
			if comp.Constraint != nil {
				var memberType *model.Type
				if _, idx, ok := t.Member(comp.Name); ok {
					memberType = t.MemberType(idx)
				} else {
					memberType = &model.Type{Kind: model.KindInteger}
				}
				cv, err := c.resolveConstraint(scope, memberType, comp.Constraint)
				if err != nil {
					return nil, err
				}
				cc.Value = cv
			}
			out.Components = append(out.Components, cc)
		}
		return out, nil
	}
	return nil, errf(InvalidConstraint, scope.mod.Name, t.Name, nil, "unsupported constraint kind %v", ce.Kind)
}

func (c *context) boundValue(scope *moduleScope, t *model.Type, v syntax.ValueExpr) (*big.Int, error) {
	if v == nil {
		return nil, nil
	}
	resolved, err := c.resolveValue(scope, t, v)
	if err != nil {
		return nil, err
	}
	if resolved.Kind == model.KindInteger || resolved.Kind == model.KindEnumerated {
		return resolved.Int, nil
	}
	return big.NewInt(int64(len(resolved.Bytes))), nil
}

// computeHints derives EncodingHints from t's Kind and Constraint, once,
// so codecs never re-derive "is this a constrained whole number" on every
// call (spec §4.4).
func computeHints(t *model.Type) model.EncodingHints {
	var h model.EncodingHints
	if t.Constraint == nil {
		return h
	}
	if lo, hi, ok := t.Constraint.Bounds(); ok && (t.Kind == model.KindInteger || t.Kind == model.KindEnumerated) {
		h.ConstrainedWholeNumber = true
		h.BitWidth = bitWidth(lo, hi)
	}
	if t.Kind == model.KindOctetString || t.Kind == model.KindBitString {
		if lo, hi, ok := sizeBounds(t.Constraint); ok && lo.Cmp(hi) == 0 {
			h.FixedLength = true
			h.ByteLength = int(lo.Int64())
		}
	}
	if alphabet := alphabetOf(t.Constraint); alphabet != nil {
		h.AlphabetWidth = 1
		for w := 1; w < 32; w++ {
			if (int64(1) << uint(w)) >= alphabetSize(alphabet) {
				h.AlphabetWidth = w
				break
			}
		}
	}
	return h
}

func bitWidth(lo, hi *big.Int) int {
	if lo == nil || hi == nil {
		return 0
	}
	rng := new(big.Int).Sub(hi, lo)
	if rng.Sign() == 0 {
		return 0
	}
	bits := 0
	for rng.Sign() > 0 {
		bits++
		rng.Rsh(rng, 1)
	}
	return bits
}

func sizeBounds(c *model.Constraint) (*big.Int, *big.Int, bool) {
	if c == nil {
		return nil, nil, false
	}
	if c.Kind == model.ConstraintSize {
		return c.Lo, c.Hi, c.Lo != nil && c.Hi != nil
	}
	for _, op := range c.Operands {
		if lo, hi, ok := sizeBounds(op); ok {
			return lo, hi, ok
		}
	}
	return nil, nil, false
}

func alphabetOf(c *model.Constraint) *model.Constraint {
	if c == nil {
		return nil
	}
	if c.Kind == model.ConstraintPermittedAlphabet {
		return c.Alphabet
	}
	for _, op := range c.Operands {
		if a := alphabetOf(op); a != nil {
			return a
		}
	}
	return nil
}

func alphabetSize(c *model.Constraint) int64 {
	if lo, hi, ok := c.Bounds(); ok {
		return new(big.Int).Sub(hi, lo).Int64() + 1
	}
	return 128
}
