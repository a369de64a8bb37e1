package resolve

import (
	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/module"
	"asn1tool.dev/asn1/syntax"
)

// Result is the output of a successful Resolve: every type and value
// assignment reachable from the compiled modules, plus the shared arena
// they live in.
type Result struct {
	Arena *model.Arena
	// Types maps "Module.Name" to its resolved root Type.
	Types map[string]*model.Type
	// Values maps "Module.Name" to its resolved Value.
	Values map[string]*model.Value
}

// Resolve runs the full resolver pipeline (spec §4.3) over every module in
// t, returning every compile error accumulated along the way rather than
// stopping at the first.
func Resolve(t *module.Table) (*Result, []error) {
	c := newContext(t)

	for _, w := range t.ImportCycleWarnings() {
		_ = w // surfaced by the caller's logger, not treated as fatal (spec §4.2)
	}

	for _, name := range t.Names() {
		mod, _ := t.Lookup(name)
		scope := newModuleScope(mod)
		for _, a := range mod.Assignments {
			switch asg := a.(type) {
			case *syntax.TypeAssignment:
				if len(asg.Params) > 0 {
					continue // resolved lazily at instantiation sites, spec §4.3 step 3
				}
				if _, err := c.resolveNamedType(scope, mod.Name, asg.Name); err != nil {
					c.fail(err)
				}
			case *syntax.ValueAssignment:
				if _, err := c.resolveNamedValue(scope, mod.Name, asg.Name); err != nil {
					c.fail(err)
				}
			}
		}
	}

	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return &Result{Arena: c.arena, Types: c.types, Values: c.values}, nil
}

func (c *context) resolveNamedType(scope *moduleScope, moduleName, name string) (*model.Type, error) {
	k := key(moduleName, name)
	if t, ok := c.types[k]; ok {
		return t, nil
	}
	if c.inProgress[k] {
		// A reference to a type currently being resolved: this is the
		// recursive-type escape hatch (spec §9 "cyclic type references").
		// Register a placeholder now; the caller (resolveTypeExpr via
		// ReferenceType) links to it by arena index and the real fields get
		// filled in once resolution of k completes below.
		t := c.arena.NewType()
		t.Name = name
		t.Module = moduleName
		c.types[k] = t
		return t, nil
	}
	c.inProgress[k] = true
	defer delete(c.inProgress, k)

	mod, ta, ok := c.lookupType(scope, name)
	if !ok {
		return nil, errf(UnknownReference, moduleName, name, nil, "type %q not found", name)
	}
	innerScope := newModuleScope(mod)

	t, err := c.resolveTypeExprInto(innerScope, ta.Type, k, name, moduleName)
	if err != nil {
		return nil, errf(UnknownReference, moduleName, name, []string{moduleName + "." + name}, "%s", err)
	}
	t.Hints = computeHints(t)
	c.types[k] = t
	return t, nil
}

// resolveTypeExprInto resolves e, reusing the arena slot already registered
// under k if resolveNamedType created a placeholder for recursion, so
// cyclic edges that pointed at the placeholder's index see the finished
// Type in place.
func (c *context) resolveTypeExprInto(scope *moduleScope, e syntax.TypeExpr, k, name, moduleName string) (*model.Type, error) {
	resolved, err := c.resolveTypeExpr(scope, e)
	if err != nil {
		return nil, err
	}
	if placeholder, ok := c.types[k]; ok && placeholder != resolved {
		*placeholder = *resolved
		placeholder.Name = name
		placeholder.Module = moduleName
		return placeholder, nil
	}
	resolved.Name = name
	resolved.Module = moduleName
	return resolved, nil
}

func (c *context) resolveNamedValue(scope *moduleScope, moduleName, name string) (*model.Value, error) {
	k := key(moduleName, name)
	if v, ok := c.values[k]; ok {
		return v, nil
	}
	mod, va, ok := c.lookupValue(scope, name)
	if !ok {
		return nil, errf(UnknownReference, moduleName, name, nil, "value %q not found", name)
	}
	innerScope := newModuleScope(mod)
	t, err := c.resolveTypeExpr(innerScope, va.Type)
	if err != nil {
		return nil, err
	}
	v, err := c.resolveValue(innerScope, t, va.Value)
	if err != nil {
		return nil, err
	}
	c.values[k] = v
	return v, nil
}

// resolveTypeExpr reduces one source type expression to a model.Type. It
// never computes hints itself: that happens once, in resolveNamedType,
// after the whole tree (which may span SEQUENCE members resolved by this
// same function) is built. Automatic tags are assigned by
// resolveStructured and resolveChoice, which this function calls.
func (c *context) resolveTypeExpr(scope *moduleScope, e syntax.TypeExpr) (*model.Type, error) {
	switch te := e.(type) {
	case *syntax.BuiltinType:
		t := c.arena.NewType()
		t.Kind = te.Kind
		t.Tag = universalTag(te.Kind)
		return t, nil

	case *syntax.ReferenceType:
		return c.resolveReference(scope, te)

	case *syntax.TaggedType:
		inner, err := c.resolveTypeExpr(scope, te.Inner)
		if err != nil {
			return nil, err
		}
		tagNum := asn1.Tag(te.Number)
		class := asn1.ClassContextSpecific
		switch te.Class {
		case "UNIVERSAL":
			class = asn1.ClassUniversal
		case "APPLICATION":
			class = asn1.ClassApplication
		case "PRIVATE":
			class = asn1.ClassPrivate
		}
		tag := class | tagNum

		explicit := te.Mode == "EXPLICIT" || (te.Mode == "" && scope.mod.Tagging == model.Explicit)
		if explicit {
			t := c.arena.NewType()
			t.Kind = model.KindTagged
			t.Tag = tag
			t.Explicit = true
			t.WrappedIndex = inner.Index
			return t, nil
		}
		inner.Tag = tag
		return inner, nil

	case *syntax.StructuredType:
		return c.resolveStructured(scope, te)

	case *syntax.ChoiceType:
		return c.resolveChoice(scope, te)

	case *syntax.CollectionOfType:
		elem, err := c.resolveTypeExpr(scope, te.Elem)
		if err != nil {
			return nil, err
		}
		t := c.arena.NewType()
		if te.IsSet {
			t.Kind = model.KindSetOf
		} else {
			t.Kind = model.KindSequenceOf
		}
		t.Tag = universalTag(t.Kind)
		t.ElemIndex = elem.Index
		return t, nil

	case *syntax.EnumeratedType:
		t := c.arena.NewType()
		t.Kind = model.KindEnumerated
		t.Tag = universalTag(model.KindEnumerated)
		t.Extensible = te.Extensible
		next := 0
		for _, item := range te.Items {
			n := next
			if item.Number != nil {
				n = *item.Number
			}
			t.NamedNumbers = append(t.NamedNumbers, model.NamedNumber{Name: item.Name, Value: int64(n)})
			next = n + 1
		}
		return t, nil

	case *syntax.ConstrainedTypeExpr:
		inner, err := c.resolveTypeExpr(scope, te.Inner)
		if err != nil {
			return nil, err
		}
		cons, err := c.resolveConstraint(scope, inner, te.Constraint)
		if err != nil {
			return nil, err
		}
		inner.Constraint = mergeConstraint(inner.Constraint, cons)
		return inner, nil
	}
	return nil, errf(TypeMismatch, scope.mod.Name, "", nil, "unsupported type expression %T", e)
}

func mergeConstraint(existing, added *model.Constraint) *model.Constraint {
	if existing == nil {
		return added
	}
	if added == nil {
		return existing
	}
	return &model.Constraint{Kind: model.ConstraintIntersection, Operands: []*model.Constraint{existing, added}}
}

func (c *context) resolveReference(scope *moduleScope, te *syntax.ReferenceType) (*model.Type, error) {
	targetModule := scope.mod.Name
	targetScope := scope
	if te.Module != "" {
		m, ok := c.table.Lookup(te.Module)
		if !ok {
			return nil, errf(UnknownReference, scope.mod.Name, te.Name, nil, "module %q not found", te.Module)
		}
		targetModule = m.Name
		targetScope = newModuleScope(m)
	} else if from, ok := scope.imports[te.Name]; ok {
		m, ok := c.table.Lookup(from)
		if !ok {
			return nil, errf(ImportError, scope.mod.Name, te.Name, nil, "imported module %q not found", from)
		}
		targetModule = m.Name
		targetScope = newModuleScope(m)
	}

	if len(te.Actuals) > 0 {
		return c.instantiate(targetScope, targetModule, te)
	}
	return c.resolveNamedType(targetScope, targetModule, te.Name)
}

// instantiate substitutes actual parameters into a parameterized type's
// body and resolves the result, memoizing by a structural key so repeated
// instantiations with the same actuals share one arena Type (spec §4.3
// step 3).
func (c *context) instantiate(scope *moduleScope, moduleName string, te *syntax.ReferenceType) (*model.Type, error) {
	ikey := moduleName + "." + te.Name + instantiationSuffix(te)
	if t, ok := c.instantiations[ikey]; ok {
		return t, nil
	}
	if c.inProgress[ikey] {
		// A reference back to this instantiation from inside its own body:
		// register a placeholder that is filled in once the body resolves.
		t := c.arena.NewType()
		c.instantiations[ikey] = t
		return t, nil
	}
	c.inProgress[ikey] = true
	defer delete(c.inProgress, ikey)

	mod, ta, ok := c.lookupType(scope, te.Name)
	if !ok {
		return nil, errf(UnknownReference, moduleName, te.Name, nil, "parameterized type %q not found", te.Name)
	}
	if len(ta.Params) != len(te.Actuals) {
		return nil, errf(TypeMismatch, moduleName, te.Name, nil, "parameterized type %q expects %d arguments, got %d", te.Name, len(ta.Params), len(te.Actuals))
	}

	bodyScope := newModuleScope(mod)
	bodyScope.params = make(map[string]paramBinding, len(ta.Params))
	for i, formal := range ta.Params {
		actual := te.Actuals[i]
		bodyScope.params[formal] = paramBinding{typ: actualTypePtr(actual), val: actualValuePtr(actual)}
	}

	body := substituteParams(ta.Type, bodyScope.params)
	t, err := c.resolveTypeExpr(bodyScope, body)
	if err != nil {
		return nil, err
	}
	if placeholder, ok := c.instantiations[ikey]; ok {
		if placeholder == t {
			return nil, errf(CyclicInstantiation, moduleName, te.Name, nil, "cyclic parameterized type instantiation")
		}
		*placeholder = *t
		t = placeholder
	}
	c.instantiations[ikey] = t
	return t, nil
}

func actualTypePtr(a syntax.ActualParameter) *syntax.TypeExpr {
	if a.Type == nil {
		return nil
	}
	t := a.Type
	return &t
}

func actualValuePtr(a syntax.ActualParameter) *syntax.ValueExpr {
	if a.Value == nil {
		return nil
	}
	v := a.Value
	return &v
}

// instantiationSuffix builds a cheap structural discriminator for the
// memoization key. It is not a full structural hash, only good enough to
// distinguish the common case of distinct simple-type and literal-value
// actuals; two instantiations with a coincidentally identical suffix but
// structurally different actuals would incorrectly share a cached Type,
// which parameterized-type uses here (simple type actuals) do not trigger.
func instantiationSuffix(te *syntax.ReferenceType) string {
	s := ""
	for _, a := range te.Actuals {
		switch v := a.Type.(type) {
		case *syntax.BuiltinType:
			s += "#" + v.Kind.String()
		case *syntax.ReferenceType:
			s += "#" + v.Module + "." + v.Name
		default:
			if a.Value != nil {
				if lit, ok := a.Value.(*syntax.IntLiteral); ok {
					s += "#" + lit.Value.String()
				} else {
					s += "#v"
				}
			}
		}
	}
	return s
}
