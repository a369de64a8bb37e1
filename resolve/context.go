package resolve

import (
	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/module"
	"asn1tool.dev/asn1/syntax"
)

// context is per-compilation resolver state: one instance lives for the
// duration of a single Resolve call and is discarded afterward, mirroring
// the request-scoped resolverContext pattern used to thread multiple
// module/symbol index maps and an unresolved-reference accumulator through
// a compiler's resolve pass.
type context struct {
	table *module.Table
	arena *model.Arena

	// types caches the resolved *model.Type for each (module, name) type
	// assignment, keyed by a flattened "module.name" string. When a
	// reference to a type still being resolved is met, a placeholder Type
	// registered in the arena is inserted here, so the self-reference sees a
	// stable index instead of recursing forever (spec §4.3 step 4, "lazy
	// link"); the placeholder is filled in when the outer resolution ends.
	types map[string]*model.Type
	// inProgress marks a (module, name) type or a parameterized
	// instantiation currently being resolved. A reference back to one gets a
	// placeholder instead of a second resolution; an instantiation whose
	// body resolves to that placeholder itself is reported as
	// CyclicInstantiation.
	inProgress map[string]bool

	// values caches resolved literal *model.Value for value assignments.
	values map[string]*model.Value

	// instantiations memoizes parameterized-type instantiation by a
	// structural key (spec §4.3 step 3, "proceeds to a fixed point").
	instantiations map[string]*model.Type

	errs []error
}

func newContext(t *module.Table) *context {
	return &context{
		table:          t,
		arena:          &model.Arena{},
		types:          make(map[string]*model.Type),
		inProgress:     make(map[string]bool),
		values:         make(map[string]*model.Value),
		instantiations: make(map[string]*model.Type),
	}
}

func key(moduleName, name string) string { return moduleName + "." + name }

func (c *context) fail(err error) {
	c.errs = append(c.errs, err)
}

// moduleScope bundles the module whose assignments are being resolved with
// its import bindings, so symbol lookup can stay a single function
// regardless of whether a name is locally or externally defined.
type moduleScope struct {
	mod     *syntax.Module
	imports map[string]string // symbol -> defining module name
	params  map[string]paramBinding
}

// paramBinding is the actual bound to a formal parameter while resolving
// the body of a parameterized type instantiation.
type paramBinding struct {
	typ *syntax.TypeExpr
	val *syntax.ValueExpr
}

func newModuleScope(mod *syntax.Module) *moduleScope {
	s := &moduleScope{mod: mod, imports: make(map[string]string)}
	for _, imp := range mod.Imports {
		for _, sym := range imp.Symbols {
			s.imports[sym] = imp.From
		}
	}
	return s
}

// lookupType finds a type assignment by name, searching the local module
// first, then the import binding, per spec §4.3 step 1.
func (c *context) lookupType(scope *moduleScope, name string) (*syntax.Module, *syntax.TypeAssignment, bool) {
	for _, a := range scope.mod.Assignments {
		if ta, ok := a.(*syntax.TypeAssignment); ok && ta.Name == name {
			return scope.mod, ta, true
		}
	}
	if from, ok := scope.imports[name]; ok {
		if m, ok := c.table.Lookup(from); ok {
			for _, a := range m.Assignments {
				if ta, ok := a.(*syntax.TypeAssignment); ok && ta.Name == name {
					return m, ta, true
				}
			}
		}
	}
	return nil, nil, false
}

func (c *context) lookupValue(scope *moduleScope, name string) (*syntax.Module, *syntax.ValueAssignment, bool) {
	for _, a := range scope.mod.Assignments {
		if va, ok := a.(*syntax.ValueAssignment); ok && va.Name == name {
			return scope.mod, va, true
		}
	}
	if from, ok := scope.imports[name]; ok {
		if m, ok := c.table.Lookup(from); ok {
			for _, a := range m.Assignments {
				if va, ok := a.(*syntax.ValueAssignment); ok && va.Name == name {
					return m, va, true
				}
			}
		}
	}
	return nil, nil, false
}
