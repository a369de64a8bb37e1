// Package module collects parsed ASN.1 modules into a table keyed by
// module name, the input to [asn1tool.dev/asn1/resolve] (spec §4.2).
package module

import (
	"fmt"

	"asn1tool.dev/asn1/syntax"
)

// Table is the set of modules being compiled together, keyed by module
// name. Names must be unique across every
// [asn1tool.dev/asn1/schema.Source] passed to schema.Compile: ASN.1 has no notion of a module namespaced by file, so two
// modules sharing a name is always a compile error (spec §4.2 invariant).
type Table struct {
	byName map[string]*syntax.Module
	order  []string
}

// NewTable builds a Table from parsed modules, reporting every duplicate
// module name it finds rather than stopping at the first.
func NewTable(modules []*syntax.Module) (*Table, []error) {
	t := &Table{byName: make(map[string]*syntax.Module, len(modules))}
	var errs []error
	for _, m := range modules {
		if _, dup := t.byName[m.Name]; dup {
			errs = append(errs, &DuplicateModuleError{Name: m.Name})
			continue
		}
		t.byName[m.Name] = m
		t.order = append(t.order, m.Name)
	}
	return t, errs
}

// DuplicateModuleError reports two modules compiled together under the
// same name.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module definition: %s", e.Name)
}

// Lookup returns the module named name, if present.
func (t *Table) Lookup(name string) (*syntax.Module, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// Names returns every module name in the table, in the order modules were
// first added (stable across calls, for deterministic diagnostic output).
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports the number of modules in the table.
func (t *Table) Len() int { return len(t.order) }

// ImportCycleWarnings reports every cycle in the module import graph as a
// human-readable string, not an error: the ASN.1 import graph may
// legitimately contain cycles (two modules commonly import from each
// other), and [asn1tool.dev/asn1/resolve] breaks them lazily on first
// traversal rather than rejecting them up front (spec §4.2 "Module
// Table").
func (t *Table) ImportCycleWarnings() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(t.order))
	var warnings []string
	var stack []string
	reported := map[string]bool{}

	var visit func(name string)
	visit = func(name string) {
		if color[name] == black {
			return
		}
		if color[name] == gray {
			cycle := append(append([]string{}, stack...), name)
			key := fmt.Sprint(cycle)
			if !reported[key] {
				reported[key] = true
				warnings = append(warnings, "import cycle: "+joinArrow(cycle))
			}
			return
		}
		color[name] = gray
		stack = append(stack, name)
		if m, ok := t.byName[name]; ok {
			seen := map[string]bool{}
			for _, imp := range m.Imports {
				if seen[imp.From] {
					continue
				}
				seen[imp.From] = true
				if _, ok := t.byName[imp.From]; ok {
					visit(imp.From)
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, name := range t.order {
		if color[name] == white {
			visit(name)
		}
	}
	return warnings
}

func joinArrow(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += " -> "
		}
		s += n
	}
	return s
}
