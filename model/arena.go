package model

// Arena owns every [Type] node produced while resolving a single
// compilation. ASN.1 permits a type to reference itself only through an
// OPTIONAL member or a SEQUENCE OF/SET OF element (spec §3 invariants); the
// Arena lets the resolver represent those edges as stable integer indices
// instead of direct pointers, so a self-referential type never requires the
// resolver to finish constructing an infinite graph before it can be
// inserted into a symbol table (see DESIGN.md, "cyclic type references").
type Arena struct {
	nodes []*Type
}

// NewType allocates a new, zero-valued Type in a and returns it. The
// returned Type's Index is stable for the lifetime of a and is the value
// other Types store in their ElemIndex/WrappedIndex/Members[i].TypeIndex
// fields to refer back to it.
func (a *Arena) NewType() *Type {
	t := &Type{arena: a, Index: len(a.nodes)}
	a.nodes = append(a.nodes, t)
	return t
}

// At returns the Type stored at index i. It panics if i is out of range,
// which indicates a resolver bug: every index stored in a Member or Type
// must have been allocated from this same Arena.
func (a *Arena) At(i int) *Type {
	return a.nodes[i]
}

// Len returns the number of Type nodes allocated in a.
func (a *Arena) Len() int {
	return len(a.nodes)
}
