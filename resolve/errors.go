// Package resolve reduces a table of parsed syntax trees into the frozen
// [asn1tool.dev/asn1/model] type model: imports bound, references
// dereferenced, parameterized types instantiated, tags assigned,
// constraints attached, defaults folded (spec §4.3).
package resolve

import "fmt"

// ErrorKind classifies a [Error].
type ErrorKind int

const (
	UnknownReference ErrorKind = iota
	CyclicInstantiation
	DuplicateTag
	TypeMismatch
	InvalidConstraint
	ExtensionWithoutRoot
	ImportError
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownReference:
		return "UnknownReference"
	case CyclicInstantiation:
		return "CyclicInstantiation"
	case DuplicateTag:
		return "DuplicateTag"
	case TypeMismatch:
		return "TypeMismatch"
	case InvalidConstraint:
		return "InvalidConstraint"
	case ExtensionWithoutRoot:
		return "ExtensionWithoutRoot"
	case ImportError:
		return "ImportError"
	default:
		return "Unknown"
	}
}

// Error reports a failure to reduce the syntax tree into a type model. A
// Trace names the module/type chain that was being resolved when the
// failure happened, outermost first, so a diagnostic can say "while
// instantiating Foo.Bar, while resolving Baz.Qux: ...".
type Error struct {
	Kind    ErrorKind
	Module  string
	Name    string
	Trace   []string
	Message string
}

func (e *Error) Error() string {
	s := e.Kind.String() + ": " + e.Module + "." + e.Name
	if e.Message != "" {
		s += ": " + e.Message
	}
	for _, t := range e.Trace {
		s += "\n\twhile resolving " + t
	}
	return s
}

func errf(kind ErrorKind, module, name string, trace []string, format string, args ...any) *Error {
	return &Error{Kind: kind, Module: module, Name: name, Trace: trace, Message: fmt.Sprintf(format, args...)}
}
