// Package syntax implements the ASN.1 lexer and parser (spec §4.1). It
// tokenizes ASN.1 module source (ISO/IEC 8824 / Rec. ITU-T X.680 surface
// syntax) and produces a concrete syntax tree of module definitions,
// without resolving any reference, import, parameterization or tag — that
// is [asn1tool.dev/asn1/resolve]'s job.
package syntax

import "strconv"

// Error reports a deviation from the ASN.1 grammar encountered while
// lexing or parsing. It is the only error type this package returns.
type Error struct {
	Source   string // the Source.Name the error occurred in
	Line     int
	Column   int
	Expected string
	Found    string
}

func (e *Error) Error() string {
	s := e.Source
	if s == "" {
		s = "<input>"
	}
	return s + ":" + strconv.Itoa(e.Line) + ":" + strconv.Itoa(e.Column) +
		": expected " + e.Expected + ", found " + e.Found
}
