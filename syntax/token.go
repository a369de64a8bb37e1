package syntax

// tokenKind identifies the lexical class of a token (spec §4.1).
type tokenKind int

const (
	tokEOF     tokenKind = iota
	tokTypeRef           // uppercase-initial identifier, e.g. MyType
	tokValueRef          // lowercase-initial identifier, e.g. myValue
	tokKeyword           // reserved word, e.g. SEQUENCE
	tokNumber            // decimal integer literal
	tokBString           // '...'B
	tokHString           // '...'H
	tokCString           // "..." quoted character string
	tokPunct             // punctuation / operator, e.g. "::=", "{", "(", ".."
)

// token is one lexical unit produced by the lexer.
type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
}

// keywords is the X.680 reserved-word table relevant to the grammar subset
// this package parses (macro notation is explicitly out of scope, spec §1
// non-goals).
var keywords = map[string]bool{
	"DEFINITIONS": true, "BEGIN": true, "END": true, "IMPORTS": true,
	"EXPORTS": true, "FROM": true, "EXPLICIT": true, "IMPLICIT": true,
	"TAGS": true, "AUTOMATIC": true, "EXTENSIBILITY": true, "IMPLIED": true,
	"SEQUENCE": true, "SET": true, "CHOICE": true, "OF": true,
	"OPTIONAL": true, "DEFAULT": true, "COMPONENTS": true, "WITH": true,
	"BOOLEAN": true, "INTEGER": true, "REAL": true, "NULL": true,
	"ENUMERATED": true, "OBJECT": true, "IDENTIFIER": true, "RELATIVE-OID": true,
	"OCTET": true, "STRING": true, "BIT": true, "ANY": true, "EXTERNAL": true,
	"UTF8String": true, "IA5String": true, "PrintableString": true,
	"NumericString": true, "VisibleString": true, "GeneralString": true,
	"UniversalString": true, "BMPString": true, "TeletexString": true,
	"T61String": true, "VideotexString": true, "GraphicString": true,
	"ObjectDescriptor": true, "CHARACTER": true, "EMBEDDED": true, "PDV": true,
	"UTCTime": true, "GeneralizedTime": true, "DATE": true, "TIME-OF-DAY": true,
	"DATE-TIME": true, "DURATION": true, "TIME": true,
	"SIZE": true, "CONTAINING": true, "ALL": true, "EXCEPT": true,
	"MIN": true, "MAX": true, "TRUE": true, "FALSE": true,
	"APPLICATION": true, "PRIVATE": true, "UNIVERSAL": true,
	"PRESENT": true, "ABSENT": true,
	"PLUS-INFINITY": true, "MINUS-INFINITY": true, "NOT-A-NUMBER": true,
	"UNION": true, "INTERSECTION": true,
}
