// Package gser implements the developer-oriented textual form of a
// [model.Value] (spec §1's "developer-oriented textual form", styled
// after GSER, RFC 3641's Generic String Encoding Rules). It is a one-way
// pretty-printer in the style of the root asn1 package's own
// [asn1.Tag.String]/[asn1.BitString.String] human-readable renderers,
// generalized here to the whole Value tagged union instead of one
// hand-written type at a time. There is no Decode: GSER is for display
// and debugging (schema dumps, test failure messages), not a wire format
// a peer is expected to parse back — reparsing ASN.1 value notation is
// already asn1/syntax's job for source literals, not this package's.
package gser

import (
	"fmt"
	"strconv"
	"strings"

	"asn1tool.dev/asn1/model"
)

// Format renders v as t in ASN.1 value-notation-like text, e.g.
// "{ a 7, b "hi" }" for a SEQUENCE or "red" for an ENUMERATED named value.
func Format(t *model.Type, v *model.Value) string {
	var sb strings.Builder
	write(&sb, t, v)
	return sb.String()
}

func write(sb *strings.Builder, t *model.Type, v *model.Value) {
	if v == nil {
		sb.WriteString("<absent>")
		return
	}
	if t.Kind == model.KindTagged {
		write(sb, t.Wrapped(), v)
		return
	}
	switch t.Kind {
	case model.KindBoolean:
		if v.Bool {
			sb.WriteString("TRUE")
		} else {
			sb.WriteString("FALSE")
		}
	case model.KindInteger:
		sb.WriteString(v.Int.String())
	case model.KindEnumerated:
		for _, nn := range t.NamedNumbers {
			if nn.Value == v.Int.Int64() {
				sb.WriteString(nn.Name)
				return
			}
		}
		sb.WriteString(v.Int.String())
	case model.KindNull:
		sb.WriteString("NULL")
	case model.KindReal:
		fmt.Fprintf(sb, "%s*%d^%d", v.Real.Mantissa.String(), realBase(v.Real), v.Real.Exponent)
	case model.KindOctetString:
		fmt.Fprintf(sb, "'%X'H", v.Bytes)
	case model.KindBitString:
		fmt.Fprintf(sb, "'%s'B", v.Bits.String())
	case model.KindObjectIdentifier, model.KindRelativeOID:
		sb.WriteString("{ ")
		for i, a := range v.OIDArcs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatUint(uint64(a), 10))
		}
		sb.WriteString(" }")
	case model.KindSequence, model.KindSet:
		sb.WriteString("{ ")
		for i, f := range v.Sequence {
			if i > 0 {
				sb.WriteString(", ")
			}
			_, idx, ok := t.Member(f.Name)
			sb.WriteString(f.Name)
			sb.WriteByte(' ')
			if ok {
				write(sb, t.MemberType(idx), f.Value)
			} else {
				sb.WriteString("<unknown>")
			}
		}
		sb.WriteString(" }")
	case model.KindSequenceOf, model.KindSetOf:
		elemType := t.Elem()
		sb.WriteString("{ ")
		for i, e := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, elemType, e)
		}
		sb.WriteString(" }")
	case model.KindChoice:
		_, idx, ok := t.Member(v.Selector)
		sb.WriteString(v.Selector)
		sb.WriteByte(' ')
		if ok {
			write(sb, t.MemberType(idx), v.Choice)
		} else {
			sb.WriteString("<unknown>")
		}
	case model.KindAny:
		fmt.Fprintf(sb, "'%X'H", v.Bytes)
	default:
		if v.IsString() {
			fmt.Fprintf(sb, "%q", v.Str)
		} else {
			sb.WriteString("<unsupported>")
		}
	}
}

func realBase(r model.Real) int {
	if r.Base == 10 {
		return 10
	}
	return 2
}
