package gs1

import "strings"

// EncodeGS renders elements in the GS-separated scanner encoding. A GS
// separator is appended after every variable-length value except the last;
// fixed-length values need no terminator because the decoder consumes an
// exact character count.
func EncodeGS(elements []RawElement) string {
	var b strings.Builder
	for i, e := range elements {
		b.WriteString(e.AI)
		b.WriteString(e.Value)
		if _, fixed := fixedLengths[e.AI]; !fixed && i < len(elements)-1 {
			b.WriteByte(GS)
		}
	}
	return b.String()
}

// EncodeParenthesized renders elements in the human-readable "(AI)value"
// encoding.
func EncodeParenthesized(elements []RawElement) string {
	var b strings.Builder
	for _, e := range elements {
		b.WriteByte('(')
		b.WriteString(e.AI)
		b.WriteByte(')')
		b.WriteString(e.Value)
	}
	return b.String()
}
