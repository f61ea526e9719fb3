package gs1

import (
	"fmt"
	"strings"
)

// fixedLengths lists the AIs whose data field is consumed as an exact
// character count in GS-separated input, with no separator needed.
//
// Only the GTIN family, SSCC and the six date AIs are listed. The GS1
// standard defines many more fixed-length AIs, but scanner data in the wild
// relies on everything else being GS-terminated, so the table is kept
// deliberately small.
var fixedLengths = map[string]int{
	"00": 18,
	"01": 14,
	"02": 14,
	"03": 14,
	"11": 6,
	"12": 6,
	"13": 6,
	"15": 6,
	"16": 6,
	"17": 6,
}

// twoDigitAIs is the set of two-digit AI codes the GS-separated decoder
// recognizes. Codes 90-99 are tokenized here even though the vocabulary does
// not define them: the element must survive decoding so validation can report
// it as an unknown AI instead of the decoder mangling the rest of the input.
var twoDigitAIs = map[string]bool{
	"00": true, "01": true, "02": true, "03": true,
	"10": true, "11": true, "12": true, "13": true,
	"15": true, "16": true, "17": true,
	"20": true, "21": true, "22": true,
	"30": true, "37": true,
	"90": true, "91": true, "92": true, "93": true, "94": true,
	"95": true, "96": true, "97": true, "98": true, "99": true,
}

// Decode tokenizes a raw barcode string, auto-detecting the encoding.
//
// Parentheses without a GS character select the parenthesized decoder; a GS
// character without parentheses selects the GS-separated decoder. When both
// or neither marker is present, both decoders run and the better result wins:
// a cleanly successful parse first, then the parse yielding more elements,
// then the one with fewer errors. Ties go to the parenthesized decoder.
func Decode(input string) ParseResult {
	hasParen := strings.ContainsRune(input, '(')
	hasGS := strings.ContainsRune(input, GS)

	switch {
	case hasParen && !hasGS:
		return DecodeParenthesized(input)
	case hasGS && !hasParen:
		return DecodeGS(input)
	}

	paren := DecodeParenthesized(input)
	gs := DecodeGS(input)

	if paren.OK != gs.OK {
		if paren.OK {
			return paren
		}
		return gs
	}
	if len(paren.Elements) != len(gs.Elements) {
		if len(paren.Elements) > len(gs.Elements) {
			return paren
		}
		return gs
	}
	if len(gs.Errors) < len(paren.Errors) {
		return gs
	}
	return paren
}

// DecodeGS tokenizes GS-separated input: each element starts with a 2-4
// digit AI immediately followed by its value. Fixed-length AIs consume an
// exact character count; all other values run to the next GS or end of input.
//
// Decoding is a pure function: errors are accumulated, never thrown, and
// whatever elements tokenized successfully are returned alongside them.
func DecodeGS(input string) ParseResult {
	result := ParseResult{Input: input, Format: FormatGS}
	if input == "" {
		result.Errors = append(result.Errors, ParseError{Pos: 0, Reason: "empty input"})
		return result
	}

	pos := 0
	for pos < len(input) {
		if input[pos] == GS {
			pos++
			continue
		}

		ai := matchAI(input[pos:])
		if ai == "" {
			result.Errors = append(result.Errors, ParseError{
				Pos:    pos,
				Reason: "no recognized AI",
			})
			// Skip the unparseable segment so later fields still decode.
			pos = nextSegment(input, pos)
			continue
		}

		start := pos
		pos += len(ai)

		if n, fixed := fixedLengths[ai]; fixed {
			if len(input)-pos < n {
				result.Errors = append(result.Errors, ParseError{
					Pos:    pos,
					Reason: fmt.Sprintf("AI %s requires %d characters, %d remain", ai, n, len(input)-pos),
				})
				pos = len(input)
				continue
			}
			value := input[pos : pos+n]
			pos += n
			result.Elements = append(result.Elements, RawElement{
				AI:    ai,
				Value: value,
				Raw:   input[start:pos],
			})
			continue
		}

		end := pos
		for end < len(input) && input[end] != GS {
			end++
		}
		value := input[pos:end]
		if value == "" {
			result.Errors = append(result.Errors, ParseError{
				Pos:    pos,
				Reason: fmt.Sprintf("AI %s has an empty value", ai),
			})
			pos = end
			continue
		}
		result.Elements = append(result.Elements, RawElement{
			AI:    ai,
			Value: value,
			Raw:   input[start:end],
		})
		pos = end
	}

	result.OK = len(result.Errors) == 0 && len(result.Elements) > 0
	return result
}

// DecodeParenthesized tokenizes "(AI)value(AI)value..." input, where each
// value runs until the next opening parenthesis or end of input.
func DecodeParenthesized(input string) ParseResult {
	result := ParseResult{Input: input, Format: FormatParenthesized}
	if input == "" {
		result.Errors = append(result.Errors, ParseError{Pos: 0, Reason: "empty input"})
		return result
	}

	pos := 0
	for pos < len(input) {
		if input[pos] != '(' {
			result.Errors = append(result.Errors, ParseError{
				Pos:    pos,
				Reason: "expected '(' before AI",
			})
			next := strings.IndexByte(input[pos:], '(')
			if next < 0 {
				break
			}
			pos += next
			continue
		}

		start := pos
		closeIdx := strings.IndexByte(input[pos:], ')')
		if closeIdx < 0 {
			result.Errors = append(result.Errors, ParseError{
				Pos:    pos,
				Reason: "unterminated AI",
			})
			break
		}
		ai := input[pos+1 : pos+closeIdx]
		if !isDigits(ai) || len(ai) < 2 || len(ai) > 4 {
			result.Errors = append(result.Errors, ParseError{
				Pos:    pos + 1,
				Reason: fmt.Sprintf("invalid AI %q", ai),
			})
			// Skip the value belonging to the bad AI as well.
			pos += closeIdx + 1
			for pos < len(input) && input[pos] != '(' {
				pos++
			}
			continue
		}
		pos += closeIdx + 1

		end := pos
		for end < len(input) && input[end] != '(' {
			end++
		}
		value := input[pos:end]
		if value == "" {
			result.Errors = append(result.Errors, ParseError{
				Pos:    pos,
				Reason: fmt.Sprintf("AI %s has an empty value", ai),
			})
			continue
		}
		result.Elements = append(result.Elements, RawElement{
			AI:    ai,
			Value: value,
			Raw:   input[start:end],
		})
		pos = end
	}

	result.OK = len(result.Errors) == 0 && len(result.Elements) > 0
	return result
}

// matchAI finds the AI code at the start of s, trying 2-, 3- and 4-digit
// candidates in that order. A 3-digit candidate is accepted only in the
// reserved 240-255 sub-range, a 4-digit candidate only in the known 4-digit
// prefix ranges (40xx-43xx, 80xx, 82xx, 90xx, 91xx). This disambiguates AI
// codes from value digits without a lookahead grammar.
func matchAI(s string) string {
	if len(s) >= 2 && isDigits(s[:2]) && twoDigitAIs[s[:2]] {
		return s[:2]
	}
	if len(s) >= 3 && isDigits(s[:3]) {
		n := int(s[0]-'0')*100 + int(s[1]-'0')*10 + int(s[2]-'0')
		if n >= 240 && n <= 255 {
			return s[:3]
		}
	}
	if len(s) >= 4 && isDigits(s[:4]) {
		switch s[:2] {
		case "40", "41", "42", "43", "80", "82", "90", "91":
			return s[:4]
		}
	}
	return ""
}

// nextSegment returns the position just past the next GS separator, or the
// end of input if none remains.
func nextSegment(input string, pos int) int {
	if idx := strings.IndexByte(input[pos:], GS); idx >= 0 {
		return pos + idx + 1
	}
	return len(input)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
