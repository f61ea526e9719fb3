package gs1

import "fmt"

// GS is the ASCII group separator (0x1D) terminating variable-length data
// fields in GS-separated barcode data. Scanner hardware transmits it between
// fields; keyboard-wedge scanners signal it through a designated key.
const GS = '\x1d'

// Format identifies which encoding a raw barcode string uses.
type Format string

const (
	// FormatGS is the raw scanner encoding: AI digits immediately followed
	// by the value, variable-length values terminated by GS or end of input.
	FormatGS Format = "gs"
	// FormatParenthesized is the human-readable encoding: (AI)value pairs.
	FormatParenthesized Format = "paren"
)

// RawElement is one unvalidated (AI, value) pair produced by tokenization.
type RawElement struct {
	AI    string `json:"ai"`
	Value string `json:"value"`
	// Raw is the slice of the input this element was produced from,
	// including the AI digits and any surrounding markers.
	Raw string `json:"raw"`
}

// ParseError records one non-fatal tokenization failure. Decoding continues
// past parse errors so partial results remain usable.
type ParseError struct {
	Pos    int    `json:"pos"` // byte position in the input
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Reason)
}

// ParseResult is the outcome of tokenizing one raw barcode string.
type ParseResult struct {
	Input    string       `json:"input"`
	Format   Format       `json:"format"`
	Elements []RawElement `json:"elements"`
	Errors   []ParseError `json:"errors,omitempty"`
	// OK is true when tokenization produced at least one element and no errors.
	OK bool `json:"ok"`
}
