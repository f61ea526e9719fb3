package vocabulary

import (
	"fmt"
	"regexp"
)

// ComponentType describes the character class of a data component.
type ComponentType string

const (
	// ComponentNumeric allows digits only
	ComponentNumeric ComponentType = "numeric"
	// ComponentAlphanumeric allows the GS1 CSET 82 character set
	// (printable ASCII excluding a handful of symbols; validated by regex)
	ComponentAlphanumeric ComponentType = "alphanumeric"
)

// Component describes one positional part of an AI's data field.
// An AI like "8003" (GRAI) has two components: a fixed numeric part
// and an optional variable serial part.
type Component struct {
	Type        ComponentType `json:"type"`
	Optional    bool          `json:"optional,omitempty"`
	FixedLength bool          `json:"fixed_length,omitempty"`
	Length      int           `json:"length"` // exact length when FixedLength, maximum otherwise
	CheckDigit  bool          `json:"check_digit,omitempty"`
}

// AIDefinition describes a single GS1 Application Identifier: what it means,
// what its data field looks like, and which other AIs it depends on or
// conflicts with. Definitions are registered once at startup and never
// mutated; every parse call shares them read-only.
type AIDefinition struct {
	Code        string      `json:"code"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Format      string      `json:"format"` // human-readable, e.g. "N2+N14" or "N2+X..20"
	Components  []Component `json:"components,omitempty"`

	// Regex validates the complete data field value.
	Regex *regexp.Regexp `json:"-"`

	// Requires lists AIs of which at least one must co-occur (OR semantics).
	Requires []string `json:"requires,omitempty"`
	// Excludes lists AIs that must not co-occur with this one.
	Excludes []string `json:"excludes,omitempty"`

	// PrimaryKey marks GS1 Digital Link primary-key AIs (GTIN, SSCC, ...).
	PrimaryKey bool `json:"primary_key,omitempty"`
}

// TotalFixedLength returns the exact total character count of the data field
// and true when every component is fixed-length and mandatory. Variable or
// optional components make the total open-ended, in which case it returns
// (0, false).
func (d *AIDefinition) TotalFixedLength() (int, bool) {
	if len(d.Components) == 0 {
		return 0, false
	}
	total := 0
	for _, c := range d.Components {
		if !c.FixedLength || c.Optional {
			return 0, false
		}
		total += c.Length
	}
	return total, true
}

// Validate reports whether value matches this definition's regex and,
// when the definition is fully fixed-length, the exact character count.
// It returns a human-readable reason on failure.
func (d *AIDefinition) Validate(value string) (bool, string) {
	if n, ok := d.TotalFixedLength(); ok && len(value) != n {
		return false, fmt.Sprintf("AI %s: expected %d characters, got %d", d.Code, n, len(value))
	}
	if d.Regex != nil && !d.Regex.MatchString(value) {
		return false, fmt.Sprintf("AI %s: value does not match format %s", d.Code, d.Format)
	}
	return true, ""
}
