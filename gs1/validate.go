package gs1

import (
	"fmt"
	"strings"

	"github.com/c360/scanstream/vocabulary"
)

// ParsedElement is a raw element enriched with its vocabulary definition and
// the outcome of element-level validation. Elements with unknown AIs keep a
// nil Definition and are marked invalid, but they are never dropped.
type ParsedElement struct {
	RawElement
	Definition *vocabulary.AIDefinition `json:"definition,omitempty"`
	Valid      bool                     `json:"valid"`
	Err        string                   `json:"error,omitempty"`
}

// Title returns the human-readable data title for the element's AI, or the
// AI code itself when the vocabulary does not define it.
func (e *ParsedElement) Title() string {
	if e.Definition != nil {
		return e.Definition.Title
	}
	return e.AI
}

// ParsedData is the final output of a decode-validate cycle.
type ParsedData struct {
	Elements []*ParsedElement `json:"elements"`
	// Valid is true iff decoding produced zero format errors, every element
	// validated individually, and all requires/excludes constraints hold.
	Valid bool `json:"valid"`
	// GlobalErrors accumulates cross-element failures: unknown AIs, unmet
	// requires, violated excludes.
	GlobalErrors []string `json:"global_errors,omitempty"`
	// PrimaryKey is the first element whose AI is a GS1 Digital Link primary
	// key (normally the GTIN or SSCC); nil when no element qualifies.
	PrimaryKey *ParsedElement `json:"primary_key,omitempty"`
	// Categories buckets elements for display grouping.
	Categories map[Category][]*ParsedElement `json:"categories"`
	// AIMap exposes the decoded AI code to value mapping for downstream
	// consumers that extract their own fields (prescription text, device
	// info and similar enrichment live outside this package).
	AIMap map[string]string `json:"ai_map"`
}

// Validate enriches a tokenization result against the AI vocabulary. Every
// failure is recorded as data, never returned as an error: malformed barcode
// content is a normal input, not an exceptional condition.
func Validate(result ParseResult) ParsedData {
	data := ParsedData{
		Elements:   make([]*ParsedElement, 0, len(result.Elements)),
		Categories: make(map[Category][]*ParsedElement),
		AIMap:      make(map[string]string, len(result.Elements)),
	}

	present := make(map[string]bool, len(result.Elements))
	for _, raw := range result.Elements {
		present[raw.AI] = true
	}

	allValid := true
	for _, raw := range result.Elements {
		elem := &ParsedElement{RawElement: raw}
		elem.Definition = vocabulary.Lookup(raw.AI)

		switch {
		case elem.Definition == nil:
			elem.Err = "unknown AI"
			data.GlobalErrors = append(data.GlobalErrors, fmt.Sprintf("Unknown AI: %s", raw.AI))
		default:
			elem.Valid, elem.Err = elem.Definition.Validate(raw.Value)
			if elem.Valid && needsCheckDigit(elem.Definition) && !CheckDigitValid(raw.Value) {
				elem.Valid = false
				elem.Err = fmt.Sprintf("AI %s: check digit mismatch", raw.AI)
			}
		}
		if !elem.Valid {
			allValid = false
		}

		data.Elements = append(data.Elements, elem)
		data.AIMap[raw.AI] = raw.Value

		cat := Categorize(raw.AI)
		data.Categories[cat] = append(data.Categories[cat], elem)

		if data.PrimaryKey == nil && elem.Definition != nil && elem.Definition.PrimaryKey {
			data.PrimaryKey = elem
		}
	}

	// Dependency resolution runs after element validation so constraints see
	// the complete decoded set.
	for _, elem := range data.Elements {
		if elem.Definition == nil {
			continue
		}
		if len(elem.Definition.Requires) > 0 && !anyPresent(present, elem.Definition.Requires) {
			data.GlobalErrors = append(data.GlobalErrors, fmt.Sprintf(
				"AI %s requires one of: %s", elem.AI, strings.Join(elem.Definition.Requires, ", ")))
		}
		for _, excluded := range elem.Definition.Excludes {
			if present[excluded] {
				data.GlobalErrors = append(data.GlobalErrors, fmt.Sprintf(
					"AI %s must not be combined with AI %s", elem.AI, excluded))
			}
		}
	}

	data.Valid = result.OK && len(data.GlobalErrors) == 0 && allValid
	return data
}

// DecodeAndValidate runs the full pipeline on one raw barcode string.
func DecodeAndValidate(input string) (ParseResult, ParsedData) {
	result := Decode(input)
	return result, Validate(result)
}

// needsCheckDigit reports whether the definition's value is a single fixed
// numeric key carrying a check digit. Multi-component AIs embed their check
// digit mid-value and are left to regex validation alone.
func needsCheckDigit(def *vocabulary.AIDefinition) bool {
	if len(def.Components) != 1 {
		return false
	}
	c := def.Components[0]
	return c.CheckDigit && c.FixedLength && c.Type == vocabulary.ComponentNumeric
}

func anyPresent(present map[string]bool, ais []string) bool {
	for _, ai := range ais {
		if present[ai] {
			return true
		}
	}
	return false
}
