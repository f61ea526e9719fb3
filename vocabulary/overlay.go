package vocabulary

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/scanstream/errors"
)

// overlaySchema validates overlay files before any entry touches the
// registry. A malformed overlay is a deployment error and must fail at
// startup, not surface as per-scan validation noise.
const overlaySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["code", "title", "pattern"],
    "additionalProperties": false,
    "properties": {
      "code": {"type": "string", "pattern": "^[0-9]{2,4}$"},
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "format": {"type": "string"},
      "pattern": {"type": "string", "minLength": 1},
      "requires": {"type": "array", "items": {"type": "string", "pattern": "^[0-9]{2,4}$"}},
      "excludes": {"type": "array", "items": {"type": "string", "pattern": "^[0-9]{2,4}$"}},
      "primary_key": {"type": "boolean"},
      "components": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["type", "length"],
          "additionalProperties": false,
          "properties": {
            "type": {"type": "string", "enum": ["numeric", "alphanumeric"]},
            "optional": {"type": "boolean"},
            "fixed_length": {"type": "boolean"},
            "length": {"type": "integer", "minimum": 1},
            "check_digit": {"type": "boolean"}
          }
        }
      }
    }
  }
}`

// overlayEntry mirrors AIDefinition with the regex still in source form.
type overlayEntry struct {
	Code        string      `json:"code"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Format      string      `json:"format"`
	Pattern     string      `json:"pattern"`
	Requires    []string    `json:"requires"`
	Excludes    []string    `json:"excludes"`
	PrimaryKey  bool        `json:"primary_key"`
	Components  []Component `json:"components"`
}

// LoadOverlay registers extra or overriding AI definitions from a JSON file.
// The file is validated against the overlay schema first, then each pattern
// is compiled; any failure aborts the whole load with nothing registered.
// It returns the number of definitions registered.
func LoadOverlay(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.WrapFatal(err, "Vocabulary", "LoadOverlay", "read overlay file")
	}
	return loadOverlayBytes(data)
}

func loadOverlayBytes(data []byte) (int, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(overlaySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return 0, errors.WrapFatal(err, "Vocabulary", "LoadOverlay", "schema validation")
	}
	if !result.Valid() {
		var first string
		if errs := result.Errors(); len(errs) > 0 {
			first = errs[0].String()
		}
		return 0, errors.WrapFatal(
			fmt.Errorf("overlay does not match schema: %s", first),
			"Vocabulary", "LoadOverlay", "schema validation")
	}

	var entries []overlayEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, errors.WrapFatal(err, "Vocabulary", "LoadOverlay", "decode overlay")
	}

	// Compile everything before registering so a broken entry cannot leave
	// the registry half-updated.
	defs := make([]AIDefinition, 0, len(entries))
	for _, e := range entries {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return 0, errors.WrapFatal(
				fmt.Errorf("AI %s: %w", e.Code, err),
				"Vocabulary", "LoadOverlay", "compile pattern")
		}
		defs = append(defs, AIDefinition{
			Code:        e.Code,
			Title:       e.Title,
			Description: e.Description,
			Format:      e.Format,
			Components:  e.Components,
			Regex:       re,
			Requires:    e.Requires,
			Excludes:    e.Excludes,
			PrimaryKey:  e.PrimaryKey,
		})
	}

	for _, def := range defs {
		RegisterDefinition(def)
	}
	return len(defs), nil
}
