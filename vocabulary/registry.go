package vocabulary

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Global AI definition registry
var (
	registryMu sync.RWMutex
	registry   = make(map[string]AIDefinition)
)

// Option is a functional option for configuring AI registration.
type Option func(*AIDefinition)

// WithTitle sets the short human-readable title (the GS1 "data title").
func WithTitle(title string) Option {
	return func(d *AIDefinition) {
		d.Title = title
	}
}

// WithDescription sets the longer human-readable description.
func WithDescription(desc string) Option {
	return func(d *AIDefinition) {
		d.Description = desc
	}
}

// WithFormat sets the human-readable format string, e.g. "N2+N14" or "N2+X..20".
func WithFormat(format string) Option {
	return func(d *AIDefinition) {
		d.Format = format
	}
}

// WithComponents sets the positional data components of the AI.
func WithComponents(components ...Component) Option {
	return func(d *AIDefinition) {
		d.Components = components
	}
}

// WithPattern compiles and sets the validation regex for the data field.
// A pattern that does not compile panics at registration time: a broken
// vocabulary entry is a programmer error and must fail at startup, not
// per scan.
func WithPattern(pattern string) Option {
	re := regexp.MustCompile(pattern)
	return func(d *AIDefinition) {
		d.Regex = re
	}
}

// WithRequires lists AIs of which at least one must co-occur with this AI.
func WithRequires(ais ...string) Option {
	return func(d *AIDefinition) {
		d.Requires = ais
	}
}

// WithExcludes lists AIs that must not co-occur with this AI.
func WithExcludes(ais ...string) Option {
	return func(d *AIDefinition) {
		d.Excludes = ais
	}
}

// WithPrimaryKey marks the AI as a GS1 Digital Link primary key.
func WithPrimaryKey() Option {
	return func(d *AIDefinition) {
		d.PrimaryKey = true
	}
}

// Register registers an AI definition in the global registry. It is called
// during package initialization by the built-in table and may be called again
// by overlay loading; re-registering a code overwrites the previous entry.
//
// Example:
//
//	Register("01",
//	    WithTitle("GTIN"),
//	    WithFormat("N2+N14"),
//	    WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true}),
//	    WithPattern(`^\d{14}$`),
//	    WithPrimaryKey())
func Register(code string, opts ...Option) {
	def := AIDefinition{Code: code}
	for _, opt := range opts {
		opt(&def)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[code] = def
}

// RegisterDefinition registers a definition struct directly. Used by overlay
// loading and tests; new built-in entries should use Register() with options.
func RegisterDefinition(def AIDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[def.Code] = def
}

// Lookup retrieves the definition for an AI code. It returns nil for unknown
// codes: an unrecognized AI is routed to a validation error by callers, never
// treated as a lookup failure.
func Lookup(code string) *AIDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if def, exists := registry[code]; exists {
		defCopy := def
		return &defCopy
	}
	return nil
}

// List returns all registered definitions sorted by AI code.
func List() []AIDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	defs := make([]AIDefinition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Code < defs[j].Code
	})
	return defs
}

// Search returns definitions whose code starts with the query or whose title
// or description contains it, case-insensitively. Results are sorted by code.
func Search(query string) []AIDefinition {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	var matches []AIDefinition
	for _, def := range registry {
		if strings.HasPrefix(def.Code, q) ||
			strings.Contains(strings.ToLower(def.Title), q) ||
			strings.Contains(strings.ToLower(def.Description), q) {
			matches = append(matches, def)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Code < matches[j].Code
	})
	return matches
}

// Size returns the number of registered definitions.
func Size() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Reset clears the registry and re-registers the built-in table.
// This is primarily useful for tests that register overlay entries.
func Reset() {
	registryMu.Lock()
	registry = make(map[string]AIDefinition)
	registryMu.Unlock()
	registerBuiltins()
}
