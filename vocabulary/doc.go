// Package vocabulary provides the immutable registry of GS1 Application
// Identifier definitions used to validate decoded barcode elements.
//
// # Overview
//
// An Application Identifier (AI) is the 2-4 digit code prefixed to every GS1
// data field: "01" introduces a GTIN, "10" a batch number, "17" an expiration
// date. Each AIDefinition captures the field's format, validation regex, data
// components, inter-AI dependencies (Requires, OR semantics) and conflicts
// (Excludes), plus whether the AI is a GS1 Digital Link primary key.
//
// The built-in table is registered during package initialization and is
// read-only afterwards; every parse call shares it. Lookup of an unknown code
// returns nil rather than an error - callers route unknown AIs to validation
// errors instead of failing.
//
// # Usage
//
//	def := vocabulary.Lookup("01")
//	if def == nil {
//	    // unknown AI
//	}
//	ok, reason := def.Validate("00196527094841")
//
// Deployments with company-internal AIs can extend or override the built-in
// table with a JSON overlay file, validated against an embedded schema:
//
//	n, err := vocabulary.LoadOverlay("configs/ai-overlay.json")
//
// # Registration
//
// Built-in entries use functional options:
//
//	Register("17",
//	    WithTitle("USE BY"),
//	    WithFormat("N2+N6"),
//	    WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 6}),
//	    WithPattern(`^\d{6}$`))
//
// A pattern that does not compile panics at registration: broken vocabulary
// entries are programmer errors and fail at startup, never per scan.
package vocabulary
