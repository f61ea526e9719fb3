package scanbox

import "time"

// gsCharCode is the ASCII group separator. Scanner hardware signals a GS1
// field boundary by sending the key whose character code is 29; it is the
// only control character that survives into the raw value.
const gsCharCode = 29

// KeyEvent is one physical key activation as reported by the host input
// layer. Events are immutable and must arrive in temporal order.
type KeyEvent struct {
	// Key is the logical key value ("7", "Enter", "Escape", ...).
	Key string
	// Code is the physical key code label ("Digit7", "Period", ...).
	Code string
	// CharCode is the character code of the key, 0 for non-printable keys.
	CharCode int

	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool

	// Repeat marks auto-repeated events from a held key.
	Repeat bool
	// Composing marks events delivered while an IME composition is active.
	Composing bool

	Time time.Time
}

// codeRemap fixes locale-dependent virtual keyboards that report a generic
// physical-code label instead of the literal character. The remap applies
// only when the logical key value is not itself a single character, so
// charCode-based control detection is unaffected.
var codeRemap = map[string]string{
	"Period":       ".",
	"Comma":        ",",
	"Minus":        "-",
	"Slash":        "/",
	"Semicolon":    ";",
	"Equal":        "=",
	"Quote":        "'",
	"Backquote":    "`",
	"Backslash":    "\\",
	"BracketLeft":  "[",
	"BracketRight": "]",
	"Space":        " ",
}

// displaySymbols maps non-printable key values to short bracketed symbols
// for the live display string.
var displaySymbols = map[string]string{
	"Enter":      "[CR]",
	"Escape":     "[ESC]",
	"Tab":        "[TAB]",
	"Backspace":  "[BS]",
	"Delete":     "[DEL]",
	"Insert":     "[INS]",
	"Home":       "[HOME]",
	"End":        "[END]",
	"PageUp":     "[PGUP]",
	"PageDown":   "[PGDN]",
	"ArrowUp":    "[UP]",
	"ArrowDown":  "[DOWN]",
	"ArrowLeft":  "[LEFT]",
	"ArrowRight": "[RIGHT]",
	"Shift":      "[SHIFT]",
	"Control":    "[CTRL]",
	"Alt":        "[ALT]",
	"Meta":       "[META]",
}

// literal returns the single printable character this event contributes, or
// the empty string when the key carries none.
func (e KeyEvent) literal() string {
	if len([]rune(e.Key)) == 1 {
		return e.Key
	}
	if ch, ok := codeRemap[e.Code]; ok {
		return ch
	}
	return ""
}

// rawContribution returns the bytes this event adds to the raw scan value.
// Control keys below code 32 and DEL contribute nothing, except the GS key
// which maps to the ASCII group separator.
func (e KeyEvent) rawContribution() string {
	if e.CharCode == gsCharCode {
		return "\x1d"
	}
	if e.CharCode < 32 || e.CharCode == 127 {
		return ""
	}
	return e.literal()
}

// displayToken returns the live-display representation of this event: the
// literal character for printable keys, a bracketed symbol otherwise.
func (e KeyEvent) displayToken() string {
	if e.CharCode == gsCharCode {
		return "[GS]"
	}
	if e.CharCode >= 32 && e.CharCode != 127 {
		if lit := e.literal(); lit != "" {
			return lit
		}
	}
	if sym, ok := displaySymbols[e.Key]; ok {
		return sym
	}
	return "[" + e.Key + "]"
}
