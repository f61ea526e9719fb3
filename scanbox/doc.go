// Package scanbox reconstructs discrete scan sessions from the keystroke
// stream a keyboard-wedge barcode scanner produces.
//
// A scanner in keyboard-emulation mode types its payload as a burst of
// individual key events followed by a terminator key. The Box state machine
// buffers those events, detects session boundaries (Enter, inactivity
// timeout, Escape) and delivers the finished raw string through callbacks,
// along with live partial-input and clear notifications the host UI renders
// from.
//
// Each Box owns its own buffer and timers, so multiple input surfaces can
// run side by side without sharing state. Timing is injected through the
// Clock interface; production code uses the wall clock while tests drive a
// fake one deterministically.
package scanbox
