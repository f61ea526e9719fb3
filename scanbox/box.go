package scanbox

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Status is the session state of a Box.
type Status int

const (
	// Idle means no input is buffered.
	Idle Status = iota
	// Accumulating means key events are buffered since the last boundary.
	Accumulating
	// JustCompleted means a scan was emitted and the transient success
	// indicator is still visible.
	JustCompleted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Accumulating:
		return "accumulating"
	case JustCompleted:
		return "just_completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ClearReason says why a buffer was discarded without producing a scan.
type ClearReason string

const (
	// ClearEscape means the user pressed the cancel key mid-session.
	ClearEscape ClearReason = "escape"
	// ClearTimeout means the inactivity timeout elapsed with no terminator.
	ClearTimeout ClearReason = "timeout"
	// ClearManual means the host called Clear.
	ClearManual ClearReason = "manual"
)

const (
	// DefaultTimeout is the inactivity window after which a partial buffer
	// is treated as an abandoned scan.
	DefaultTimeout = 2000 * time.Millisecond
	// DefaultSuccessVisible is how long the success indicator stays up
	// before the session auto-reverts to idle.
	DefaultSuccessVisible = 3000 * time.Millisecond
)

// Option configures a Box.
type Option func(*Box)

// WithClock injects the time source. Tests use this to drive timers.
func WithClock(c Clock) Option {
	return func(b *Box) { b.clock = c }
}

// WithMinLength rejects completed scans shorter than n characters.
func WithMinLength(n int) Option {
	return func(b *Box) { b.minLength = n }
}

// WithMaxLength rejects completed scans longer than n characters.
func WithMaxLength(n int) Option {
	return func(b *Box) { b.maxLength = n }
}

// WithTimeout overrides the inactivity timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Box) { b.timeout = d }
}

// WithSuccessVisible overrides the success indicator duration.
func WithSuccessVisible(d time.Duration) Option {
	return func(b *Box) { b.successVisible = d }
}

// Disabled suppresses all key handling.
func Disabled() Option {
	return func(b *Box) { b.disabled = true }
}

// OnScanComplete registers the callback fired once per completed,
// length-validated session with the raw and display strings.
func OnScanComplete(f func(raw, display string)) Option {
	return func(b *Box) { b.onScanComplete = f }
}

// OnScanning registers the callback fired on every buffered key with the
// live display string. An empty string signals the buffer was cleared.
func OnScanning(f func(display string)) Option {
	return func(b *Box) { b.onScanning = f }
}

// OnScanError registers the callback fired when a completed raw value fails
// the length bounds.
func OnScanError(f func(message string)) Option {
	return func(b *Box) { b.onScanError = f }
}

// OnClear registers the callback fired whenever the buffer is discarded
// without producing a valid scan.
func OnClear(f func(reason ClearReason)) Option {
	return func(b *Box) { b.onClear = f }
}

// Box is the per-surface scan session state machine. All methods are safe
// for concurrent use; callbacks run outside the internal lock, on the
// goroutine that triggered the transition.
type Box struct {
	mu sync.Mutex

	clock          Clock
	minLength      int
	maxLength      int
	timeout        time.Duration
	successVisible time.Duration
	disabled       bool

	onScanComplete func(raw, display string)
	onScanning     func(display string)
	onScanError    func(message string)
	onClear        func(reason ClearReason)

	status    Status
	buffer    []KeyEvent
	lastEvent time.Time

	inactivity  Timer
	successHide Timer
	// gen invalidates in-flight timer callbacks. Every transition that
	// restarts or cancels a timer bumps it; a fired callback whose captured
	// generation no longer matches is stale and returns without acting.
	gen uint64
}

// New creates an idle Box with the default timings and the wall clock.
func New(opts ...Option) *Box {
	b := &Box{
		clock:          realClock{},
		timeout:        DefaultTimeout,
		successVisible: DefaultSuccessVisible,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Status returns the current session state.
func (b *Box) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// HandleKey feeds one key event into the state machine.
func (b *Box) HandleKey(ev KeyEvent) {
	b.mu.Lock()
	if b.disabled {
		b.mu.Unlock()
		return
	}
	fire := b.handleKeyLocked(ev)
	b.mu.Unlock()

	for _, f := range fire {
		f()
	}
}

// Clear discards any buffered input and the success indicator.
func (b *Box) Clear() {
	b.mu.Lock()
	fire := b.clearLocked(ClearManual)
	b.mu.Unlock()

	for _, f := range fire {
		f()
	}
}

// Close cancels both timers. The Box stays usable but no pending timeout
// will fire afterwards.
func (b *Box) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.stopTimersLocked()
}

func (b *Box) handleKeyLocked(ev KeyEvent) []func() {
	if ev.Key == "Escape" {
		// clearLocked sees the JustCompleted state, so cancelling a visible
		// success indicator still notifies the caller.
		return b.clearLocked(ClearEscape)
	}

	// Any other key press kills the pending success auto-revert.
	cancelledSuccess := false
	if b.status == JustCompleted {
		b.gen++
		if b.successHide != nil {
			b.successHide.Stop()
			b.successHide = nil
		}
		b.status = Idle
		cancelledSuccess = true
	}

	if ev.Key == "Enter" {
		if b.status != Accumulating {
			// The terminator buffered nothing, so no scanning update follows.
			// The cancelled revert would otherwise leave the success
			// indicator showing forever.
			if cancelledSuccess && b.onScanning != nil {
				cb := b.onScanning
				return []func(){func() { cb("") }}
			}
			return nil
		}
		return b.completeLocked()
	}

	b.buffer = append(b.buffer, ev)
	b.status = Accumulating
	b.lastEvent = b.clock.Now()
	b.armInactivityLocked()

	var fire []func()
	if b.onScanning != nil {
		display := b.displayLocked()
		cb := b.onScanning
		fire = append(fire, func() { cb(display) })
	}
	return fire
}

// completeLocked closes the session on a terminator key. The buffer is
// consumed exactly once: it is cleared here before any callback runs.
func (b *Box) completeLocked() []func() {
	b.gen++
	b.stopTimersLocked()

	raw := b.rawLocked()
	display := b.displayLocked()
	b.buffer = nil

	if b.minLength > 0 && len(raw) < b.minLength {
		return b.rejectLocked(fmt.Sprintf("scan too short: %d characters, minimum %d", len(raw), b.minLength))
	}
	if b.maxLength > 0 && len(raw) > b.maxLength {
		return b.rejectLocked(fmt.Sprintf("scan too long: %d characters, maximum %d", len(raw), b.maxLength))
	}

	b.status = JustCompleted
	gen := b.gen
	b.successHide = b.clock.AfterFunc(b.successVisible, func() { b.onSuccessExpired(gen) })

	var fire []func()
	if b.onScanComplete != nil {
		cb := b.onScanComplete
		fire = append(fire, func() { cb(raw, display) })
	}
	return fire
}

// rejectLocked reports a length-bound violation. The session never enters
// the success state; it drops straight back to idle.
func (b *Box) rejectLocked(message string) []func() {
	b.status = Idle

	var fire []func()
	if b.onScanning != nil {
		cb := b.onScanning
		fire = append(fire, func() { cb("") })
	}
	if b.onScanError != nil {
		cb := b.onScanError
		fire = append(fire, func() { cb(message) })
	}
	return fire
}

func (b *Box) clearLocked(reason ClearReason) []func() {
	b.gen++
	b.stopTimersLocked()
	cleared := len(b.buffer) > 0 || b.status != Idle
	b.buffer = nil
	b.status = Idle

	if !cleared {
		return nil
	}

	var fire []func()
	if b.onScanning != nil {
		cb := b.onScanning
		fire = append(fire, func() { cb("") })
	}
	if b.onClear != nil {
		cb := b.onClear
		fire = append(fire, func() { cb(reason) })
	}
	return fire
}

func (b *Box) armInactivityLocked() {
	b.gen++
	if b.inactivity != nil {
		b.inactivity.Stop()
	}
	gen := b.gen
	b.inactivity = b.clock.AfterFunc(b.timeout, func() { b.onInactivity(gen) })
}

func (b *Box) onInactivity(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || b.status != Accumulating {
		b.mu.Unlock()
		return
	}
	fire := b.clearLocked(ClearTimeout)
	b.mu.Unlock()

	for _, f := range fire {
		f()
	}
}

func (b *Box) onSuccessExpired(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || b.status != JustCompleted {
		b.mu.Unlock()
		return
	}
	b.status = Idle
	b.successHide = nil
	cb := b.onScanning
	b.mu.Unlock()

	if cb != nil {
		cb("")
	}
}

func (b *Box) stopTimersLocked() {
	if b.inactivity != nil {
		b.inactivity.Stop()
		b.inactivity = nil
	}
	if b.successHide != nil {
		b.successHide.Stop()
		b.successHide = nil
	}
}

func (b *Box) rawLocked() string {
	var sb strings.Builder
	for _, ev := range b.buffer {
		sb.WriteString(ev.rawContribution())
	}
	return sb.String()
}

func (b *Box) displayLocked() string {
	var sb strings.Builder
	for _, ev := range b.buffer {
		sb.WriteString(ev.displayToken())
	}
	return sb.String()
}
