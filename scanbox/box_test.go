package scanbox

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives timers deterministically. Advance moves time forward and
// fires due timers in order, releasing the lock around each callback so
// handlers can schedule new timers.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	f       func()
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.when
		next.stopped = true
		f := next.f
		c.mu.Unlock()
		f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// recorder captures every callback invocation in order.
type recorder struct {
	completions []completion
	scanning    []string
	errors      []string
	clears      []ClearReason
}

type completion struct {
	raw     string
	display string
}

func (r *recorder) options() []Option {
	return []Option{
		OnScanComplete(func(raw, display string) {
			r.completions = append(r.completions, completion{raw, display})
		}),
		OnScanning(func(display string) { r.scanning = append(r.scanning, display) }),
		OnScanError(func(msg string) { r.errors = append(r.errors, msg) }),
		OnClear(func(reason ClearReason) { r.clears = append(r.clears, reason) }),
	}
}

func newTestBox(clock Clock, rec *recorder, extra ...Option) *Box {
	opts := append([]Option{WithClock(clock)}, rec.options()...)
	return New(append(opts, extra...)...)
}

// press builds one printable key event per character.
func press(b *Box, chars string) {
	for _, r := range chars {
		b.HandleKey(KeyEvent{Key: string(r), CharCode: int(r)})
	}
}

func pressEnter(b *Box)  { b.HandleKey(KeyEvent{Key: "Enter", CharCode: 13}) }
func pressEscape(b *Box) { b.HandleKey(KeyEvent{Key: "Escape", CharCode: 27}) }

func TestScanComplete(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "700")
	pressEnter(box)

	require.Len(t, rec.completions, 1)
	assert.Equal(t, completion{"700", "700"}, rec.completions[0])
	assert.Equal(t, []string{"7", "70", "700"}, rec.scanning)
	assert.Empty(t, rec.errors)
	assert.Empty(t, rec.clears)
	assert.Equal(t, JustCompleted, box.Status())
}

func TestInactivityTimeout(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "700")
	clock.Advance(2100 * time.Millisecond)

	assert.Empty(t, rec.completions)
	assert.Equal(t, []ClearReason{ClearTimeout}, rec.clears)
	assert.Equal(t, "", rec.scanning[len(rec.scanning)-1], "display cleared on timeout")
	assert.Equal(t, Idle, box.Status())
}

func TestTimeoutRestartsOnEveryKey(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "7")
	clock.Advance(1500 * time.Millisecond)
	press(box, "0")
	clock.Advance(1500 * time.Millisecond)
	press(box, "0")

	assert.Empty(t, rec.clears, "timer restarts while keys keep arriving")
	assert.Equal(t, Accumulating, box.Status())

	clock.Advance(2000 * time.Millisecond)
	assert.Equal(t, []ClearReason{ClearTimeout}, rec.clears)
}

func TestEscapeMidBuffer(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "12")
	pressEscape(box)

	assert.Equal(t, []ClearReason{ClearEscape}, rec.clears)
	assert.Equal(t, "", rec.scanning[len(rec.scanning)-1])
	assert.Equal(t, Idle, box.Status())

	// A fresh buffer starts from scratch, the discarded characters are gone.
	press(box, "3")
	pressEnter(box)

	require.Len(t, rec.completions, 1)
	assert.Equal(t, completion{"3", "3"}, rec.completions[0])
}

func TestEscapeClearsSuccessIndicator(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "700")
	pressEnter(box)
	require.Equal(t, JustCompleted, box.Status())

	pressEscape(box)
	assert.Equal(t, []ClearReason{ClearEscape}, rec.clears)
	assert.Equal(t, Idle, box.Status())
}

func TestEscapeWhileIdleIsSilent(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	pressEscape(box)
	assert.Empty(t, rec.clears)
	assert.Empty(t, rec.scanning)
}

func TestMinLengthRejection(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec, WithMinLength(5))

	press(box, "700")

	pressEnter(box)

	assert.Empty(t, rec.completions)
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "minimum 5")
	assert.Equal(t, Idle, box.Status(), "success state is never entered")
	assert.Equal(t, "", rec.scanning[len(rec.scanning)-1])
}

func TestMaxLengthRejection(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec, WithMaxLength(2))

	press(box, "700")
	pressEnter(box)

	assert.Empty(t, rec.completions)
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "maximum 2")
	assert.Equal(t, Idle, box.Status())
}

func TestSuccessAutoRevert(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "700")
	pressEnter(box)
	require.Equal(t, JustCompleted, box.Status())

	clock.Advance(3000 * time.Millisecond)
	assert.Equal(t, Idle, box.Status())
	assert.Equal(t, "", rec.scanning[len(rec.scanning)-1])
}

func TestNewKeyCancelsSuccessRevert(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "700")
	pressEnter(box)

	clock.Advance(1000 * time.Millisecond)
	press(box, "8")
	assert.Equal(t, Accumulating, box.Status())

	// The old success-hide timer must not fire into the new session.
	clock.Advance(1900 * time.Millisecond)
	assert.Equal(t, Accumulating, box.Status())
	assert.Empty(t, rec.clears)
}

func TestEnterDuringSuccessClearsIndicator(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "700")
	pressEnter(box)
	require.Equal(t, JustCompleted, box.Status())

	// A stray terminator cancels the auto-revert without buffering anything.
	// The display still has to drop the success indicator.
	pressEnter(box)
	assert.Equal(t, Idle, box.Status())
	assert.Equal(t, "", rec.scanning[len(rec.scanning)-1])
	assert.Empty(t, rec.clears)
	assert.Empty(t, rec.errors)

	// The cancelled revert timer must stay silent.
	before := len(rec.scanning)
	clock.Advance(3000 * time.Millisecond)
	assert.Len(t, rec.scanning, before)
}

func TestGroupSeparatorKey(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "10AB")
	box.HandleKey(KeyEvent{Key: "]", Code: "BracketRight", CharCode: 29, Ctrl: true})
	press(box, "21X")
	pressEnter(box)

	require.Len(t, rec.completions, 1)
	assert.Equal(t, "10AB\x1d21X", rec.completions[0].raw)
	assert.Equal(t, "10AB[GS]21X", rec.completions[0].display)
}

func TestControlKeysStrippedFromRaw(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "70")
	box.HandleKey(KeyEvent{Key: "Tab", Code: "Tab", CharCode: 9})
	press(box, "0")
	pressEnter(box)

	require.Len(t, rec.completions, 1)
	assert.Equal(t, "700", rec.completions[0].raw)
	assert.Equal(t, "70[TAB]0", rec.completions[0].display)
}

func TestManualClear(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	press(box, "12")
	box.Clear()

	assert.Equal(t, []ClearReason{ClearManual}, rec.clears)
	assert.Equal(t, Idle, box.Status())
}

func TestDisabledIgnoresInput(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec, Disabled())

	press(box, "700")
	pressEnter(box)

	assert.Empty(t, rec.completions)
	assert.Empty(t, rec.scanning)
	assert.Equal(t, Idle, box.Status())
}

func TestEnterWhileIdleIsSilent(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	box := newTestBox(clock, rec)

	pressEnter(box)
	assert.Empty(t, rec.completions)
	assert.Empty(t, rec.errors)
}

func TestIndependentBoxes(t *testing.T) {
	clock := newFakeClock()
	recA := &recorder{}
	recB := &recorder{}
	boxA := newTestBox(clock, recA)
	boxB := newTestBox(clock, recB)

	press(boxA, "111")
	press(boxB, "222")
	pressEnter(boxA)

	require.Len(t, recA.completions, 1)
	assert.Empty(t, recB.completions)
	assert.Equal(t, Accumulating, boxB.Status())

	clock.Advance(2100 * time.Millisecond)
	assert.Equal(t, []ClearReason{ClearTimeout}, recB.clears)
	assert.Empty(t, recA.clears)
}
