package transcript

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Flags is the presentation state the panel controller derives from the
// transcript on every change.
type Flags struct {
	// Expanded reports the panel's tall layout. Sticky: once true it
	// stays true for the rest of the session.
	Expanded bool
	// GrowWide reports the wide layout used when products are on
	// screen. Recomputed every change; unlike Expanded it can fall
	// back to false.
	GrowWide bool
}

// Deriver computes Flags. It carries the sticky Expanded bit across
// calls; everything else is a pure function of the message list.
type Deriver struct {
	expanded bool
}

// Derive recomputes the flags for the given transcript.
func (d *Deriver) Derive(list []Message) Flags {
	if len(list) > 1 {
		d.expanded = true
	}
	return Flags{
		Expanded: d.expanded,
		GrowWide: growWide(list),
	}
}

// growWide is true iff the transcript holds at least one function_calls
// message and the most recent one's first content item carries a
// non-empty product list.
func growWide(list []Message) bool {
	for i := len(list) - 1; i >= 0; i-- {
		m := list[i]
		if m.Kind != KindFunctionCalls {
			continue
		}
		if len(m.Content) == 0 {
			return false
		}
		first := m.Content[0]
		return first.Type == ContentFunctionResult && len(first.Products) > 0
	}
	return false
}

const (
	// typingShowDelay is how long after a pending turn the indicator
	// appears.
	typingShowDelay = 1500 * time.Millisecond
	// typingHideCeiling bounds how long the indicator may stay up with
	// no reply, guarding against a stalled backend.
	typingHideCeiling = 30 * time.Second
)

// TypingIndicator owns the "assistant is typing" state. Observe must be
// called with a fresh snapshot on every transcript change; any change
// cancels pending timers and recomputes from scratch.
type TypingIndicator struct {
	clock    clockwork.Clock
	onChange func(visible bool)

	mu        sync.Mutex
	visible   bool
	showTimer clockwork.Timer
	hideTimer clockwork.Timer
}

// NewTypingIndicator creates an indicator. onChange fires on every
// visibility transition and may be nil.
func NewTypingIndicator(clock clockwork.Clock, onChange func(visible bool)) *TypingIndicator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TypingIndicator{clock: clock, onChange: onChange}
}

// Visible reports whether the indicator is currently shown.
func (t *TypingIndicator) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Observe recomputes the indicator for the given transcript. The
// indicator becomes pending when the last message is a
// start_function_call marker or any user turn: it shows after
// typingShowDelay and auto-hides at typingHideCeiling unless a new
// message arrives first.
func (t *TypingIndicator) Observe(list []Message) {
	t.mu.Lock()
	t.stopTimersLocked()

	if !typingPending(list) {
		changed := t.visible
		t.visible = false
		t.mu.Unlock()
		if changed {
			t.fire(false)
		}
		return
	}

	t.showTimer = t.clock.AfterFunc(typingShowDelay, func() {
		t.set(true)
	})
	t.hideTimer = t.clock.AfterFunc(typingHideCeiling, func() {
		t.set(false)
	})
	t.mu.Unlock()
}

// Stop cancels pending timers and hides the indicator. Safe to call on
// teardown; later timer fires become no-ops.
func (t *TypingIndicator) Stop() {
	t.mu.Lock()
	t.stopTimersLocked()
	t.visible = false
	t.mu.Unlock()
}

func typingPending(list []Message) bool {
	if len(list) == 0 {
		return false
	}
	last := list[len(list)-1]
	return last.Kind == KindStartFunctionCall || last.Role == RoleUser
}

func (t *TypingIndicator) set(v bool) {
	t.mu.Lock()
	changed := t.visible != v
	t.visible = v
	t.mu.Unlock()
	if changed {
		t.fire(v)
	}
}

func (t *TypingIndicator) fire(v bool) {
	if t.onChange != nil {
		t.onChange(v)
	}
}

func (t *TypingIndicator) stopTimersLocked() {
	if t.showTimer != nil {
		t.showTimer.Stop()
		t.showTimer = nil
	}
	if t.hideTimer != nil {
		t.hideTimer.Stop()
		t.hideTimer = nil
	}
}
