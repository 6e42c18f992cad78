package transcript

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestDeriverExpandedIsSticky(t *testing.T) {
	var d Deriver

	if f := d.Derive(nil); f.Expanded {
		t.Fatal("Expanded should start false for an empty transcript")
	}
	if f := d.Derive([]Message{UserText("a")}); f.Expanded {
		t.Fatal("Expanded should stay false at length 1")
	}

	list := []Message{UserText("a"), AssistantText("m1", "b")}
	if f := d.Derive(list); !f.Expanded {
		t.Fatal("Expanded should turn true once length exceeds 1")
	}

	// Sticky: never reverts, even if the transcript shrinks.
	if f := d.Derive(nil); !f.Expanded {
		t.Fatal("Expanded should never revert to false")
	}
}

func TestDeriverGrowWide(t *testing.T) {
	var d Deriver

	if f := d.Derive(nil); f.GrowWide {
		t.Fatal("GrowWide should be false for an empty transcript")
	}

	withProducts := []Message{
		UserText("red shoes"),
		functionCalls(searchTool, Product{ID: "p1"}),
	}
	if f := d.Derive(withProducts); !f.GrowWide {
		t.Fatal("GrowWide should be true when the last function_calls message has products")
	}

	// A later empty result takes the flag back down; unlike Expanded it
	// is recomputed, not sticky.
	withEmptyTail := append(withProducts, functionCalls(searchTool))
	if f := d.Derive(withEmptyTail); f.GrowWide {
		t.Fatal("GrowWide should recompute to false when the latest call is empty")
	}
	if f := d.Derive(withEmptyTail); !f.Expanded {
		t.Fatal("Expanded should remain true")
	}
}

func TestTypingIndicatorShowsAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ti := NewTypingIndicator(clock, nil)

	ti.Observe([]Message{UserText("hello")})
	if ti.Visible() {
		t.Fatal("indicator should not show before the delay")
	}

	clock.Advance(typingShowDelay)
	if !ti.Visible() {
		t.Fatal("indicator should show after the delay")
	}
}

func TestTypingIndicatorHidesAtCeiling(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ti := NewTypingIndicator(clock, nil)

	ti.Observe([]Message{UserText("hello")})
	clock.Advance(typingShowDelay)
	if !ti.Visible() {
		t.Fatal("indicator should be visible")
	}

	clock.Advance(typingHideCeiling)
	if ti.Visible() {
		t.Fatal("indicator should auto-hide at the ceiling")
	}
}

func TestTypingIndicatorCancelledByNewMessage(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ti := NewTypingIndicator(clock, nil)

	list := []Message{UserText("hello")}
	ti.Observe(list)
	clock.Advance(typingShowDelay)

	// Assistant reply arrives: indicator drops immediately and pending
	// timers are cancelled.
	list = append(list, AssistantText("m1", "hi"))
	ti.Observe(list)
	if ti.Visible() {
		t.Fatal("indicator should hide when the last message is an assistant reply")
	}

	clock.Advance(typingHideCeiling)
	if ti.Visible() {
		t.Fatal("stale timers should not resurface the indicator")
	}
}

func TestTypingIndicatorStartFunctionCallMarker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ti := NewTypingIndicator(clock, nil)

	list := []Message{
		UserText("red shoes"),
		{Role: RoleAssistant, Kind: KindStartFunctionCall},
	}
	ti.Observe(list)
	clock.Advance(typingShowDelay)
	if !ti.Visible() {
		t.Fatal("indicator should show while a function call is pending")
	}
}

func TestTypingIndicatorOnChangeFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var transitions []bool
	ti := NewTypingIndicator(clock, func(v bool) { transitions = append(transitions, v) })

	ti.Observe([]Message{UserText("hello")})
	clock.Advance(typingShowDelay)
	clock.Advance(typingHideCeiling)

	if len(transitions) != 2 || transitions[0] != true || transitions[1] != false {
		t.Fatalf("transitions = %v, want [true false]", transitions)
	}
}

func TestTypingIndicatorStopIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ti := NewTypingIndicator(clock, nil)

	ti.Observe([]Message{UserText("hello")})
	ti.Stop()
	ti.Stop()

	clock.Advance(typingHideCeiling + time.Second)
	if ti.Visible() {
		t.Fatal("indicator should stay hidden after Stop")
	}
}
