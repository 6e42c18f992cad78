package transcript

import "testing"

func TestResolveQuickReplyClearsOptionsAndAppends(t *testing.T) {
	s := NewStore()
	s.Append(UserText("red shoes"))
	s.Append(AssistantText("m1", "How about these?", "cheaper", "other colors"))

	var sent string
	ResolveQuickReply(s, "cheaper", func(text string) { sent = text })

	list := s.Messages()
	if len(list) != 3 {
		t.Fatalf("Len = %d, want 3", len(list))
	}

	assistant := list[1]
	for _, c := range assistant.Content {
		if c.Type == ContentText && len(c.Options) != 0 {
			t.Fatalf("options not cleared: %v", c.Options)
		}
	}
	if assistant.FirstTextValue() != "How about these?" {
		t.Fatalf("assistant text changed: %q", assistant.FirstTextValue())
	}

	appended := list[2]
	if appended.Role != RoleUser || appended.FirstTextValue() != "cheaper" {
		t.Fatalf("appended message = %+v, want user %q", appended, "cheaper")
	}

	if sent != "cheaper red shoes" {
		t.Fatalf("send = %q, want %q", sent, "cheaper red shoes")
	}
}

func TestResolveQuickReplyTargetsMostRecentAssistantMessage(t *testing.T) {
	s := NewStore()
	s.Append(AssistantText("m1", "older", "stale option"))
	s.Append(UserText("hello"))
	s.Append(AssistantText("m2", "newer", "fresh option"))

	ResolveQuickReply(s, "fresh option", nil)

	list := s.Messages()
	if got := list[0].Content[0].Options; len(got) != 1 || got[0] != "stale option" {
		t.Fatalf("older assistant message changed: %v", got)
	}
	if got := list[2].Content[0].Options; len(got) != 0 {
		t.Fatalf("newest assistant options not cleared: %v", got)
	}
}

func TestResolveQuickReplySkipsFunctionCallMessages(t *testing.T) {
	s := NewStore()
	s.Append(AssistantText("m1", "pick one", "option a"))
	s.Append(Message{
		Role: RoleAssistant,
		Kind: KindFunctionCalls,
		Content: []Content{{
			Type:     ContentFunctionResult,
			Name:     "search",
			Products: []Product{{ID: "p1"}},
		}},
	})

	ResolveQuickReply(s, "option a", nil)

	list := s.Messages()
	if got := list[0].Content[0].Options; len(got) != 0 {
		t.Fatalf("kind=message assistant entry not cleared: %v", got)
	}
	if list[1].Kind != KindFunctionCalls || len(list[1].Content[0].Products) != 1 {
		t.Fatalf("function_calls entry changed: %+v", list[1])
	}
}

func TestResolveQuickReplyNoAssistantMessageIsNoOpClear(t *testing.T) {
	s := NewStore()
	s.Append(UserText("hello"))

	var sent string
	ResolveQuickReply(s, "option", func(text string) { sent = text })

	list := s.Messages()
	if len(list) != 2 {
		t.Fatalf("Len = %d, want 2 (user msg still appended)", len(list))
	}
	if sent != "option hello" {
		t.Fatalf("send = %q, want %q", sent, "option hello")
	}
}

func TestResolveQuickReplyNoPriorUserMessage(t *testing.T) {
	s := NewStore()
	s.Append(AssistantText("m1", "welcome", "show deals"))

	var sent string
	ResolveQuickReply(s, "show deals", func(text string) { sent = text })

	if sent != "show deals " {
		t.Fatalf("send = %q, want option plus trailing space", sent)
	}
}

func TestResolveQuickReplyDoesNotMutatePriorSnapshot(t *testing.T) {
	s := NewStore()
	s.Append(UserText("hello"))
	s.Append(AssistantText("m1", "hi", "option"))

	before := s.Messages()
	ResolveQuickReply(s, "option", nil)

	// The clearing transform must be a reconstruction, not an in-place
	// edit visible through earlier snapshots.
	if got := before[1].Content[0].Options; len(got) != 1 || got[0] != "option" {
		t.Fatalf("prior snapshot mutated: %v", got)
	}
}
