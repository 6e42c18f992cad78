package transcript

// ResolveQuickReply handles a quick-reply selection. It clears the
// options on the most recent assistant message of kind "message" (a full
// list reconstruction, never in-place mutation), appends a user message
// carrying the chosen option, and invokes send with the option followed
// by a space and the text of the most recent prior user message so the
// assistant sees the selection in context.
//
// When no assistant message of kind "message" exists the clearing step is
// a no-op; the user message and the send still happen.
func ResolveQuickReply(s *Store, option string, send func(text string)) {
	// The "last user message" query runs against the pre-click
	// transcript, before the new user entry is appended.
	lastUser, _ := s.LastUserText()

	before := s.Messages()

	if idx := lastAssistantMessageIndex(before); idx >= 0 {
		s.Replace(withOptionsCleared(before, idx))
	}

	s.Append(UserText(option))

	if send != nil {
		send(option + " " + lastUser)
	}
}

// lastAssistantMessageIndex returns the index of the most recent
// assistant message of kind "message", or -1. Read-only scan from the
// end; the source slice is left untouched.
func lastAssistantMessageIndex(list []Message) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Role == RoleAssistant && list[i].Kind == KindMessage {
			return i
		}
	}
	return -1
}

// withOptionsCleared rebuilds the list with the text contents of list[idx]
// stripped of their quick replies. Every other message, and every
// non-text content item, is carried over unchanged.
func withOptionsCleared(list []Message, idx int) []Message {
	out := make([]Message, len(list))
	copy(out, list)

	target := list[idx]
	content := make([]Content, len(target.Content))
	for i, c := range target.Content {
		if c.Type == ContentText {
			c.Options = []string{}
		}
		content[i] = c
	}
	target.Content = content
	out[idx] = target
	return out
}
