package transcript

import "sync"

// Store is the session transcript: an ordered, append-and-replace list of
// messages. There is no delete-by-index and no reorder. The UI event loop
// is the single logical writer; the mutex only keeps snapshots consistent
// for completion handlers that re-enter from background work.
type Store struct {
	mu       sync.Mutex
	messages []Message
	subs     []func()
}

// NewStore creates an empty transcript store.
func NewStore() *Store {
	return &Store{}
}

// Append adds one message at the end, preserving prior order.
func (s *Store) Append(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	s.notify()
}

// Replace substitutes the entire transcript atomically. Readers never
// observe a partial update.
func (s *Store) Replace(list []Message) {
	next := make([]Message, len(list))
	copy(next, list)
	s.mu.Lock()
	s.messages = next
	s.mu.Unlock()
	s.notify()
}

// Clear discards the whole transcript. Irreversible; callers gate it
// behind a confirmation step.
func (s *Store) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.notify()
}

// Messages returns a snapshot copy of the transcript in order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the current transcript length.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Subscribe registers a callback invoked after every mutation. Callbacks
// run on the mutating goroutine and must not mutate the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// LastUserText returns the text value of the most recent user message,
// scanning from the end without disturbing stored order. The second
// return reports whether a user message was found.
func (s *Store) LastUserText() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleUser {
			return s.messages[i].FirstTextValue(), true
		}
	}
	return "", false
}
