package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
)

// Socket is the websocket link to the assistant service. Send is
// fire-and-forget; replies arrive asynchronously on the read loop and are
// handed to OnMessage, which is expected to append them to the
// transcript store.
type Socket struct {
	url      string
	threadID string

	// OnMessage receives each decoded assistant reply. Must be set
	// before Dial. Called from the read goroutine.
	OnMessage func(transcript.Message)

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	wg     sync.WaitGroup
}

// NewSocket creates a socket for the given endpoint. threadID scopes the
// conversation server-side; empty generates a fresh one.
func NewSocket(url, threadID string) *Socket {
	if threadID == "" {
		threadID = uuid.NewString()
	}
	return &Socket{url: url, threadID: threadID}
}

// ThreadID returns the conversation thread identifier.
func (s *Socket) ThreadID() string { return s.threadID }

// Dial connects and starts the read loop. ctx bounds the handshake only.
func (s *Socket) Dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("assistant dial: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.closed = false
	s.mu.Unlock()

	s.wg.Add(1)
	go s.readLoop()

	logger.Info("assistant socket connected", "url", s.url, "threadId", s.threadID)
	return nil
}

// Send delivers one user utterance to the assistant. The reply, if any,
// comes back through OnMessage.
func (s *Socket) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("assistant send: not connected")
	}

	payload, err := sjson.SetBytes([]byte(`{}`), "text", text)
	if err != nil {
		return fmt.Errorf("assistant send: build payload: %w", err)
	}
	if payload, err = sjson.SetBytes(payload, "threadId", s.threadID); err != nil {
		return fmt.Errorf("assistant send: build payload: %w", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("assistant send: %w", err)
	}
	logger.Debug("assistant send", "chars", len(text))
	return nil
}

// Close tears the socket down. Pending read-loop deliveries become
// no-ops; Close is safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "")
	}
	s.wg.Wait()
	logger.Info("assistant socket closed")
	return nil
}

func (s *Socket) readLoop() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		conn := s.conn
		closed := s.closed
		s.mu.Unlock()
		if closed || conn == nil {
			return
		}

		_, data, err := conn.Read(context.Background())
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				logger.Error("assistant socket read", "err", err)
			}
			return
		}

		msg, err := DecodeEvent(data)
		if err != nil {
			logger.Warn("assistant event skipped", "err", err)
			continue
		}

		s.mu.Lock()
		deliver := !s.closed && s.OnMessage != nil
		s.mu.Unlock()
		if deliver {
			s.OnMessage(msg)
		}
	}
}
