// Package widget renders the chat assistant as a terminal widget.
package widget

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/shopchat/transcript"
)

// Panel is a composable region of the widget with its own state, update
// logic, and view. The root App model orchestrates panels without knowing
// their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// InputSubmitMsg is emitted when the user presses Enter in the input panel.
type InputSubmitMsg struct{ Text string }

// AssistantReplyMsg carries a decoded assistant event from the socket read
// loop into the update loop.
type AssistantReplyMsg struct{ Message transcript.Message }

// TranscriptChangedMsg signals that the message store changed and derived
// state must be recomputed.
type TranscriptChangedMsg struct{}

// TypingMsg reports a typing-indicator visibility transition.
type TypingMsg struct{ Visible bool }

// submitDoneMsg reports the outcome of an async submit or record command.
// Failures are already logged and, where the flow calls for it, surfaced
// in the transcript, so the widget only needs to refresh.
type submitDoneMsg struct{ err error }
