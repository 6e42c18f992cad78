package widget

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var recordingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red

// InputPanel provides the single-line text input. While a voice note is
// being captured it shows a recording marker instead of the prompt.
type InputPanel struct {
	input         textinput.Model
	recording     bool
	width, height int
}

// NewInputPanel creates an input panel with the given prompt.
func NewInputPanel(prompt string) *InputPanel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()
	return &InputPanel{input: ti}
}

// Empty reports whether the input field has no text. Quick replies are
// only selectable by digit when the field is empty.
func (p *InputPanel) Empty() bool {
	return p.input.Value() == ""
}

// SetRecording toggles the recording marker.
func (p *InputPanel) SetRecording(on bool) {
	p.recording = on
}

func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		text := p.input.Value()
		if text == "" {
			return p, nil
		}
		p.input.Reset()
		return p, func() tea.Msg { return InputSubmitMsg{Text: text} }
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *InputPanel) View() string {
	if p.recording {
		return recordingStyle.Render("● recording... press ctrl+r to stop")
	}
	return p.input.View()
}

func (p *InputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = width - len(p.input.Prompt) - 1
}
