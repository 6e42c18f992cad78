package widget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/shopchat/mdtext"
	"github.com/linanwx/shopchat/transcript"
)

var (
	userMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	toolCallStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray
	optionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	attachmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta
	typingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// ChatPanel displays the conversation in a scrollable viewport. Rendering
// branches on role and content kind; assistant prose goes through mdtext.
type ChatPanel struct {
	viewport viewport.Model
	spinner  spinner.Model
	messages []transcript.Message
	typing   bool
}

// NewChatPanel creates a chat panel.
func NewChatPanel() *ChatPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &ChatPanel{viewport: vp, spinner: sp}
}

// SetMessages replaces the rendered conversation and scrolls to the
// bottom.
func (p *ChatPanel) SetMessages(list []transcript.Message) {
	p.messages = list
	p.refresh()
}

// SetTyping toggles the typing indicator line. Returns the spinner tick
// command when the indicator just became visible.
func (p *ChatPanel) SetTyping(visible bool) tea.Cmd {
	started := visible && !p.typing
	p.typing = visible
	p.refresh()
	if started {
		return p.spinner.Tick
	}
	return nil
}

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !p.typing {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		p.refresh()
		return p, cmd
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
}

func (p *ChatPanel) refresh() {
	optionsAt := latestAssistantMessage(p.messages)
	var blocks []string
	for i, m := range p.messages {
		if block := p.renderMessage(m, i == optionsAt); block != "" {
			blocks = append(blocks, block)
		}
	}
	if p.typing {
		blocks = append(blocks, p.spinner.View()+typingStyle.Render("Typing..."))
	}
	p.viewport.SetContent(strings.Join(blocks, "\n\n"))
	p.viewport.GotoBottom()
}

// latestAssistantMessage returns the index of the most recent assistant
// message-kind entry, or -1. Quick replies stay attached there even when
// function results land below it, matching the digit-key selection.
func latestAssistantMessage(list []transcript.Message) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Role == transcript.RoleAssistant && list[i].Kind == transcript.KindMessage {
			return i
		}
	}
	return -1
}

func (p *ChatPanel) renderMessage(m transcript.Message, withOptions bool) string {
	switch m.Kind {
	case transcript.KindStartFunctionCall:
		// The typing indicator covers the pending call.
		return ""
	case transcript.KindFunctionCalls:
		return p.renderFunctionCalls(m)
	}

	var lines []string
	for _, c := range m.Content {
		switch c.Type {
		case transcript.ContentText:
			lines = append(lines, p.renderText(m.Role, c, withOptions))
		case transcript.ContentFile:
			lines = append(lines, p.renderAttachment(m.Role, "image", c.Caption, c.URL))
		case transcript.ContentAudio:
			lines = append(lines, p.renderAttachment(m.Role, "voice", c.Text, c.URL))
		}
	}
	return strings.Join(lines, "\n")
}

func (p *ChatPanel) renderText(role transcript.Role, c transcript.Content, withOptions bool) string {
	if role == transcript.RoleUser {
		return userMsgStyle.Render("you › " + c.Value)
	}

	out := mdtext.Render(c.Value)
	if withOptions && len(c.Options) > 0 {
		var opts []string
		for i, opt := range c.Options {
			opts = append(opts, optionStyle.Render(fmt.Sprintf("  [%d] %s", i+1, opt)))
		}
		out += "\n" + strings.Join(opts, "\n")
	}
	return out
}

func (p *ChatPanel) renderAttachment(role transcript.Role, kind, text, url string) string {
	label := fmt.Sprintf("(%s) %s", kind, text)
	if role == transcript.RoleUser {
		return userMsgStyle.Render("you › ") + attachmentStyle.Render(label)
	}
	if url != "" {
		label += " " + url
	}
	return attachmentStyle.Render(label)
}

func (p *ChatPanel) renderFunctionCalls(m transcript.Message) string {
	var lines []string
	for _, c := range m.Content {
		if c.Type != transcript.ContentFunctionResult {
			continue
		}
		name := c.Name
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		lines = append(lines, toolCallStyle.Render(
			fmt.Sprintf("⚙ %s → %d results", name, len(c.Products))))
	}
	return strings.Join(lines, "\n")
}
