package widget

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/linanwx/shopchat/bus"
	"github.com/linanwx/shopchat/capture"
	"github.com/linanwx/shopchat/commerce"
	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
)

const (
	defaultLogRatio   = 0.25
	compactChatHeight = 3
	productPanelLines = 8
)

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Options wires the widget to the rest of the application.
type Options struct {
	Store     *transcript.Store
	Submitter *capture.Submitter
	Recorder  *capture.Recorder
	Send      capture.SendFunc
	Cart      *commerce.CartClient
	Bus       *bus.Bus
	OnView    func(p transcript.Product, index int)
	Clock     clockwork.Clock

	SearchTool string
	WideWidth  int
}

// App is the root bubbletea model. It owns the derived panel state and
// routes every transcript mutation through its update loop.
type App struct {
	store     *transcript.Store
	submitter *capture.Submitter
	recorder  *capture.Recorder
	send      capture.SendFunc
	cart      *commerce.CartClient
	bus       *bus.Bus
	clock     clockwork.Clock

	searchTool string

	deriver transcript.Deriver
	typing  *transcript.TypingIndicator
	flags   transcript.Flags

	logPanel     Panel
	chatPanel    *ChatPanel
	productPanel *ProductPanel
	inputPanel   *InputPanel

	modal        *huh.Form
	clearConfirm bool

	width, height int
	logRatio      float64
}

// NewApp creates the root widget model.
func NewApp(opts Options) *App {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	product := NewProductPanel(opts.WideWidth)
	product.OnView = opts.OnView
	return &App{
		store:        opts.Store,
		submitter:    opts.Submitter,
		recorder:     opts.Recorder,
		send:         opts.Send,
		cart:         opts.Cart,
		bus:          opts.Bus,
		clock:        clock,
		searchTool:   opts.SearchTool,
		logPanel:     NewLogPanel(),
		chatPanel:    NewChatPanel(),
		productPanel: product,
		inputPanel:   NewInputPanel("you> "),
		logRatio:     defaultLogRatio,
	}
}

// AttachProgram hooks the running program into the store and the typing
// indicator so out-of-loop events land as update messages. Call after
// tea.NewProgram, before Run.
func (a *App) AttachProgram(p *tea.Program) {
	a.store.Subscribe(func() {
		p.Send(TranscriptChangedMsg{})
	})
	a.typing = transcript.NewTypingIndicator(a.clock, func(visible bool) {
		p.Send(TypingMsg{Visible: visible})
	})
}

// Shutdown stops the typing indicator timers. Call after the program
// exits.
func (a *App) Shutdown() {
	if a.typing != nil {
		a.typing.Stop()
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Application messages are handled even while the confirm modal is
	// up; otherwise an assistant reply arriving mid-confirm would be
	// lost inside the form.
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.recalcLayout()
		return a, nil

	case InputSubmitMsg:
		return a, a.dispatchInput(msg.Text)

	case AssistantReplyMsg:
		a.store.Append(msg.Message)
		return a, nil

	case TranscriptChangedMsg:
		return a, a.refresh()

	case TypingMsg:
		return a, a.chatPanel.SetTyping(msg.Visible)

	case recordToggledMsg:
		a.inputPanel.SetRecording(msg.recording)
		return a, nil

	case submitDoneMsg:
		return a, nil

	case LogLineMsg:
		p, cmd := a.logPanel.Update(msg)
		a.logPanel = p
		return a, cmd

	case spinner.TickMsg:
		p, cmd := a.chatPanel.Update(msg)
		a.chatPanel = p.(*ChatPanel)
		return a, cmd
	}

	if a.modal != nil {
		return a.updateModal(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return a.updateKey(msg)
	}

	p, cmd := a.inputPanel.Update(msg)
	a.inputPanel = p.(*InputPanel)
	return a, cmd
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyCtrlR:
		return a, a.toggleRecordCmd()
	case tea.KeyCtrlL:
		a.openClearModal()
		return a, a.modal.Init()
	case tea.KeyCtrlB:
		if product, idx, ok := a.productPanel.Current(); ok {
			a.cart.Add(context.Background(), product, idx)
		}
		return a, nil
	case tea.KeyShiftRight:
		a.productPanel.Next()
		return a, nil
	case tea.KeyShiftLeft:
		a.productPanel.Prev()
		return a, nil
	}

	// Digit keys pick a quick reply, but only when the input is empty so
	// typing "10 red shoes" still works.
	if a.inputPanel.Empty() {
		if opt, ok := a.quickReplyFor(msg.String()); ok {
			return a, a.quickReplyCmd(opt)
		}
	}

	p, cmd := a.inputPanel.Update(msg)
	a.inputPanel = p.(*InputPanel)
	return a, cmd
}

func (a *App) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.modal.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		a.modal = form
	}

	switch a.modal.State {
	case huh.StateCompleted:
		a.modal = nil
		if a.clearConfirm {
			a.clearTranscript()
		}
	case huh.StateAborted:
		a.modal = nil
	}
	return a, cmd
}

func (a *App) openClearModal() {
	a.clearConfirm = false
	a.modal = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Clear the conversation?").
			Description("This cannot be undone.").
			Affirmative("Clear").
			Negative("Keep").
			Value(&a.clearConfirm),
	))
}

func (a *App) clearTranscript() {
	a.store.Clear()
	if a.bus != nil {
		if event, err := bus.NewEvent(bus.EventChatCleared, "widget", struct{}{}); err == nil {
			a.bus.Publish(event)
		}
	}
	logger.Info("conversation cleared")
}

// refresh recomputes everything derived from the transcript.
func (a *App) refresh() tea.Cmd {
	messages := a.store.Messages()
	a.flags = a.deriver.Derive(messages)
	if a.typing != nil {
		a.typing.Observe(messages)
	}
	a.chatPanel.SetMessages(messages)
	a.productPanel.SetProducts(transcript.Products(messages, a.searchTool))
	a.recalcLayout()
	return nil
}

// dispatchInput routes a submitted line: slash commands first, then the
// plain text path.
func (a *App) dispatchInput(text string) tea.Cmd {
	switch {
	case text == "/clear":
		a.openClearModal()
		return a.modal.Init()
	case strings.HasPrefix(text, "/attach "):
		return a.attachCmd(strings.TrimPrefix(text, "/attach "))
	}
	return a.submitTextCmd(text)
}

func (a *App) submitTextCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := a.submitter.SubmitText(context.Background(), text)
		if err != nil {
			logger.Error("text submit failed", "err", err)
		}
		return submitDoneMsg{err: err}
	}
}

// attachCmd parses "<path> <caption>" and runs the file path end to end.
func (a *App) attachCmd(rest string) tea.Cmd {
	return func() tea.Msg {
		path, caption, ok := strings.Cut(strings.TrimSpace(rest), " ")
		if !ok || strings.TrimSpace(caption) == "" {
			logger.Warn("attach needs a path and a caption")
			return submitDoneMsg{}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("attach read failed", "path", path, "err", err)
			return submitDoneMsg{err: err}
		}

		att := capture.Attachment{
			Name: filepath.Base(path),
			MIME: attachmentMIME(path),
			Data: data,
			URL:  "file://" + path,
		}
		err = a.submitter.SubmitFile(context.Background(), att, caption)
		if err != nil {
			logger.Error("file submit failed", "path", path, "err", err)
		}
		return submitDoneMsg{err: err}
	}
}

func attachmentMIME(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (a *App) quickReplyCmd(option string) tea.Cmd {
	return func() tea.Msg {
		transcript.ResolveQuickReply(a.store, option, func(text string) {
			if err := a.send(context.Background(), text); err != nil {
				logger.Error("quick reply send failed", "err", err)
			}
		})
		return submitDoneMsg{}
	}
}

// quickReplyFor maps a pressed digit to the current quick-reply options.
func (a *App) quickReplyFor(key string) (string, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return "", false
	}
	options := a.currentOptions()
	idx := int(key[0] - '1')
	if idx >= len(options) {
		return "", false
	}
	return options[idx], true
}

// currentOptions returns the quick replies on the latest assistant
// message, if any.
func (a *App) currentOptions() []string {
	messages := a.store.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role != transcript.RoleAssistant || m.Kind != transcript.KindMessage {
			continue
		}
		for _, c := range m.Content {
			if c.Type == transcript.ContentText {
				return c.Options
			}
		}
		return nil
	}
	return nil
}

type recordToggledMsg struct {
	recording bool
	err       error
}

func (a *App) toggleRecordCmd() tea.Cmd {
	return func() tea.Msg {
		var err error
		if a.recorder.Recording() {
			err = a.recorder.Stop(context.Background())
		} else {
			err = a.recorder.Start(context.Background())
		}
		if err != nil {
			logger.Error("record toggle failed", "err", err)
		}
		return recordToggledMsg{recording: a.recorder.Recording(), err: err}
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", a.width))

	var sections []string
	if a.flags.Expanded {
		sections = append(sections, a.logPanel.View(), sep)
	}
	sections = append(sections, a.chatPanel.View())
	if a.flags.GrowWide {
		sections = append(sections, sep, a.productPanel.View())
	}
	if a.modal != nil {
		sections = append(sections, sep, a.modal.View())
	} else {
		sections = append(sections, sep, a.inputPanel.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) recalcLayout() {
	const inputH = 1

	sepLines := 1
	usable := a.height - inputH

	if !a.flags.Expanded {
		a.chatPanel.SetSize(a.width, min(compactChatHeight, max(usable-sepLines, 1)))
		a.inputPanel.SetSize(a.width, inputH)
		a.productPanel.SetSize(a.width, productPanelLines)
		return
	}

	sepLines++
	productH := 0
	if a.flags.GrowWide {
		sepLines++
		productH = productPanelLines
	}

	usable = max(usable-sepLines-productH, 2)
	logH := max(int(float64(usable)*a.logRatio), 1)
	chatH := max(usable-logH, 1)

	a.logPanel.SetSize(a.width, logH)
	a.chatPanel.SetSize(a.width, chatH)
	a.productPanel.SetSize(a.width, productH)
	a.inputPanel.SetSize(a.width, inputH)
}
