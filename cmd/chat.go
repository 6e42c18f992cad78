package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/linanwx/shopchat/assistant"
	"github.com/linanwx/shopchat/bus"
	"github.com/linanwx/shopchat/capture"
	"github.com/linanwx/shopchat/commerce"
	"github.com/linanwx/shopchat/config"
	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
	"github.com/linanwx/shopchat/widget"
)

const busBufferSize = 64

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat widget",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Assistant.SocketURL == "" {
		return fmt.Errorf("assistant.socketURL is not configured, run: shopchat onboard")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sock := assistant.NewSocket(cfg.Assistant.SocketURL, cfg.Assistant.ThreadID)
	if err := sock.Dial(ctx); err != nil {
		return fmt.Errorf("failed to reach assistant: %w", err)
	}
	defer sock.Close()

	send := func(ctx context.Context, text string) error {
		return sock.Send(ctx, text)
	}

	store := transcript.NewStore()

	vision := assistant.NewVision(cfg.Assistant.OpenAI.APIKey, cfg.Assistant.OpenAI.APIBase, cfg.Assistant.OpenAI.VisionModel)
	transcriber := assistant.NewTranscriber(cfg.Assistant.OpenAI.APIKey, cfg.Assistant.OpenAI.APIBase, cfg.Assistant.OpenAI.TranscribeModel)
	uploader := assistant.NewUploader(cfg.Assistant.UploadURL)

	submitter := &capture.Submitter{
		Store:    store,
		Send:     send,
		Upload:   uploader.Upload,
		Describe: vision.Describe,
	}

	recorder := &capture.Recorder{
		Device: &capture.ExecDevice{
			Command:    cfg.Capture.Command,
			Args:       cfg.Capture.Args,
			FormatList: cfg.Capture.Formats,
		},
		Transcribe: func(ctx context.Context, clip capture.Clip) (string, error) {
			return transcriber.Transcribe(ctx, clip.Data, clip.Filename(), clip.MIME())
		},
		Store:   store,
		Send:    send,
		Clock:   clockwork.NewRealClock(),
		ClipDir: clipDir(),
	}

	b := bus.NewBus(busBufferSize)
	defer b.Close()
	registerEventLogging(b)

	emitter := &commerce.Emitter{
		Bus:         b,
		AssistantID: cfg.Assistant.AssistantID,
		ThreadID:    sock.ThreadID(),
	}
	cart := commerce.NewCartClient(cfg.Commerce.CartURL, cfg.Commerce.Seller, emitter)

	app := widget.NewApp(widget.Options{
		Store:      store,
		Submitter:  submitter,
		Recorder:   recorder,
		Send:       send,
		Cart:       cart,
		Bus:        b,
		OnView:     emitter.ViewItem,
		SearchTool: cfg.Assistant.SearchTool,
		WideWidth:  cfg.Widget.WideWidth,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	app.AttachProgram(p)
	sock.OnMessage = func(m transcript.Message) {
		p.Send(widget.AssistantReplyMsg{Message: m})
	}

	logger.Intercept(&widget.LogWriter{Send: p.Send})
	defer logger.Restore()

	logger.Info("widget started", "thread", sock.ThreadID())
	_, err = p.Run()
	app.Shutdown()
	return err
}

// registerEventLogging records commerce events in the operator log.
func registerEventLogging(b *bus.Bus) {
	handler := func(_ context.Context, event *bus.Event) {
		var payload commerce.EventPayload
		if err := event.ParseData(&payload); err != nil {
			logger.Warn("unreadable commerce event", "type", event.Type, "err", err)
			return
		}
		logger.Info("commerce event", "type", event.Type, "detail", payload.Describe())
	}
	b.Subscribe(bus.EventViewItem, handler)
	b.Subscribe(bus.EventAddToCart, handler)
}

func clipDir() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(dir, "clips")
}
