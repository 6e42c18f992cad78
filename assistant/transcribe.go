package assistant

import (
	"bytes"
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"

	"github.com/linanwx/shopchat/logger"
)

// Transcriber turns recorded voice clips into text for the audio submit
// path. Empty transcription text is a valid outcome, not an error; the
// caller treats it as "nothing to send".
type Transcriber struct {
	client openai.Client
	model  string
}

// NewTranscriber creates a transcription client.
func NewTranscriber(apiKey, apiBase, model string) *Transcriber {
	opts := []oaioption.RequestOption{
		oaioption.WithAPIKey(apiKey),
		oaioption.WithMaxRetries(sdkMaxRetries),
	}
	if apiBase != "" {
		opts = append(opts, oaioption.WithBaseURL(apiBase))
	}
	return &Transcriber{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Transcribe sends one encoded clip and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, clip []byte, filename, mimeType string) (string, error) {
	start := time.Now()
	logger.Info("transcribe request", "model", t.model, "bytes", len(clip))

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(t.model),
		File:  openai.File(bytes.NewReader(clip), filename, mimeType),
	})
	if err != nil {
		logger.Error("transcribe failed", "err", err)
		return "", fmt.Errorf("transcribe: %w", err)
	}

	logger.Info("transcribe response",
		"outputChars", len(resp.Text),
		"latencyMs", time.Since(start).Milliseconds(),
	)
	return resp.Text, nil
}
