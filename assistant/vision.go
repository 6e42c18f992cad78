package assistant

import (
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/linanwx/shopchat/logger"
)

const sdkMaxRetries = 2

// Vision answers "describe this image" requests for the file submit path.
type Vision struct {
	client openai.Client
	model  string
}

// NewVision creates a describe-image client.
func NewVision(apiKey, apiBase, model string) *Vision {
	opts := []oaioption.RequestOption{
		oaioption.WithAPIKey(apiKey),
		oaioption.WithMaxRetries(sdkMaxRetries),
	}
	if apiBase != "" {
		opts = append(opts, oaioption.WithBaseURL(apiBase))
	}
	return &Vision{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Describe asks the vision model to describe the uploaded image in the
// context of the user's caption, returning the first choice's content.
func (v *Vision) Describe(ctx context.Context, uploadURL, prompt string) (string, error) {
	start := time.Now()
	logger.Info("describe image request", "model", v.model)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: uploadURL,
		}),
	}

	resp, err := v.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(v.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		logger.Error("describe image failed", "err", err)
		return "", fmt.Errorf("describe image: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("describe image: empty response")
	}

	content := resp.Choices[0].Message.Content
	logger.Info("describe image response",
		"outputChars", len(content),
		"latencyMs", time.Since(start).Milliseconds(),
	)
	return content, nil
}
