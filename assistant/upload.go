package assistant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/linanwx/shopchat/logger"
)

const uploadTimeout = 60 * time.Second

// Uploader pushes an attached image to the storefront's upload action and
// returns the hosted URL the describe call needs.
type Uploader struct {
	endpoint   string
	httpClient *http.Client
}

// NewUploader creates an uploader for the given action endpoint.
func NewUploader(endpoint string) *Uploader {
	return &Uploader{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: uploadTimeout},
	}
}

// Upload sends base64-encoded file data and returns the upload URL.
func (u *Uploader) Upload(ctx context.Context, base64Data string) (string, error) {
	payload, err := sjson.SetBytes([]byte(`{}`), "file", base64Data)
	if err != nil {
		return "", fmt.Errorf("upload: build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("upload: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	if err != nil {
		logger.Error("image upload failed", "err", err)
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("upload: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("image upload rejected", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("upload: status %d", resp.StatusCode)
	}

	uploadURL := gjson.GetBytes(body, "uploadURL").String()
	if uploadURL == "" {
		return "", fmt.Errorf("upload: response missing uploadURL")
	}

	logger.Info("image uploaded", "latencyMs", time.Since(start).Milliseconds())
	return uploadURL, nil
}
