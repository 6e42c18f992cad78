// Package capture gathers user input for the chat widget: typed text, an
// attached image, or a recorded voice clip, each folded into a transcript
// append plus a send to the assistant.
package capture

import (
	"context"
	"fmt"
)

// SendFunc delivers one utterance to the assistant. Fire-and-forget from
// the widget's perspective; the reply arrives through the socket.
type SendFunc func(ctx context.Context, text string) error

// UploadFunc pushes base64-encoded image data and returns the hosted URL.
type UploadFunc func(ctx context.Context, base64Data string) (string, error)

// DescribeFunc asks the vision service to describe an uploaded image.
type DescribeFunc func(ctx context.Context, uploadURL, prompt string) (string, error)

// TranscribeFunc turns a recorded clip into text. Empty text means the
// clip was silent; it is not an error.
type TranscribeFunc func(ctx context.Context, clip Clip) (string, error)

// Attachment is an image the user picked for the file submit path.
type Attachment struct {
	Name string
	MIME string
	Data []byte
	// URL is the local display reference shown in the transcript
	// before any upload happens.
	URL string
}

// Clip is a finalized voice recording.
type Clip struct {
	Data   []byte
	Format string // negotiated encoding: "opus", "wav", ...
}

// MIME returns the clip's media type.
func (c Clip) MIME() string {
	switch c.Format {
	case "opus":
		return "audio/ogg"
	case "wav":
		return "audio/wav"
	default:
		return "video/" + c.Format
	}
}

// Filename returns a name suitable for multipart upload.
func (c Clip) Filename() string {
	return fmt.Sprintf("clip.%s", c.Format)
}
