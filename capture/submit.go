package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
)

// uploadFailureNotice is appended to the transcript when the image
// pipeline fails, so the user is not left staring at a typing indicator.
const uploadFailureNotice = "Sorry, something went wrong while reading your image. Please try again."

// Submitter folds each input modality into a transcript append plus a
// send. One instance per widget.
type Submitter struct {
	Store    *transcript.Store
	Send     SendFunc
	Upload   UploadFunc
	Describe DescribeFunc
}

// SubmitText handles the plain typed path: append the user message, then
// send the raw input. Empty input is a no-op; the caller clears the
// input field afterwards.
func (s *Submitter) SubmitText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.Store.Append(transcript.UserText(text))
	if err := s.Send(ctx, text); err != nil {
		return fmt.Errorf("submit text: %w", err)
	}
	return nil
}

// SubmitFile handles the attached-image path. The user message appears
// immediately; the upload, the describe call, and the final send run
// after, so the assistant only sees the message once the description is
// ready. The composed utterance is "<caption>. Find <description>".
//
// Upload or describe failures append an assistant-visible notice and
// return the error; the optimistic entry stays in the transcript.
func (s *Submitter) SubmitFile(ctx context.Context, att Attachment, caption string) error {
	if strings.TrimSpace(caption) == "" {
		return nil
	}

	s.Store.Append(transcript.UserFile(att.URL, caption))

	encoded := fmt.Sprintf("data:%s;base64,%s", att.MIME, base64.StdEncoding.EncodeToString(att.Data))

	uploadURL, err := s.Upload(ctx, encoded)
	if err != nil {
		s.appendFailureNotice()
		return fmt.Errorf("submit file: %w", err)
	}

	description, err := s.Describe(ctx, uploadURL, caption)
	if err != nil {
		s.appendFailureNotice()
		return fmt.Errorf("submit file: %w", err)
	}

	composed := fmt.Sprintf("%s. Find %s", caption, description)
	if err := s.Send(ctx, composed); err != nil {
		return fmt.Errorf("submit file: %w", err)
	}
	return nil
}

func (s *Submitter) appendFailureNotice() {
	logger.Warn("file submit failed, notice appended")
	s.Store.Append(transcript.AssistantText("", uploadFailureNotice))
}
