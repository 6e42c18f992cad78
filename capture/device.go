package capture

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Device is a microphone capture source. Open returns a live audio
// stream in the requested encoding; closing the stream releases the
// handle.
type Device interface {
	// Formats lists the encodings this device supports.
	Formats() []string
	// Open acquires the capture handle and starts streaming.
	Open(ctx context.Context, format string) (io.ReadCloser, error)
}

// ExecDevice shells out to a capture command (ffmpeg-style) that writes
// encoded audio to stdout. The placeholder %FORMAT% in the argument list
// is replaced with the negotiated encoding.
type ExecDevice struct {
	Command    string
	Args       []string
	FormatList []string
}

// Formats lists the configured encodings.
func (d *ExecDevice) Formats() []string {
	return d.FormatList
}

// Open starts the capture process. The returned stream's Close kills the
// process and reaps it.
func (d *ExecDevice) Open(ctx context.Context, format string) (io.ReadCloser, error) {
	if d.Command == "" {
		return nil, fmt.Errorf("capture device: no command configured")
	}

	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = strings.ReplaceAll(a, "%FORMAT%", format)
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, d.Command, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("capture device: pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("capture device: start: %w", err)
	}

	return &processStream{reader: stdout, cancel: cancel, cmd: cmd}, nil
}

// processStream wraps the capture process stdout. Close terminates the
// process; the exit error is ignored since termination is the point.
type processStream struct {
	reader io.ReadCloser
	cancel context.CancelFunc
	cmd    *exec.Cmd
}

func (p *processStream) Read(b []byte) (int, error) {
	return p.reader.Read(b)
}

func (p *processStream) Close() error {
	p.cancel()
	p.reader.Close()
	_ = p.cmd.Wait()
	return nil
}
