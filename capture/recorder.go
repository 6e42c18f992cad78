package capture

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
)

// preferredFormats is the encoding preference order for recording.
var preferredFormats = []string{"opus", "wav"}

// fallbackFormat is used when the device supports none of the preferred
// encodings and reports nothing usable of its own.
const fallbackFormat = "mp4"

const (
	// chunkInterval is the cadence at which buffered audio is sealed
	// into chunks while recording.
	chunkInterval = time.Second
	readBufSize   = 4096
)

const transcribeFailureNotice = "Sorry, I couldn't make out that voice note. Please try again."

// Recorder drives the two-state voice input toggle: idle → recording →
// idle. Only one recording may be active per widget instance. Stopping
// finalizes the buffered chunks into a single clip, transcribes it, and,
// unless the transcription came back empty, appends a user audio message
// and sends the text.
type Recorder struct {
	Device     Device
	Transcribe TranscribeFunc
	Store      *transcript.Store
	Send       SendFunc

	// Clock defaults to the real clock; tests inject a fake.
	Clock clockwork.Clock
	// ClipDir is where finalized clips are written so the transcript
	// can reference a playable file. Defaults to the OS temp dir.
	ClipDir string

	mu        sync.Mutex
	recording bool
	format    string
	stream    io.ReadCloser
	scratch   []byte
	chunks    [][]byte
	stop      chan struct{}
	readDone  chan struct{}
	tickDone  chan struct{}
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Start acquires the capture handle and begins buffering. Device errors
// are logged for the operator and returned; the recorder stays idle and
// no user-facing error is produced.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("recording already in progress")
	}
	if r.Device == nil {
		return fmt.Errorf("no capture device")
	}

	format := negotiateFormat(r.Device.Formats())
	stream, err := r.Device.Open(ctx, format)
	if err != nil {
		logger.Error("recording start failed", "format", format, "err", err)
		return err
	}

	r.recording = true
	r.format = format
	r.stream = stream
	r.scratch = nil
	r.chunks = nil
	r.stop = make(chan struct{})
	r.readDone = make(chan struct{})
	r.tickDone = make(chan struct{})

	go r.readLoop(stream)
	go r.tickLoop()

	logger.Info("recording started", "format", format)
	return nil
}

// Stop finalizes the clip, releases the capture handle (always, even on
// error), and runs the transcribe-then-send pipeline. An empty
// transcription is a silent no-op: nothing is appended, nothing is sent.
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil
	}
	r.recording = false
	stream := r.stream
	r.stream = nil
	close(r.stop)
	r.mu.Unlock()

	// Closing the stream unblocks the read loop; both loops must be
	// done before the remaining buffer is sealed.
	stream.Close()
	<-r.readDone
	<-r.tickDone

	r.mu.Lock()
	r.sealLocked()
	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range r.chunks {
		data = append(data, c...)
	}
	clip := Clip{Data: data, Format: r.format}
	r.chunks = nil
	r.mu.Unlock()

	logger.Info("recording stopped", "bytes", len(clip.Data), "format", clip.Format)

	if r.Transcribe == nil {
		return nil
	}

	text, err := r.Transcribe(ctx, clip)
	if err != nil {
		logger.Error("transcription failed", "err", err)
		if r.Store != nil {
			r.Store.Append(transcript.AssistantText("", transcribeFailureNotice))
		}
		return fmt.Errorf("stop recording: %w", err)
	}
	if text == "" {
		// Silent clip: deliberate guard against empty voice input.
		logger.Debug("empty transcription, clip dropped")
		return nil
	}

	url, err := r.saveClip(clip)
	if err != nil {
		logger.Warn("clip not saved, transcript will reference nothing", "err", err)
	}

	if r.Store != nil {
		r.Store.Append(transcript.UserAudio(text, url))
	}
	if r.Send != nil {
		if err := r.Send(ctx, text); err != nil {
			return fmt.Errorf("stop recording: %w", err)
		}
	}
	return nil
}

// negotiateFormat picks the first preferred encoding the device
// supports, then the device's own first choice, then the fallback.
func negotiateFormat(supported []string) string {
	for _, want := range preferredFormats {
		for _, have := range supported {
			if have == want {
				return want
			}
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return fallbackFormat
}

func (r *Recorder) readLoop(stream io.Reader) {
	defer close(r.readDone)
	buf := make([]byte, readBufSize)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			r.mu.Lock()
			r.scratch = append(r.scratch, buf[:n]...)
			r.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (r *Recorder) tickLoop() {
	defer close(r.tickDone)
	clock := r.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(chunkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			r.mu.Lock()
			r.sealLocked()
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}

// sealLocked moves the scratch buffer into the chunk list. Must be
// called with mu held.
func (r *Recorder) sealLocked() {
	if len(r.scratch) == 0 {
		return
	}
	r.chunks = append(r.chunks, r.scratch)
	r.scratch = nil
}

func (r *Recorder) saveClip(clip Clip) (string, error) {
	dir := r.ClipDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("save clip: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("shopchat-%s.%s", uuid.NewString(), clip.Format))
	if err := os.WriteFile(path, clip.Data, 0600); err != nil {
		return "", fmt.Errorf("save clip: %w", err)
	}
	return path, nil
}
