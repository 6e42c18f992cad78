package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/linanwx/shopchat/transcript"
)

// fakeDevice streams a fixed byte payload and records open/close calls.
type fakeDevice struct {
	formats []string
	payload []byte

	openedFormat string
	openErr      error
	closed       bool
}

func (d *fakeDevice) Formats() []string { return d.formats }

func (d *fakeDevice) Open(_ context.Context, format string) (io.ReadCloser, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.openedFormat = format
	return &fakeStream{Reader: bytes.NewReader(d.payload), device: d}, nil
}

type fakeStream struct {
	io.Reader
	device *fakeDevice
}

func (s *fakeStream) Close() error {
	s.device.closed = true
	return nil
}

func newTestRecorder(t *testing.T, dev Device, transcribe TranscribeFunc, send SendFunc) (*Recorder, *transcript.Store) {
	t.Helper()
	store := transcript.NewStore()
	return &Recorder{
		Device:     dev,
		Transcribe: transcribe,
		Store:      store,
		Send:       send,
		Clock:      clockwork.NewFakeClock(),
		ClipDir:    t.TempDir(),
	}, store
}

func TestRecorderFormatNegotiation(t *testing.T) {
	cases := []struct {
		name     string
		supports []string
		want     string
	}{
		{"prefers opus", []string{"wav", "opus", "mp3"}, "opus"},
		{"falls back to wav", []string{"mp3", "wav"}, "wav"},
		{"device first choice", []string{"mp3", "aac"}, "mp3"},
		{"hard fallback", nil, fallbackFormat},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := negotiateFormat(tc.supports); got != tc.want {
				t.Fatalf("negotiateFormat(%v) = %q, want %q", tc.supports, got, tc.want)
			}
		})
	}
}

func TestRecorderStartStopRoundTrip(t *testing.T) {
	dev := &fakeDevice{formats: []string{"wav"}, payload: []byte("RIFFdata")}

	var gotClip Clip
	var sent []string
	rec, store := newTestRecorder(t, dev,
		func(_ context.Context, clip Clip) (string, error) {
			gotClip = clip
			return "find sandals", nil
		},
		func(_ context.Context, text string) error {
			sent = append(sent, text)
			return nil
		},
	)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !rec.Recording() {
		t.Fatal("Recording() should be true after Start")
	}
	if dev.openedFormat != "wav" {
		t.Fatalf("opened format = %q, want wav", dev.openedFormat)
	}

	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if rec.Recording() {
		t.Fatal("Recording() should be false after Stop")
	}
	if !dev.closed {
		t.Fatal("capture handle should be released on Stop")
	}

	if !bytes.Equal(gotClip.Data, []byte("RIFFdata")) || gotClip.Format != "wav" {
		t.Fatalf("clip = %+v", gotClip)
	}

	list := store.Messages()
	if len(list) != 1 {
		t.Fatalf("store len = %d, want 1", len(list))
	}
	c := list[0].Content[0]
	if c.Type != transcript.ContentAudio || c.Text != "find sandals" || c.URL == "" {
		t.Fatalf("audio content = %+v", c)
	}
	if len(sent) != 1 || sent[0] != "find sandals" {
		t.Fatalf("sent = %v", sent)
	}
}

func TestRecorderEmptyTranscriptionIsSilentNoOp(t *testing.T) {
	dev := &fakeDevice{formats: []string{"wav"}, payload: []byte("quiet")}

	rec, store := newTestRecorder(t, dev,
		func(_ context.Context, _ Clip) (string, error) { return "", nil },
		func(_ context.Context, _ string) error {
			t.Fatal("send should not run for an empty transcription")
			return nil
		},
	)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if store.Len() != 0 {
		t.Fatalf("store len = %d, want 0", store.Len())
	}
}

func TestRecorderSecondStartFails(t *testing.T) {
	dev := &fakeDevice{formats: []string{"wav"}, payload: []byte("x")}
	rec, _ := newTestRecorder(t, dev, nil, nil)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Start(context.Background()); err == nil {
		t.Fatal("second Start() should fail while recording")
	}
	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestRecorderOpenFailureStaysIdle(t *testing.T) {
	dev := &fakeDevice{formats: []string{"wav"}, openErr: errors.New("permission denied")}
	rec, store := newTestRecorder(t, dev, nil, nil)

	if err := rec.Start(context.Background()); err == nil {
		t.Fatal("Start() should surface the device error")
	}
	if rec.Recording() {
		t.Fatal("recorder should stay idle after an open failure")
	}
	if store.Len() != 0 {
		t.Fatalf("store len = %d, want 0 (capture errors are not user-facing)", store.Len())
	}
}

func TestRecorderTranscribeFailureAppendsNotice(t *testing.T) {
	dev := &fakeDevice{formats: []string{"wav"}, payload: []byte("x")}
	rec, store := newTestRecorder(t, dev,
		func(_ context.Context, _ Clip) (string, error) {
			return "", errors.New("service down")
		},
		func(_ context.Context, _ string) error {
			t.Fatal("send should not run after a transcribe failure")
			return nil
		},
	)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Stop(context.Background()); err == nil {
		t.Fatal("Stop() should surface the transcribe error")
	}

	list := store.Messages()
	if len(list) != 1 || list[0].FirstTextValue() != transcribeFailureNotice {
		t.Fatalf("store = %+v, want just the failure notice", list)
	}
}

func TestRecorderWithoutStoreOrSend(t *testing.T) {
	dev := &fakeDevice{formats: []string{"wav"}, payload: []byte("x")}
	rec := &Recorder{
		Device: dev,
		Transcribe: func(_ context.Context, _ Clip) (string, error) {
			return "find sandals", nil
		},
		Clock:   clockwork.NewFakeClock(),
		ClipDir: t.TempDir(),
	}

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestRecorderStopWhenIdleIsNoOp(t *testing.T) {
	rec, store := newTestRecorder(t, &fakeDevice{}, nil, nil)
	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() on idle recorder error = %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("store len = %d, want 0", store.Len())
	}
}
