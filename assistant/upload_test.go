package assistant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"
)

func TestUploadReturnsHostedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if got := gjson.GetBytes(body, "file").String(); got != "data:image/png;base64,aGk=" {
			t.Errorf("file field = %q", got)
		}
		w.Write([]byte(`{"uploadURL": "https://cdn.example/img/1.png"}`))
	}))
	defer srv.Close()

	u := NewUploader(srv.URL)
	url, err := u.Upload(context.Background(), "data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example/img/1.png" {
		t.Fatalf("url = %q", url)
	}
}

func TestUploadRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewUploader(srv.URL).Upload(context.Background(), "x"); err == nil {
		t.Fatal("error status accepted")
	}
}

func TestUploadRejectsMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewUploader(srv.URL).Upload(context.Background(), "x"); err == nil {
		t.Fatal("empty response accepted")
	}
}
