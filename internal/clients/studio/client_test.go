package studio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	t.Setenv("STUDIO_BASE_URL", baseURL)
	t.Setenv("STUDIO_API_KEY", "test-key")
	t.Setenv("STUDIO_MAX_RETRIES", "2")
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestExtractChaptersDecodesResponse(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Segments != 10 {
			t.Errorf("segments %d", req.Segments)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chapters": []Chapter{
				{Title: "One", Summary: "first", KeyPoints: []string{"a"}},
				{Title: "Two", Summary: "second"},
			},
		})
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	chapters, err := c.ExtractChapters(context.Background(), ExtractRequest{FileURL: "https://x/b.pdf", Segments: 10})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(chapters) != 2 || chapters[0].Title != "One" {
		t.Fatalf("chapters %+v", chapters)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header %q", gotAuth)
	}
	if gotPath != "/v1/extract" {
		t.Fatalf("path %q", gotPath)
	}
}

func TestExtractChaptersRejectsEmptySet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"chapters": []Chapter{}})
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	if _, err := c.ExtractChapters(context.Background(), ExtractRequest{}); err == nil {
		t.Fatal("empty chapter set must be an error")
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/a.png"})
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	url, err := c.GenerateAvatar(context.Background(), AvatarRequest{Description: "narrator"})
	if err != nil {
		t.Fatalf("avatar after retry: %v", err)
	}
	if url != "https://cdn.example.com/a.png" {
		t.Fatalf("url %q", url)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	if _, err := c.GenerateAudio(context.Background(), AudioRequest{Text: "t", Language: "zh"}); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("400 must not be retried, got %d attempts", got)
	}
}

func TestURLCallRejectsMissingArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	if _, err := c.MergeVideo(context.Background(), MergeRequest{}); err == nil {
		t.Fatal("missing url must be an error")
	}
}

func TestTranslateRejectsEmptyTranslation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(Translation{})
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	if _, err := c.Translate(context.Background(), TranslateRequest{Title: "t"}); err == nil {
		t.Fatal("empty translation must be an error")
	}
}
