package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doRequest(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"https://admin.shelfcast.example"}})

	w := doRequest(r, "https://admin.shelfcast.example")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.shelfcast.example" {
		t.Fatalf("allow-origin header %q", got)
	}
}

func TestCORSAllowsTrustedHostingPlatforms(t *testing.T) {
	t.Parallel()
	r := newCORSRouter(CORSConfig{})

	for _, origin := range []string{
		"https://console-abc123.tcloudbaseapp.com",
		"https://preview-1.vercel.app",
		"https://team.netlify.app",
		"https://dev-box-3000.app.github.dev",
	} {
		w := doRequest(r, origin)
		if w.Code != http.StatusOK {
			t.Errorf("origin %s: status %d", origin, w.Code)
		}
	}
}

func TestCORSRejectsUnknownOriginExplicitly(t *testing.T) {
	t.Parallel()
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"https://admin.shelfcast.example"}})

	w := doRequest(r, "https://evil.example.com")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
	if body := w.Body.String(); body == "" {
		t.Fatal("rejection must carry an error body, not a silent drop")
	}
}

func TestCORSPassesRequestsWithoutOrigin(t *testing.T) {
	t.Parallel()
	r := newCORSRouter(CORSConfig{})

	w := doRequest(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestCORSPreflightForAllowedOrigin(t *testing.T) {
	t.Parallel()
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"https://admin.shelfcast.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://admin.shelfcast.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent && w.Code != http.StatusOK {
		t.Fatalf("preflight status %d", w.Code)
	}
}
