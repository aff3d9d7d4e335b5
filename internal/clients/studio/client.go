// Package studio is the HTTP relay to the external AI content studio: chapter
// extraction, avatar rendering, narration audio, video assembly, and
// translation all happen on the remote service. This client only submits
// work and returns the produced artifact URLs.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/envutil"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/httpx"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

type Chapter struct {
	Title                    string   `json:"title"`
	Summary                  string   `json:"summary"`
	KeyPoints                []string `json:"key_points"`
	EstimatedDurationSeconds int      `json:"estimated_duration_seconds"`
}

type ExtractRequest struct {
	FileURL  string `json:"file_url"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Segments int    `json:"segments"`
}

type AvatarRequest struct {
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

type AudioRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"` // zh | en
}

type SilentVideoRequest struct {
	AvatarImageURL string `json:"avatar_image_url"`
	Summary        string `json:"summary"`
	DurationSeconds int   `json:"duration_seconds"`
}

type MergeRequest struct {
	SilentVideoURL string `json:"silent_video_url"`
	AudioURL       string `json:"audio_url"`
	Language       string `json:"language"`
}

type TranslateRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type Translation struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type Client interface {
	ExtractChapters(ctx context.Context, req ExtractRequest) ([]Chapter, error)
	GenerateAvatar(ctx context.Context, req AvatarRequest) (string, error)
	GenerateAudio(ctx context.Context, req AudioRequest) (string, error)
	GenerateSilentVideo(ctx context.Context, req SilentVideoRequest) (string, error)
	MergeVideo(ctx context.Context, req MergeRequest) (string, error)
	Translate(ctx context.Context, req TranslateRequest) (Translation, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(envutil.String("STUDIO_BASE_URL", "http://localhost:9300"), "/")
	apiKey := envutil.String("STUDIO_API_KEY", "dev-studio-key")

	// The http.Client carries no timeout of its own; the long pipeline
	// stages run under a 15 minute request deadline and the client must
	// not cut that short.
	return &client{
		log:        log.With("service", "StudioClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		maxRetries: envutil.Int("STUDIO_MAX_RETRIES", 2),
	}, nil
}

type studioHTTPError struct {
	StatusCode int
	Body       string
}

func (e *studioHTTPError) Error() string {
	return fmt.Sprintf("studio http %d: %s", e.StatusCode, e.Body)
}

func (e *studioHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &studioHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("studio decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}
		sleepFor := httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, time.Second, 10*time.Second), 10*time.Second)
		c.log.Warn("Studio request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
	}
	return fmt.Errorf("unreachable retry loop")
}

func (c *client) ExtractChapters(ctx context.Context, req ExtractRequest) ([]Chapter, error) {
	var out struct {
		Chapters []Chapter `json:"chapters"`
	}
	if err := c.do(ctx, "/v1/extract", req, &out); err != nil {
		return nil, err
	}
	if len(out.Chapters) == 0 {
		return nil, fmt.Errorf("studio returned no chapters")
	}
	return out.Chapters, nil
}

func (c *client) GenerateAvatar(ctx context.Context, req AvatarRequest) (string, error) {
	return c.urlCall(ctx, "/v1/avatar", req)
}

func (c *client) GenerateAudio(ctx context.Context, req AudioRequest) (string, error) {
	return c.urlCall(ctx, "/v1/audio", req)
}

func (c *client) GenerateSilentVideo(ctx context.Context, req SilentVideoRequest) (string, error) {
	return c.urlCall(ctx, "/v1/silent-video", req)
}

func (c *client) MergeVideo(ctx context.Context, req MergeRequest) (string, error) {
	return c.urlCall(ctx, "/v1/merge", req)
}

func (c *client) Translate(ctx context.Context, req TranslateRequest) (Translation, error) {
	var out Translation
	if err := c.do(ctx, "/v1/translate", req, &out); err != nil {
		return Translation{}, err
	}
	if out.Title == "" && out.Summary == "" {
		return Translation{}, fmt.Errorf("studio returned empty translation")
	}
	return out, nil
}

func (c *client) urlCall(ctx context.Context, path string, body any) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, path, body, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("studio returned no artifact url for %s", path)
	}
	return out.URL, nil
}
