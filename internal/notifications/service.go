package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tubelens/internal/config"
)

const userAgent = "TubeLens-Go/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyAnalysisStarted(ctx context.Context, operation, videoID string) error
	NotifyAnalysisProgress(ctx context.Context, videoID, stage string, percent int) error
	NotifyAnalysisCompleted(ctx context.Context, operation, videoID string) error
	NotifyManualTranscriptRequired(ctx context.Context, videoID string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg config.Notifications) Service {
	topic := strings.TrimSpace(cfg.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		pushErrors: cfg.Errors,
		client:     &http.Client{Timeout: timeout},
	}
}

// NewNop returns a Service that discards every event. Handy for tests.
func NewNop() Service {
	return noopService{}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	pushErrors bool
	client     *http.Client
}

func (n *ntfyService) NotifyAnalysisStarted(ctx context.Context, operation, videoID string) error {
	operation = strings.TrimSpace(operation)
	videoID = strings.TrimSpace(videoID)
	data := payload{
		title:   "TubeLens - Analysis Started",
		message: fmt.Sprintf("Started %s for video %s", operation, videoID),
		tags:    []string{"tubelens", "analysis", "started"},
	}
	return n.send(ctx, data)
}

// NotifyAnalysisProgress is suppressed on ntfy; per-batch pushes are too noisy.
func (n *ntfyService) NotifyAnalysisProgress(context.Context, string, string, int) error {
	return nil
}

func (n *ntfyService) NotifyAnalysisCompleted(ctx context.Context, operation, videoID string) error {
	operation = strings.TrimSpace(operation)
	videoID = strings.TrimSpace(videoID)
	data := payload{
		title:   "TubeLens - Analysis Complete",
		message: fmt.Sprintf("Finished %s for video %s", operation, videoID),
		tags:    []string{"tubelens", "analysis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyManualTranscriptRequired(ctx context.Context, videoID string) error {
	videoID = strings.TrimSpace(videoID)
	data := payload{
		title:   "TubeLens - Manual Transcript Needed",
		message: fmt.Sprintf("No captions found for video %s\nPaste a transcript to continue", videoID),
		tags:    []string{"tubelens", "transcript", "review"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.pushErrors {
		return nil
	}

	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "TubeLens - Error",
		message:  builder.String(),
		tags:     []string{"tubelens", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "TubeLens - Test",
		message:  "Notification system test",
		tags:     []string{"tubelens", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAnalysisStarted(context.Context, string, string) error       { return nil }
func (noopService) NotifyAnalysisProgress(context.Context, string, string, int) error { return nil }
func (noopService) NotifyAnalysisCompleted(context.Context, string, string) error     { return nil }
func (noopService) NotifyManualTranscriptRequired(context.Context, string) error      { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
