package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubelens/internal/llm"
	"tubelens/internal/llmjson"
	"tubelens/internal/logging"
	"tubelens/internal/notifications"
	"tubelens/internal/settings"
	"tubelens/internal/youtube"
)

const (
	// DefaultBatchSize is how many comments go into a single LLM request.
	DefaultBatchSize = 25
	// DefaultMaxComments caps how many comments are fetched per video.
	DefaultMaxComments = 100

	// pauseEvery and pauseFor throttle long runs: after every fourth batch
	// the loop sleeps before continuing.
	pauseEvery = 4
	pauseFor   = time.Second

	sampleCommentCount = 5

	parseErrorTheme = "Parsing error - see raw response"
)

// Sentiment aggregates per-comment classifications across all batches.
type Sentiment struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// BatchResult is the decoded LLM verdict for one batch of comments. Raw is
// populated only when the model response could not be decoded and the batch
// was degraded to all-neutral.
type BatchResult struct {
	Positive int      `json:"positive"`
	Negative int      `json:"negative"`
	Neutral  int      `json:"neutral"`
	Themes   []string `json:"themes"`
	Raw      string   `json:"rawResponse,omitempty"`
}

// Analysis is the aggregated outcome of a comment analysis run.
type Analysis struct {
	VideoID         string            `json:"videoId"`
	TotalFetched    int               `json:"totalFetched"`
	TotalAnalyzed   int               `json:"totalAnalyzed"`
	Sentiment       Sentiment         `json:"sentiment"`
	Themes          []string          `json:"themes"`
	SampleComments  []youtube.Comment `json:"sampleComments"`
	DegradedBatches int               `json:"degradedBatches,omitempty"`
}

// Service runs the fetch-and-analyze pipeline for a video's comments.
type Service struct {
	yt         *youtube.Client
	dispatcher *llm.Dispatcher
	notifier   notifications.Service
	logger     *slog.Logger

	batchSize   int
	maxComments int
	sleep       func(context.Context, time.Duration) error
}

// Option adjusts Service construction.
type Option func(*Service)

// WithBatchSize overrides the per-request comment batch size.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithMaxComments overrides the per-video comment cap.
func WithMaxComments(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxComments = n
		}
	}
}

// WithSleeper replaces the inter-batch pause. Tests use this to avoid
// real delays.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(s *Service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewService wires a comment analysis service.
func NewService(yt *youtube.Client, dispatcher *llm.Dispatcher, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	svc := &Service{
		yt:          yt,
		dispatcher:  dispatcher,
		notifier:    notifier,
		logger:      logging.NewComponentLogger(logger, "comments"),
		batchSize:   DefaultBatchSize,
		maxComments: DefaultMaxComments,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Analyze fetches up to the configured number of comments for videoID and
// runs batched sentiment analysis with the configured provider. Credential
// problems fail before any network call.
func (s *Service) Analyze(ctx context.Context, cfg settings.Settings, videoID string) (*Analysis, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("comments: video id required")
	}
	if _, err := s.dispatcher.ProviderFor(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.YouTubeKey) == "" {
		return nil, fmt.Errorf("comments: YouTube API key not configured; comments cannot be fetched without it")
	}

	// Per-operation settings win over construction defaults.
	batchSize := s.batchSize
	if cfg.BatchSize > 0 {
		batchSize = cfg.BatchSize
	}
	maxComments := s.maxComments
	if cfg.MaxComments > 0 {
		maxComments = cfg.MaxComments
	}

	_ = s.notifier.NotifyAnalysisStarted(ctx, "comment analysis", videoID)

	fetched, err := s.yt.FetchComments(ctx, cfg.YouTubeKey, videoID, maxComments)
	if err != nil {
		_ = s.notifier.NotifyError(ctx, err, "comment analysis")
		return nil, fmt.Errorf("comments: fetch: %w", err)
	}
	s.logger.Info("fetched comments",
		logging.String("video_id", videoID),
		logging.Int("count", len(fetched)))

	analysis := &Analysis{
		VideoID:        videoID,
		TotalFetched:   len(fetched),
		TotalAnalyzed:  len(fetched),
		Themes:         []string{},
		SampleComments: sampleComments(fetched),
	}
	if len(fetched) == 0 {
		_ = s.notifier.NotifyAnalysisCompleted(ctx, "comment analysis", videoID)
		return analysis, nil
	}

	totalBatches := (len(fetched) + batchSize - 1) / batchSize
	for i := 0; i < len(fetched); i += batchSize {
		end := i + batchSize
		if end > len(fetched) {
			end = len(fetched)
		}
		batchNum := i/batchSize + 1

		result, err := s.analyzeBatch(ctx, cfg, fetched[i:end])
		if err != nil {
			_ = s.notifier.NotifyError(ctx, err, "comment analysis")
			return nil, fmt.Errorf("comments: batch %d/%d: %w", batchNum, totalBatches, err)
		}
		analysis.Sentiment.Positive += result.Positive
		analysis.Sentiment.Negative += result.Negative
		analysis.Sentiment.Neutral += result.Neutral
		analysis.Themes = append(analysis.Themes, result.Themes...)
		if result.Raw != "" {
			analysis.DegradedBatches++
		}

		percent := batchNum * 100 / totalBatches
		_ = s.notifier.NotifyAnalysisProgress(ctx, videoID,
			fmt.Sprintf("batch %d/%d", batchNum, totalBatches), percent)

		// Pause after every fourth batch boundary, mirroring the upstream
		// pipeline's pacing. i > 0 keeps the first batch unpaused.
		if next := i + batchSize; next < len(fetched) && next%(batchSize*pauseEvery) == 0 {
			if err := s.sleep(ctx, pauseFor); err != nil {
				return nil, err
			}
		}
	}

	_ = s.notifier.NotifyAnalysisCompleted(ctx, "comment analysis", videoID)
	return analysis, nil
}

func (s *Service) analyzeBatch(ctx context.Context, cfg settings.Settings, batch []youtube.Comment) (BatchResult, error) {
	encoded, err := json.Marshal(batch)
	if err != nil {
		return BatchResult{}, fmt.Errorf("encode batch: %w", err)
	}

	messages := []llm.Message{
		llm.SystemMessage("You are analyzing YouTube comments. Provide sentiment analysis and key insights."),
		llm.UserMessage(`Analyze these comments and provide sentiment scores and key themes. Return your analysis in valid JSON format with "positive", "negative", "neutral" counts and an array of "themes". Example: {"positive": 10, "negative": 5, "neutral": 3, "themes": ["video quality", "helpful content"]}. Here are the comments: ` + string(encoded)),
	}

	content, err := s.dispatcher.Complete(ctx, cfg, messages)
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	kind, decodeErr := llmjson.Decode(content, &result)
	if decodeErr != nil {
		s.logger.Warn("comment batch response unparseable, degrading to neutral",
			logging.Int("batch_size", len(batch)),
			logging.String("response", llmjson.Snippet(content)))
		return BatchResult{
			Neutral: len(batch),
			Themes:  []string{parseErrorTheme},
			Raw:     content,
		}, nil
	}
	if kind == llmjson.Extracted {
		s.logger.Debug("comment batch JSON recovered from prose response")
	}
	return result, nil
}

func sampleComments(comments []youtube.Comment) []youtube.Comment {
	if len(comments) > sampleCommentCount {
		comments = comments[:sampleCommentCount]
	}
	out := make([]youtube.Comment, len(comments))
	copy(out, comments)
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
