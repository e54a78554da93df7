package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tubelens/internal/captions"
	"tubelens/internal/comments"
	"tubelens/internal/logging"
	"tubelens/internal/memocache"
	"tubelens/internal/notifications"
	"tubelens/internal/rag"
	"tubelens/internal/settings"
)

// TranscriptResult is the flattened transcript payload returned to callers.
type TranscriptResult struct {
	VideoID            string   `json:"videoId"`
	Transcript         string   `json:"transcript"`
	Method             string   `json:"method"`
	Languages          []string `json:"languages"`
	AvailableLanguages []string `json:"availableLanguages,omitempty"`
	MissingLanguages   []string `json:"missingLanguages,omitempty"`
	HasLimitedSupport  bool     `json:"hasLimitedSupport,omitempty"`
	FromManualOverride bool     `json:"fromManualOverride,omitempty"`
}

// Service dispatches typed requests to the pipelines with caching.
type Service struct {
	store    *settings.Store
	captions *captions.Service
	comments *comments.Service
	rag      *rag.Service
	notifier notifications.Service
	logger   *slog.Logger

	transcripts *memocache.Cache[*TranscriptResult]
	analyses    *memocache.Cache[*comments.Analysis]
	answers     *memocache.Cache[*rag.Answer]

	mu     sync.Mutex
	manual map[string]string
}

// NewService wires the facade. All pipeline services must be non-nil;
// notifier may be nil for a silent facade.
func NewService(store *settings.Store, captionsSvc *captions.Service, commentsSvc *comments.Service, ragSvc *rag.Service, notifier notifications.Service, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:       store,
		captions:    captionsSvc,
		comments:    commentsSvc,
		rag:         ragSvc,
		notifier:    notifier,
		logger:      logging.NewComponentLogger(logger, "core"),
		transcripts: memocache.New[*TranscriptResult](),
		analyses:    memocache.New[*comments.Analysis](),
		answers:     memocache.New[*rag.Answer](),
		manual:      make(map[string]string),
	}
}

func (s *Service) snapshot(ctx context.Context) (settings.Settings, error) {
	cfg, err := s.store.Snapshot(ctx)
	if err != nil {
		return cfg, fmt.Errorf("load settings: %w", err)
	}
	return cfg, nil
}

func captionView(cfg settings.Settings) captions.SettingsView {
	return captions.SettingsView{
		YouTubeKey:           cfg.YouTubeKey,
		PreferredLanguages:   cfg.PreferredLanguages,
		FetchAllLanguages:    cfg.FetchAllLanguages,
		BrowserExtraction:    cfg.BrowserExtraction,
		ManualTranscriptMode: cfg.ManualTranscriptMode,
	}
}

// GetTranscript returns the video's transcript, acquiring it on cache miss.
// When every automatic strategy fails, a manual-transcript request signal is
// emitted before the error is returned.
func (s *Service) GetTranscript(ctx context.Context, videoID string) (*TranscriptResult, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("video id required")
	}
	if result, ok := s.transcripts.Get(videoID); ok {
		s.logger.Debug("transcript cache hit", logging.String("video_id", videoID))
		return result, nil
	}

	cfg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	manualText := s.manual[videoID]
	s.mu.Unlock()
	if manualText == "" {
		manualText = cfg.DefaultTranscript
	}

	bundle, err := s.captions.Acquire(ctx, captionView(cfg), captions.Request{
		VideoID:          videoID,
		ManualTranscript: manualText,
	})
	if err != nil {
		_ = s.notifier.NotifyManualTranscriptRequired(ctx, videoID)
		return nil, err
	}

	result := &TranscriptResult{
		VideoID:            videoID,
		Transcript:         bundle.Combined(),
		Method:             bundle.Method,
		Languages:          bundle.Languages(),
		AvailableLanguages: bundle.AvailableLanguages,
		MissingLanguages:   bundle.MissingLanguages,
		HasLimitedSupport:  bundle.HasLimitedSupport(),
	}
	s.transcripts.Store(videoID, result)
	return result, nil
}

// UseManualTranscript registers pasted transcript text for a video and
// optionally persists it as the default for future manual-mode requests.
func (s *Service) UseManualTranscript(ctx context.Context, videoID, text string, saveAsDefault bool) (*TranscriptResult, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("video id required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, captions.ErrManualTranscriptRequired
	}

	s.mu.Lock()
	s.manual[videoID] = text
	s.mu.Unlock()

	if saveAsDefault {
		if err := s.store.Set(ctx, settings.KeyDefaultTranscript, text); err != nil {
			return nil, err
		}
	}

	result := &TranscriptResult{
		VideoID:            videoID,
		Transcript:         strings.TrimSpace(text),
		Method:             captions.MethodManual,
		Languages:          []string{"und"},
		FromManualOverride: true,
	}
	s.transcripts.Store(videoID, result)
	return result, nil
}

// AnalyzeComments runs the sentiment pipeline, caching per video and
// provider.
func (s *Service) AnalyzeComments(ctx context.Context, videoID string) (*comments.Analysis, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("video id required")
	}
	cfg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := videoID + "|" + cfg.Provider
	if analysis, ok := s.analyses.Get(key); ok {
		s.logger.Debug("comment analysis cache hit", logging.String("key", key))
		return analysis, nil
	}

	analysis, err := s.comments.Analyze(ctx, cfg, videoID)
	if err != nil {
		return nil, err
	}
	s.analyses.Store(key, analysis)
	return analysis, nil
}

// AnswerQuestion answers a free-form question about the video, caching per
// video, query and provider. The transcript comes from GetTranscript and
// shares its cache.
func (s *Service) AnswerQuestion(ctx context.Context, videoID, query string) (*rag.Answer, error) {
	videoID = strings.TrimSpace(videoID)
	query = strings.TrimSpace(query)
	if videoID == "" || query == "" {
		return nil, fmt.Errorf("video id and query required")
	}
	cfg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := videoID + "|" + query + "|" + cfg.Provider
	if answer, ok := s.answers.Get(key); ok {
		s.logger.Debug("answer cache hit", logging.String("key", key))
		return answer, nil
	}

	transcript, err := s.GetTranscript(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("transcript unavailable: %w", err)
	}

	answer, err := s.rag.AnswerQuestion(ctx, cfg, videoID, query, transcript.Transcript)
	if err != nil {
		return nil, err
	}
	s.answers.Store(key, answer)
	return answer, nil
}

// FactCheck verifies arbitrary text with the configured provider. Results
// are not cached; the same claim may be re-checked deliberately.
func (s *Service) FactCheck(ctx context.Context, text string) (*rag.FactCheckResult, error) {
	cfg, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.rag.FactCheck(ctx, cfg, text)
}

// InvalidateVideo drops every cached result for a video, forcing fresh
// acquisition on the next request.
func (s *Service) InvalidateVideo(videoID string) {
	s.transcripts.Invalidate(videoID)
	// Provider- and query-scoped entries share the video id prefix; the
	// caches are small enough to clear rather than scan.
	s.analyses.Clear()
	s.answers.Clear()
}
