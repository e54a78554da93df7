package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tubelens/internal/llm"
	"tubelens/internal/logging"
	"tubelens/internal/settings"
	"tubelens/internal/youtube"
)

// smallContextProviders get keyword-selected chunks instead of the whole
// transcript.
var smallContextProviders = map[string]bool{
	"huggingface": true,
	"ollama":      true,
}

// Answer is the outcome of a question-answering run.
type Answer struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Provider string   `json:"providerName"`
}

// Service dispatches retrieval-augmented questions and fact checks.
type Service struct {
	dispatcher *llm.Dispatcher
	yt         *youtube.Client
	logger     *slog.Logger

	chunkSize    int
	chunkOverlap int
}

// Option adjusts Service construction.
type Option func(*Service)

// WithChunking overrides chunk size and overlap. Out-of-range values fall
// back to the defaults at use time.
func WithChunking(size, overlap int) Option {
	return func(s *Service) {
		s.chunkSize = size
		s.chunkOverlap = overlap
	}
}

// NewService wires a RAG service. yt may be nil; title enrichment is then
// skipped.
func NewService(dispatcher *llm.Dispatcher, yt *youtube.Client, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	svc := &Service{
		dispatcher: dispatcher,
		yt:         yt,
		logger:     logging.NewComponentLogger(logger, "rag"),
		chunkSize:  DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// AnswerQuestion answers query using the supplied transcript as context.
// Video metadata enrichment is best-effort; a failed lookup never fails the
// question.
func (s *Service) AnswerQuestion(ctx context.Context, cfg settings.Settings, videoID, query, transcript string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("rag: query required")
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("rag: transcript required")
	}
	if _, err := s.dispatcher.ProviderFor(cfg); err != nil {
		return nil, err
	}

	// Per-operation settings win over construction defaults.
	size, overlap := s.chunkSize, s.chunkOverlap
	if cfg.ChunkSize > 0 {
		size = cfg.ChunkSize
	}
	if cfg.ChunkOverlap > 0 {
		overlap = cfg.ChunkOverlap
	}

	chunks := chunkTranscript(transcript, size, overlap)
	if smallContextProviders[cfg.Provider] {
		before := len(chunks)
		chunks = selectChunks(chunks, query)
		s.logger.Debug("selected chunks for small-context provider",
			logging.String("provider", cfg.Provider),
			logging.Int("total_chunks", before),
			logging.Int("selected", len(chunks)))
	}

	system := s.systemPrompt(ctx, cfg, videoID)
	user := fmt.Sprintf("Transcript excerpts:\n\n%s\n\nQuestion: %s",
		strings.Join(chunks, "\n\n"), query)

	content, err := s.dispatcher.Complete(ctx, cfg, []llm.Message{
		llm.SystemMessage(system),
		llm.UserMessage(user),
	})
	if err != nil {
		return nil, fmt.Errorf("rag: answer question: %w", err)
	}

	return &Answer{
		Answer:   strings.TrimSpace(content),
		Sources:  extractSources(content, transcript),
		Provider: cfg.Provider,
	}, nil
}

func (s *Service) systemPrompt(ctx context.Context, cfg settings.Settings, videoID string) string {
	prompt := "You are answering questions about a YouTube video using excerpts from its transcript. " +
		"Cite timestamps from the transcript in square brackets, like [0:42], whenever they support your answer. " +
		"If the transcript does not contain the answer, say so explicitly."

	if s.yt == nil || strings.TrimSpace(cfg.YouTubeKey) == "" || strings.TrimSpace(videoID) == "" {
		return prompt
	}
	meta, err := s.yt.FetchVideoMetadata(ctx, cfg.YouTubeKey, videoID)
	if err != nil {
		s.logger.Debug("video metadata enrichment skipped",
			logging.String("video_id", videoID),
			logging.Error(err))
		return prompt
	}
	return fmt.Sprintf("%s\n\nThe video is titled %q by %s.", prompt, meta.Title, meta.ChannelTitle)
}
