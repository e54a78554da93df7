package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

const (
	defaultHTTPTimeout   = 60 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBase     = 1 * time.Second
)

// Provider performs one chat completion for a single backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Dispatcher selects a provider from the current settings and runs
// completions with retry.
type Dispatcher struct {
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	sleeper          func(time.Duration)

	openaiBaseURL      string
	huggingfaceBaseURL string
	geminiBaseURL      string
}

// Option customizes the dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default attempt count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(d *Dispatcher) {
		if attempts > 0 {
			d.retryMaxAttempts = attempts
		}
	}
}

// WithRetryBaseDelay overrides the first backoff delay (defaults to 1s).
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		if delay >= 0 {
			d.retryBaseDelay = delay
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(d *Dispatcher) {
		if sleeper != nil {
			d.sleeper = sleeper
		}
	}
}

// WithEndpointOverrides redirects hosted-provider endpoints, used by tests
// to point adapters at local servers. Empty strings keep the defaults.
func WithEndpointOverrides(openaiURL, huggingfaceURL, geminiURL string) Option {
	return func(d *Dispatcher) {
		d.openaiBaseURL = strings.TrimSpace(openaiURL)
		d.huggingfaceBaseURL = strings.TrimSpace(huggingfaceURL)
		d.geminiBaseURL = strings.TrimSpace(geminiURL)
	}
}

// NewDispatcher constructs a dispatcher.
func NewDispatcher(logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		httpClient:       &http.Client{Timeout: defaultHTTPTimeout},
		logger:           logging.NewComponentLogger(logger, "llm"),
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBase,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProviderFor builds the provider selected by the settings snapshot. A
// missing credential or unrecognized provider name fails here, before any
// network traffic.
func (d *Dispatcher) ProviderFor(cfg settings.Settings) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIKey) == "" {
			return nil, providerErr("openai", KindMissingCredential, "OpenAI API key not configured")
		}
		return newOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, d.openaiBaseURL, d.httpClient), nil
	case "huggingface":
		if strings.TrimSpace(cfg.HuggingFaceKey) == "" {
			return nil, providerErr("huggingface", KindMissingCredential, "Hugging Face API key not configured")
		}
		return newHuggingFaceProvider(cfg.HuggingFaceKey, cfg.HuggingFaceModel, d.huggingfaceBaseURL, d.httpClient), nil
	case "gemini":
		if strings.TrimSpace(cfg.GeminiKey) == "" {
			return nil, providerErr("gemini", KindMissingCredential, "Gemini API key not configured")
		}
		return newGeminiProvider(cfg.GeminiKey, cfg.GeminiModel, d.geminiBaseURL, d.httpClient), nil
	case "ollama":
		if strings.TrimSpace(cfg.OllamaEndpoint) == "" {
			return nil, providerErr("ollama", KindMissingCredential, "Ollama endpoint not configured")
		}
		return newOllamaProvider(cfg.OllamaEndpoint, cfg.OllamaModel, d.httpClient), nil
	default:
		return nil, providerErr(cfg.Provider, KindUnknownProvider, "unknown provider %q", cfg.Provider)
	}
}

// Complete runs a completion against the configured provider, retrying
// retryable failures with doubling backoff between attempts.
func (d *Dispatcher) Complete(ctx context.Context, cfg settings.Settings, messages []Message) (string, error) {
	provider, err := d.ProviderFor(cfg)
	if err != nil {
		return "", err
	}
	return d.complete(ctx, provider, messages)
}

func (d *Dispatcher) complete(ctx context.Context, provider Provider, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("llm complete: no messages")
	}

	attempts := d.retryMaxAttempts
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		d.logger.Info("requesting completion",
			logging.String("provider", provider.Name()),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", attempts))
		content, err := provider.Complete(ctx, messages)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == attempts || ctx.Err() != nil {
			break
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}

		delay := d.retryBaseDelay << (attempt - 1)
		d.logger.Warn("completion attempt failed",
			logging.String("provider", provider.Name()),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", attempts),
			logging.Duration("retry_in", delay),
			logging.Error(err))
		if sleepErr := d.sleep(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
	}

	if ctx.Err() != nil && !errors.Is(lastErr, ctx.Err()) {
		return "", ctx.Err()
	}
	if Retryable(lastErr) {
		return "", fmt.Errorf("llm complete: failed after %d attempts: %w", attempts, lastErr)
	}
	return "", lastErr
}

func (d *Dispatcher) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if d.sleeper != nil {
		d.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
