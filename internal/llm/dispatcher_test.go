package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

type fakeProvider struct {
	calls   int
	results []error
	content string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	idx := p.calls
	p.calls++
	if idx < len(p.results) && p.results[idx] != nil {
		return "", p.results[idx]
	}
	return p.content, nil
}

func TestCompleteRetriesWithDoublingBackoff(t *testing.T) {
	var delays []time.Duration
	d := NewDispatcher(logging.NewNop(), WithSleeper(func(delay time.Duration) {
		delays = append(delays, delay)
	}))

	rateLimited := providerErr("fake", KindRateLimited, "slow down")
	provider := &fakeProvider{results: []error{rateLimited, rateLimited, rateLimited}}

	_, err := d.complete(context.Background(), provider, []Message{UserMessage("hi")})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if provider.calls != 3 {
		t.Fatalf("calls = %d, want 3", provider.calls)
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("delays = %v, want [1s 2s]", delays)
	}
	if KindOf(err) != KindRateLimited {
		t.Fatalf("kind = %v", KindOf(err))
	}
}

func TestCompleteSucceedsAfterTransientFailure(t *testing.T) {
	d := NewDispatcher(logging.NewNop(), WithSleeper(func(time.Duration) {}))
	provider := &fakeProvider{
		results: []error{providerErr("fake", KindUnknown, "blip")},
		content: "answer",
	}

	got, err := d.complete(context.Background(), provider, []Message{UserMessage("hi")})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "answer" {
		t.Fatalf("content = %q", got)
	}
	if provider.calls != 2 {
		t.Fatalf("calls = %d, want 2", provider.calls)
	}
}

func TestCompleteAnnouncesEachAttempt(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	d := NewDispatcher(logger, WithSleeper(func(time.Duration) {}))

	rateLimited := providerErr("fake", KindRateLimited, "slow down")
	provider := &fakeProvider{results: []error{rateLimited, rateLimited, rateLimited}}

	_, _ = d.complete(context.Background(), provider, []Message{UserMessage("hi")})

	out := buf.String()
	for attempt := 1; attempt <= 3; attempt++ {
		marker := fmt.Sprintf("attempt=%d", attempt)
		if !strings.Contains(out, marker) {
			t.Errorf("log missing %q:\n%s", marker, out)
		}
	}
}

func TestCompleteDoesNotRetryMissingCredential(t *testing.T) {
	d := NewDispatcher(logging.NewNop(), WithSleeper(func(time.Duration) {
		t.Fatal("should not sleep for non-retryable error")
	}))
	provider := &fakeProvider{
		results: []error{providerErr("fake", KindMissingCredential, "no key")},
	}

	_, err := d.complete(context.Background(), provider, []Message{UserMessage("hi")})
	if err == nil {
		t.Fatal("expected error")
	}
	if provider.calls != 1 {
		t.Fatalf("calls = %d, want 1", provider.calls)
	}
	if KindOf(err) != KindMissingCredential {
		t.Fatalf("kind = %v", KindOf(err))
	}
}

func TestCompleteStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(logging.NewNop(), WithSleeper(func(time.Duration) { cancel() }))
	provider := &fakeProvider{results: []error{
		providerErr("fake", KindUnknown, "blip"),
		providerErr("fake", KindUnknown, "blip"),
	}}

	_, err := d.complete(ctx, provider, []Message{UserMessage("hi")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if provider.calls != 1 {
		t.Fatalf("calls = %d, want 1", provider.calls)
	}
}

func TestProviderForUnknownProvider(t *testing.T) {
	d := NewDispatcher(logging.NewNop())
	_, err := d.ProviderFor(settings.Settings{Provider: "bedrock"})
	if KindOf(err) != KindUnknownProvider {
		t.Fatalf("kind = %v, want KindUnknownProvider", KindOf(err))
	}
	if Retryable(err) {
		t.Fatal("unknown provider must not be retryable")
	}
}

func TestProviderForMissingCredentials(t *testing.T) {
	d := NewDispatcher(logging.NewNop())
	cases := []settings.Settings{
		{Provider: "openai"},
		{Provider: "huggingface"},
		{Provider: "gemini"},
		{Provider: "ollama"},
	}
	for _, cfg := range cases {
		_, err := d.ProviderFor(cfg)
		if KindOf(err) != KindMissingCredential {
			t.Errorf("%s: kind = %v, want KindMissingCredential", cfg.Provider, KindOf(err))
		}
		if Retryable(err) {
			t.Errorf("%s: missing credential must not be retryable", cfg.Provider)
		}
	}
}

func TestRetryableClassification(t *testing.T) {
	retryable := []ErrorKind{KindUnknown, KindInvalidCredential, KindRateLimited,
		KindContentTooLarge, KindModelNotFound, KindModelNotSupported, KindAccessDenied, KindMalformed}
	for _, kind := range retryable {
		if !Retryable(providerErr("p", kind, "x")) {
			t.Errorf("%v should be retryable", kind)
		}
	}
	if !Retryable(errors.New("plain transport error")) {
		t.Error("plain errors should be retryable")
	}
}

func TestFoldToPrompt(t *testing.T) {
	prompt := foldToPrompt([]Message{
		SystemMessage("Be brief."),
		UserMessage("What is this video about?"),
		AssistantMessage("Cooking."),
	})
	want := "System: Be brief.\n\nUser: What is this video about?\n\nAssistant: Cooking.\n\nAssistant:"
	if prompt != want {
		t.Fatalf("prompt = %q, want %q", prompt, want)
	}
}
