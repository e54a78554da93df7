package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

func testDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	base := []Option{
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(1),
	}
	return NewDispatcher(logging.NewNop(), append(base, opts...)...)
}

func TestOpenAIProviderRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var payload struct {
			Model       string    `json:"model"`
			Messages    []Message `json:"messages"`
			Temperature float64   `json:"temperature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model != "gpt-3.5-turbo" {
			t.Errorf("model = %q", payload.Model)
		}
		if payload.Temperature != 0.7 {
			t.Errorf("temperature = %v", payload.Temperature)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != RoleSystem {
			t.Errorf("messages = %+v", payload.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"the answer"}}]}`))
	}))
	defer server.Close()

	d := testDispatcher(t, WithEndpointOverrides(server.URL, "", ""))
	cfg := settings.Settings{Provider: "openai", OpenAIKey: "test-key", OpenAIModel: "gpt-3.5-turbo"}

	got, err := d.Complete(context.Background(), cfg, []Message{
		SystemMessage("Be helpful."),
		UserMessage("hi"),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "the answer" {
		t.Fatalf("content = %q", got)
	}
}

func TestOpenAIProviderClassifiesStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"unauthorized", 401, `{"error":{"message":"bad key"}}`, KindInvalidCredential},
		{"rate limited", 429, `{"error":{"message":"slow down"}}`, KindRateLimited},
		{"context too large", 400, `{"error":{"message":"too long","code":"context_length_exceeded"}}`, KindContentTooLarge},
		{"model missing", 404, `{"error":{"message":"no such model"}}`, KindModelNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			d := testDispatcher(t, WithEndpointOverrides(server.URL, "", ""))
			cfg := settings.Settings{Provider: "openai", OpenAIKey: "k", OpenAIModel: "m"}
			_, err := d.Complete(context.Background(), cfg, []Message{UserMessage("hi")})
			if KindOf(err) != tc.want {
				t.Fatalf("kind = %v (err %v), want %v", KindOf(err), err, tc.want)
			}
		})
	}
}

func TestHuggingFaceProviderFoldsPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/microsoft/DialoGPT-medium" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload huggingfaceRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.HasPrefix(payload.Inputs, "System: Be brief.") {
			t.Errorf("inputs = %q", payload.Inputs)
		}
		if !strings.HasSuffix(payload.Inputs, "Assistant:") {
			t.Errorf("inputs should end with open assistant turn: %q", payload.Inputs)
		}
		if payload.Parameters.MaxNewTokens != 512 || payload.Parameters.ReturnFullText {
			t.Errorf("parameters = %+v", payload.Parameters)
		}
		w.Write([]byte(`[{"generated_text":"folded reply"}]`))
	}))
	defer server.Close()

	d := testDispatcher(t, WithEndpointOverrides("", server.URL, ""))
	cfg := settings.Settings{Provider: "huggingface", HuggingFaceKey: "k", HuggingFaceModel: "microsoft/DialoGPT-medium"}

	got, err := d.Complete(context.Background(), cfg, []Message{
		SystemMessage("Be brief."),
		UserMessage("hi"),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "folded reply" {
		t.Fatalf("content = %q", got)
	}
}

func TestHuggingFaceProviderErrors(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorKind
	}{
		{401, KindInvalidCredential},
		{429, KindRateLimited},
		{404, KindModelNotFound},
		{500, KindUnknown},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":"nope"}`))
		}))
		d := testDispatcher(t, WithEndpointOverrides("", server.URL, ""))
		cfg := settings.Settings{Provider: "huggingface", HuggingFaceKey: "k", HuggingFaceModel: "m"}
		_, err := d.Complete(context.Background(), cfg, []Message{UserMessage("hi")})
		if KindOf(err) != tc.want {
			t.Errorf("status %d: kind = %v, want %v", tc.status, KindOf(err), tc.want)
		}
		server.Close()
	}
}

func TestGeminiProviderMessageShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-1.5-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "gem-key" {
			t.Errorf("key = %q", got)
		}
		var payload geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(payload.Contents) != 3 {
			t.Fatalf("contents = %+v", payload.Contents)
		}
		// System message folded into the first user part only.
		if !strings.HasPrefix(payload.Contents[0].Parts[0].Text, "Be brief.\n\n") {
			t.Errorf("first part = %q", payload.Contents[0].Parts[0].Text)
		}
		if payload.Contents[1].Role != "model" {
			t.Errorf("assistant role = %q, want model", payload.Contents[1].Role)
		}
		if strings.Contains(payload.Contents[2].Parts[0].Text, "Be brief.") {
			t.Errorf("system prefix leaked into later turn: %q", payload.Contents[2].Parts[0].Text)
		}
		if payload.GenerationConfig.MaxOutputTokens != 1000 {
			t.Errorf("maxOutputTokens = %d", payload.GenerationConfig.MaxOutputTokens)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"gem"},{"text":"ini"}]}}]}`))
	}))
	defer server.Close()

	d := testDispatcher(t, WithEndpointOverrides("", "", server.URL))
	cfg := settings.Settings{Provider: "gemini", GeminiKey: "gem-key", GeminiModel: "gemini-1.5-flash"}

	got, err := d.Complete(context.Background(), cfg, []Message{
		SystemMessage("Be brief."),
		UserMessage("first"),
		AssistantMessage("reply"),
		UserMessage("second"),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "gemini" {
		t.Fatalf("content = %q", got)
	}
}

func TestGeminiProviderModelNotSupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"models/gemini-pro is not found"}}`))
	}))
	defer server.Close()

	d := testDispatcher(t, WithEndpointOverrides("", "", server.URL))
	cfg := settings.Settings{Provider: "gemini", GeminiKey: "k", GeminiModel: "gemini-pro"}
	_, err := d.Complete(context.Background(), cfg, []Message{UserMessage("hi")})
	if KindOf(err) != KindModelNotSupported {
		t.Fatalf("kind = %v (err %v)", KindOf(err), err)
	}
}

func TestOllamaProviderRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Stream {
			t.Error("stream must be false")
		}
		if payload.Model != "llama2" {
			t.Errorf("model = %q", payload.Model)
		}
		w.Write([]byte(`{"message":{"role":"assistant","content":"local reply"}}`))
	}))
	defer server.Close()

	d := testDispatcher(t)
	cfg := settings.Settings{Provider: "ollama", OllamaEndpoint: server.URL, OllamaModel: "llama2"}

	got, err := d.Complete(context.Background(), cfg, []Message{UserMessage("hi")})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "local reply" {
		t.Fatalf("content = %q", got)
	}
}

func TestOllamaProviderModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'llama9' not found"}`))
	}))
	defer server.Close()

	d := testDispatcher(t)
	cfg := settings.Settings{Provider: "ollama", OllamaEndpoint: server.URL, OllamaModel: "llama9"}
	_, err := d.Complete(context.Background(), cfg, []Message{UserMessage("hi")})
	if KindOf(err) != KindModelNotFound {
		t.Fatalf("kind = %v (err %v)", KindOf(err), err)
	}
}
