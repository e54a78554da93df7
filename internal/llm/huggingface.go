package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

// huggingfaceProvider talks to the Hugging Face Inference API. The API is a
// text-generation endpoint, so the chat message list is folded into a single
// prompt string.
type huggingfaceProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func newHuggingFaceProvider(apiKey, model, baseURL string, httpClient *http.Client) *huggingfaceProvider {
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &huggingfaceProvider{
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (p *huggingfaceProvider) Name() string { return "huggingface" }

type huggingfaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingfaceParameters `json:"parameters"`
}

type huggingfaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

func (p *huggingfaceProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := huggingfaceRequest{
		Inputs: foldToPrompt(messages),
		Parameters: huggingfaceParameters{
			MaxNewTokens:   512,
			Temperature:    0.7,
			ReturnFullText: false,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, fmt.Errorf("encode request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/models/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		message := extractErrorField(body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", providerErr(p.Name(), KindInvalidCredential, "invalid API key: %s", message)
		case http.StatusTooManyRequests:
			return "", providerErr(p.Name(), KindRateLimited, "rate limit exceeded: %s", message)
		case http.StatusNotFound:
			return "", providerErr(p.Name(), KindModelNotFound, "model %q not found", p.model)
		default:
			return "", providerErr(p.Name(), KindUnknown, "http %d: %s", resp.StatusCode, message)
		}
	}

	// Response shape varies by model; the common case is an array of
	// generated_text objects.
	var generations []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &generations); err == nil && len(generations) > 0 && generations[0].GeneratedText != "" {
		return generations[0].GeneratedText, nil
	}
	if !json.Valid(body) {
		return "", providerErr(p.Name(), KindMalformed, "non-JSON response: %s", truncateForError(body))
	}
	// Unexpected but valid JSON passes through for the caller's JSON recovery.
	return string(body), nil
}

func extractErrorField(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return truncateForError(body)
}

func truncateForError(body []byte) string {
	text := strings.TrimSpace(string(body))
	const limit = 200
	if len(text) > limit {
		return text[:limit]
	}
	return text
}
