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

// ollamaProvider talks to a local Ollama server's chat endpoint. No
// credential is involved; the endpoint itself is the configuration.
type ollamaProvider struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func newOllamaProvider(endpoint, model string, httpClient *http.Client) *ollamaProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ollamaProvider{
		endpoint:   strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		model:      strings.TrimSpace(model),
		httpClient: httpClient,
	}
}

func (p *ollamaProvider) Name() string { return "ollama" }

type ollamaRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

func (p *ollamaProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := ollamaRequest{Model: p.model, Messages: messages, Stream: false}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/chat", bytes.NewReader(encoded))
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, err)
	}
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
		message := fmt.Sprintf("status code %d", resp.StatusCode)
		var parsed ollamaResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			message = parsed.Error
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return "", providerErr(p.Name(), KindModelNotFound, "%s (is the model pulled and the server running?)", message)
		case http.StatusBadRequest:
			return "", providerErr(p.Name(), KindModelNotSupported, "%s", message)
		default:
			return "", providerErr(p.Name(), KindUnknown, "%s", message)
		}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", providerErr(p.Name(), KindMalformed, "decode response: %v", err)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", providerErr(p.Name(), KindMalformed, "response has empty message content")
	}
	return parsed.Message.Content, nil
}
