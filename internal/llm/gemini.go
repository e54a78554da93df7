package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiProvider talks to the Gemini generateContent API. Gemini has no
// system role, so the system message is folded into the first user part and
// assistant turns are sent with role "model".
type geminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func newGeminiProvider(apiKey, model, baseURL string, httpClient *http.Client) *geminiProvider {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &geminiProvider{
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func toGeminiContents(messages []Message) []geminiContent {
	var contents []geminiContent
	var systemPrefix string
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemPrefix = msg.Content + "\n\n"
			break
		}
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			contents = append(contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: systemPrefix + msg.Content}},
			})
			systemPrefix = ""
		case RoleAssistant:
			contents = append(contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}
	if len(contents) == 0 && len(messages) > 0 {
		contents = []geminiContent{{Parts: []geminiPart{{Text: messages[len(messages)-1].Content}}}}
	}
	return contents
}

func (p *geminiProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := geminiRequest{
		Contents: toGeminiContents(messages),
		GenerationConfig: geminiGenConfig{
			MaxOutputTokens: 1000,
			Temperature:     0.7,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", wrapProviderErr(p.Name(), KindUnknown, fmt.Errorf("encode request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s",
		p.baseURL, p.model, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
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

	var parsed geminiResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil && resp.StatusCode == http.StatusOK {
		return "", providerErr(p.Name(), KindMalformed, "decode response: %v", unmarshalErr)
	}

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("status code %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		switch {
		case resp.StatusCode == http.StatusBadRequest &&
			(strings.Contains(message, "not found") || strings.Contains(message, "not supported")):
			return "", providerErr(p.Name(), KindModelNotSupported, "model %q is not available: %s", p.model, message)
		case resp.StatusCode == http.StatusForbidden:
			return "", providerErr(p.Name(), KindAccessDenied, "access denied: %s", message)
		case resp.StatusCode == http.StatusUnauthorized:
			return "", providerErr(p.Name(), KindInvalidCredential, "invalid API key: %s", message)
		case resp.StatusCode == http.StatusTooManyRequests:
			return "", providerErr(p.Name(), KindRateLimited, "rate limit exceeded: %s", message)
		default:
			return "", providerErr(p.Name(), KindUnknown, "%s", message)
		}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", providerErr(p.Name(), KindMalformed, "response has no candidates")
	}
	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", providerErr(p.Name(), KindMalformed, "response candidate has empty text")
	}
	return b.String(), nil
}
