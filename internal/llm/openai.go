package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiProvider struct {
	client openai.Client
	model  string
}

func newOpenAIProvider(apiKey, model, baseURL string, httpClient *http.Client) *openaiProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		// The dispatcher owns retry policy.
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openaiProvider{
		client: openai.NewClient(opts...),
		model:  strings.TrimSpace(model),
	}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(0.7),
	}
	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return "", providerErr(p.Name(), KindMalformed, "response has no choices")
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", providerErr(p.Name(), KindMalformed, "response has empty message content")
	}
	return content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}
	return converted
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return wrapProviderErr("openai", KindUnknown, err)
	}
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		return wrapProviderErr("openai", KindInvalidCredential, err)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return wrapProviderErr("openai", KindRateLimited, err)
	case apiErr.StatusCode == http.StatusBadRequest && apiErr.Code == "context_length_exceeded":
		return wrapProviderErr("openai", KindContentTooLarge, err)
	case apiErr.StatusCode == http.StatusNotFound:
		return wrapProviderErr("openai", KindModelNotFound, err)
	default:
		return wrapProviderErr("openai", KindUnknown, err)
	}
}
