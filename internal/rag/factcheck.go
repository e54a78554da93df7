package rag

import (
	"context"
	"fmt"
	"strings"

	"tubelens/internal/llm"
	"tubelens/internal/llmjson"
	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

const factCheckRawLimit = 500

// FactCheckResult is the structured verdict for a checked statement.
type FactCheckResult struct {
	Verdict     string  `json:"verdict"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// FactCheck asks the configured provider to verify text. An unparseable
// model response degrades to an Unverifiable verdict carrying the raw
// output instead of failing the operation.
func (s *Service) FactCheck(ctx context.Context, cfg settings.Settings, text string) (*FactCheckResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("rag: fact check text required")
	}
	if _, err := s.dispatcher.ProviderFor(cfg); err != nil {
		return nil, err
	}

	messages := []llm.Message{
		llm.SystemMessage("You are a fact-checker. Analyze the given text and provide a structured response with verdict, confidence, and explanation."),
		llm.UserMessage(`Please fact check this text and provide your analysis in valid JSON format with fields "verdict" (string: "True", "False", "Partially True", "Unverifiable"), "confidence" (number between 0-1), and "explanation" (string). Here's the text: ` + text),
	}

	content, err := s.dispatcher.Complete(ctx, cfg, messages)
	if err != nil {
		return nil, fmt.Errorf("rag: fact check: %w", err)
	}

	var result FactCheckResult
	if _, err := llmjson.Decode(content, &result); err != nil {
		s.logger.Warn("fact check response unparseable, degrading to unverifiable",
			logging.String("response", llmjson.Snippet(content)))
		return &FactCheckResult{
			Verdict:     "Unverifiable",
			Confidence:  0,
			Explanation: "Error parsing LLM response. Raw response: " + llmjson.Truncate(content, factCheckRawLimit),
		}, nil
	}
	return &result, nil
}
