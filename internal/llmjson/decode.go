package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind reports how a payload was recovered from completion text.
type Kind int

const (
	// Strict means the payload parsed as-is.
	Strict Kind = iota
	// Extracted means the payload parsed only after stripping fences or
	// extracting the outermost JSON value from surrounding prose.
	Extracted
	// Failed means no JSON value could be recovered.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Strict:
		return "strict"
	case Extracted:
		return "extracted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Decode unmarshals JSON from content into target, tolerating common model
// formatting quirks. The returned Kind reports whether recovery was needed.
func Decode(content string, target any) (Kind, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Failed, errors.New("empty payload")
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return Strict, nil
	}

	sanitized := sanitize(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return Failed, fmt.Errorf("%w (payload snippet: %s)", directErr, Snippet(trimmed))
	}

	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return Failed, fmt.Errorf("%w (sanitized payload snippet: %s)", err, Snippet(sanitized))
	}
	return Extracted, nil
}

func sanitize(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	if start := strings.Index(trimmed, "["); start >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// Snippet condenses content into a single short line suitable for logs and
// degraded results.
func Snippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := replacer.Replace(trimmed)
	clean = strings.Join(strings.Fields(clean), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}

// Truncate bounds raw model output carried inside degraded results.
func Truncate(content string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}
