package settings

import (
	"fmt"
	"strconv"
	"strings"

	"tubelens/internal/language"
)

// Setting keys accepted by Store.Set and returned by Store.Snapshot.
const (
	KeyProvider             = "provider"
	KeyOpenAIKey            = "openai_api_key"
	KeyOpenAIModel          = "openai_model"
	KeyHuggingFaceKey       = "huggingface_api_key"
	KeyHuggingFaceModel     = "huggingface_model"
	KeyGeminiKey            = "gemini_api_key"
	KeyGeminiModel          = "gemini_model"
	KeyOllamaEndpoint       = "ollama_endpoint"
	KeyOllamaModel          = "ollama_model"
	KeyYouTubeKey           = "youtube_api_key"
	KeyBatchSize            = "batch_size"
	KeyMaxComments          = "max_comments"
	KeyChunkSize            = "chunk_size"
	KeyChunkOverlap         = "chunk_overlap"
	KeyPreferredLanguages   = "preferred_languages"
	KeyFetchAllLanguages    = "fetch_all_languages"
	KeyBrowserExtraction    = "browser_extraction"
	KeyManualTranscriptMode = "manual_transcript_mode"
	KeyDefaultTranscript    = "default_transcript"
)

// Default values applied when a key is unset.
const (
	DefaultProvider         = "openai"
	DefaultOpenAIModel      = "gpt-3.5-turbo"
	DefaultHuggingFaceModel = "microsoft/DialoGPT-medium"
	DefaultGeminiModel      = "gemini-1.5-flash"
	DefaultOllamaEndpoint   = "http://localhost:11434"
	DefaultOllamaModel      = "llama2"
	DefaultBatchSize        = 25
	DefaultMaxComments      = 100
	DefaultChunkSize        = 1000
)

var providerValues = map[string]struct{}{
	"openai":      {},
	"huggingface": {},
	"gemini":      {},
	"ollama":      {},
}

// Settings is an immutable view of the stored settings with defaults applied.
type Settings struct {
	Provider             string
	OpenAIKey            string
	OpenAIModel          string
	HuggingFaceKey       string
	HuggingFaceModel     string
	GeminiKey            string
	GeminiModel          string
	OllamaEndpoint       string
	OllamaModel          string
	YouTubeKey           string
	BatchSize            int
	MaxComments          int
	ChunkSize            int
	ChunkOverlap         int
	PreferredLanguages   []string
	FetchAllLanguages    bool
	BrowserExtraction    bool
	ManualTranscriptMode bool
	DefaultTranscript    string
}

func defaults() Settings {
	return Settings{
		Provider:           DefaultProvider,
		OpenAIModel:        DefaultOpenAIModel,
		HuggingFaceModel:   DefaultHuggingFaceModel,
		GeminiModel:        DefaultGeminiModel,
		OllamaEndpoint:     DefaultOllamaEndpoint,
		OllamaModel:        DefaultOllamaModel,
		BatchSize:          DefaultBatchSize,
		MaxComments:        DefaultMaxComments,
		ChunkSize:          DefaultChunkSize,
		PreferredLanguages: language.DefaultPreferred(),
		BrowserExtraction:  true,
	}
}

// Keys returns every recognized setting key in display order.
func Keys() []string {
	return []string{
		KeyProvider,
		KeyOpenAIKey,
		KeyOpenAIModel,
		KeyHuggingFaceKey,
		KeyHuggingFaceModel,
		KeyGeminiKey,
		KeyGeminiModel,
		KeyOllamaEndpoint,
		KeyOllamaModel,
		KeyYouTubeKey,
		KeyBatchSize,
		KeyMaxComments,
		KeyChunkSize,
		KeyChunkOverlap,
		KeyPreferredLanguages,
		KeyFetchAllLanguages,
		KeyBrowserExtraction,
		KeyManualTranscriptMode,
		KeyDefaultTranscript,
	}
}

// Secret reports whether a key holds a credential that should be masked in
// CLI output and logs.
func Secret(key string) bool {
	switch key {
	case KeyOpenAIKey, KeyHuggingFaceKey, KeyGeminiKey, KeyYouTubeKey:
		return true
	}
	return false
}

func validateValue(key, value string) (string, error) {
	switch key {
	case KeyProvider:
		normalized := strings.ToLower(strings.TrimSpace(value))
		if _, ok := providerValues[normalized]; !ok {
			return "", fmt.Errorf("provider must be one of openai, huggingface, gemini, ollama; got %q", value)
		}
		return normalized, nil
	case KeyManualTranscriptMode, KeyFetchAllLanguages, KeyBrowserExtraction:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return strconv.FormatBool(parsed), nil
	case KeyBatchSize, KeyMaxComments, KeyChunkSize, KeyChunkOverlap:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%s must be an integer: %w", key, err)
		}
		if parsed <= 0 && key != KeyChunkOverlap {
			return "", fmt.Errorf("%s must be positive", key)
		}
		if parsed < 0 {
			return "", fmt.Errorf("%s must not be negative", key)
		}
		return strconv.Itoa(parsed), nil
	case KeyDefaultTranscript:
		return value, nil
	case KeyPreferredLanguages:
		parts := strings.Split(value, ",")
		normalized := language.NormalizeList(parts)
		if len(normalized) == 0 {
			return "", fmt.Errorf("%s must contain at least one language code", key)
		}
		return strings.Join(normalized, ","), nil
	case KeyOllamaEndpoint:
		trimmed := strings.TrimSpace(value)
		if trimmed != "" && !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
			return "", fmt.Errorf("%s must be an http(s) URL", key)
		}
		return strings.TrimRight(trimmed, "/"), nil
	case KeyOpenAIKey, KeyOpenAIModel, KeyHuggingFaceKey, KeyHuggingFaceModel,
		KeyGeminiKey, KeyGeminiModel, KeyOllamaModel, KeyYouTubeKey:
		return strings.TrimSpace(value), nil
	default:
		return "", fmt.Errorf("unknown setting %q", key)
	}
}

func applyValue(s *Settings, key, value string) {
	switch key {
	case KeyProvider:
		if value != "" {
			s.Provider = value
		}
	case KeyOpenAIKey:
		s.OpenAIKey = value
	case KeyOpenAIModel:
		if value != "" {
			s.OpenAIModel = value
		}
	case KeyHuggingFaceKey:
		s.HuggingFaceKey = value
	case KeyHuggingFaceModel:
		if value != "" {
			s.HuggingFaceModel = value
		}
	case KeyGeminiKey:
		s.GeminiKey = value
	case KeyGeminiModel:
		if value != "" {
			s.GeminiModel = value
		}
	case KeyOllamaEndpoint:
		if value != "" {
			s.OllamaEndpoint = value
		}
	case KeyOllamaModel:
		if value != "" {
			s.OllamaModel = value
		}
	case KeyYouTubeKey:
		s.YouTubeKey = value
	case KeyBatchSize:
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			s.BatchSize = n
		}
	case KeyMaxComments:
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			s.MaxComments = n
		}
	case KeyChunkSize:
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			s.ChunkSize = n
		}
	case KeyChunkOverlap:
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			s.ChunkOverlap = n
		}
	case KeyPreferredLanguages:
		if langs := language.NormalizeList(strings.Split(value, ",")); len(langs) > 0 {
			s.PreferredLanguages = langs
		}
	case KeyFetchAllLanguages:
		s.FetchAllLanguages = value == "true"
	case KeyBrowserExtraction:
		s.BrowserExtraction = value != "false"
	case KeyManualTranscriptMode:
		s.ManualTranscriptMode = value == "true"
	case KeyDefaultTranscript:
		s.DefaultTranscript = value
	}
}
