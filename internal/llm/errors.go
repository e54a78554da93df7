package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	// KindUnknown covers failures with no more specific classification.
	KindUnknown ErrorKind = iota
	// KindUnknownProvider means the configured provider name is not recognized.
	KindUnknownProvider
	// KindMissingCredential means the provider has no API key configured.
	KindMissingCredential
	// KindInvalidCredential means the provider rejected the API key.
	KindInvalidCredential
	// KindRateLimited means the provider throttled the request.
	KindRateLimited
	// KindContentTooLarge means the input exceeded the model context window.
	KindContentTooLarge
	// KindModelNotFound means the requested model does not exist.
	KindModelNotFound
	// KindModelNotSupported means the model exists but rejects this request.
	KindModelNotSupported
	// KindAccessDenied means the credential lacks permission for the model.
	KindAccessDenied
	// KindMalformed means the provider returned a response with an
	// unexpected shape.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnknownProvider:
		return "unknown_provider"
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindRateLimited:
		return "rate_limited"
	case KindContentTooLarge:
		return "content_too_large"
	case KindModelNotFound:
		return "model_not_found"
	case KindModelNotSupported:
		return "model_not_supported"
	case KindAccessDenied:
		return "access_denied"
	case KindMalformed:
		return "malformed_response"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ProviderError describes a failure from a specific provider.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(provider string, kind ErrorKind, format string, args ...any) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapProviderErr(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// KindOf extracts the error kind, returning KindUnknown for errors that are
// not ProviderErrors.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// Retryable reports whether a retry could plausibly succeed. Configuration
// problems (unknown provider, missing credential) never are; everything
// else, including rate limits and transport errors, is retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindUnknownProvider, KindMissingCredential:
		return false
	}
	return true
}
