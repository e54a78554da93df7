// Package llm dispatches chat completions to the configured model provider.
//
// Four providers are supported: OpenAI, Hugging Face Inference, Google
// Gemini, and a local Ollama server. Callers build a role-tagged message
// list and the dispatcher handles provider selection, credential checks,
// request shaping, and retry with exponential backoff. Provider failures are
// classified into error kinds (invalid credential, rate limited, content too
// large, ...) so callers and the CLI can react without string matching.
//
// Providers that cannot take a system role (Hugging Face, Gemini) have the
// system message folded into the prompt in the shape their API expects.
package llm
