// Package comments fetches YouTube comment threads and runs LLM sentiment
// analysis over them in fixed-size batches.
//
// Batches that come back as unparseable JSON degrade gracefully: the whole
// batch is counted neutral and a marker theme flags the parsing failure while
// the raw model output is retained for inspection. Long runs pause briefly
// every few batches to avoid hammering the provider.
package comments
