// Package rag answers free-form questions about a video by retrieving
// relevant transcript excerpts and dispatching them to the configured LLM.
//
// Transcripts are split into overlapping chunks. Providers with small
// context windows get only the three chunks scoring highest on keyword
// overlap with the question; large-context providers get the whole
// transcript. After the model answers, bracketed timestamp citations are
// resolved back to transcript lines as sources, with a keyword-match
// fallback when the model cites nothing.
//
// The package also hosts the fact-check operation, which shares the
// dispatcher and the degraded-JSON handling but takes arbitrary text.
package rag
