// Package core is the request facade over the analysis pipelines.
//
// Every operation loads a fresh settings snapshot, consults its result
// cache, and on miss drives the matching pipeline before writing the result
// through. The three caches are independent and keyed so concurrent requests
// can never bleed into each other's entries: transcripts by video id,
// comment analyses by video id and provider, answers by video id, query and
// provider.
package core
