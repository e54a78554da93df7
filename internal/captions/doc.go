// Package captions acquires video transcripts through a tiered pipeline.
//
// The tiers, in order of preference:
//
//  1. Manual mode: the user supplies the transcript text directly; no
//     network traffic of any kind.
//  2. Data API: caption tracks are listed and downloaded as SRT via the
//     YouTube Data API, honoring the user's language preference order.
//  3. Panel extraction: the browser host opens the on-page transcript panel
//     and returns its HTML for parsing.
//  4. Player collection: the browser host switches the player to a caption
//     track and the collector samples the caption overlay during playback.
//
// Results are normalized into a Bundle keyed by language, with a combined
// multi-language transcript for prompting.
package captions
