package browser

import "context"

// PlayerTrack is one caption track offered by the player settings menu.
type PlayerTrack struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Sighting is one observation of the player's caption overlay.
type Sighting struct {
	// Text is the currently rendered caption text, empty when no caption
	// is on screen.
	Text string `json:"text"`
	// PlaybackSeconds is the player's current playback position.
	PlaybackSeconds float64 `json:"playback_seconds"`
	// Playing reports whether the video is advancing.
	Playing bool `json:"playing"`
}

// Controller drives the YouTube tab. Implementations execute each call
// against the live page; the zero-network manual transcript path never
// invokes it.
type Controller interface {
	// TranscriptPanelHTML opens the transcript panel and returns its HTML.
	TranscriptPanelHTML(ctx context.Context) (string, error)
	// ListPlayerTracks enumerates caption tracks in the player menu.
	ListPlayerTracks(ctx context.Context) ([]PlayerTrack, error)
	// SelectPlayerTrack switches the player to the given caption track.
	SelectPlayerTrack(ctx context.Context, code string) error
	// SampleCaption reads the caption overlay once.
	SampleCaption(ctx context.Context) (Sighting, error)
}
