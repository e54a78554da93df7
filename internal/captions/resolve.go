package captions

import (
	"tubelens/internal/language"
	"tubelens/internal/youtube"
)

// Resolution is the outcome of matching available tracks against the user's
// preferred languages.
type Resolution struct {
	// Tracks to download, at most one per preferred language.
	Tracks []youtube.CaptionTrack
	// Missing preferred languages with no track at all.
	Missing []string
	// Available lists every track language on the video.
	Available []string
}

// Resolve picks the tracks to fetch. For each preferred language a manually
// uploaded track wins over an auto-generated one; a language with neither is
// reported missing. When nothing matches any preference, the first track on
// the video is used so the pipeline still produces a transcript.
func Resolve(tracks []youtube.CaptionTrack, preferred []string) Resolution {
	resolution := Resolution{}
	for _, track := range tracks {
		resolution.Available = append(resolution.Available, track.Language)
	}

	selected := make(map[string]struct{})
	for _, want := range preferred {
		var manual, asr *youtube.CaptionTrack
		for i := range tracks {
			track := &tracks[i]
			if !language.Matches(track.Language, want) {
				continue
			}
			if track.IsASR() {
				if asr == nil {
					asr = track
				}
			} else if manual == nil {
				manual = track
			}
		}

		pick := manual
		if pick == nil {
			pick = asr
		}
		if pick == nil {
			resolution.Missing = append(resolution.Missing, want)
			continue
		}
		if _, dup := selected[pick.ID]; dup {
			continue
		}
		selected[pick.ID] = struct{}{}
		resolution.Tracks = append(resolution.Tracks, *pick)
	}

	if len(resolution.Tracks) == 0 && len(tracks) > 0 {
		resolution.Tracks = append(resolution.Tracks, tracks[0])
	}
	return resolution
}

// ResolveAll picks the best track for every language the video offers,
// manual uploads beating auto-generated ones, in the order languages first
// appear in the track list.
func ResolveAll(tracks []youtube.CaptionTrack) []youtube.CaptionTrack {
	var order []string
	best := make(map[string]youtube.CaptionTrack)
	for _, track := range tracks {
		code := language.Normalize(track.Language)
		current, ok := best[code]
		if !ok {
			best[code] = track
			order = append(order, code)
			continue
		}
		if current.IsASR() && !track.IsASR() {
			best[code] = track
		}
	}

	out := make([]youtube.CaptionTrack, 0, len(order))
	for _, code := range order {
		out = append(out, best[code])
	}
	return out
}
