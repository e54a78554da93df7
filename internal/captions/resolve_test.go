package captions

import (
	"reflect"
	"testing"

	"tubelens/internal/youtube"
)

func TestResolveReportsMissingPreferred(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{ID: "t-en", Language: "en", TrackKind: "standard"},
		{ID: "t-es", Language: "es", TrackKind: "asr"},
		{ID: "t-ja", Language: "ja", TrackKind: "standard"},
	}

	res := Resolve(tracks, []string{"en", "fr", "ja"})
	got := make([]string, 0, len(res.Tracks))
	for _, track := range res.Tracks {
		got = append(got, track.ID)
	}
	if want := []string{"t-en", "t-ja"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tracks = %v, want %v", got, want)
	}
	if want := []string{"fr"}; !reflect.DeepEqual(res.Missing, want) {
		t.Errorf("missing = %v, want %v", res.Missing, want)
	}
	if want := []string{"en", "es", "ja"}; !reflect.DeepEqual(res.Available, want) {
		t.Errorf("available = %v, want %v", res.Available, want)
	}
}

func TestResolvePrefersManualOverASR(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{ID: "t-asr", Language: "en", TrackKind: "asr"},
		{ID: "t-manual", Language: "en", TrackKind: "standard"},
	}

	res := Resolve(tracks, []string{"en"})
	if len(res.Tracks) != 1 || res.Tracks[0].ID != "t-manual" {
		t.Fatalf("tracks = %+v, want the manually uploaded track", res.Tracks)
	}
}

func TestResolveFallsBackToASR(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{ID: "t-asr", Language: "en", TrackKind: "asr"},
	}
	res := Resolve(tracks, []string{"en"})
	if len(res.Tracks) != 1 || res.Tracks[0].ID != "t-asr" {
		t.Fatalf("tracks = %+v", res.Tracks)
	}
}

func TestResolveMatchesRegionVariants(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{ID: "t-enus", Language: "en-US", TrackKind: "standard"},
	}
	res := Resolve(tracks, []string{"en"})
	if len(res.Tracks) != 1 || res.Tracks[0].ID != "t-enus" {
		t.Fatalf("tracks = %+v", res.Tracks)
	}
}

func TestResolveFallsBackToFirstTrack(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{ID: "t-ko", Language: "ko", TrackKind: "standard"},
		{ID: "t-ru", Language: "ru", TrackKind: "standard"},
	}
	res := Resolve(tracks, []string{"fr"})
	if len(res.Tracks) != 1 || res.Tracks[0].ID != "t-ko" {
		t.Fatalf("tracks = %+v, want first-track fallback", res.Tracks)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "fr" {
		t.Fatalf("missing = %v", res.Missing)
	}
}

func TestResolveAllPrefersManualPerLanguage(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{ID: "t-en-asr", Language: "en", TrackKind: "asr"},
		{ID: "t-ko", Language: "ko", TrackKind: "standard"},
		{ID: "t-en", Language: "en", TrackKind: "standard"},
	}
	got := ResolveAll(tracks)
	if len(got) != 2 || got[0].ID != "t-en" || got[1].ID != "t-ko" {
		t.Fatalf("tracks = %+v", got)
	}
}
