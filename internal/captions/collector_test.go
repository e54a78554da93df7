package captions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tubelens/internal/browser"
	"tubelens/internal/logging"
)

type fakeController struct {
	selected  []string
	selectErr error

	sightings []browser.Sighting
	sampleIdx int
	sampleErr error

	panelHTML string
	panelErr  error

	tracks    []browser.PlayerTrack
	tracksErr error
}

func (f *fakeController) TranscriptPanelHTML(ctx context.Context) (string, error) {
	return f.panelHTML, f.panelErr
}

func (f *fakeController) ListPlayerTracks(ctx context.Context) ([]browser.PlayerTrack, error) {
	return f.tracks, f.tracksErr
}

func (f *fakeController) SelectPlayerTrack(ctx context.Context, code string) error {
	f.selected = append(f.selected, code)
	return f.selectErr
}

func (f *fakeController) SampleCaption(ctx context.Context) (browser.Sighting, error) {
	if f.sampleErr != nil {
		return browser.Sighting{}, f.sampleErr
	}
	if f.sampleIdx < len(f.sightings) {
		s := f.sightings[f.sampleIdx]
		f.sampleIdx++
		return s, nil
	}
	// Past the scripted samples the overlay is empty.
	return browser.Sighting{Playing: true}, nil
}

func fastCollectorConfig() CollectorConfig {
	return CollectorConfig{
		PollInterval: time.Millisecond,
		Grace:        10 * time.Millisecond,
		Idle:         5 * time.Millisecond,
		MaxDuration:  30 * time.Millisecond,
	}
}

func TestCollectorDeduplicatesAndStopsOnIdle(t *testing.T) {
	ctrl := &fakeController{
		sightings: []browser.Sighting{
			{Text: "hello there", PlaybackSeconds: 1.2, Playing: true},
			{Text: "hello there", PlaybackSeconds: 1.7, Playing: true},
			{Text: "general kenobi", PlaybackSeconds: 3.4, Playing: true},
		},
	}
	collector := NewCollector(ctrl, fastCollectorConfig(), logging.NewNop())

	transcript, err := collector.Collect(context.Background(), "en")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := "[0:01] hello there\n[0:03] general kenobi"
	if transcript != want {
		t.Fatalf("transcript = %q, want %q", transcript, want)
	}
	if len(ctrl.selected) != 1 || ctrl.selected[0] != "en" {
		t.Fatalf("selected = %v", ctrl.selected)
	}
}

func TestCollectorGracePeriodExpires(t *testing.T) {
	ctrl := &fakeController{}
	collector := NewCollector(ctrl, fastCollectorConfig(), logging.NewNop())

	_, err := collector.Collect(context.Background(), "ta")
	if !errors.Is(err, ErrNoCaptionsObserved) {
		t.Fatalf("err = %v, want ErrNoCaptionsObserved", err)
	}
	if ctrl.sampleIdx != 0 {
		t.Fatalf("scripted sightings consumed = %d", ctrl.sampleIdx)
	}
}

func TestCollectorHardCap(t *testing.T) {
	// Every sample produces fresh text, so only the hard cap stops the run.
	var sightings []browser.Sighting
	for i := 0; i < 100; i++ {
		sightings = append(sightings, browser.Sighting{
			Text:            strings.Repeat("x", i+1),
			PlaybackSeconds: float64(i),
			Playing:         true,
		})
	}
	ctrl := &fakeController{sightings: sightings}
	collector := NewCollector(ctrl, fastCollectorConfig(), logging.NewNop())

	transcript, err := collector.Collect(context.Background(), "en")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	lines := strings.Split(transcript, "\n")
	// 30ms cap at 1ms polls bounds the run at 31 samples.
	if len(lines) > 31 {
		t.Fatalf("lines = %d, hard cap did not hold", len(lines))
	}
}

func TestCollectorPropagatesSelectError(t *testing.T) {
	ctrl := &fakeController{selectErr: errors.New("menu not found")}
	collector := NewCollector(ctrl, fastCollectorConfig(), logging.NewNop())

	_, err := collector.Collect(context.Background(), "en")
	if err == nil || !strings.Contains(err.Error(), "menu not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestCollectorStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl := &fakeController{}
	collector := NewCollector(ctrl, fastCollectorConfig(), logging.NewNop())

	_, err := collector.Collect(ctx, "en")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFormatPlaybackTime(t *testing.T) {
	cases := map[float64]string{
		0:      "0:00",
		71.9:   "1:11",
		3671.2: "1:01:11",
	}
	for input, want := range cases {
		if got := formatPlaybackTime(input); got != want {
			t.Errorf("formatPlaybackTime(%v) = %q, want %q", input, got, want)
		}
	}
}
