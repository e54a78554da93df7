package browser

import (
	"errors"
	"testing"
)

const panelHTML = `
<div id="segments-container">
  <ytd-transcript-segment-renderer>
    <div class="segment-timestamp">0:01</div>
    <yt-formatted-string class="segment-text">welcome back to the channel</yt-formatted-string>
  </ytd-transcript-segment-renderer>
  <ytd-transcript-segment-renderer>
    <div class="segment-timestamp">0:05</div>
    <yt-formatted-string class="segment-text">today we cover sourdough</yt-formatted-string>
  </ytd-transcript-segment-renderer>
  <ytd-transcript-segment-renderer>
    <div class="segment-timestamp">0:09</div>
    <yt-formatted-string class="segment-text"> </yt-formatted-string>
  </ytd-transcript-segment-renderer>
</div>`

func TestParseTranscriptPanel(t *testing.T) {
	segments, err := ParseTranscriptPanel(panelHTML)
	if err != nil {
		t.Fatalf("ParseTranscriptPanel: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("segments = %+v", segments)
	}
	if segments[0].Timestamp != "0:01" || segments[0].Text != "welcome back to the channel" {
		t.Errorf("segment[0] = %+v", segments[0])
	}
}

func TestParseTranscriptPanelEmpty(t *testing.T) {
	_, err := ParseTranscriptPanel("<div>no transcript here</div>")
	if !errors.Is(err, ErrEmptyPanel) {
		t.Fatalf("err = %v, want ErrEmptyPanel", err)
	}
}

func TestFormatSegments(t *testing.T) {
	got := FormatSegments([]Segment{
		{Timestamp: "0:01", Text: "hello"},
		{Timestamp: "0:05", Text: "world"},
	})
	want := "[0:01] hello\n[0:05] world"
	if got != want {
		t.Fatalf("FormatSegments = %q, want %q", got, want)
	}
}
