package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Segment is one transcript panel row.
type Segment struct {
	Timestamp string
	Text      string
}

// ErrEmptyPanel is returned when the panel HTML contains no usable segments.
var ErrEmptyPanel = errors.New("transcript panel has no segments")

// ParseTranscriptPanel extracts timestamped segments from transcript panel
// HTML. Rows missing either a timestamp or text are skipped.
func ParseTranscriptPanel(html string) ([]Segment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse panel html: %w", err)
	}

	var segments []Segment
	doc.Find("ytd-transcript-segment-renderer").Each(func(_ int, row *goquery.Selection) {
		timestamp := strings.TrimSpace(row.Find(".segment-timestamp").First().Text())
		text := strings.TrimSpace(row.Find(".segment-text").First().Text())
		if timestamp == "" || text == "" {
			return
		}
		segments = append(segments, Segment{Timestamp: timestamp, Text: text})
	})

	if len(segments) == 0 {
		return nil, ErrEmptyPanel
	}
	return segments, nil
}

// FormatSegments renders segments as "[timestamp] text" lines, the shape the
// analysis prompts expect.
func FormatSegments(segments []Segment) string {
	lines := make([]string, 0, len(segments))
	for _, segment := range segments {
		lines = append(lines, fmt.Sprintf("[%s] %s", segment.Timestamp, segment.Text))
	}
	return strings.Join(lines, "\n")
}
