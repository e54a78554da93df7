package captions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Caption is one parsed SRT cue.
type Caption struct {
	Index     int
	StartTime string
	Text      string
}

var startTimePattern = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}),\d{3}`)

// ParseSRT parses SRT content into cues. Blocks with fewer than three lines
// (index, timing, text) are skipped.
func ParseSRT(content string) []Caption {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(normalized, "\n\n")

	var captions []Caption
	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		index, _ := strconv.Atoi(strings.TrimSpace(lines[0]))
		timing := strings.TrimSpace(lines[1])

		textParts := make([]string, 0, len(lines)-2)
		for _, line := range lines[2:] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				textParts = append(textParts, trimmed)
			}
		}
		text := strings.Join(textParts, " ")
		if text == "" {
			continue
		}

		startTime := timing
		if match := startTimePattern.FindStringSubmatch(timing); match != nil {
			startTime = match[1]
		}

		captions = append(captions, Caption{Index: index, StartTime: startTime, Text: text})
	}
	return captions
}

// TranscriptFromSRT renders SRT content as "[HH:MM:SS] text" lines.
func TranscriptFromSRT(content string) string {
	captions := ParseSRT(content)
	lines := make([]string, 0, len(captions))
	for _, caption := range captions {
		lines = append(lines, fmt.Sprintf("[%s] %s", caption.StartTime, caption.Text))
	}
	return strings.Join(lines, "\n")
}
