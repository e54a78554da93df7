package rag

import (
	"strings"
	"testing"
)

func TestChunkTranscriptStartOffsets(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := chunkTranscript(text, 1000, 200)

	// Stride is size-overlap: starts at 0, 800, 1600, 2400.
	if len(chunks) != 4 {
		t.Fatalf("chunks = %d, want 4", len(chunks))
	}
	for i, chunk := range chunks[:3] {
		if len(chunk) != 1000 {
			t.Errorf("chunk[%d] len = %d", i, len(chunk))
		}
	}
	if len(chunks[3]) != 100 {
		t.Errorf("final chunk len = %d, want 100", len(chunks[3]))
	}
}

func TestChunkTranscriptShortTextIsSingleChunk(t *testing.T) {
	chunks := chunkTranscript("short transcript", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "short transcript" {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestChunkTranscriptEmpty(t *testing.T) {
	if chunks := chunkTranscript("", 1000, 200); chunks != nil {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestNormalizeChunking(t *testing.T) {
	cases := []struct {
		size, overlap         int
		wantSize, wantOverlap int
	}{
		{1000, 200, 1000, 200},
		{0, 0, 1000, 200},
		{50, 10, 1000, 200},
		{1000, 10, 1000, 200},
		{500, 0, 500, 100},
		{500, 600, 500, 100},
	}
	for _, tc := range cases {
		size, overlap := normalizeChunking(tc.size, tc.overlap)
		if size != tc.wantSize || overlap != tc.wantOverlap {
			t.Errorf("normalizeChunking(%d, %d) = (%d, %d), want (%d, %d)",
				tc.size, tc.overlap, size, overlap, tc.wantSize, tc.wantOverlap)
		}
	}
}

func TestChunkTranscriptOverlapRepeatsTail(t *testing.T) {
	text := strings.Repeat("x", 150) + strings.Repeat("y", 150)
	chunks := chunkTranscript(text, 200, 50)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d", len(chunks))
	}
	// The second chunk starts 150 in, repeating the first chunk's last 50 runes.
	if !strings.HasPrefix(chunks[1], chunks[0][150:]) {
		t.Error("overlap region not repeated at second chunk start")
	}
}
