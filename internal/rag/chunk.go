package rag

const (
	// DefaultChunkSize is used when the configured size is missing or
	// implausibly small.
	DefaultChunkSize = 1000
	minChunkSize     = 100
)

// normalizeChunking clamps size and overlap to workable values. Overlap
// defaults to 20% of the chunk size when unset or implausibly small, and may
// never reach the size itself, which would stall the window.
func normalizeChunking(size, overlap int) (int, int) {
	if size < minChunkSize {
		size = DefaultChunkSize
	}
	if overlap < size/10 || overlap >= size {
		overlap = size / 5
	}
	return size, overlap
}

// chunkTranscript splits text into overlapping windows. Each chunk starts
// size-overlap runes after the previous one; the final chunk may be shorter.
func chunkTranscript(text string, size, overlap int) []string {
	size, overlap = normalizeChunking(size, overlap)
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{text}
	}

	// One chunk per window start, including starts inside the tail already
	// covered by the previous chunk; only the end is clamped.
	stride := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
