package rag

import (
	"regexp"
	"sort"
	"strings"
)

const (
	maxSelectedChunks = 3
	maxSources        = 5
	maxKeywords       = 10
	minKeywordLength  = 4
)

// queryStopwords are interrogative and connective words that carry no
// retrieval signal when scoring chunks against a question.
var queryStopwords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true, "whose": true,
	"that": true, "this": true, "these": true, "those": true, "with": true,
	"from": true, "does": true, "about": true, "have": true, "will": true,
	"would": true, "could": true, "should": true, "there": true, "their": true,
	"they": true, "them": true, "then": true, "than": true, "your": true,
	"into": true, "been": true, "being": true, "were": true, "very": true,
}

// answerStopwords extends queryStopwords with words common in model prose
// that would otherwise dominate keyword fallback matching.
var answerStopwords = func() map[string]bool {
	extra := []string{
		"also", "because", "however", "therefore", "mentioned", "mentions",
		"transcript", "timestamp", "according", "answer", "question",
		"video", "says", "said", "states", "stated", "speaker", "explains",
		"based", "around", "appears", "seems", "specifically",
	}
	words := make(map[string]bool, len(queryStopwords)+len(extra))
	for w := range queryStopwords {
		words[w] = true
	}
	for _, w := range extra {
		words[w] = true
	}
	return words
}()

var (
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}']+`)
	timestampPattern = regexp.MustCompile(`\[(?:\d{1,2}:)?\d{1,2}:\d{2}\]`)
)

// keywordsFrom tokenizes text into lowercase words longer than three
// characters, dropping stopwords and duplicates while preserving order.
func keywordsFrom(text string, stopwords map[string]bool) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(word)) < minKeywordLength || stopwords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

// selectChunks ranks chunks by total keyword occurrence count and returns at
// most maxSelectedChunks, ties resolved by original chunk order.
func selectChunks(chunks []string, query string) []string {
	if len(chunks) <= maxSelectedChunks {
		return chunks
	}
	keywords := keywordsFrom(query, queryStopwords)
	if len(keywords) == 0 {
		return chunks[:maxSelectedChunks]
	}

	scores := make([]int, len(chunks))
	for i, chunk := range chunks {
		lower := strings.ToLower(chunk)
		for _, keyword := range keywords {
			scores[i] += strings.Count(lower, keyword)
		}
	}

	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make([]string, 0, maxSelectedChunks)
	for _, idx := range order[:maxSelectedChunks] {
		selected = append(selected, chunks[idx])
	}
	return selected
}

// extractSources resolves the model's bracketed timestamp citations back to
// transcript lines. When the answer cites nothing, it falls back to matching
// transcript lines against keywords drawn from the answer itself.
func extractSources(answer, transcript string) []string {
	lines := strings.Split(transcript, "\n")

	var sources []string
	seen := make(map[string]bool)
	appendSource := func(line string) bool {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			return len(sources) < maxSources
		}
		seen[line] = true
		sources = append(sources, line)
		return len(sources) < maxSources
	}

	for _, citation := range timestampPattern.FindAllString(answer, -1) {
		for _, line := range lines {
			if strings.Contains(line, citation) {
				if !appendSource(line) {
					return sources
				}
				break
			}
		}
	}
	if len(sources) > 0 {
		return sources
	}

	keywords := keywordsFrom(answer, answerStopwords)
	sort.SliceStable(keywords, func(a, b int) bool {
		return len(keywords[a]) > len(keywords[b])
	})
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				if !appendSource(line) {
					return sources
				}
				break
			}
		}
	}
	return sources
}
