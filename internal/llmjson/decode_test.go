package llmjson

import (
	"strings"
	"testing"
)

type sentimentPayload struct {
	Positive int      `json:"positive"`
	Themes   []string `json:"themes"`
}

func TestDecodeStrict(t *testing.T) {
	var parsed sentimentPayload
	kind, err := Decode(`{"positive": 3, "themes": ["pacing"]}`, &parsed)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != Strict {
		t.Fatalf("kind = %v, want Strict", kind)
	}
	if parsed.Positive != 3 || len(parsed.Themes) != 1 {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestDecodeStripsCodeFence(t *testing.T) {
	content := "```json\n{\"positive\": 1, \"themes\": []}\n```"
	var parsed sentimentPayload
	kind, err := Decode(content, &parsed)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != Extracted {
		t.Fatalf("kind = %v, want Extracted", kind)
	}
	if parsed.Positive != 1 {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestDecodeExtractsEmbeddedObject(t *testing.T) {
	content := "Sure! Here is the analysis you asked for: {\"positive\": 7, \"themes\": [\"audio\"]} Hope that helps."
	var parsed sentimentPayload
	kind, err := Decode(content, &parsed)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != Extracted {
		t.Fatalf("kind = %v, want Extracted", kind)
	}
	if parsed.Positive != 7 || parsed.Themes[0] != "audio" {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestDecodeExtractsEmbeddedArray(t *testing.T) {
	content := "The keywords are: [\"tutorial\", \"golang\"]"
	var keywords []string
	kind, err := Decode(content, &keywords)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != Extracted {
		t.Fatalf("kind = %v, want Extracted", kind)
	}
	if len(keywords) != 2 {
		t.Fatalf("keywords = %v", keywords)
	}
}

func TestDecodeFailsWithoutBraces(t *testing.T) {
	var parsed sentimentPayload
	kind, err := Decode("I could not produce JSON for this request.", &parsed)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind != Failed {
		t.Fatalf("kind = %v, want Failed", kind)
	}
}

func TestDecodeEmpty(t *testing.T) {
	var parsed sentimentPayload
	if kind, err := Decode("   ", &parsed); err == nil || kind != Failed {
		t.Fatalf("kind=%v err=%v, want failure", kind, err)
	}
}

func TestSnippetCollapsesWhitespaceAndTruncates(t *testing.T) {
	got := Snippet("line one\nline\ttwo")
	if got != "line one line two" {
		t.Fatalf("Snippet = %q", got)
	}
	long := strings.Repeat("x", 500)
	if got := Snippet(long); len([]rune(got)) != 163 || !strings.HasSuffix(got, "...") {
		t.Fatalf("long snippet = %q (len %d)", got, len([]rune(got)))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("ab", 500); got != "ab" {
		t.Fatalf("Truncate = %q", got)
	}
}
