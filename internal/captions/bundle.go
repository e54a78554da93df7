package captions

import (
	"fmt"
	"strings"

	"tubelens/internal/language"
)

// Acquisition methods recorded on a Bundle.
const (
	MethodManual = "manual"
	MethodAPI    = "api"
	MethodPanel  = "panel"
	MethodPlayer = "player"
)

// Track kinds recorded on a LanguageCaption.
const (
	KindStandard        = "standard"
	KindASR             = "asr"
	KindPanelExtracted  = "panel-extracted"
	KindPlayerExtracted = "player-extracted"
)

// LanguageCaption holds the transcript acquired for one language.
type LanguageCaption struct {
	Code            string
	Name            string
	Kind            string
	AudioTrackType  string
	Transcript      string
	IsAutoGenerated bool
	// IsAutoTranslated marks ASR tracks generated from a non-primary audio
	// track, i.e. machine-translated rather than transcribed.
	IsAutoTranslated bool
}

// FetchError records a track that could not be downloaded.
type FetchError struct {
	Language string
	Name     string
	Err      string
}

// Bundle is the result of caption acquisition for one video.
type Bundle struct {
	VideoID  string
	Method   string
	Captions map[string]LanguageCaption
	// Order preserves insertion order of Captions for deterministic
	// combined output.
	Order []string

	AvailableLanguages      []string
	MissingLanguages        []string
	LimitedSupportLanguages []string
	FetchErrors             []FetchError
	TotalTracksFound        int
}

func newBundle(videoID, method string) *Bundle {
	return &Bundle{
		VideoID:  videoID,
		Method:   method,
		Captions: make(map[string]LanguageCaption),
	}
}

func (b *Bundle) add(caption LanguageCaption) {
	if _, exists := b.Captions[caption.Code]; !exists {
		b.Order = append(b.Order, caption.Code)
	}
	b.Captions[caption.Code] = caption
}

// PrimaryLanguage returns the first acquired language code.
func (b *Bundle) PrimaryLanguage() string {
	if len(b.Order) == 0 {
		return ""
	}
	return b.Order[0]
}

// Languages returns the acquired language codes in insertion order.
func (b *Bundle) Languages() []string {
	return append([]string(nil), b.Order...)
}

// HasLimitedSupport reports whether any missing preferred language is one
// YouTube rarely auto-captions.
func (b *Bundle) HasLimitedSupport() bool {
	return len(b.LimitedSupportLanguages) > 0
}

// Combined renders the transcript used for prompting. A single language is
// returned bare; multiple languages are joined under a banner with one
// labeled section per language.
func (b *Bundle) Combined() string {
	if len(b.Order) == 0 {
		return ""
	}
	if len(b.Order) == 1 {
		return b.Captions[b.Order[0]].Transcript
	}

	var out strings.Builder
	out.WriteString("=== MULTI-LANGUAGE TRANSCRIPT ===\n\n")
	for _, code := range b.Order {
		caption := b.Captions[code]
		typeInfo := ""
		switch {
		case caption.IsAutoTranslated:
			typeInfo = " (Auto-translated)"
		case caption.IsAutoGenerated:
			typeInfo = " (Auto-generated)"
		}
		out.WriteString(fmt.Sprintf("--- %s (%s)%s ---\n",
			language.DisplayName(caption.Code), strings.ToUpper(caption.Code), typeInfo))
		out.WriteString(caption.Transcript)
		out.WriteString("\n\n")
	}
	return out.String()
}
