package language

import (
	"strings"

	"golang.org/x/text/language"
)

var displayNames = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh":    "Chinese",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"it":    "Italian",
	"nl":    "Dutch",
	"sv":    "Swedish",
	"da":    "Danish",
	"no":    "Norwegian",
	"fi":    "Finnish",
	"pl":    "Polish",
	"tr":    "Turkish",
	"th":    "Thai",
	"vi":    "Vietnamese",
	"ta":    "Tamil",
	"te":    "Telugu",
	"bn":    "Bengali",
	"ur":    "Urdu",
	"ml":    "Malayalam",
	"kn":    "Kannada",
	"gu":    "Gujarati",
	"pa":    "Punjabi",
	"or":    "Oriya",
	"as":    "Assamese",
	"mr":    "Marathi",
}

// limitedSupport lists languages where YouTube rarely produces auto-generated
// captions, so their absence is expected rather than an error.
var limitedSupport = map[string]struct{}{}

func init() {
	codes := []string{
		"ta", "te", "bn", "ur", "ml", "kn", "gu", "pa", "or", "as", "mr",
		"my", "km", "lo", "si", "ne", "dv",
		"am", "ti", "om", "so", "sw", "zu", "xh", "af",
		"is", "fo", "ga", "cy", "mt", "lb", "eu", "ca",
		"he", "yi", "fa", "ps", "ku", "az", "kk", "ky", "uz", "tg", "tk",
		"ka", "hy", "be", "lv", "lt", "et", "mk", "bg", "hr", "sr", "bs", "sq", "sl",
		"id", "ms", "tl", "ceb", "haw", "mg", "sm", "to", "fj",
	}
	for _, code := range codes {
		limitedSupport[code] = struct{}{}
	}
}

// DefaultPreferred is the language preference order used when the user has
// not configured one.
func DefaultPreferred() []string {
	return []string{"en", "es", "fr", "de", "ja", "ko", "zh", "ar", "hi", "pt"}
}

// Normalize reduces a BCP-47 tag to the base code used for preference
// matching: "en-US" becomes "en", "pt-BR" becomes "pt". Chinese keeps its
// region so Simplified and Traditional tracks stay distinct. Unparseable
// input is lowercased and returned as-is.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return strings.ToLower(code)
	}
	if base.String() == "zh" {
		if region, regionConfidence := tag.Region(); regionConfidence >= language.High {
			switch region.String() {
			case "CN", "TW":
				return "zh-" + region.String()
			}
		}
		return "zh"
	}
	return base.String()
}

// Matches reports whether a track language satisfies a preferred language.
// Both sides are normalized; "zh-CN" and "zh-TW" both satisfy a plain "zh"
// preference.
func Matches(trackCode, preferred string) bool {
	track := Normalize(trackCode)
	want := Normalize(preferred)
	if track == "" || want == "" {
		return false
	}
	if track == want {
		return true
	}
	return want == "zh" && strings.HasPrefix(track, "zh-")
}

// DisplayName returns a human-readable name for a language code, falling
// back to the uppercased code for unrecognized input.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	if name, ok := displayNames[code]; ok {
		return name
	}
	if name, ok := displayNames[Normalize(code)]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// HasLimitedCaptionSupport reports whether auto-generated captions are
// rarely available for the language.
func HasLimitedCaptionSupport(code string) bool {
	normalized := Normalize(code)
	if normalized == "" {
		return false
	}
	if _, ok := limitedSupport[normalized]; ok {
		return true
	}
	// ceb and other 3-letter codes may not survive Normalize.
	_, ok := limitedSupport[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// NormalizeList normalizes and deduplicates a preference list, preserving
// order of first occurrence.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		n := Normalize(code)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	return normalized
}
