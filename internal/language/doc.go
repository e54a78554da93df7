// Package language normalizes caption-track language tags and knows which
// languages YouTube serves auto-generated captions for only sporadically.
//
// Caption tracks arrive tagged with BCP-47 codes of varying shape ("en",
// "en-US", "pt-BR"). Matching against user language preferences happens on
// the normalized base code, except for Chinese where the script variant is
// meaningful and preserved.
package language
