package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// minTokenLength is the shortest token that takes part in a comparison.
// Shorter tokens stay in the normalized stream but are never scored.
const minTokenLength = 3

// Normalize canonicalizes label text for comparison: lowercase, every
// character other than [A-Za-z0-9_] or whitespace replaced by a space,
// whitespace runs collapsed and the ends trimmed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	normalized := strings.ToLower(text)
	normalized = punctuationRegex.ReplaceAllString(normalized, " ")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// Tokenize normalizes text and splits it into words.
// Empty or all-punctuation input yields no tokens.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// isScoredToken reports whether a normalized token is long enough to compare
func isScoredToken(token string) bool {
	return len([]rune(token)) >= minTokenLength
}
