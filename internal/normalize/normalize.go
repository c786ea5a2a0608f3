// Package normalize prepares raw utterances for intent matching: lowercase,
// punctuation stripped, filler words removed, whitespace collapsed. All
// functions are pure.
package normalize

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	fillers     = regexp.MustCompile(`\b(please|could you|would you|hey|jarvis|ok|okay|so|um|uh|the|a|an)\b`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Text normalizes a raw utterance. Empty input yields an empty string.
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	t := strings.ToLower(raw)
	t = punctuation.ReplaceAllString(t, " ")
	t = fillers.ReplaceAllString(t, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(t, " "))
}

// Tokens splits normalized text on whitespace. Empty text yields nil.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Fields(text)
}
