// Package text provides utilities for text processing and analysis.
// Counting and truncation here work on Unicode characters (runes), never bytes,
// so multi-byte input is never split inside a character.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // 5
//	CountRunes("こんにちは")  // 5
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// CountWords returns the number of whitespace-separated tokens in text.
// It is a plain split, not a linguistic tokenizer.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateRunes returns the first limit characters of text.
// Text that already fits is returned unchanged. A non-positive limit yields "".
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		// byte length bounds rune count from above
		return text
	}

	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
