package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// strippedPunct is the fixed punctuation set removed before measuring
// transcript density. Punctuation outside this set is kept.
var strippedPunct = map[rune]struct{}{
	'.': {}, ',': {}, '!': {}, '?': {}, ';': {}, ':': {},
	'"': {}, '\'': {}, '-': {}, '_': {}, '/': {}, '\\': {}, '…': {},
	'，': {}, '。': {}, '！': {}, '？': {}, '；': {}, '：': {},
	'“': {}, '”': {}, '‘': {}, '’': {}, '—': {},
}

// Normalize removes all whitespace and the fixed punctuation set from text.
// The result is only a density proxy and is never a cleaned transcript.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if _, ok := strippedPunct[r]; ok {
			return -1
		}
		return r
	}, text)
}

// NormalizedLength is the rune count of Normalize(text).
func NormalizedLength(text string) int {
	return utf8.RuneCountInString(Normalize(text))
}

// preview returns at most n runes of s, appending "..." when cut.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}
