package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CountWord counts case-insensitive, non-overlapping occurrences of word in
// text that are not glued to a letter, digit or underscore on either side.
func CountWord(text, word string) int {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return 0
	}
	text = strings.ToLower(text)

	count := 0
	for idx := 0; idx <= len(text)-len(word); {
		j := strings.Index(text[idx:], word)
		if j < 0 {
			break
		}
		start := idx + j
		end := start + len(word)

		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
			idx = end
			continue
		}
		idx = start + 1
	}
	return count
}

// ContainsWord reports whether CountWord would find at least one match.
func ContainsWord(text, word string) bool {
	return CountWord(text, word) > 0
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
