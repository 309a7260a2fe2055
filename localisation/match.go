package localisation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// countWord counts occurrences of word in text that sit on word boundaries,
// so "who" is not found in "whole" and "g7" is not found in "g77".
func countWord(text, word string) int {
	if word == "" {
		return 0
	}

	n := 0
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], word)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			n++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return n
}

func containsWord(text, word string) bool {
	return countWord(text, word) > 0
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

// countDomainEnding counts places where tld (".de") ends a domain name in text:
// it must follow a label character and must not be followed by more of the name.
// "example.de/x" and "visit example.de." count, "example.de.com" and "made" do not.
func countDomainEnding(text, tld string) int {
	n := 0
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], tld)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(tld)
		i = start + 1
		if start == 0 {
			continue
		}
		if prev, _ := utf8.DecodeLastRuneInString(text[:start]); !isLabelRune(prev) {
			continue
		}
		if domainEndsAt(text, end) {
			n++
			i = end
		}
	}
	return n
}

func isLabelRune(r rune) bool {
	return isWordRune(r) || r == '-'
}

func domainEndsAt(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if isLabelRune(r) {
		return false
	}
	if r == '.' {
		// a trailing dot only continues the name when another label follows
		next := end + size
		if next >= len(text) {
			return true
		}
		nr, _ := utf8.DecodeRuneInString(text[next:])
		return !isLabelRune(nr)
	}
	return true
}

// containsURLToken matches keyword as a whole token of a lowercased URL.
// Multi-word keywords also match their hyphenated and underscored forms.
func containsURLToken(rawURL, keyword string) bool {
	if containsWord(rawURL, keyword) {
		return true
	}
	if !strings.Contains(keyword, " ") {
		return false
	}
	return containsWord(rawURL, strings.ReplaceAll(keyword, " ", "-")) ||
		containsWord(rawURL, strings.ReplaceAll(keyword, " ", "_")) ||
		containsWord(rawURL, strings.ReplaceAll(keyword, " ", "+"))
}
