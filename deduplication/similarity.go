package deduplication

import (
	"math"
	"unicode/utf8"

	"eventguard/types"

	"github.com/agnivade/levenshtein"
)

// Field weights of the event similarity score
const (
	TitleWeight = 0.5
	VenueWeight = 0.3
	DateWeight  = 0.2

	// NeutralDateSimilarity is used when either event has no usable start date
	NeutralDateSimilarity = 0.5
)

// EventSimilarity scores how likely two events describe the same real-world event.
// Title and venue are compared raw; dates use a step function on the day difference.
func EventSimilarity(a, b types.EventRecord) float64 {
	return TitleWeight*StringSimilarity(a.Title, b.Title) +
		VenueWeight*StringSimilarity(a.VenueOrLocation(), b.VenueOrLocation()) +
		DateWeight*DateSimilarity(a.StartsAt, b.StartsAt)
}

// StringSimilarity is 1 - editDistance/maxLength over runes. Empty input scores 0.
func StringSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}

// DateSimilarity maps the absolute day difference between two start dates onto
// 1.0 / 0.8 / 0.5 / 0.2 / 0.0. Missing or unparsable dates are neutral.
func DateSimilarity(a, b string) float64 {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	if !okA || !okB {
		return NeutralDateSimilarity
	}

	days := math.Abs(ta.Sub(tb).Hours()) / 24
	switch {
	case days == 0:
		return 1.0
	case days <= 7:
		return 0.8
	case days <= 30:
		return 0.5
	case days <= 90:
		return 0.2
	default:
		return 0
	}
}
