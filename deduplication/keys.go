package deduplication

import (
	"regexp"
	"strings"
	"time"

	"eventguard/types"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

// KeyType distinguishes event keys from speaker keys
type KeyType string

const (
	KeyTypeEvent   KeyType = "event"
	KeyTypeSpeaker KeyType = "speaker"

	// UnknownDate stands in for a missing or unparsable start date in event keys
	UnknownDate = "unknown"
)

// CanonicalKey is a deterministic, pipe-delimited identity hint for a record
type CanonicalKey struct {
	Type       KeyType  `json:"type"`
	Key        string   `json:"key"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

var (
	eventNounPattern   = regexp.MustCompile(`\b(?:conference|summit|workshop|seminar|meeting|event|forum|symposium|exhibition|expo)\b`)
	yearPattern        = regexp.MustCompile(`\b(?:202[4-9]|2030)\b`)
	frequencyPattern   = regexp.MustCompile(`\b(?:annual|yearly|monthly|weekly|daily)\b`)
	ordinalPattern     = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)
	venueNounPattern   = regexp.MustCompile(`\b(?:conference center|convention center|hotel|venue|location|place)\b`)
	honorificPattern   = regexp.MustCompile(`\b(?:dr|prof|professor|mr|mrs|ms|sir|dame)\b\.?`)
	legalSuffixPattern = regexp.MustCompile(`\b(?:ltd|llc|inc|corp|corporation|company|co|gmbh|ag|sa|bv|nv)\b\.?`)
	nonWordPattern     = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// GenerateEventKey derives the title|venue|date key for an event
func GenerateEventKey(event types.EventRecord) CanonicalKey {
	key := strings.Join([]string{
		normalizeEventTitle(event.Title),
		normalizeVenue(event.VenueOrLocation()),
		normalizeStartDate(event.StartsAt),
	}, "|")

	// tenths, so the sum stays exact
	score := 5
	if strings.TrimSpace(event.Title) != "" {
		score += 2
	}
	if strings.TrimSpace(event.VenueOrLocation()) != "" {
		score += 2
	}
	if strings.TrimSpace(event.StartsAt) != "" {
		score++
	}

	return CanonicalKey{
		Type:       KeyTypeEvent,
		Key:        key,
		Confidence: tenths(score),
		Sources:    sourcesOf(event.SourceURL),
	}
}

// GenerateSpeakerKey derives the name|org key for a speaker
func GenerateSpeakerKey(speaker types.SpeakerRecord) CanonicalKey {
	key := normalizeSpeakerName(speaker.Name) + "|" + normalizeOrg(speaker.Org)

	score := 6
	if strings.TrimSpace(speaker.Name) != "" {
		score += 3
	}
	if strings.TrimSpace(speaker.Org) != "" {
		score++
	}

	return CanonicalKey{
		Type:       KeyTypeSpeaker,
		Key:        key,
		Confidence: tenths(score),
		Sources:    sourcesOf(speaker.SourceURL),
	}
}

func normalizeEventTitle(title string) string {
	t := foldCase(title)
	t = eventNounPattern.ReplaceAllString(t, " ")
	t = yearPattern.ReplaceAllString(t, " ")
	t = frequencyPattern.ReplaceAllString(t, " ")
	t = ordinalPattern.ReplaceAllString(t, "$1")
	return collapse(t)
}

func normalizeVenue(venue string) string {
	v := foldCase(venue)
	v = venueNounPattern.ReplaceAllString(v, " ")
	return collapse(v)
}

func normalizeSpeakerName(name string) string {
	n := foldCase(name)
	n = honorificPattern.ReplaceAllString(n, " ")
	return collapse(n)
}

func normalizeOrg(org string) string {
	o := foldCase(org)
	o = legalSuffixPattern.ReplaceAllString(o, " ")
	return collapse(o)
}

func normalizeStartDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return UnknownDate
	}
	return t.Format("2006-01-02")
}

// foldCase lowercases after NFC composition so visually equal strings compare equal
func foldCase(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// collapse replaces punctuation runs with single spaces and trims
func collapse(s string) string {
	s = nonWordPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParseDate leniently parses an upstream date string in UTC.
// It reports false for empty or unparsable input and never panics.
func ParseDate(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

func sourcesOf(rawURL string) []string {
	if strings.TrimSpace(rawURL) == "" {
		return []string{}
	}
	return []string{CanonicalizeURL(rawURL)}
}

func tenths(score int) float64 {
	if score > 10 {
		score = 10
	}
	return float64(score) / 10
}
