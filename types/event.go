package types

import "strings"

// Speaker is a person attached to an event listing
type Speaker struct {
	Name  string `json:"name"`
	Org   string `json:"org,omitempty"`
	Title string `json:"title,omitempty"`
}

// EventRecord represents a single extracted event candidate.
// Date fields hold the raw upstream strings; an empty string means null.
type EventRecord struct {
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    string    `json:"starts_at,omitempty"`
	EndsAt      string    `json:"ends_at,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	Location    string    `json:"location,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	Organizer   string    `json:"organizer,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Speakers    []Speaker `json:"speakers,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
}

// SpeakerRecord represents a speaker extracted independently of an event
type SpeakerRecord struct {
	Name       string   `json:"name"`
	Org        string   `json:"org,omitempty"`
	Title      string   `json:"title,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// SearchResult is a search hit or crawled page as seen by the localisation guard
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Content string `json:"content,omitempty"`
}

// VenueOrLocation returns the venue, falling back to the free-form location
func (e EventRecord) VenueOrLocation() string {
	if e.Venue != "" {
		return e.Venue
	}
	return e.Location
}

// AsSearchResult projects the event onto the fields the localisation guard inspects
func (e EventRecord) AsSearchResult() SearchResult {
	parts := make([]string, 0, 5)
	for _, p := range []string{e.Venue, e.Location, e.City, e.Country, e.Organizer} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return SearchResult{
		URL:     e.SourceURL,
		Title:   e.Title,
		Snippet: e.Description,
		Content: strings.Join(parts, " "),
	}
}

// SpeakerRecords lifts the event's inline speakers into standalone records
func (e EventRecord) SpeakerRecords() []SpeakerRecord {
	out := make([]SpeakerRecord, 0, len(e.Speakers))
	for _, s := range e.Speakers {
		out = append(out, SpeakerRecord{
			Name:      s.Name,
			Org:       s.Org,
			Title:     s.Title,
			SourceURL: e.SourceURL,
		})
	}
	return out
}

// Float returns a pointer to v, for optional confidence fields
func Float(v float64) *float64 {
	return &v
}
