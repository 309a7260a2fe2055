package rssfeeds

import (
	"sort"
	"strings"
)

// DefaultFeedPreset is used by feedcheck when no feed is given
const DefaultFeedPreset = "tagesschau"

// FeedConfig represents the configuration for a single RSS feed
type FeedConfig struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Country string `json:"country"`
}

// FeedPresets maps friendly keys to RSS feed configurations
var FeedPresets = map[string]FeedConfig{
	"tagesschau": {
		Name:    "Tagesschau",
		URL:     "https://www.tagesschau.de/xml/rss2/",
		Country: "de",
	},
	"lemonde": {
		Name:    "Le Monde",
		URL:     "https://www.lemonde.fr/rss/une.xml",
		Country: "fr",
	},
	"bbc": {
		Name:    "BBC News",
		URL:     "https://feeds.bbci.co.uk/news/rss.xml",
		Country: "gb",
	},
	"hn": {
		Name:    "Hacker News",
		URL:     "https://hnrss.org/newest",
		Country: "us",
	},
}

// ResolveFeed resolves a preset name to its configuration.
// Anything else is treated as a direct feed URL with no known country.
func ResolveFeed(input string) FeedConfig {
	if preset, ok := FeedPresets[strings.ToLower(strings.TrimSpace(input))]; ok {
		return preset
	}
	return FeedConfig{Name: input, URL: input}
}

// PresetNames returns the preset keys in alphabetical order
func PresetNames() []string {
	names := make([]string, 0, len(FeedPresets))
	for name := range FeedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
