package rssfeeds

import (
	"context"
	"fmt"
	"io"
	"strings"

	"eventguard/types"

	"github.com/mmcdole/gofeed"
)

// FetchResults retrieves and parses an RSS/Atom feed, returning at most maxCount results
func FetchResults(ctx context.Context, feedURL string, maxCount int) ([]types.SearchResult, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return toResults(feed, maxCount), nil
}

// ParseResults parses a feed document already in memory
func ParseResults(r io.Reader, maxCount int) ([]types.SearchResult, error) {
	parser := gofeed.NewParser()
	feed, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return toResults(feed, maxCount), nil
}

// toResults maps feed items to search results, skipping items without a link.
// A non-positive maxCount keeps every item.
func toResults(feed *gofeed.Feed, maxCount int) []types.SearchResult {
	if maxCount <= 0 || maxCount > len(feed.Items) {
		maxCount = len(feed.Items)
	}

	results := make([]types.SearchResult, 0, maxCount)
	for _, item := range feed.Items {
		if len(results) == maxCount {
			break
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		// Get description/summary
		snippet := item.Description
		if snippet == "" {
			snippet = item.Content
		}

		results = append(results, types.SearchResult{
			URL:     link,
			Title:   strings.TrimSpace(item.Title),
			Snippet: strings.TrimSpace(snippet),
		})
	}
	return results
}
