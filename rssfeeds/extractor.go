package rssfeeds

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"eventguard/logging"
	"eventguard/types"

	readability "github.com/go-shiori/go-readability"
)

const (
	WorkerCount      = 5
	extractorTimeout = 30 * time.Second
)

// ExtractAllContent fetches every result page with a worker pool and fills in its
// content. The returned slice holds one error per result, nil where extraction succeeded.
func ExtractAllContent(ctx context.Context, results []types.SearchResult) []error {
	errs := make([]error, len(results))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(WorkerCount, len(results)); w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				if err := extractContent(ctx, &results[i]); err != nil {
					errs[i] = err
					logging.Warn("failed to extract page", "worker", workerID, "url", results[i].URL, "err", err)
				}
			}
		}(w)
	}

	for i := range results {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return errs
}

// extractContent fetches and extracts the readable text of a single page
func extractContent(ctx context.Context, result *types.SearchResult) error {
	if result.URL == "" {
		return errors.New("result URL is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	article, err := readability.FromURL(result.URL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	result.Content = article.TextContent
	if result.Snippet == "" {
		result.Snippet = article.Excerpt
	}
	if result.Title == "" {
		result.Title = article.Title
	}

	logging.Debug("extracted page", "url", result.URL, "chars", len(result.Content))
	return nil
}
