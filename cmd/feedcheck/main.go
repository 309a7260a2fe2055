package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"eventguard/client"
	"eventguard/localisation"
	"eventguard/logging"
	"eventguard/rssfeeds"

	"github.com/google/uuid"
)

const defaultCount = 20

func main() {
	code, err := run()
	if err != nil {
		logging.Error("feedcheck failed", "err", err)
	}
	os.Exit(code)
}

// run returns the process exit status; it only returns once every defer has run
func run() (int, error) {
	// Parse command-line flags
	feed := flag.String("feed", rssfeeds.DefaultFeedPreset, "RSS feed preset name or URL (use -feeds to list presets)")
	count := flag.Int("count", defaultCount, "Number of items to check")
	country := flag.String("country", "", "Expected ISO-2 country (defaults to the preset's country)")
	extract := flag.Bool("extract", false, "Fetch every page and check its readable text too")
	strict := flag.Bool("strict", false, "Exit with status 1 when any item violates the country")
	listFeeds := flag.Bool("feeds", false, "List available feed presets and exit")
	server := flag.String("server", "", "Check through a running API server instead of in process")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// List available feeds if requested
	if *listFeeds {
		fmt.Println("Available feed presets:")
		for _, name := range rssfeeds.PresetNames() {
			p := rssfeeds.FeedPresets[name]
			fmt.Printf("  %-12s %-3s %s\n", name, p.Country, p.URL)
		}
		fmt.Printf("\nDefault: %s\n", rssfeeds.DefaultFeedPreset)
		fmt.Println("\nUsage:")
		fmt.Println("  feedcheck -feed=lemonde")
		fmt.Println("  feedcheck -feed=https://example.com/rss -country=de -extract")
		return 0, nil
	}

	// Log to stderr so JSON output to stdout is clean
	if err := logging.Init(logging.Options{Level: *logLevel, Output: os.Stderr}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2, nil
	}

	preset := rssfeeds.ResolveFeed(*feed)
	expected := *country
	if expected == "" {
		expected = preset.Country
	}
	if !localisation.IsSupported(expected) {
		logging.Error("an expected country is required", "country", expected, "supported", localisation.SupportedCountries())
		return 2, errors.New("unsupported expected country")
	}
	expected = localisation.NormalizeCountry(expected)

	logging.Info("checking feed", "feed", preset.Name, "url", preset.URL, "expected_country", expected, "count", *count)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results, err := rssfeeds.FetchResults(ctx, preset.URL, *count)
	if err != nil {
		return 1, fmt.Errorf("failed to fetch feed: %w", err)
	}
	logging.Info("fetched feed items", "items", len(results))

	if *extract {
		logging.Info("extracting page content", "workers", rssfeeds.WorkerCount)
		failed := 0
		for _, err := range rssfeeds.ExtractAllContent(ctx, results) {
			if err != nil {
				failed++
			}
		}
		logging.Info("extraction complete", "ok", len(results)-failed, "failed", failed)
	}

	correlationID := uuid.New().String()
	var result localisation.Result
	if *server != "" {
		remote, err := client.NewClient(*server).AssertCountry(ctx, results, expected, correlationID)
		if err != nil {
			return 1, fmt.Errorf("remote check against %s failed: %w", *server, err)
		}
		result = *remote
	} else {
		result = localisation.AssertCountry(results, expected, correlationID)
	}

	// Output JSON to stdout
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return 1, fmt.Errorf("failed to encode JSON: %w", err)
	}

	logging.Info("localisation summary",
		"total", result.Stats.Total,
		"passed", result.Stats.Passed,
		"failed", result.Stats.Failed,
	)
	if *strict && !result.Passed {
		return 1, nil
	}
	return 0, nil
}
