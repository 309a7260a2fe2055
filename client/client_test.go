package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventguard/api"
	"eventguard/logging"
	"eventguard/pipeline"
	"eventguard/types"

	"github.com/gin-gonic/gin"
)

func newServer(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := logging.Logger
	t.Cleanup(func() { logging.Logger = prev })
	if err := logging.Init(logging.Options{Output: io.Discard}); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(api.NewRouter(api.Deps{}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClientAgainstRouter(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	canonical, err := c.CanonicalURL(ctx, "https://Example.com/a/?utm_source=x")
	if err != nil || canonical != "https://example.com/a" {
		t.Fatalf("CanonicalURL = %q, %v", canonical, err)
	}

	events := []types.EventRecord{
		{SourceURL: "https://example.fr/a", Title: "Salon Tech", Venue: "Paris Expo"},
		{SourceURL: "http://example.com/a", Title: "Salon Tech", Venue: "Paris Expo"},
	}
	dedup, err := c.DeduplicateEvents(ctx, events)
	if err != nil || dedup.Stats.Duplicates != 1 {
		t.Fatalf("DeduplicateEvents = %+v, %v", dedup, err)
	}

	loc, err := c.AssertCountry(ctx, []types.SearchResult{{URL: "https://example.de/x"}}, "fr", "c-1")
	if err != nil || loc.Passed {
		t.Fatalf("AssertCountry = %+v, %v", loc, err)
	}

	report, err := c.RunPipeline(ctx, pipeline.Batch{CorrelationID: "c-2", ExpectedCountry: "fr", Events: events})
	if err != nil || report.CorrelationID != "c-2" || len(report.Accepted) != 1 {
		t.Fatalf("RunPipeline = %+v, %v", report, err)
	}

	reports, err := c.RunAll(ctx, []pipeline.Batch{
		{CorrelationID: "c-3", ExpectedCountry: "fr", Events: events},
		{CorrelationID: "c-4", ExpectedCountry: "de"},
	})
	if err != nil || len(reports) != 2 || reports[0].CorrelationID != "c-3" || reports[1].CorrelationID != "c-4" {
		t.Fatalf("RunAll = %+v, %v", reports, err)
	}
}

func TestClientReturnsAPIError(t *testing.T) {
	c := newServer(t)

	_, err := c.RunPipeline(context.Background(), pipeline.Batch{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest || apiErr.Message == "" {
		t.Fatalf("err = %v; want a 400 APIError", err)
	}
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	if c := NewClient(""); c.baseURL != DefaultBaseURL {
		t.Fatalf("baseURL = %q", c.baseURL)
	}
}
