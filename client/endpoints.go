package client

import (
	"context"
	"net/http"

	"eventguard/deduplication"
	"eventguard/localisation"
	"eventguard/pipeline"
	"eventguard/types"
)

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil, nil)
}

// CanonicalURL returns the server's canonical form of rawURL
func (c *Client) CanonicalURL(ctx context.Context, rawURL string) (string, error) {
	var result struct {
		Canonical string `json:"canonical"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/canonical/url", map[string]string{"url": rawURL}, &result); err != nil {
		return "", err
	}
	return result.Canonical, nil
}

// DeduplicateEvents groups near-duplicate events on the server
func (c *Client) DeduplicateEvents(ctx context.Context, events []types.EventRecord) (*deduplication.DeduplicationResult[types.EventRecord], error) {
	payload := map[string]interface{}{
		"events": events,
	}

	var result deduplication.DeduplicationResult[types.EventRecord]
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/deduplication/events", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AssertCountry checks results against the expected country on the server
func (c *Client) AssertCountry(ctx context.Context, results []types.SearchResult, expectedCountry, correlationID string) (*localisation.Result, error) {
	payload := map[string]interface{}{
		"results":          results,
		"expected_country": expectedCountry,
		"correlation_id":   correlationID,
	}

	var result localisation.Result
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/localisation/assert", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RunPipeline runs a batch on the server
func (c *Client) RunPipeline(ctx context.Context, batch pipeline.Batch) (*pipeline.Report, error) {
	var report pipeline.Report
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/pipeline/run", batch, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RunAll runs several batches concurrently on the server, reports in input order
func (c *Client) RunAll(ctx context.Context, batches []pipeline.Batch) ([]*pipeline.Report, error) {
	var result struct {
		Reports []*pipeline.Report `json:"reports"`
	}
	payload := map[string]interface{}{"batches": batches}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/pipeline/run-all", payload, &result); err != nil {
		return nil, err
	}
	return result.Reports, nil
}
