package localisation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"eventguard/logging"
	"eventguard/types"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := logging.Logger
	t.Cleanup(func() { logging.Logger = prev })

	var buf bytes.Buffer
	if err := logging.Init(logging.Options{Level: "debug", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("logging.Init: %v", err)
	}
	return &buf
}

func TestCheckResult(t *testing.T) {
	cases := []struct {
		name         string
		result       types.SearchResult
		expected     string
		wantPassed   bool
		wantCountry  string
		wantConf     float64
		reasonSubstr string
	}{
		{
			name:        "german domain for french search",
			result:      types.SearchResult{URL: "https://example.de/events/konferenz", Content: "Konferenz in Deutschland"},
			expected:    "fr",
			wantCountry: "de",
			wantConf:    DomainConfidence,
		},
		{
			name:        "whitelist beats german domain",
			result:      types.SearchResult{URL: "https://example.de/g20-summit", Content: "G20 summit side event"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "capitalised WHO is whitelisted",
			result:      types.SearchResult{URL: "https://example.com/x", Title: "WHO regional meeting in Germany"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "who.int host is whitelisted",
			result:      types.SearchResult{URL: "https://www.who.int/europe/events", Content: "Berlin, Germany"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "lowercase nato in url path and content",
			result:      types.SearchResult{URL: "https://example.de/nato-summit", Content: "nato summit in Berlin"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "capitalised NATO in title",
			result:      types.SearchResult{URL: "https://example.de/gipfel", Title: "NATO Gipfel Berlin"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "oecd path token",
			result:      types.SearchResult{URL: "https://example.de/oecd/forum"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "mixed case Imf and wto in text",
			result:      types.SearchResult{URL: "https://example.de/x", Snippet: "Imf and Wto delegates meet"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "osce host label",
			result:      types.SearchResult{URL: "https://www.osce.org/events", Content: "Wien, Österreich"},
			expected:    "de",
			wantPassed:  true,
			wantCountry: MultiCountry,
			wantConf:    MultiCountryConfidence,
		},
		{
			name:        "nato inside a longer word is not whitelisted",
			result:      types.SearchResult{URL: "https://example.de/donatos"},
			expected:    "fr",
			wantCountry: "de",
			wantConf:    DomainConfidence,
		},
		{
			name:         "lowercase who is an ordinary word",
			result:       types.SearchResult{URL: "https://example.com/x", Content: "for people who love german beer"},
			expected:     "fr",
			wantCountry:  "de",
			wantConf:     NameConfidence,
			reasonSubstr: `"german"`,
		},
		{
			name:        "keyword in url path",
			result:      types.SearchResult{URL: "https://example.com/events/germany-2025"},
			expected:    "fr",
			wantCountry: "de",
			wantConf:    DomainConfidence,
		},
		{
			name:        "hyphenated multi-word keyword in url",
			result:      types.SearchResult{URL: "https://example.com/united-kingdom/tour"},
			expected:    "de",
			wantCountry: "gb",
			wantConf:    DomainConfidence,
		},
		{
			name:        "co.uk host against uk alias",
			result:      types.SearchResult{URL: "https://www.example.co.uk/events"},
			expected:    "uk",
			wantPassed:  true,
			wantCountry: "gb",
			wantConf:    DefaultPassConfidence,
		},
		{
			name:        "co.uk host for german search",
			result:      types.SearchResult{URL: "https://www.example.co.uk/events"},
			expected:    "DE ",
			wantCountry: "gb",
			wantConf:    DomainConfidence,
		},
		{
			name:         "content domains outweigh nothing",
			result:       types.SearchResult{URL: "https://events.example.com/list", Content: "Tickets at shop.example.de and info.example.de"},
			expected:     "fr",
			wantCountry:  "de",
			wantConf:     ContentConfidence,
			reasonSubstr: "score 4 vs 0",
		},
		{
			name:        "content tie with expected country passes",
			result:      types.SearchResult{URL: "https://example.fr/x", Content: "see partner.example.de"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: "fr",
			wantConf:    DefaultPassConfidence,
		},
		{
			name:        "expected country signals pass",
			result:      types.SearchResult{URL: "https://example.de/events", Content: "Konferenz in Deutschland, Germany"},
			expected:    "de",
			wantPassed:  true,
			wantCountry: "de",
			wantConf:    DefaultPassConfidence,
		},
		{
			name:        "no signal defaults to a weak pass",
			result:      types.SearchResult{URL: "https://example.com/agenda", Title: "Salon du livre", Content: "Paris"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: "fr",
			wantConf:    DefaultPassConfidence,
		},
		{
			name:        "unknown expected country",
			result:      types.SearchResult{URL: "https://example.fr/agenda"},
			expected:    "jp",
			wantCountry: "fr",
			wantConf:    DomainConfidence,
		},
		{
			name:        "substring of a tld is not a domain",
			result:      types.SearchResult{URL: "https://example.com/made", Content: "handmade goods, made locally"},
			expected:    "fr",
			wantPassed:  true,
			wantCountry: "fr",
			wantConf:    DefaultPassConfidence,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CheckResult(c.result, c.expected)
			if got.Passed != c.wantPassed {
				t.Fatalf("Passed = %v; want %v (%s)", got.Passed, c.wantPassed, got.Reason)
			}
			if got.DetectedCountry != c.wantCountry {
				t.Fatalf("DetectedCountry = %q; want %q (%s)", got.DetectedCountry, c.wantCountry, got.Reason)
			}
			if got.Confidence != c.wantConf {
				t.Fatalf("Confidence = %v; want %v", got.Confidence, c.wantConf)
			}
			if c.reasonSubstr != "" && !strings.Contains(got.Reason, c.reasonSubstr) {
				t.Fatalf("Reason = %q; want it to contain %q", got.Reason, c.reasonSubstr)
			}
		})
	}
}

func TestAssertCountryGoldenFranceGermany(t *testing.T) {
	logs := captureLogs(t)

	results := []types.SearchResult{
		{URL: "https://Example.FR/Agenda/?utm_source=x", Title: "Salon de la tech", Content: "Lyon"},
		{URL: "https://example.de/events/konferenz", Content: "Konferenz in Deutschland"},
		{URL: "https://example.org/eu", Content: "A European Union policy day hosted in Berlin, Germany"},
	}

	got := AssertCountry(results, "fr", "run-42")

	if got.Passed {
		t.Fatal("expected the batch to fail")
	}
	if len(got.Violations) != 1 {
		t.Fatalf("Violations = %+v; want exactly one", got.Violations)
	}
	v := got.Violations[0]
	if v.URL != "https://example.de/events/konferenz" || v.DetectedCountry != "de" || v.ExpectedCountry != "fr" {
		t.Fatalf("unexpected violation %+v", v)
	}
	for _, u := range got.FilteredURLs {
		if u == v.URL {
			t.Fatalf("violating url %q leaked into FilteredURLs", u)
		}
	}
	if got.FilteredURLs[0] != results[0].URL {
		t.Fatalf("FilteredURLs[0] = %q; want the caller's original url", got.FilteredURLs[0])
	}
	if got.Stats != (Stats{Total: 3, Passed: 2, Failed: 1, Violations: 1}) {
		t.Fatalf("Stats = %+v", got.Stats)
	}

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one log record, got %d: %q", len(lines), logs.String())
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["correlation_id"] != "run-42" || rec["expected_country"] != "fr" || rec["level"] != "warn" {
		t.Fatalf("unexpected log record %v", rec)
	}
	if _, ok := rec["violations"]; !ok {
		t.Fatalf("log record misses violations: %v", rec)
	}
}

func TestAssertCountryNoViolationsDoesNotLog(t *testing.T) {
	logs := captureLogs(t)

	got := AssertCountry([]types.SearchResult{{URL: "https://example.fr/a"}}, "fr", "")
	if !got.Passed || len(got.FilteredURLs) != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no log output, got %q", logs.String())
	}
}

func TestAssertCountryEmpty(t *testing.T) {
	got := AssertCountry(nil, "fr", "")
	if !got.Passed || got.Stats != (Stats{}) {
		t.Fatalf("unexpected result for empty input: %+v", got)
	}
	if got.Violations == nil || got.FilteredURLs == nil {
		t.Fatal("empty result should carry empty, non-nil slices")
	}
}

func TestAssertCountryStatsConsistency(t *testing.T) {
	captureLogs(t)

	results := []types.SearchResult{
		{URL: "https://example.de/a"},
		{URL: "https://example.fr/b"},
		{URL: "https://example.it/c"},
		{URL: "not a url", Content: "Bruxelles, Belgique"},
		{URL: "", Content: "nothing here"},
		{URL: "https://example.com/g7", Title: "G7 ministers"},
	}

	for _, expected := range append(SupportedCountries(), "xx", "") {
		got := AssertCountry(results, expected, "")
		if len(got.FilteredURLs)+len(got.Violations) != len(results) {
			t.Fatalf("%s: %d filtered + %d violations != %d", expected, len(got.FilteredURLs), len(got.Violations), len(results))
		}
		if got.Passed != (len(got.Violations) == 0) {
			t.Fatalf("%s: Passed = %v with %d violations", expected, got.Passed, len(got.Violations))
		}
		if got.Stats.Passed+got.Stats.Failed != got.Stats.Total || got.Stats.Failed != got.Stats.Violations {
			t.Fatalf("%s: inconsistent stats %+v", expected, got.Stats)
		}
	}
}
