package localisation

import (
	"fmt"
	"strings"

	"eventguard/deduplication"
	"eventguard/logging"
	"eventguard/types"

	"golang.org/x/text/unicode/norm"
)

// Violation records a result that belongs to a different country than expected
type Violation struct {
	URL             string  `json:"url"`
	ExpectedCountry string  `json:"expected_country"`
	DetectedCountry string  `json:"detected_country"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason"`
}

// Stats aggregates the per-result outcomes of one AssertCountry call
type Stats struct {
	Total      int `json:"total"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Violations int `json:"violations"`
}

// Result is the audit report of one AssertCountry call.
// len(FilteredURLs)+len(Violations) equals the number of inputs and
// Passed is true exactly when there are no violations.
type Result struct {
	Passed       bool        `json:"passed"`
	Violations   []Violation `json:"violations"`
	FilteredURLs []string    `json:"filtered_urls"`
	Stats        Stats       `json:"stats"`
}

// Check is the decision for a single result
type Check struct {
	Passed          bool    `json:"passed"`
	DetectedCountry string  `json:"detected_country"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason"`
}

// AssertCountry classifies every result as matching expectedCountry or violating it.
//
// The guard is advisory: it never fails, it reports. Passing is the default and
// failing requires positive evidence, so results without any country signal pass
// with a low confidence. One warning is logged per call that finds violations.
func AssertCountry(results []types.SearchResult, expectedCountry, correlationID string) Result {
	out, _ := AssertCountryChecks(results, expectedCountry, correlationID)
	return out
}

// AssertCountryChecks is AssertCountry that also returns the per-result checks,
// index aligned with results.
func AssertCountryChecks(results []types.SearchResult, expectedCountry, correlationID string) (Result, []Check) {
	expected := NormalizeCountry(expectedCountry)

	out := Result{
		Violations:   make([]Violation, 0),
		FilteredURLs: make([]string, 0, len(results)),
	}
	checks := make([]Check, len(results))

	for i, r := range results {
		check := CheckResult(r, expected)
		checks[i] = check
		if check.Passed {
			out.FilteredURLs = append(out.FilteredURLs, r.URL)
			continue
		}
		out.Violations = append(out.Violations, Violation{
			URL:             r.URL,
			ExpectedCountry: expected,
			DetectedCountry: check.DetectedCountry,
			Confidence:      check.Confidence,
			Reason:          check.Reason,
		})
	}

	out.Passed = len(out.Violations) == 0
	out.Stats = Stats{
		Total:      len(results),
		Passed:     len(out.FilteredURLs),
		Failed:     len(out.Violations),
		Violations: len(out.Violations),
	}

	if !out.Passed {
		logging.Warn("localisation violations detected",
			"correlation_id", correlationID,
			"expected_country", expected,
			"violations", out.Violations,
			"stats", out.Stats,
		)
	}

	return out, checks
}

// CheckResult runs the ordered checks for one result; the first decisive one wins
func CheckResult(result types.SearchResult, expectedCountry string) Check {
	expected := NormalizeCountry(expectedCountry)

	rawURL := strings.ToLower(norm.NFC.String(result.URL))
	text := strings.Join([]string{
		norm.NFC.String(result.Title),
		norm.NFC.String(result.Snippet),
		norm.NFC.String(result.Content),
	}, " ")
	combined := rawURL + " " + strings.ToLower(text)

	host := deduplication.Domain(deduplication.CanonicalizeURL(result.URL))

	if term, ok := multiCountryTerm(host, text, combined); ok {
		return Check{
			Passed:          true,
			DetectedCountry: MultiCountry,
			Confidence:      MultiCountryConfidence,
			Reason:          fmt.Sprintf("Multi-country term %q", term),
		}
	}

	if code, indicator, ok := detectFromURL(host, rawURL, expected); ok {
		return Check{
			DetectedCountry: code,
			Confidence:      DomainConfidence,
			Reason:          fmt.Sprintf("URL indicator %q belongs to %s, expected %s", indicator, code, expected),
		}
	}

	if code, score, expectedScore, ok := detectFromContent(combined, expected); ok {
		return Check{
			DetectedCountry: code,
			Confidence:      ContentConfidence,
			Reason:          fmt.Sprintf("Content signals favour %s (score %d vs %d for %s)", code, score, expectedScore, expected),
		}
	}

	if code, name, ok := detectNameMismatch(combined, expected); ok {
		return Check{
			DetectedCountry: code,
			Confidence:      NameConfidence,
			Reason:          fmt.Sprintf("Explicit mention of %q (%s), expected %s", name, code, expected),
		}
	}

	return Check{
		Passed:          true,
		DetectedCountry: expected,
		Confidence:      DefaultPassConfidence,
		Reason:          "No country mismatch detected",
	}
}

func multiCountryTerm(host, text, combined string) (string, bool) {
	for _, term := range multiCountryTerms {
		if containsWord(combined, term) {
			return term, true
		}
	}
	for _, acronym := range multiCountryAcronyms {
		if containsWord(text, acronym) || containsWord(host, strings.ToLower(acronym)) {
			return acronym, true
		}
	}
	return "", false
}

// detectFromURL looks for another country's ccTLD on the host or its keywords in the URL
func detectFromURL(host, rawURL, expected string) (string, string, bool) {
	for _, c := range countries {
		if c.code == expected {
			continue
		}
		if host != "" {
			for _, tld := range c.domains {
				if strings.HasSuffix(host, tld) {
					return c.code, tld, true
				}
			}
		}
		for _, kw := range c.keywords {
			if containsURLToken(rawURL, kw) {
				return c.code, kw, true
			}
		}
	}
	return "", "", false
}

// detectFromContent scores every country over the combined text. Domain endings
// weigh twice as much as keywords. The top country wins only when it is not the
// expected one, reaches MinContentScore and strictly beats the expected country.
func detectFromContent(combined, expected string) (string, int, int, bool) {
	var (
		top           string
		topScore      int
		expectedScore int
	)

	for _, c := range countries {
		score := 0
		for _, tld := range c.domains {
			score += 2 * countDomainEnding(combined, tld)
		}
		for _, kw := range c.keywords {
			score += countWord(combined, kw)
		}

		if c.code == expected {
			expectedScore = score
		}
		if score > topScore {
			top, topScore = c.code, score
		}
	}

	if top == "" || top == expected || topScore < MinContentScore || topScore <= expectedScore {
		return "", 0, 0, false
	}
	return top, topScore, expectedScore, true
}

func detectNameMismatch(combined, expected string) (string, string, bool) {
	for _, c := range countries {
		if c.code == expected {
			continue
		}
		for _, name := range c.names {
			if containsWord(combined, name) {
				return c.code, name, true
			}
		}
	}
	return "", "", false
}
