package localisation

import (
	"fmt"
	"strings"
)

// BuildCountryConstrainedQuery appends a site/keyword OR-clause for country to query,
// e.g. `ai summit (site:.de OR "deutschland" OR "germany")`.
// Unknown countries leave the query unchanged. The clause only steers the search
// tier; AssertCountry is what enforces the country of the results.
func BuildCountryConstrainedQuery(query, countryCode string) string {
	c, ok := lookupCountry(countryCode)
	if !ok {
		return query
	}

	clauses := make([]string, 0, len(c.domains)+len(c.keywords))
	for _, tld := range c.domains {
		clauses = append(clauses, "site:"+tld)
	}
	for _, kw := range c.keywords {
		clauses = append(clauses, fmt.Sprintf("%q", kw))
	}

	constraint := "(" + strings.Join(clauses, " OR ") + ")"
	if strings.TrimSpace(query) == "" {
		return constraint
	}
	return strings.TrimSpace(query) + " " + constraint
}
