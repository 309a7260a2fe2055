package localisation

import "strings"

// Confidence values reported by the guard
const (
	MultiCountryConfidence = 0.9
	DomainConfidence       = 0.95
	ContentConfidence      = 0.8
	NameConfidence         = 0.85
	DefaultPassConfidence  = 0.7

	// MultiCountry is the detected country of whitelisted multi-country results
	MultiCountry = "multi"

	// MinContentScore is the weighted score at which content signals become decisive
	MinContentScore = 2
)

// country holds the detection tables for one ISO-2 code.
// Domains are ccTLDs, keywords are strong URL/content signals and names are
// country names and demonyms used by the explicit mismatch check.
type country struct {
	code     string
	domains  []string
	keywords []string
	names    []string
}

// countries is scanned in order so detection is deterministic
var countries = []country{
	{
		code:     "de",
		domains:  []string{".de"},
		keywords: []string{"deutschland", "germany"},
		names:    []string{"germany", "deutschland", "german", "deutsche", "deutscher"},
	},
	{
		code:     "fr",
		domains:  []string{".fr"},
		keywords: []string{"france", "français"},
		names:    []string{"france", "french", "français", "française"},
	},
	{
		code:     "gb",
		domains:  []string{".uk"},
		keywords: []string{"united kingdom", "great britain", "england"},
		names:    []string{"united kingdom", "great britain", "britain", "british", "england", "scotland", "wales"},
	},
	{
		code:     "us",
		domains:  []string{".us"},
		keywords: []string{"usa", "united states", "america"},
		names:    []string{"united states", "usa", "america", "american"},
	},
	{
		code:     "nl",
		domains:  []string{".nl"},
		keywords: []string{"nederland", "netherlands", "holland"},
		names:    []string{"netherlands", "nederland", "holland", "dutch"},
	},
	{
		code:     "es",
		domains:  []string{".es"},
		keywords: []string{"españa", "espana", "spain"},
		names:    []string{"spain", "españa", "spanish", "español", "española"},
	},
	{
		code:     "it",
		domains:  []string{".it"},
		keywords: []string{"italia", "italy"},
		names:    []string{"italy", "italia", "italian", "italiano", "italiana"},
	},
	{
		code:     "ch",
		domains:  []string{".ch"},
		keywords: []string{"schweiz", "suisse", "svizzera", "switzerland"},
		names:    []string{"switzerland", "swiss", "schweiz", "suisse", "svizzera"},
	},
	{
		code:     "at",
		domains:  []string{".at"},
		keywords: []string{"österreich", "austria"},
		names:    []string{"austria", "austrian", "österreich"},
	},
	{
		code:     "be",
		domains:  []string{".be"},
		keywords: []string{"belgië", "belgique", "belgium"},
		names:    []string{"belgium", "belgian", "belgique", "belgië"},
	},
}

// aliases maps accepted alternative codes onto table codes
var aliases = map[string]string{
	"uk": "gb",
}

// multiCountryTerms whitelist results that legitimately span several countries.
// They are matched case-insensitively on word boundaries.
var multiCountryTerms = []string{
	"european union",
	"european-union",
	"european commission",
	"european parliament",
	"council of europe",
	"united nations",
	"world health organization",
	"world bank",
	"g7",
	"g20",
	"unicef",
	"unesco",
	"nato",
	"oecd",
	"imf",
	"wto",
	"osce",
}

// multiCountryAcronyms collide with ordinary words, so they are only whitelisted
// when written in capitals in the text ("WHO", not "who"). In URLs they only
// match labels of the host (who.int).
var multiCountryAcronyms = []string{
	"WHO",
}

// NormalizeCountry trims and lowercases a country code and resolves aliases ("uk" to "gb")
func NormalizeCountry(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if alias, ok := aliases[c]; ok {
		return alias
	}
	return c
}

func lookupCountry(code string) (country, bool) {
	code = NormalizeCountry(code)
	for _, c := range countries {
		if c.code == code {
			return c, true
		}
	}
	return country{}, false
}

// SupportedCountries lists the ISO-2 codes the guard has tables for, in scan order
func SupportedCountries() []string {
	codes := make([]string, 0, len(countries))
	for _, c := range countries {
		codes = append(codes, c.code)
	}
	return codes
}

// IsSupported reports whether code (or its alias) has a country table
func IsSupported(code string) bool {
	_, ok := lookupCountry(code)
	return ok
}
