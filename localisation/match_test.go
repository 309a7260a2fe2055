package localisation

import (
	"reflect"
	"testing"
)

func TestCountWord(t *testing.T) {
	cases := []struct {
		text, word string
		want       int
	}{
		{"the whole team", "who", 0},
		{"who is speaking", "who", 1},
		{"g77 and g7", "g7", 1},
		{"germany, germany!", "germany", 2},
		{"germanys", "germany", 0},
		{"visit österreich today", "österreich", 1},
		{"großösterreich", "österreich", 0},
		{"the united kingdom tour", "united kingdom", 1},
		{"", "x", 0},
		{"x", "", 0},
	}
	for _, c := range cases {
		if got := countWord(c.text, c.word); got != c.want {
			t.Errorf("countWord(%q, %q) = %d; want %d", c.text, c.word, got, c.want)
		}
	}
}

func TestCountDomainEnding(t *testing.T) {
	cases := []struct {
		text, tld string
		want      int
	}{
		{"https://example.de/x", ".de", 1},
		{"visit example.de.", ".de", 1},
		{"visit example.de. then a.de", ".de", 2},
		{"example.de.com", ".de", 0},
		{"handmade", ".de", 0},
		{"a .de b", ".de", 0},
		{".de", ".de", 0},
		{"my-site.de", ".de", 1},
		{"example.design", ".de", 0},
		{"shop.example.co.uk and x.uk", ".uk", 2},
	}
	for _, c := range cases {
		if got := countDomainEnding(c.text, c.tld); got != c.want {
			t.Errorf("countDomainEnding(%q, %q) = %d; want %d", c.text, c.tld, got, c.want)
		}
	}
}

func TestContainsURLToken(t *testing.T) {
	if !containsURLToken("https://x.com/great_britain/", "great britain") {
		t.Error("underscored form not matched")
	}
	if !containsURLToken("https://x.com/?q=united+states", "united states") {
		t.Error("plus form not matched")
	}
	if containsURLToken("https://x.com/germanyfest", "germany") {
		t.Error("partial token matched")
	}
}

func TestBuildCountryConstrainedQuery(t *testing.T) {
	cases := []struct {
		query, country, want string
	}{
		{"ai summit", "de", `ai summit (site:.de OR "deutschland" OR "germany")`},
		{"ai summit", " UK ", `ai summit (site:.uk OR "united kingdom" OR "great britain" OR "england")`},
		{"", "fr", `(site:.fr OR "france" OR "français")`},
		{"ai summit", "jp", "ai summit"},
	}
	for _, c := range cases {
		if got := BuildCountryConstrainedQuery(c.query, c.country); got != c.want {
			t.Errorf("BuildCountryConstrainedQuery(%q, %q) = %q; want %q", c.query, c.country, got, c.want)
		}
	}
}

func TestSupportedCountries(t *testing.T) {
	want := []string{"de", "fr", "gb", "us", "nl", "es", "it", "ch", "at", "be"}
	if got := SupportedCountries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("SupportedCountries = %v; want %v", got, want)
	}
}

func TestIsSupported(t *testing.T) {
	for code, want := range map[string]bool{"de": true, " UK ": true, "gb": true, "jp": false, "": false} {
		if got := IsSupported(code); got != want {
			t.Errorf("IsSupported(%q) = %v; want %v", code, got, want)
		}
	}
}
