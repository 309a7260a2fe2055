package deduplication

import (
	"math"
	"reflect"
	"testing"

	"eventguard/types"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGenerateEventKey(t *testing.T) {
	cases := []struct {
		name     string
		event    types.EventRecord
		wantKey  string
		wantConf float64
	}{
		{
			name: "full record",
			event: types.EventRecord{
				SourceURL: "https://Example.com/ai/?utm_source=x",
				Title:     "The 3rd Annual AI Summit 2025",
				Venue:     "ExCeL Convention Center, London",
				StartsAt:  "2025-06-12T09:00:00Z",
			},
			wantKey:  "the 3 ai|excel london|2025-06-12",
			wantConf: 1.0,
		},
		{
			name: "location fallback and unknown date",
			event: types.EventRecord{
				Title:    "Cloud-Native Workshop!",
				Location: "Hotel Adlon, Berlin",
				StartsAt: "sometime soon",
			},
			wantKey:  "cloud native|adlon berlin|unknown",
			wantConf: 1.0,
		},
		{
			name:     "title only",
			event:    types.EventRecord{Title: "Weekly Meetup: Go & Rust (2026)"},
			wantKey:  "meetup go rust||unknown",
			wantConf: 0.7,
		},
		{
			name:     "empty",
			event:    types.EventRecord{},
			wantKey:  "||unknown",
			wantConf: 0.5,
		},
		{
			name: "offset date is normalised to UTC",
			event: types.EventRecord{
				Title:    "Data Forum",
				Venue:    "Place des Arts",
				StartsAt: "2025-03-01T01:30:00+02:00",
			},
			wantKey:  "data|des arts|2025-02-28",
			wantConf: 1.0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := GenerateEventKey(c.event)
			if got.Type != KeyTypeEvent {
				t.Fatalf("Type = %q; want %q", got.Type, KeyTypeEvent)
			}
			if got.Key != c.wantKey {
				t.Fatalf("Key = %q; want %q", got.Key, c.wantKey)
			}
			if !approx(got.Confidence, c.wantConf) {
				t.Fatalf("Confidence = %v; want %v", got.Confidence, c.wantConf)
			}
		})
	}
}

func TestGenerateEventKeySources(t *testing.T) {
	got := GenerateEventKey(types.EventRecord{SourceURL: "https://EXAMPLE.org/e/?fbclid=1", Title: "x"})
	want := []string{"https://example.org/e"}
	if !reflect.DeepEqual(got.Sources, want) {
		t.Fatalf("Sources = %v; want %v", got.Sources, want)
	}
	if empty := GenerateEventKey(types.EventRecord{}); len(empty.Sources) != 0 {
		t.Fatalf("expected no sources, got %v", empty.Sources)
	}
}

func TestGenerateEventKeyDeterministic(t *testing.T) {
	e := types.EventRecord{Title: "KubeCon Europe 2025", Venue: "Messe Wien", StartsAt: "2025-04-01"}
	first := GenerateEventKey(e)
	for i := 0; i < 20; i++ {
		if again := GenerateEventKey(e); !reflect.DeepEqual(first, again) {
			t.Fatalf("key changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestGenerateSpeakerKey(t *testing.T) {
	cases := []struct {
		name     string
		speaker  types.SpeakerRecord
		wantKey  string
		wantConf float64
	}{
		{"honorific and suffix", types.SpeakerRecord{Name: "Dr. Jane Doe", Org: "Acme Corp."}, "jane doe|acme", 1.0},
		{"professor", types.SpeakerRecord{Name: "Prof Alan Turing", Org: "Bletchley Park Ltd"}, "alan turing|bletchley park", 1.0},
		{"gmbh", types.SpeakerRecord{Name: "Mrs. Anna Müller", Org: "Beispiel GmbH"}, "anna müller|beispiel", 1.0},
		{"no org", types.SpeakerRecord{Name: "Sir Tim Berners-Lee"}, "tim berners lee|", 0.9},
		{"empty", types.SpeakerRecord{}, "|", 0.6},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := GenerateSpeakerKey(c.speaker)
			if got.Type != KeyTypeSpeaker {
				t.Fatalf("Type = %q", got.Type)
			}
			if got.Key != c.wantKey {
				t.Fatalf("Key = %q; want %q", got.Key, c.wantKey)
			}
			if !approx(got.Confidence, c.wantConf) {
				t.Fatalf("Confidence = %v; want %v", got.Confidence, c.wantConf)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	valid := []string{"2025-06-12", "2025-06-12T09:00:00Z", "June 12, 2025", "2025/06/12"}
	for _, v := range valid {
		got, ok := ParseDate(v)
		if !ok {
			t.Errorf("ParseDate(%q) failed", v)
			continue
		}
		if got.Format("2006-01-02") != "2025-06-12" {
			t.Errorf("ParseDate(%q) = %s", v, got)
		}
	}
	for _, v := range []string{"", "   ", "not a date"} {
		if _, ok := ParseDate(v); ok {
			t.Errorf("ParseDate(%q) should fail", v)
		}
	}
}
