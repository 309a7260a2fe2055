package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitJSONFormat(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	var buf bytes.Buffer
	if err := Init(Options{Level: "debug", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	Warn("localisation violations detected", "expected_country", "fr", "count", 2)

	line := strings.TrimSpace(buf.String())
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if rec["expected_country"] != "fr" {
		t.Fatalf("expected_country = %v; want fr", rec["expected_country"])
	}
	if rec["msg"] != "localisation violations detected" {
		t.Fatalf("msg = %v", rec["msg"])
	}
}

func TestInitRejectsBadOptions(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := Init(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	var buf bytes.Buffer
	if err := Init(Options{Level: "warn", Output: &buf}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	Debug("hidden")
	Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
}

func TestWithPrefix(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	var buf bytes.Buffer
	if err := Init(Options{Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	WithPrefix("worker").Info("batch processed", "accepted", 3)

	var rec map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if p, _ := rec["prefix"].(string); !strings.HasPrefix(p, "worker") {
		t.Fatalf("prefix = %v; want worker", rec["prefix"])
	}

	Logger = nil
	if WithPrefix("worker") == nil {
		t.Fatal("WithPrefix returned nil without a global logger")
	}
}
