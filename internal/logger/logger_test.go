package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(LogConfig{Level: "debug", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := WithComponent("penalty")
	l.Info().Str("loan_id", "LN-1").Msg("refreshed")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if entry["component"] != "penalty" || entry["loan_id"] != "LN-1" || entry["message"] != "refreshed" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(LogConfig{Level: "warn", Format: "console", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := Get()
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filter not applied: %q", out)
	}
}

func TestSetup_BadLevel(t *testing.T) {
	if err := Setup(LogConfig{Level: "loud"}); err == nil {
		t.Fatal("want error for unknown level")
	}
}
