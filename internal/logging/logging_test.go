package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// restore puts back the global loggers replaced by Init.
func restore(t *testing.T) {
	t.Helper()
	oldLogger := defaultLogger
	oldDefault := slog.Default()
	t.Cleanup(func() {
		defaultLogger = oldLogger
		slog.SetDefault(oldDefault)
	})
}

// TestParseLevel checks names, aliases and the empty default.
func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q): expected %d, got %d", in, want, got)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

// TestParseFormat checks both formats and rejects unknown names.
func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Fatalf("expected FormatJSON, got %d (%v)", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Fatalf("expected FormatText, got %d (%v)", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

// TestInitJSON writes a JSON record with an RFC3339 timestamp.
func TestInitJSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Init(LevelInfo, FormatJSON, &buf)

	Info("staged", "files", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q (%v)", buf.String(), err)
	}
	if rec["msg"] != "staged" {
		t.Errorf("expected msg staged, got %v", rec["msg"])
	}
	if rec["files"] != float64(3) {
		t.Errorf("expected files 3, got %v", rec["files"])
	}
	ts, _ := rec["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("expected an RFC3339 time, got %q", ts)
	}
}

// TestInitLevelFilters drops records below the configured level.
func TestInitLevelFilters(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Init(LevelWarn, FormatText, &buf)

	Debug("hidden")
	Info("hidden")
	Warn("shown")
	Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "shown too") {
		t.Errorf("expected warn and error records, got %q", out)
	}
}

// TestRunID stores the ID in the context and tags records with it.
func TestRunID(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Init(LevelInfo, FormatText, &buf)

	if id := RunID(context.Background()); id != "" {
		t.Fatalf("expected no run ID, got %q", id)
	}
	ctx := WithRunID(context.Background(), "abc-123")
	if id := RunID(ctx); id != "abc-123" {
		t.Fatalf("expected abc-123, got %q", id)
	}

	FromContext(ctx).Info("dictionary written")
	if !strings.Contains(buf.String(), "run_id=abc-123") {
		t.Errorf("expected run_id attribute, got %q", buf.String())
	}
}

// TestOrDiscard keeps a given logger and replaces nil.
func TestOrDiscard(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if OrDiscard(l) != l {
		t.Errorf("expected the given logger back")
	}
	if OrDiscard(nil) == nil {
		t.Errorf("expected a discarding logger, got nil")
	}
}
