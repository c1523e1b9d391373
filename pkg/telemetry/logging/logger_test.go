package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"formloft-hq/curator/pkg/config"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("purge complete", "deleted", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "purge complete" {
		t.Errorf("msg = %v, want %q", entry["msg"], "purge complete")
	}
	if entry["deleted"] != float64(3) {
		t.Errorf("deleted = %v, want 3", entry["deleted"])
	}
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("purge complete")
	if !strings.Contains(buf.String(), "purge complete") {
		t.Errorf("text output missing message: %s", buf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %s", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn record suppressed at warn level")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "loud", Format: "json"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "info", Format: "xml"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	level, err := parseLevel("")
	if err != nil {
		t.Fatalf("parseLevel(\"\") failed: %v", err)
	}
	if level != slog.LevelInfo {
		t.Errorf("parseLevel(\"\") = %v, want info", level)
	}

	format, err := parseFormat("")
	if err != nil {
		t.Fatalf("parseFormat(\"\") failed: %v", err)
	}
	if format != FormatJSON {
		t.Errorf("parseFormat(\"\") = %v, want json", format)
	}
}
