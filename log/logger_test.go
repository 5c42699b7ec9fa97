package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"INFO":    Info,
		"":        Info,
		"warning": Warn,
		"Error":   Error,
		"fatal":   Fatal,
	}

	for input, expected := range tests {
		level, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", input, err)
		}
		if level != expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", input, level, expected)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("vfs", Warn, "", true).WithWriter(&buf)

	logger.Debug("hidden %d", 1)
	logger.Info("hidden %d", 2)
	logger.Warn("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown 3") {
		t.Errorf("Expected warn message, got %q", out)
	}
	if !strings.Contains(out, "[vfs]") {
		t.Errorf("Expected logger name in prefix, got %q", out)
	}
}

func TestLoggerNamedSharesWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("vfs", Debug, "", true).WithWriter(&buf)
	logger.JSON = true

	child := logger.Named("mount")
	child.Info("mounted %s", "save")

	var entry logEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if entry.Service != "vfs/mount" {
		t.Errorf("Expected service 'vfs/mount', got '%s'", entry.Service)
	}
	if entry.Message != "mounted save" {
		t.Errorf("Expected message 'mounted save', got '%s'", entry.Message)
	}
}
