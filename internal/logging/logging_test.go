package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"chatty", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	logger.Debug("loaded", zap.Int("compounds", 13))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"compounds":13`) {
		t.Errorf("expected structured field in %s", data)
	}
}

func TestNewRejectsBadPath(t *testing.T) {
	if _, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "log")}}); err == nil {
		t.Error("expected error for an unwritable path")
	}
}
