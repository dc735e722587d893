package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	defer func() { Logger = nil }()

	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Warn("streak recompute skipped", "habit", "h1")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "daystreak.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "streak recompute skipped") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestHelpersAreNoopWithoutInit(t *testing.T) {
	Logger = nil
	// Must not panic
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
