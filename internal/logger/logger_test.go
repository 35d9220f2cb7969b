package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchclock.log")

	log, err := New("info", "json", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("bell rang")
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "bell rang") {
		t.Errorf("log file missing info entry: %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug entry written at info level")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", "console", ""); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
