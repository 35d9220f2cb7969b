package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvExportDir, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, "config.toml")); err != nil {
		t.Fatalf("config.toml not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "db")); err != nil {
		t.Fatalf("db dir not created: %v", err)
	}
	if cfg.BellInterval.Duration != time.Second {
		t.Errorf("bell interval = %v, want 1s", cfg.BellInterval)
	}
	if cfg.AutomationInterval.Duration != time.Minute {
		t.Errorf("automation interval = %v, want 1m", cfg.AutomationInterval)
	}
}

func TestLoad_ReadsFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvExportDir, "")

	content := `export_dir = "/tmp/exports"
bell_interval = "2s"
automation_interval = "30s"
duplicate_window = "90s"
log_level = "warn"
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("export dir = %q", cfg.ExportDir)
	}
	if cfg.BellInterval.Duration != 2*time.Second {
		t.Errorf("bell interval = %v", cfg.BellInterval)
	}
	if cfg.DuplicateWindow.Duration != 90*time.Second {
		t.Errorf("duplicate window = %v", cfg.DuplicateWindow)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want env override debug", cfg.LogLevel)
	}
}

func TestLoad_RejectsZeroInterval(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(`bell_interval = "0s"`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}
