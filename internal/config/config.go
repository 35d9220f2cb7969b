package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment overrides, applied after config.toml is read.
const (
	EnvHome      = "PUNCHCLOCK_HOME"
	EnvExportDir = "PUNCHCLOCK_EXPORT_DIR"
	EnvLogLevel  = "PUNCHCLOCK_LOG_LEVEL"
)

type Config struct {
	ExportDir          string   `toml:"export_dir"`
	ReportsOutput      string   `toml:"reports_output"`
	BellInterval       Duration `toml:"bell_interval"`
	AutomationInterval Duration `toml:"automation_interval"`
	DuplicateWindow    Duration `toml:"duplicate_window"`
	LogLevel           string   `toml:"log_level"`
	LogFormat          string   `toml:"log_format"`
}

// Duration lets intervals be written as "1s" / "60s" in config.toml.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		ExportDir:          filepath.Join(homeDir, "Desktop"),
		ReportsOutput:      filepath.Join(homeDir, "Documents", "punchclock"),
		BellInterval:       Duration{time.Second},
		AutomationInterval: Duration{time.Minute},
		DuplicateWindow:    Duration{time.Minute},
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

func PunchClockDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return expandPath(dir), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".punchclock"), nil
}

func ConfigPath() (string, error) {
	dir, err := PunchClockDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := PunchClockDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "punchclock.sqlite"), nil
}

func LogPath() (string, error) {
	dir, err := PunchClockDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "punchclock.log"), nil
}

func EnsureDirectories() error {
	dir, err := PunchClockDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.MkdirAll(filepath.Join(dir, "db"), 0755)
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		applyEnv(cfg)
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	cfg.ExportDir = expandPath(cfg.ExportDir)
	cfg.ReportsOutput = expandPath(cfg.ReportsOutput)
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

func (c *Config) Validate() error {
	if c.BellInterval.Duration <= 0 {
		return fmt.Errorf("bell_interval must be positive")
	}
	if c.AutomationInterval.Duration <= 0 {
		return fmt.Errorf("automation_interval must be positive")
	}
	if c.DuplicateWindow.Duration < 0 {
		return fmt.Errorf("duplicate_window must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvExportDir); v != "" {
		cfg.ExportDir = expandPath(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
