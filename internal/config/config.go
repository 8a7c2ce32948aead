package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexcabrera/thinkplay/internal/paths"
	"github.com/alexcabrera/thinkplay/internal/playback"
	"github.com/alexcabrera/thinkplay/internal/timing"
)

// DatasetEnv overrides Config.Dataset when set.
const DatasetEnv = "THINKPLAY_DATASET"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the CLI configuration for thinkplay.
type Config struct {
	// TickInterval is the time spent on each step with fixed pacing.
	TickInterval time.Duration `yaml:"tick_interval"`
	// Pacing is "fixed" or "content".
	Pacing     string  `yaml:"pacing"`
	SpeedScale float64 `yaml:"speed_scale"`
	// Dataset is a file path or a name under the datasets directory.
	// Empty plays the built-in timeline.
	Dataset  string        `yaml:"dataset,omitempty"`
	Database string        `yaml:"database"`
	LogFile  string        `yaml:"log_file"`
	LogLevel string        `yaml:"log_level"`
	Timing   timing.Params `yaml:"timing"`
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		TickInterval: playback.DefaultInterval,
		Pacing:       string(playback.PacingFixed),
		SpeedScale:   1,
		Database:     paths.DatabasePath(),
		LogFile:      paths.LogFile(),
		LogLevel:     "info",
		Timing:       timing.DefaultParams(),
	}
}

// Load reads configuration from the given path, falling back to defaults when missing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if env := strings.TrimSpace(os.Getenv(DatasetEnv)); env != "" {
		cfg.Dataset = env
	}
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = paths.DatabasePath()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %s", ErrInvalidConfig, c.TickInterval)
	}
	if _, err := playback.ParsePacing(c.Pacing); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !(c.SpeedScale > 0) || math.IsInf(c.SpeedScale, 0) {
		return fmt.Errorf("%w: speed_scale must be positive, got %v", ErrInvalidConfig, c.SpeedScale)
	}
	if err := c.Timing.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Save writes c to path as YAML, creating the parent directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
