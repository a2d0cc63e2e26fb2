package server

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "100ms" or "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds server configuration options.
type Config struct {
	Addr           string   `yaml:"addr"`            // Listen address (":0" for random port)
	ReadTimeout    Duration `yaml:"read_timeout"`    // HTTP read timeout
	DataFile       string   `yaml:"data_file"`       // SQLite path for the object registry
	SampleInterval Duration `yaml:"sample_interval"` // Telemetry tick interval
	LogLevel       string   `yaml:"log_level"`       // debug, info, warn, error

	// Logger is the structured logger used by the server. Defaults to
	// slog.Default(). Not settable from YAML.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns a configuration suitable for testing: random port,
// in-memory registry, 100ms telemetry ticks.
func DefaultConfig() Config {
	return Config{
		Addr:           ":0",
		ReadTimeout:    Duration(30 * time.Second),
		DataFile:       ":memory:",
		SampleInterval: Duration(100 * time.Millisecond),
		LogLevel:       "info",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing or
// empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":0"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = Duration(30 * time.Second)
	}
	if c.DataFile == "" {
		c.DataFile = ":memory:"
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = Duration(100 * time.Millisecond)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
