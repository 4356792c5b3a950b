// Package config holds the settings of the stackvm command and builds the
// logger they describe.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/stackvm/core"
)

// Config is the settings of one stackvm invocation.
type Config struct {
	LogLevel  string  `yaml:"log_level" toml:"log_level"`
	LogFormat string  `yaml:"log_format" toml:"log_format"`
	Trace     bool    `yaml:"trace" toml:"trace"`
	Lint      bool    `yaml:"lint" toml:"lint"`
	Simulate  bool    `yaml:"simulate" toml:"simulate"`
	FreqGHz   float64 `yaml:"freq_ghz" toml:"freq_ghz"`
	DumpState bool    `yaml:"dump_state" toml:"dump_state"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: "text",
		FreqGHz:   1,
	}
}

// Load reads a config file on top of the defaults. Files ending in .toml
// are TOML; anything else is YAML.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return c, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return c, c.Validate()
}

// ApplyEnv overrides settings from STACKVM_* environment variables. The
// environment is re-read on every call.
func (c Config) ApplyEnv() Config {
	env.Load()

	c.LogLevel = env.Str("STACKVM_LOG_LEVEL", c.LogLevel)
	c.LogFormat = env.Str("STACKVM_LOG_FORMAT", c.LogFormat)
	c.FreqGHz = env.Float64("STACKVM_FREQ_GHZ", c.FreqGHz)

	if env.Has("STACKVM_TRACE") {
		c.Trace = env.Bool("STACKVM_TRACE")
	}
	if env.Has("STACKVM_LINT") {
		c.Lint = env.Bool("STACKVM_LINT")
	}
	if env.Has("STACKVM_SIMULATE") {
		c.Simulate = env.Bool("STACKVM_SIMULATE")
	}
	if env.Has("STACKVM_DUMP_STATE") {
		c.DumpState = env.Bool("STACKVM_DUMP_STATE")
	}

	return c
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	if c.FreqGHz <= 0 {
		return fmt.Errorf("frequency must be positive, got %v GHz", c.FreqGHz)
	}

	return nil
}

func (c Config) level() (slog.Level, error) {
	if c.Trace {
		return core.LevelTrace, nil
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return core.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
}

// Logger builds a logger writing to w at the configured level and format.
// Invalid settings fall back to the defaults.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == core.LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
