package logger

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment overrides applied on top of a profile.
const (
	EnvLogLevel     = "MODTREE_LOG_LEVEL"
	EnvLogFormat    = "MODTREE_LOG_FORMAT"
	EnvLogNoColor   = "MODTREE_LOG_NOCOLOR"
	EnvLogTimestamp = "MODTREE_LOG_TIMESTAMP"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Profile selects a preset configuration.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config controls the zerolog sink.
type Config struct {
	Level     string `json:"level" yaml:"level" toml:"level"`
	Format    string `json:"format" yaml:"format" toml:"format"`
	NoColor   bool   `json:"noColor" yaml:"noColor" toml:"noColor"`
	Timestamp bool   `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
}

// DefaultConfig returns the runtime profile.
func DefaultConfig() Config {
	return ProfileConfig(ProfileRuntime)
}

// ProfileConfig returns the preset for profile.
func ProfileConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: "debug", Format: FormatConsole, NoColor: true, Timestamp: false}
	default:
		return Config{Level: "info", Format: FormatConsole, Timestamp: true}
	}
}

// ApplyEnv overrides cfg fields from MODTREE_LOG_* variables when set.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Format = strings.ToLower(v)
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		c.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		c.Timestamp = v
	}
}

// Validate reports unsupported level or format values.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if _, ok := parseLevel(c.Level); !ok && c.Level != "" {
		return fmt.Errorf("unsupported log level: %q", c.Level)
	}
	switch c.Format {
	case "", FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("unsupported log format: %q", c.Format)
	}
	return nil
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
