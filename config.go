package modtree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/service/meta"
	"github.com/viant/modtree/unit"
)

// Config is a serialisable representation of the service configuration. It
// can be loaded from YAML, JSON or TOML; absent fields keep DefaultConfig
// values.
type Config struct {
	Name     string        `json:"name" yaml:"name" toml:"name"`
	Signals  []string      `json:"signals" yaml:"signals" toml:"signals"`
	ExitCode int           `json:"exitCode" yaml:"exitCode" toml:"exitCode"`
	Logging  logger.Config `json:"logging" yaml:"logging" toml:"logging"`
	Tracing  TracingConfig `json:"tracing" yaml:"tracing" toml:"tracing"`
	Events   EventsConfig  `json:"events" yaml:"events" toml:"events"`
	Notify   NotifyConfig  `json:"notify" yaml:"notify" toml:"notify"`
}

// TracingConfig enables the OpenTelemetry file or stdout exporter.
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Service string `json:"service" yaml:"service" toml:"service"`
	Version string `json:"version" yaml:"version" toml:"version"`
	Output  string `json:"output" yaml:"output" toml:"output"`
}

// EventsConfig sizes the root signal queue.
type EventsConfig struct {
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer" toml:"queueBuffer"`
}

// NotifyConfig selects readiness notifiers.
type NotifyConfig struct {
	Systemd bool `json:"systemd" yaml:"systemd" toml:"systemd"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Name:    unit.DefaultRootName,
		Signals: []string{"SIGINT", "SIGTERM"},
		Logging: logger.DefaultConfig(),
		Tracing: TracingConfig{Service: "modtree", Version: "dev"},
		Events:  EventsConfig{QueueBuffer: 100},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, err := c.OSSignals(); err != nil {
		errs = append(errs, err)
	}
	if c.ExitCode < 0 || c.ExitCode > 255 {
		errs = append(errs, fmt.Errorf("exitCode must be within 0..255, got %d", c.ExitCode))
	}
	if c.Events.QueueBuffer <= 0 {
		errs = append(errs, errors.New("events.queueBuffer must be > 0"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}

var signalNames = map[string]os.Signal{
	"INT":  os.Interrupt,
	"TERM": syscall.SIGTERM,
	"HUP":  syscall.SIGHUP,
	"QUIT": syscall.SIGQUIT,
}

// OSSignals resolves signal names such as SIGTERM or term.
func (c *Config) OSSignals() ([]os.Signal, error) {
	var ret []os.Signal
	for _, name := range c.Signals {
		key := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "SIG")
		sig, ok := signalNames[key]
		if !ok {
			return nil, fmt.Errorf("unsupported signal: %q", name)
		}
		ret = append(ret, sig)
	}
	return ret, nil
}

// LoadConfig reads URL over DefaultConfig, applies MODTREE_LOG_* overrides
// and validates the result.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	ret.Logging.ApplyEnv()
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
