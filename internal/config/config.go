package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// File names searched by Load, in order.
const (
	JSONFileName = "reactive.json"
	YAMLFileName = "reactive.yaml"
)

// Default values.
const (
	DefaultName        = "reactive"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultInspectAddr = ":7070"
	DefaultEventBuffer = 64
	DefaultTick        = "1s"
	DefaultNamespace   = "reactive"
	DefaultTracerName  = "reactive"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REACTIVE_"

// Config represents the reactive configuration.
type Config struct {
	// Name is the runtime name reported in logs and snapshots.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Log     LogConfig     `json:"log" yaml:"log"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
	Inspect InspectConfig `json:"inspect" yaml:"inspect"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	configPath string
}

// LogConfig configures the slog logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// RuntimeConfig configures the reactive runtime.
type RuntimeConfig struct {
	// MaxEffectRuns bounds the effect runs of one flush. Negative
	// disables the bound.
	MaxEffectRuns int `json:"maxEffectRuns,omitempty" yaml:"maxEffectRuns,omitempty"`
}

// InspectConfig configures the inspector server.
type InspectConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// EventBuffer is the per-client event buffer.
	EventBuffer int `json:"eventBuffer,omitempty" yaml:"eventBuffer,omitempty"`

	// Tick is how often the inspect command writes to the demo graph.
	Tick string `json:"tick,omitempty" yaml:"tick,omitempty"`
}

// MetricsConfig configures the Prometheus probe.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig configures the OpenTelemetry probe.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Name: DefaultName,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Runtime: RuntimeConfig{
			MaxEffectRuns: reactive.DefaultMaxEffectRuns,
		},
		Inspect: InspectConfig{
			Addr:        DefaultInspectAddr,
			EventBuffer: DefaultEventBuffer,
			Tick:        DefaultTick,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// reactive.json, then reactive.yaml. When neither exists it returns the
// defaults with environment overrides applied.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	cfg := New()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path. Files
// ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("No config file found at " + path).
				WithSuggestion("Check the --config path, or remove the flag to use the defaults")
		}
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyEnv overrides fields from REACTIVE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("NAME", &c.Name)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("INSPECT_ADDR", &c.Inspect.Addr)
	str("INSPECT_TICK", &c.Inspect.Tick)
	str("METRICS_NAMESPACE", &c.Metrics.Namespace)

	if v, ok := lookup(EnvPrefix + "MAX_EFFECT_RUNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("MAX_EFFECT_RUNS", v, "an integer")
		}
		c.Runtime.MaxEffectRuns = n
	}
	for key, dst := range map[string]*bool{
		"METRICS_ENABLED": &c.Metrics.Enabled,
		"TRACING_ENABLED": &c.Tracing.Enabled,
	} {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return envError(key, v, "a boolean")
			}
			*dst = b
		}
	}
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Runtime.MaxEffectRuns == 0 {
		c.Runtime.MaxEffectRuns = reactive.DefaultMaxEffectRuns
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Inspect.EventBuffer == 0 {
		c.Inspect.EventBuffer = DefaultEventBuffer
	}
	if c.Inspect.Tick == "" {
		c.Inspect.Tick = DefaultTick
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("log.level must be one of debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	if c.Inspect.EventBuffer < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("inspect.eventBuffer must not be negative")
	}
	if _, err := c.TickInterval(); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("inspect.tick must be a positive duration such as 500ms, got " + strconv.Quote(c.Inspect.Tick))
	}
	return nil
}

// TickInterval parses Inspect.Tick.
func (c *Config) TickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Inspect.Tick)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, strconv.ErrRange
	}
	return d, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func envError(key, value, want string) error {
	return errors.New(errors.CodeConfigInvalid).
		WithDetail(EnvPrefix + key + " must be " + want + ", got " + strconv.Quote(value))
}
