// Package config loads the runtime configuration of the lazyquant tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/delaneyj/lazyquant/observability/oteladapters"
	"github.com/delaneyj/lazyquant/patterns"
)

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
)

const (
	FormatText = "text"
	FormatJSON = "json"
	// FormatOTel sends records through the OpenTelemetry slog bridge.
	FormatOTel = "otel"
)

type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

func (c *LogConfig) Merge(source *LogConfig) {
	if source.Level != "" {
		c.Level = source.Level
	}
	if source.Format != "" {
		c.Format = source.Format
	}
}

// Config holds the notification policy and the ambient logging and metrics
// setup.
type Config struct {
	// Forwarding policy new lazy objects start with; nil keeps the default.
	ForwardAllNotifications *bool     `json:"forward_all_notifications,omitempty"`
	Log                     LogConfig `json:"log"`
	Metrics                 bool      `json:"metrics,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Log.Merge(&source.Log)
	if source.ForwardAllNotifications != nil {
		forward := *source.ForwardAllNotifications
		c.ForwardAllNotifications = &forward
	}
	if source.Metrics {
		c.Metrics = true
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// Logger builds the slog logger described by c.Log, writing to w for the
// text and json formats. The otel format writes to the LoggerProvider given
// in otelOpts, or to the global one; records are dropped unless one of them
// is installed.
func (c *Config) Logger(w io.Writer, otelOpts ...otelslog.Option) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Log.Format) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case FormatOTel:
		return oteladapters.NewLogger("lazyquant", otelOpts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
}

// Settings builds a notification coordinator from c. Extra options are
// applied last.
func (c *Config) Settings(logger patterns.Logger, opts ...patterns.SettingsOption) *patterns.Settings {
	all := []patterns.SettingsOption{patterns.WithLogger(logger)}
	if c.ForwardAllNotifications != nil {
		all = append(all, patterns.WithForwardAllNotifications(*c.ForwardAllNotifications))
	}
	return patterns.NewSettings(append(all, opts...)...)
}
