// Package config provides configuration management for csvprune.
//
// Configuration only covers how csvprune reports on itself; the columns it
// removes are fixed in the filter package and are not a config key.
// Values are loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CSVPRUNE_ prefix)
//  3. Config file (.csvprune.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CSVPRUNE"

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the global configuration for csvprune.
type Config struct {
	// LogLevel controls the verbosity of diagnostics on stderr.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables ANSI colors in human-readable reports.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// ConfigFile is the resolved path to the config file used, if any.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. Quiet forces "error".
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. Every call uses a fresh viper instance.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("quiet", d.Quiet)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile reads an explicit config file, or looks for .csvprune.yaml
// in the working directory and ~/.config/csvprune.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(".csvprune")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "csvprune"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds cmd's own flags and the persistent flags of every
// ancestor.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
