// Package config loads lrucache settings from defaults, an optional config
// file, environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"lrucache/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. LRUCACHE_CACHE_CAPACITY.
const EnvPrefix = "LRUCACHE"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete configuration for lrucache.
type Config struct {
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CacheConfig sizes the cache built by the CLI.
type CacheConfig struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{Capacity: 2},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Loader wraps a dedicated viper instance so callers can bind flags before Load.
type Loader struct {
	viper *viper.Viper
}

// NewLoader creates a Loader with defaults and environment support wired in.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	return &Loader{viper: v}
}

// Viper exposes the underlying instance, mainly for BindPFlag.
func (l *Loader) Viper() *viper.Viper {
	return l.viper
}

// Load reads configuration. An empty path searches for lrucache.{yaml,json,toml}
// in the user config directory and the working directory; a missing file is
// fine there. An explicit path must exist.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.viper.SetConfigFile(path)
	} else {
		l.viper.SetConfigName("lrucache")
		if dir, err := os.UserConfigDir(); err == nil {
			l.viper.AddConfigPath(filepath.Join(dir, "lrucache"))
		}
		l.viper.AddConfigPath(".")
	}

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if c.Cache.Capacity < 1 {
		problems = append(problems, fmt.Sprintf("cache.capacity must be at least 1 (got: %d)", c.Cache.Capacity))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Sprintf("logging.level: %v", err))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be one of: console, json (got: %s)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// LogConfig converts the textual settings into a logging.Config.
// Call it only on a validated Config.
func (c *Config) LogConfig() logging.Config {
	out := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.Logging.Level); err == nil {
		out.Level = lvl
	}
	out.Format = c.Logging.Format
	return out
}
