// Package config loads deltasync's runtime configuration from defaults,
// an optional config file, environment variables, and command-line
// flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings shared by every deltasync subcommand.
type Config struct {
	ChunkLength int64  `mapstructure:"chunk_length"`
	LogLevel    string `mapstructure:"log_level"`
	MetricsFile string `mapstructure:"metrics_file"`
	Verbose     bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the configuration deltasync runs with when no
// file, environment variable, or flag overrides a setting.
func DefaultConfig() *Config {
	return &Config{
		ChunkLength: 100,
		LogLevel:    "info",
		MetricsFile: "",
		Verbose:     false,
	}
}

// Load resolves a Config from DefaultConfig, an optional YAML file at
// configPath (ignored if empty or missing), and DELTASYNC_-prefixed
// environment variables. Callers apply flag overrides on top of the
// returned Config themselves, since pflag values always take final
// precedence over the file and the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("chunk_length", def.ChunkLength)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("metrics_file", def.MetricsFile)
	v.SetDefault("verbose", def.Verbose)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: checking %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("deltasync")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects a non-positive chunk length, which BuildSignature
// would refuse, and a log level other than debug, info, warn, or error.
func (c *Config) Validate() error {
	if c.ChunkLength <= 0 {
		return fmt.Errorf("config: chunk_length must be positive, got %d", c.ChunkLength)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}
