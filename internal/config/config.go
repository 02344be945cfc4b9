// Package config loads deepwiki-export settings from defaults, an optional
// config file, DEEPWIKI_EXPORT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// DEEPWIKI_EXPORT_TIMEOUT.
const EnvPrefix = "DEEPWIKI_EXPORT"

// Sentinel errors for configuration loading.
var (
	ErrConfigRead    = errors.New("error reading config file")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// Config holds the exporter settings.
type Config struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Suffix     string        `mapstructure:"suffix"`
}

// Default returns a Config with the built-in defaults.
func Default() Config {
	return Config{
		Endpoint:   "https://mcp.deepwiki.com/mcp",
		Timeout:    5 * time.Minute,
		Retries:    3,
		RetryDelay: 2 * time.Second,
		Suffix:     "wiki",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"endpoint":    "endpoint",
	"timeout":     "timeout",
	"retries":     "retries",
	"retry-delay": "retry_delay",
	"suffix":      "suffix",
}

// AddFlags registers the config flags on a flag set.
func AddFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("endpoint", d.Endpoint, "DeepWiki MCP endpoint URL")
	flags.Duration("timeout", d.Timeout, "Timeout for each request to the service")
	flags.Int("retries", d.Retries, "Attempts per request before giving up")
	flags.Duration("retry-delay", d.RetryDelay, "Base delay between attempts")
	flags.String("suffix", d.Suffix, "Suffix for the default output directory ({repo}-{suffix})")
}

// Load builds a Config. cfgFile may be empty, in which case
// deepwiki-export.yaml is looked up in the working directory and
// $HOME/.config/deepwiki-export; a missing file is not an error.
// Flags that were set explicitly override environment and file values.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("retries", d.Retries)
	v.SetDefault("retry_delay", d.RetryDelay)
	v.SetDefault("suffix", d.Suffix)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrConfigRead, err)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("deepwiki-export")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/deepwiki-export")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("%w: %w", ErrConfigRead, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("%w: endpoint is required", ErrConfigInvalid)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrConfigInvalid, c.Timeout)
	}
	if c.Retries < 1 {
		return fmt.Errorf("%w: retries must be at least 1, got %d", ErrConfigInvalid, c.Retries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative, got %s", ErrConfigInvalid, c.RetryDelay)
	}
	if strings.TrimSpace(c.Suffix) == "" {
		return fmt.Errorf("%w: suffix is required", ErrConfigInvalid)
	}
	return nil
}
