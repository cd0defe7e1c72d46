package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/fpx"
	fpxhttp "github.com/fwojciec/fpx/http"
	"github.com/fwojciec/fpx/paging"
	"github.com/spf13/viper"
)

// Config is the file and environment configuration of fpx.
type Config struct {
	ConsumerKey string        `mapstructure:"consumer_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Feed        string        `mapstructure:"feed"`
	PageSize    int           `mapstructure:"page_size"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Dedupe      bool          `mapstructure:"dedupe"`
	Cache       CacheConfig   `mapstructure:"cache"`
}

// CacheConfig configures the local page cache.
type CacheConfig struct {
	Path   string        `mapstructure:"path"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// LoadConfig reads configuration from cfgFile, or from config.yaml in
// ~/.config/fpx when cfgFile is empty, then applies FPX_* environment
// variables. A missing default config file is not an error.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/fpx")
	}

	v.SetEnvPrefix("FPX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("consumer_key", "")
	v.SetDefault("base_url", fpxhttp.DefaultBaseURL)
	v.SetDefault("feed", fpx.DefaultFeed)
	v.SetDefault("page_size", paging.DefaultPageSize)
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("timeout", fpxhttp.DefaultTimeout)
	v.SetDefault("dedupe", false)
	v.SetDefault("cache.path", defaultDBPath())
	v.SetDefault("cache.max_age", 10*time.Minute)
}

// Validate reports configuration values that can't be used.
func (c *Config) Validate() error {
	if c.Feed == "" {
		return fpx.Errorf(fpx.EINVALID, "feed must not be empty")
	}
	if c.PageSize < 1 {
		return fpx.Errorf(fpx.EINVALID, "page_size must be > 0, got %d", c.PageSize)
	}
	if c.RateLimit < 0 {
		return fpx.Errorf(fpx.EINVALID, "rate_limit must be >= 0, got %v", c.RateLimit)
	}
	if c.Cache.MaxAge < 0 {
		return fpx.Errorf(fpx.EINVALID, "cache.max_age must be >= 0, got %s", c.Cache.MaxAge)
	}
	return nil
}

// apply overrides configuration values with the global flags that were set.
func (c *Config) apply(cli *CLI) {
	if cli.ConsumerKey != "" {
		c.ConsumerKey = cli.ConsumerKey
	}
	if cli.BaseURL != "" {
		c.BaseURL = cli.BaseURL
	}
	if cli.PageSize > 0 {
		c.PageSize = cli.PageSize
	}
	if cli.RateLimit > 0 {
		c.RateLimit = cli.RateLimit
	}
}

func defaultDBPath() string {
	if path := os.Getenv("FPX_DB"); path != "" {
		return path
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "fpx.db"
	}
	dir = filepath.Join(dir, "fpx")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
