package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/webload/internal/browser"
	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/logging"
	"github.com/GriffinCanCode/webload/internal/resilience"
)

// Config holds all application configuration.
type Config struct {
	Fetch     FetchConfig     `yaml:"fetch" toml:"fetch"`
	Browser   BrowserConfig   `yaml:"browser" toml:"browser"`
	Retry     RetryConfig     `yaml:"retry" toml:"retry"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Breaker   BreakerConfig   `yaml:"breaker" toml:"breaker"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	Report    ReportConfig    `yaml:"report" toml:"report"`
}

// FetchConfig selects and configures the HTTP backend.
type FetchConfig struct {
	Backend   string  `envconfig:"WEBLOAD_FETCHER" default:"resty" yaml:"backend" toml:"backend"`
	UserAgent string  `envconfig:"WEBLOAD_USER_AGENT" yaml:"user_agent" toml:"user_agent"`
	Timeout   float64 `envconfig:"WEBLOAD_TIMEOUT" default:"30" yaml:"timeout" toml:"timeout"` // seconds
	User      string  `envconfig:"WEBLOAD_USER" yaml:"user" toml:"user"`
	Password  string  `envconfig:"WEBLOAD_PASSWORD" yaml:"password" toml:"password"`
}

// BrowserConfig holds the session defaults.
type BrowserConfig struct {
	AutoReferer    bool   `envconfig:"WEBLOAD_AUTO_REFERER" default:"true" yaml:"auto_referer" toml:"auto_referer"`
	MaxRedirects   int    `envconfig:"WEBLOAD_MAX_REDIRECTS" default:"10" yaml:"max_redirects" toml:"max_redirects"`
	FetchResources bool   `envconfig:"WEBLOAD_FETCH_RESOURCES" default:"true" yaml:"fetch_resources" toml:"fetch_resources"`
	ResourceCache  bool   `envconfig:"WEBLOAD_RESOURCE_CACHE" default:"true" yaml:"resource_cache" toml:"resource_cache"`
	Parser         string `envconfig:"WEBLOAD_PARSER" default:"css" yaml:"parser" toml:"parser"`
}

// RetryConfig holds transport retry settings. Waits are in seconds.
type RetryConfig struct {
	MaxRetries int     `envconfig:"WEBLOAD_RETRY_MAX" default:"0" yaml:"max_retries" toml:"max_retries"`
	MinWait    float64 `envconfig:"WEBLOAD_RETRY_MIN_WAIT" default:"1" yaml:"min_wait" toml:"min_wait"`
	MaxWait    float64 `envconfig:"WEBLOAD_RETRY_MAX_WAIT" default:"30" yaml:"max_wait" toml:"max_wait"`
}

// RateLimitConfig paces requests. Zero means unlimited.
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"WEBLOAD_RATE_LIMIT_RPS" default:"0" yaml:"rps" toml:"rps"`
	Burst             int     `envconfig:"WEBLOAD_RATE_LIMIT_BURST" default:"0" yaml:"burst" toml:"burst"`
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	ConsecutiveFailures uint32  `envconfig:"WEBLOAD_BREAKER_FAILURES" default:"10" yaml:"consecutive_failures" toml:"consecutive_failures"`
	Timeout             float64 `envconfig:"WEBLOAD_BREAKER_TIMEOUT" default:"30" yaml:"timeout" toml:"timeout"` // seconds
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"WEBLOAD_LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"WEBLOAD_LOG_DEV" default:"true" yaml:"development" toml:"development"`
}

// ReportConfig holds perf report output settings.
type ReportConfig struct {
	Format      string `envconfig:"WEBLOAD_REPORT_FORMAT" default:"text" yaml:"format" toml:"format"`
	MetricsFile string `envconfig:"WEBLOAD_METRICS_FILE" yaml:"metrics_file" toml:"metrics_file"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads the environment, then overlays the YAML or TOML file at
// path. Keys absent from the file keep their environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			Backend: "resty",
			Timeout: 30,
		},
		Browser: BrowserConfig{
			AutoReferer:    true,
			MaxRedirects:   10,
			FetchResources: true,
			ResourceCache:  true,
			Parser:         "css",
		},
		Retry: RetryConfig{
			MinWait: 1,
			MaxWait: 30,
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: 10,
			Timeout:             30,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: true,
		},
		Report: ReportConfig{
			Format: "text",
		},
	}
}

// FetchOptions converts the transport sections to fetch.Options.
func (c *Config) FetchOptions() fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = seconds(c.Fetch.Timeout)
	opts.Retry = fetch.RetryConfig{
		MaxRetries: c.Retry.MaxRetries,
		MinWait:    seconds(c.Retry.MinWait),
		MaxWait:    seconds(c.Retry.MaxWait),
	}
	opts.RateLimit = c.RateLimit.RequestsPerSecond
	opts.Burst = c.RateLimit.Burst

	failures := c.Breaker.ConsecutiveFailures
	opts.Breaker = resilience.Settings{
		Timeout: seconds(c.Breaker.Timeout),
		ReadyToTrip: func(counts resilience.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= failures
		},
	}
	return opts
}

// BrowserOptions converts the browser section to browser.Options.
func (c *Config) BrowserOptions() browser.Options {
	opts := browser.DefaultOptions()
	opts.AutoReferer = c.Browser.AutoReferer
	opts.MaxRedirects = c.Browser.MaxRedirects
	opts.FetchResources = c.Browser.FetchResources
	opts.UseResourceCache = c.Browser.ResourceCache
	if c.Fetch.UserAgent != "" {
		opts.UserAgent = c.Fetch.UserAgent
	}
	return opts
}

// LoggingConfig converts the logging section to logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Development = c.Logging.Development
	return cfg
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
