// Package config resolves dashboard settings. Later sources win:
// defaults, then an optional YAML file, then DASHBOARD_* environment
// variables (a .env file is read first if present), then flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const envPrefix = "DASHBOARD_"

type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	Period         time.Duration `yaml:"period"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	Listen         string        `yaml:"listen"`
	Timezone       string        `yaml:"timezone"`
	LogLevel       string        `yaml:"log_level"`
	LogDevelopment bool          `yaml:"log_development"`
}

func Default() Config {
	return Config{
		Endpoint:     "http://localhost:14036/library",
		Period:       5 * time.Second,
		FetchTimeout: 5 * time.Second,
		Listen:       ":8080",
		Timezone:     "Local",
		LogLevel:     "info",
	}
}

// LoadFile overlays the YAML file at filename onto c. Keys missing from the
// file keep their current values.
func (c *Config) LoadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadEnv reads dotenv files (missing files are fine) and then overlays any
// DASHBOARD_* variables.
func (c *Config) LoadEnv(dotenvFiles ...string) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
		return nil
	}

	str("ENDPOINT", &c.Endpoint)
	str("LISTEN", &c.Listen)
	str("TIMEZONE", &c.Timezone)
	str("LOG_LEVEL", &c.LogLevel)
	if err := dur("PERIOD", &c.Period); err != nil {
		return err
	}
	if err := dur("FETCH_TIMEOUT", &c.FetchTimeout); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_DEVELOPMENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOG_DEVELOPMENT: %w", envPrefix, err)
		}
		c.LogDevelopment = b
	}
	return nil
}

// AddFlags registers flags whose defaults are c's current values, so parsing
// only overrides what the user actually passed.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "library endpoint to poll")
	fs.DurationVar(&c.Period, "period", c.Period, "polling period")
	fs.DurationVar(&c.FetchTimeout, "fetch-timeout", c.FetchTimeout, "timeout for one poll request")
	fs.StringVar(&c.Listen, "listen", c.Listen, "address to serve the dashboard on")
	fs.StringVar(&c.Timezone, "timezone", c.Timezone, "IANA zone for absolute times, or Local")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.LogDevelopment, "log-development", c.LogDevelopment, "human readable logs")
}

func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must be http or https, got %q", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host: %q", c.Endpoint)
	}
	if c.Period <= 0 {
		return fmt.Errorf("period must be > 0")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be > 0")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
