package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, constructed once at startup and
// treated as immutable afterwards. It merges a YAML file with environment
// variables; the environment wins for credentials so keys never have to be
// written to disk.
type Config struct {
	Providers map[string]Provider `yaml:"providers"`
	Gateway   Gateway             `yaml:"gateway"`
}

// Provider holds the per-vendor connection settings.
type Provider struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
}

// Gateway holds the orchestrator tuning knobs.
type Gateway struct {
	// Concurrency bounds batch and comparison fan-out. Zero means the
	// gateway default.
	Concurrency int `yaml:"concurrency"`

	// Timeout is the per-call deadline. Zero means no gateway-imposed
	// deadline.
	Timeout Duration `yaml:"timeout"`

	// RequestsPerSecond and Burst configure the shared rate limiter.
	// A zero rate disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Duration wraps time.Duration so YAML values like "30s" decode with
// time.ParseDuration semantics.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadEnv loads a .env file into the process environment when one exists.
// A missing file is not an error; explicit environment variables are never
// overwritten.
func LoadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Load reads the YAML file at path and merges environment variables on top.
// An empty path yields a config built from the environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{Providers: map[string]Provider{}}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if cfg.Providers == nil {
			cfg.Providers = map[string]Provider{}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays <PROVIDER>_API_KEY and <PROVIDER>_API_BASE_URL values.
// Credentials from the environment always win over file values.
func (c *Config) applyEnv() {
	for name, provider := range c.Providers {
		prefix := strings.ToUpper(name)
		if key := os.Getenv(prefix + "_API_KEY"); key != "" {
			provider.APIKey = key
		}
		if base := os.Getenv(prefix + "_API_BASE_URL"); base != "" {
			provider.BaseURL = base
		}
		c.Providers[name] = provider
	}
}

// ProviderOrDefault returns the named provider section, or a zero value when
// the file does not mention it.
func (c *Config) ProviderOrDefault(name string) Provider {
	if c == nil {
		return Provider{}
	}
	return c.Providers[name]
}
