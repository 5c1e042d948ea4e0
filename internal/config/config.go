package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvInput    = "BANK_CSV"
	EnvLogLevel = "MONEYTRAIL_LOG_LEVEL"
)

// Config represents the top-level moneytrail.yaml configuration.
type Config struct {
	Input       string          `yaml:"input"`
	Format      string          `yaml:"format"`
	SelfAliases []string        `yaml:"self_aliases"`
	SpendType   string          `yaml:"spend_type"`
	Merchants   MerchantsConfig `yaml:"merchants"`
	HighValue   HighValueConfig `yaml:"high_value"`
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
}

// MerchantsConfig controls the merchant frequency table.
type MerchantsConfig struct {
	Top   int            `yaml:"top"`
	Rules []MerchantRule `yaml:"rules,omitempty"`
}

// MerchantRule renames every merchant whose name contains Contains.
type MerchantRule struct {
	Contains string `yaml:"contains"`
	Name     string `yaml:"name"`
}

// HighValueConfig controls the high-value transaction filter.
type HighValueConfig struct {
	Threshold int64 `yaml:"threshold"`
	Minimum   int64 `yaml:"minimum"`
}

// ServerConfig controls the dashboard server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a moneytrail.yaml file from disk. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input:       "bank.csv",
		Format:      "bank",
		SelfAliases: []string{"박수호", "suho", "수호"},
		SpendType:   "출금",
		Merchants: MerchantsConfig{
			Top: 5,
			Rules: []MerchantRule{
				{Contains: "금오공", Name: "금오공과대학교 편의점"},
			},
		},
		HighValue: HighValueConfig{
			Threshold: 100000,
			Minimum:   100000,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input must not be empty"))
	}
	if c.Merchants.Top <= 0 {
		errs = append(errs, fmt.Errorf("merchants.top must be positive, got %d", c.Merchants.Top))
	}
	for i, r := range c.Merchants.Rules {
		if r.Contains == "" || r.Name == "" {
			errs = append(errs, fmt.Errorf("merchants.rules[%d] needs contains and name", i))
		}
	}
	if c.HighValue.Minimum < 0 {
		errs = append(errs, fmt.Errorf("high_value.minimum must not be negative, got %d", c.HighValue.Minimum))
	}
	if c.HighValue.Threshold < c.HighValue.Minimum {
		errs = append(errs, fmt.Errorf("high_value.threshold %d is below minimum %d", c.HighValue.Threshold, c.HighValue.Minimum))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Resolve loads the config file at path (defaults when path is empty), then
// applies .env and environment overrides. A missing .env file is not an
// error.
func Resolve(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvInput); ok && v != "" {
		c.Input = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}
