// Package config loads settings for the CLI and the stand-in server from an
// optional YAML file, a .env file, and PARISH_* environment variables, in
// increasing order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
)

const (
	DefaultPath = "parish.yaml"
	PathEnv     = "PARISH_CONFIG"

	endpointEnvPrefix = "PARISH_API_URL_"
)

type Config struct {
	API  APIConfig  `yaml:"api"`
	Log  LogConfig  `yaml:"log"`
	Stub StubConfig `yaml:"stub"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Endpoints maps a form type to a full URL used instead of
	// BaseURL + the form's path.
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// StubConfig configures the development stand-in API.
type StubConfig struct {
	Addr         string `yaml:"addr"`
	DBPath       string `yaml:"db_path"`
	SeedEmail    string `yaml:"seed_email"`
	SeedPassword string `yaml:"seed_password"`
	SeedName     string `yaml:"seed_name"`
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			Endpoints: map[string]string{},
		},
		Log: LogConfig{Level: "info"},
		Stub: StubConfig{
			Addr:         ":8080",
			DBPath:       "parish-stub.db",
			SeedEmail:    "demo@parish.local",
			SeedPassword: "parish123",
			SeedName:     "Demo Parishioner",
		},
	}
}

// Path returns the config file named by PARISH_CONFIG, or DefaultPath.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. With no arguments it loads ./.env.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads path over the defaults, then applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if cfg.API.Endpoints == nil {
		cfg.API.Endpoints = map[string]string{}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PARISH_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	for _, s := range catalog.All() {
		if v := os.Getenv(endpointEnvPrefix + strings.ToUpper(string(s.Type))); v != "" {
			c.API.Endpoints[string(s.Type)] = v
		}
	}
	if v := os.Getenv("PARISH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PARISH_STUB_ADDR"); v != "" {
		c.Stub.Addr = v
	}
	if v := os.Getenv("PARISH_STUB_DB"); v != "" {
		c.Stub.DBPath = v
	}
	if v := os.Getenv("PARISH_STUB_SEED_EMAIL"); v != "" {
		c.Stub.SeedEmail = v
	}
	if v := os.Getenv("PARISH_STUB_SEED_PASSWORD"); v != "" {
		c.Stub.SeedPassword = v
	}
}

// EndpointOverrides returns the per-form URL overrides keyed by form type.
func (c *Config) EndpointOverrides() map[domain.FormType]string {
	out := make(map[domain.FormType]string, len(c.API.Endpoints))
	for k, v := range c.API.Endpoints {
		out[domain.FormType(k)] = v
	}
	return out
}

// Validate checks URLs, endpoint keys and the log level.
func (c *Config) Validate() error {
	if err := checkURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	keys := make([]string, 0, len(c.API.Endpoints))
	for k := range c.API.Endpoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := catalog.ForType(domain.FormType(k)); !ok {
			return fmt.Errorf("api.endpoints: unknown form type %q", k)
		}
		if err := checkURL(c.API.Endpoints[k]); err != nil {
			return fmt.Errorf("api.endpoints.%s: %w", k, err)
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
