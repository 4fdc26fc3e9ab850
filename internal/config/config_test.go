package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/parish-services/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "parish.yaml", `
api:
  base_url: http://192.168.1.10
  endpoints:
    funeral: http://192.168.1.20/system/funeral_submit.php
log:
  level: debug
  development: true
stub:
  addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.10", cfg.API.BaseURL)
	assert.Equal(t, map[domain.FormType]string{
		domain.Funeral: "http://192.168.1.20/system/funeral_submit.php",
	}, cfg.EndpointOverrides())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, ":9090", cfg.Stub.Addr)
	// Unset keys keep their defaults.
	assert.Equal(t, "parish-stub.db", cfg.Stub.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "api: [unterminated"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("PARISH_API_BASE_URL", "http://10.0.0.5")
		t.Setenv("PARISH_LOG_LEVEL", "warn")
		t.Setenv("PARISH_STUB_DB", "/tmp/x.db")

		cfg, err := Load(writeFile(t, "parish.yaml", "api:\n  base_url: http://192.168.1.10\n"))
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.5", cfg.API.BaseURL)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "/tmp/x.db", cfg.Stub.DBPath)
	})

	t.Run("per-form endpoint", func(t *testing.T) {
		t.Setenv("PARISH_API_URL_SICK_CALL", "http://10.0.0.9/sick.php")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "http://10.0.0.9/sick.php", cfg.EndpointOverrides()[domain.SickCall])
	})

	t.Run("seed account", func(t *testing.T) {
		t.Setenv("PARISH_STUB_SEED_EMAIL", "priest@parish.local")
		t.Setenv("PARISH_STUB_SEED_PASSWORD", "amen")
		t.Setenv("PARISH_STUB_ADDR", "127.0.0.1:7000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "priest@parish.local", cfg.Stub.SeedEmail)
		assert.Equal(t, "amen", cfg.Stub.SeedPassword)
		assert.Equal(t, "127.0.0.1:7000", cfg.Stub.Addr)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no scheme", func(c *Config) { c.API.BaseURL = "192.168.1.10" }},
		{"ftp", func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{"unknown form", func(c *Config) { c.API.Endpoints["wedding"] = "http://h/w.php" }},
		{"bad override", func(c *Config) { c.API.Endpoints["pamisa"] = "nope" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "parish.yaml")
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://parish.example.org"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPath(t *testing.T) {
	t.Setenv(PathEnv, "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv(PathEnv, "/etc/parish.yaml")
	assert.Equal(t, "/etc/parish.yaml", Path())
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "PARISH_TEST_DOTENV=from-file\n")
	t.Setenv("PARISH_TEST_DOTENV", "")
	os.Unsetenv("PARISH_TEST_DOTENV")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("PARISH_TEST_DOTENV"))
}
