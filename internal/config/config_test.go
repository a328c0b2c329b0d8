package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightboard/internal/airports"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090

[aviationstack]
api_key = "real-key"

[flights]
cache_ttl_minutes = 10
allowed_airports = ["mad", "BCN"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15, cfg.Aviationstack.PageSize)
	assert.Equal(t, 7, cfg.Aviationstack.HubSampleSize)
	assert.Equal(t, 40, cfg.Aviationstack.MaxAccumulated)
	assert.Equal(t, 20, cfg.Aviationstack.MaxBatch)
	assert.Equal(t, 300, cfg.Amadeus.TokenSafetyMarginSecs)
	assert.Equal(t, "https://test.api.amadeus.com/v2", cfg.Amadeus.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
	assert.Equal(t, []string{"MAD", "BCN"}, cfg.Flights.AllowedAirports)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.HasValidAviationstackKey())
	assert.False(t, cfg.HasValidAmadeusCredentials())
}

func TestLoadMetricsCanBeDisabled(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[metrics]\nenabled = false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateAirports(airports.NewCatalog()))

	assert.Equal(t, 30*time.Minute, cfg.CacheTTL())
	assert.Equal(t, airports.DefaultAllowList, cfg.Flights.AllowedAirports)
	assert.False(t, cfg.HasValidAviationstackKey())
}

func TestLoadWithFallbackWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWithFallback("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, 8080, cfg.Server.Port)

	_, err = LoadWithFallback("missing.toml")
	assert.Error(t, err)
}

func TestLoadWithFallbackFindsConfigsDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "config.toml"), []byte("[server]\nport = 7000\n"), 0o644))

	cfg, err := LoadWithFallback("")
	require.NoError(t, err)
	assert.Equal(t, "configs/config.toml", cfg.Source)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestEnvironmentOverridesSecrets(t *testing.T) {
	t.Setenv(EnvAviationstackKey, "env-key")
	t.Setenv(EnvAmadeusID, "env-id")
	t.Setenv(EnvAmadeusSecret, "env-secret")

	cfg, err := Load(writeConfig(t, `
[aviationstack]
api_key = "TU_API_KEY"
`))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Aviationstack.APIKey)
	assert.True(t, cfg.HasValidAviationstackKey())
	assert.True(t, cfg.HasValidAmadeusCredentials())
}

func TestCredentialValidity(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"blank", "", false},
		{"whitespace", "   ", false},
		{"placeholder", "TU_API_KEY_AQUI", false},
		{"real", "3f1c2d9e", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Aviationstack.APIKey = tt.value
			cfg.Amadeus.ClientID = tt.value
			cfg.Amadeus.ClientSecret = "secret"
			assert.Equal(t, tt.want, cfg.HasValidAviationstackKey())
			assert.Equal(t, tt.want, cfg.HasValidAmadeusCredentials())
		})
	}

	cfg := Default()
	cfg.Flights.PlaceholderPrefix = "CHANGE_ME"
	cfg.Aviationstack.APIKey = "CHANGE_ME_KEY"
	assert.False(t, cfg.HasValidAviationstackKey())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"page size", func(c *Config) { c.Aviationstack.PageSize = -1 }},
		{"ttl", func(c *Config) { c.Flights.CacheTTLMinutes = -5 }},
		{"timezone", func(c *Config) { c.Flights.Timezone = "Mars/Olympus" }},
		{"airport code", func(c *Config) { c.Flights.AllowedAirports = []string{"MADRID"} }},
		{"static dir", func(c *Config) { c.Server.StaticFilesDir = "/does/not/exist" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAirportsRejectsUnknownCodes(t *testing.T) {
	cfg := Default()
	cfg.Flights.AllowedAirports = []string{"MAD", "QQQ"}
	err := cfg.ValidateAirports(airports.NewCatalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QQQ")
}
