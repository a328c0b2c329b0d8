package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/yegors/flightboard/internal/airports"
)

// Environment variables that override provider secrets
const (
	EnvAviationstackKey = "AVIATIONSTACK_API_KEY"
	EnvAmadeusID        = "AMADEUS_CLIENT_ID"
	EnvAmadeusSecret    = "AMADEUS_CLIENT_SECRET"
)

// DefaultPlaceholderPrefix marks credentials copied from a template and never filled in
const DefaultPlaceholderPrefix = "TU_"

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server        ServerConfig        `toml:"server"`        // HTTP server settings
	Logging       LoggingConfig       `toml:"logging"`       // Application logging settings
	Aviationstack AviationstackConfig `toml:"aviationstack"` // Flight-status provider
	Amadeus       AmadeusConfig       `toml:"amadeus"`       // Fare-offer provider
	Flights       FlightsConfig       `toml:"flights"`       // Cache, clock and allow-list
	Storage       StorageConfig       `toml:"storage"`       // Fetch history persistence
	Metrics       MetricsConfig       `toml:"metrics"`       // Prometheus endpoint

	// Source is the file the configuration was read from, empty for built-in defaults
	Source string `toml:"-"`
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // List of origins allowed for CORS requests (use ["*"] for all origins)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	StaticFilesDir     string   `toml:"static_files_dir"`      // Optional directory with a front end served at / (empty disables it)
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`        // Log level: "debug", "info", "warn", or "error"
	Format     string `toml:"format"`       // Log format: "json" (structured) or "console" (human-readable)
	File       string `toml:"file"`         // Optional rotating log file
	MaxSizeMB  int    `toml:"max_size_mb"`  // Rotate after this size
	MaxBackups int    `toml:"max_backups"`  // Rotated files to keep
	MaxAgeDays int    `toml:"max_age_days"` // Days to keep rotated files
}

// AviationstackConfig configures the flight-status provider
type AviationstackConfig struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	HubSampleSize     int    `toml:"hub_sample_size"`         // Hubs queried per acquisition
	PageSize          int    `toml:"page_size"`               // Records requested per hub
	MaxAccumulated    int    `toml:"max_accumulated"`         // Stop querying hubs once this many records are accepted
	MaxBatch          int    `toml:"max_batch"`               // Records kept per batch
	RequestTimeoutSec int    `toml:"request_timeout_seconds"` // Per-request HTTP timeout
}

// AmadeusConfig configures the fare-offer provider
type AmadeusConfig struct {
	ClientID              string `toml:"client_id"`
	ClientSecret          string `toml:"client_secret"`
	AuthURL               string `toml:"auth_url"`
	BaseURL               string `toml:"base_url"`
	MaxOffers             int    `toml:"max_offers"`
	TokenSafetyMarginSecs int    `toml:"token_safety_margin_seconds"` // Refresh this long before the token expires
	RequestTimeoutSec     int    `toml:"request_timeout_seconds"`
}

// FlightsConfig contains cache and airport settings
type FlightsConfig struct {
	CacheTTLMinutes   int      `toml:"cache_ttl_minutes"`
	Timezone          string   `toml:"timezone"`           // IANA zone used for "now" and naive timestamps
	AllowedAirports   []string `toml:"allowed_airports"`   // Accepted arrival airports, also the hub pool
	AirportsDBPath    string   `toml:"airports_db_path"`   // Optional OurAirports CSV extending the built-in catalog
	PlaceholderPrefix string   `toml:"placeholder_prefix"` // Credentials starting with this are treated as unset
}

// StorageConfig contains fetch history persistence settings
type StorageConfig struct {
	SQLitePath   string `toml:"sqlite_path"`   // Empty disables the fetch history
	HistoryLimit int    `toml:"history_limit"` // Rows kept in the fetch history
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no file is found.
// It runs fully on synthetic data.
func Default() *Config {
	c := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	c.applyDefaults()
	return c
}

// Load loads the configuration from the specified file path
func Load(path string) (*Config, error) {
	var config Config

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Metrics default to on unless the file says otherwise
	if !meta.IsDefined("metrics", "enabled") {
		config.Metrics.Enabled = true
	}

	config.Source = path
	config.applyEnv()
	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference.
// When no file exists anywhere the built-in defaults are returned.
func LoadWithFallback(preferredPath string) (*Config, error) {
	// List of paths to check in order of preference
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // Conventional location in configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	// An explicitly requested file must exist
	if preferredPath != "" {
		return nil, fmt.Errorf("config file not found: %s", preferredPath)
	}

	config := Default()
	config.applyEnv()
	return config, nil
}

// applyEnv lets environment variables override provider secrets
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAviationstackKey); v != "" {
		c.Aviationstack.APIKey = v
	}
	if v := os.Getenv(EnvAmadeusID); v != "" {
		c.Amadeus.ClientID = v
	}
	if v := os.Getenv(EnvAmadeusSecret); v != "" {
		c.Amadeus.ClientSecret = v
	}
}

// applyDefaults fills every unset value
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeoutSecs == 0 {
		c.Server.ReadTimeoutSecs = 15
	}
	if c.Server.WriteTimeoutSecs == 0 {
		c.Server.WriteTimeoutSecs = 60
	}
	if c.Server.IdleTimeoutSecs == 0 {
		c.Server.IdleTimeoutSecs = 120
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	if c.Aviationstack.BaseURL == "" {
		c.Aviationstack.BaseURL = "https://api.aviationstack.com/v1"
	}
	if c.Aviationstack.HubSampleSize == 0 {
		c.Aviationstack.HubSampleSize = 7
	}
	if c.Aviationstack.PageSize == 0 {
		c.Aviationstack.PageSize = 15
	}
	if c.Aviationstack.MaxAccumulated == 0 {
		c.Aviationstack.MaxAccumulated = 40
	}
	if c.Aviationstack.MaxBatch == 0 {
		c.Aviationstack.MaxBatch = 20
	}
	if c.Aviationstack.RequestTimeoutSec == 0 {
		c.Aviationstack.RequestTimeoutSec = 10
	}

	if c.Amadeus.AuthURL == "" {
		c.Amadeus.AuthURL = "https://test.api.amadeus.com/v1/security/oauth2/token"
	}
	if c.Amadeus.BaseURL == "" {
		c.Amadeus.BaseURL = "https://test.api.amadeus.com/v2"
	}
	if c.Amadeus.MaxOffers == 0 {
		c.Amadeus.MaxOffers = 10
	}
	if c.Amadeus.TokenSafetyMarginSecs == 0 {
		c.Amadeus.TokenSafetyMarginSecs = 300
	}
	if c.Amadeus.RequestTimeoutSec == 0 {
		c.Amadeus.RequestTimeoutSec = 15
	}

	if c.Flights.CacheTTLMinutes == 0 {
		c.Flights.CacheTTLMinutes = 30
	}
	if len(c.Flights.AllowedAirports) == 0 {
		c.Flights.AllowedAirports = append([]string(nil), airports.DefaultAllowList...)
	}
	if c.Flights.PlaceholderPrefix == "" {
		c.Flights.PlaceholderPrefix = DefaultPlaceholderPrefix
	}

	if c.Storage.HistoryLimit == 0 {
		c.Storage.HistoryLimit = 1000
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate applies defaults and validates the configuration
func (c *Config) Validate() error {
	c.applyDefaults()

	// Validate server config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSecs < 0 || c.Server.WriteTimeoutSecs < 0 || c.Server.IdleTimeoutSecs < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}

	// Validate static files directory exists when configured
	if c.Server.StaticFilesDir != "" {
		if _, err := os.Stat(c.Server.StaticFilesDir); os.IsNotExist(err) {
			return fmt.Errorf("static files directory does not exist: %s", c.Server.StaticFilesDir)
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be 'json' or 'console')", c.Logging.Format)
	}

	if err := c.ValidateAviationstack(); err != nil {
		return err
	}

	if c.Amadeus.MaxOffers <= 0 {
		return fmt.Errorf("amadeus max_offers must be greater than 0: %d", c.Amadeus.MaxOffers)
	}
	if c.Amadeus.TokenSafetyMarginSecs < 0 {
		return fmt.Errorf("amadeus token_safety_margin_seconds must not be negative: %d", c.Amadeus.TokenSafetyMarginSecs)
	}

	if c.Flights.CacheTTLMinutes <= 0 {
		return fmt.Errorf("flights cache_ttl_minutes must be greater than 0: %d", c.Flights.CacheTTLMinutes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for i, code := range c.Flights.AllowedAirports {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 3 {
			return fmt.Errorf("invalid allowed airport code: %q", c.Flights.AllowedAirports[i])
		}
		c.Flights.AllowedAirports[i] = code
	}

	if c.Storage.HistoryLimit < 0 {
		return fmt.Errorf("storage history_limit must not be negative: %d", c.Storage.HistoryLimit)
	}

	return nil
}

// ValidateAviationstack validates the flight-status acquisition limits
func (c *Config) ValidateAviationstack() error {
	a := c.Aviationstack
	if a.HubSampleSize <= 0 {
		return fmt.Errorf("aviationstack hub_sample_size must be greater than 0: %d", a.HubSampleSize)
	}
	if a.PageSize <= 0 {
		return fmt.Errorf("aviationstack page_size must be greater than 0: %d", a.PageSize)
	}
	if a.MaxAccumulated <= 0 {
		return fmt.Errorf("aviationstack max_accumulated must be greater than 0: %d", a.MaxAccumulated)
	}
	if a.MaxBatch <= 0 {
		return fmt.Errorf("aviationstack max_batch must be greater than 0: %d", a.MaxBatch)
	}
	if a.RequestTimeoutSec <= 0 {
		return fmt.Errorf("aviationstack request_timeout_seconds must be greater than 0: %d", a.RequestTimeoutSec)
	}
	return nil
}

// ValidateAirports checks that every allow-listed airport has coordinates
func (c *Config) ValidateAirports(catalog *airports.Catalog) error {
	if missing := catalog.Missing(c.Flights.AllowedAirports); len(missing) > 0 {
		return fmt.Errorf("allowed airports without known coordinates: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Location returns the configured time zone, or the process local zone
func (c *Config) Location() (*time.Location, error) {
	if c.Flights.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Flights.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid flights timezone %q: %w", c.Flights.Timezone, err)
	}
	return loc, nil
}

// CacheTTL returns the flight cache time-to-live
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Flights.CacheTTLMinutes) * time.Minute
}

// HasValidAviationstackKey reports whether a usable flight-status key is configured
func (c *Config) HasValidAviationstackKey() bool {
	return c.validCredential(c.Aviationstack.APIKey)
}

// HasValidAmadeusCredentials reports whether both fare-provider credentials are usable
func (c *Config) HasValidAmadeusCredentials() bool {
	return c.validCredential(c.Amadeus.ClientID) && c.validCredential(c.Amadeus.ClientSecret)
}

func (c *Config) validCredential(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	prefix := c.Flights.PlaceholderPrefix
	if prefix == "" {
		prefix = DefaultPlaceholderPrefix
	}
	return !strings.HasPrefix(v, prefix)
}
