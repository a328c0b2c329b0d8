package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yegors/flightboard/internal/airports"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/internal/flights"
	"github.com/yegors/flightboard/internal/metrics"
	"github.com/yegors/flightboard/internal/source"
	"github.com/yegors/flightboard/internal/storage/sqlite"
	"github.com/yegors/flightboard/pkg/logger"
)

// App holds the wired service components shared by the server and the CLI
type App struct {
	Config  *config.Config
	Catalog *airports.Catalog
	Metrics *metrics.Metrics
	Engine  *flights.Engine
	History *sqlite.FetchLog // nil when storage is disabled

	logger *logger.Logger
}

// New builds every component from a validated configuration
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	appLogger := log.Named("app")

	catalog, err := loadCatalog(cfg, appLogger)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateAirports(catalog); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := flights.SystemClock(loc)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	cache, err := flights.NewCache(cfg.CacheTTL(), clock, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create flight cache: %w", err)
	}

	aviationstack := source.NewAviationstackClient(source.AviationstackConfig{
		APIKey:   cfg.Aviationstack.APIKey,
		BaseURL:  cfg.Aviationstack.BaseURL,
		PageSize: cfg.Aviationstack.PageSize,
		Timeout:  time.Duration(cfg.Aviationstack.RequestTimeoutSec) * time.Second,
		Enabled:  cfg.HasValidAviationstackKey(),
	}, m, log)

	amadeus := source.NewAmadeusClient(source.AmadeusConfig{
		ClientID:     cfg.Amadeus.ClientID,
		ClientSecret: cfg.Amadeus.ClientSecret,
		AuthURL:      cfg.Amadeus.AuthURL,
		BaseURL:      cfg.Amadeus.BaseURL,
		MaxOffers:    cfg.Amadeus.MaxOffers,
		SafetyMargin: time.Duration(cfg.Amadeus.TokenSafetyMarginSecs) * time.Second,
		Timeout:      time.Duration(cfg.Amadeus.RequestTimeoutSec) * time.Second,
		Enabled:      cfg.HasValidAmadeusCredentials(),
	}, m, log)

	engine := flights.NewEngine(
		flights.EngineConfig{
			AllowedAirports: cfg.Flights.AllowedAirports,
			HubSampleSize:   cfg.Aviationstack.HubSampleSize,
			MaxAccumulated:  cfg.Aviationstack.MaxAccumulated,
			MaxBatch:        cfg.Aviationstack.MaxBatch,
		},
		cache,
		flights.NewStateDeriver(catalog, log),
		flights.NewGenerator(catalog, nil, log),
		aviationstack,
		amadeus,
		clock,
		log,
	)
	engine.SetMetrics(m)

	a := &App{
		Config:  cfg,
		Catalog: catalog,
		Metrics: m,
		Engine:  engine,
		logger:  appLogger,
	}

	if cfg.Storage.SQLitePath != "" {
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		history, err := sqlite.NewFetchLog(cfg.Storage.SQLitePath, cfg.Storage.HistoryLimit, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open fetch history: %w", err)
		}
		a.History = history
		engine.SetHistory(history)
	}

	appLogger.Info("Flight engine ready",
		logger.Bool("aviationstack_enabled", aviationstack.Enabled()),
		logger.Bool("amadeus_enabled", amadeus.Enabled()),
		logger.Bool("history_enabled", a.History != nil),
		logger.Bool("metrics_enabled", m != nil),
		logger.Int("allowed_airports", len(cfg.Flights.AllowedAirports)),
		logger.Duration("cache_ttl", cfg.CacheTTL()),
		logger.String("timezone", loc.String()))

	return a, nil
}

// Close releases the fetch history database
func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

func loadCatalog(cfg *config.Config, log *logger.Logger) (*airports.Catalog, error) {
	if cfg.Flights.AirportsDBPath == "" {
		return airports.NewCatalog(), nil
	}
	catalog, err := airports.LoadCatalog(cfg.Flights.AirportsDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load airports database: %w", err)
	}
	log.Info("Loaded airports database",
		logger.String("path", cfg.Flights.AirportsDBPath),
		logger.Int("airports", catalog.Len()))
	return catalog, nil
}
