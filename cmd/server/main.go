package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yegors/flightboard/internal/api"
	"github.com/yegors/flightboard/internal/app"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	source := cfg.Source
	if source == "" {
		source = "built-in defaults"
	}
	log.Info("Starting flightboard server",
		logger.String("version", Version),
		logger.String("config", source),
	)

	if !cfg.HasValidAviationstackKey() {
		log.Warn("Aviationstack API key not configured, flights will be synthetic")
	}
	if !cfg.HasValidAmadeusCredentials() {
		log.Warn("Amadeus credentials not configured, offers will be synthetic")
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize service", logger.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	var history api.HistoryReader
	if a.History != nil {
		history = a.History
	}

	var metricsHandler http.Handler
	if a.Metrics != nil {
		metricsHandler = a.Metrics.Handler()
	}

	handler := api.NewHandler(a.Engine, a.Catalog, history, cfg, log)
	router := api.NewRouter(handler, metricsHandler, cfg, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a startup failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down server...", logger.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("HTTP server error", logger.String("addr", server.Addr), logger.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	} else {
		log.Info("HTTP server shutdown complete")
	}

	log.Info("Server fully stopped")
}
