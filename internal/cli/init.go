// Package cli provides common initialization utilities shared by
// cmd/spendlens and cmd/spendlens-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendlens/internal/config"
	applog "spendlens/internal/log"
	gsheet "spendlens/internal/sheets/google"
)

// SetupLogger builds a logger from level and format strings and installs it
// as the slog default.
func SetupLogger(level, format, component string) (*applog.Logger, error) {
	lvl, err := applog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := applog.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	cfg := applog.DefaultConfig()
	cfg.Level = lvl
	cfg.Format = f
	cfg.Component = component

	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExporterConfig maps application config onto the sheets exporter settings.
func ExporterConfig(cfg *config.Config) gsheet.Config {
	return gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		OAuthClientJSON:    cfg.GoogleOAuthClientJSON,
		OAuthClientFile:    cfg.GoogleOAuthClientFile,
		OAuthTokenJSON:     cfg.GoogleOAuthTokenJSON,
		OAuthTokenFile:     cfg.GoogleOAuthTokenFile,
		BatchSize:          cfg.GoogleExportBatchSize,
	}
}

// NewExporter validates the export settings and builds a Sheets exporter.
func NewExporter(ctx context.Context, cfg *config.Config) (*gsheet.Exporter, error) {
	if err := cfg.ValidateExport(); err != nil {
		return nil, err
	}
	x, err := gsheet.NewExporter(ctx, ExporterConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("init sheets exporter: %w", err)
	}
	return x, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
