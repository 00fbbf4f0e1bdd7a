package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/foodsearch/internal/config"
	"github.com/JonMunkholm/foodsearch/internal/core"
	"github.com/JonMunkholm/foodsearch/internal/logging"
	"github.com/JonMunkholm/foodsearch/internal/metrics"
	"github.com/JonMunkholm/foodsearch/internal/source"
	"github.com/JonMunkholm/foodsearch/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_source", cfg.Data.Source,
		"menu_associations", cfg.Data.MenuAssociations,
		"strict_headers", cfg.Data.StrictHeaders,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	var collector *metrics.Collector
	var observer core.Observer
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		observer = collector
	}

	ctx := context.Background()
	session, closeSource, err := source.NewSession(ctx, cfg, observer)
	if err != nil {
		slog.Error("failed to open data source", "source", cfg.Data.Source, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	// A missing or malformed catalog is fatal at startup rather than on
	// the first request.
	if cfg.Data.EagerLoad {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Server.RequestTimeout)
		_, err := session.Catalog(loadCtx)
		cancel()
		if err != nil {
			slog.Error("failed to load catalog",
				"location", session.Location(),
				"error", err,
				"hint", core.FormatUserError(err),
			)
			closeSource()
			os.Exit(1)
		}
	}

	service := core.NewService(session, observer)
	server := web.NewServer(service, cfg, collector)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr(), "location", session.Location())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		closeSource()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
