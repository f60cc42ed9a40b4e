// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/redux-collective/redux-go/internal/config"
	"github.com/redux-collective/redux-go/internal/content"
	"github.com/redux-collective/redux-go/internal/handler/api"
	"github.com/redux-collective/redux-go/internal/kv"
	"github.com/redux-collective/redux-go/internal/logging"
	"github.com/redux-collective/redux-go/internal/middleware"
	"github.com/redux-collective/redux-go/internal/scheduler"
	"github.com/redux-collective/redux-go/internal/service"
	"github.com/redux-collective/redux-go/internal/slots"
	"github.com/redux-collective/redux-go/internal/transfer"
	"github.com/redux-collective/redux-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "redux - REDUX content service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_STORE_BACKEND    Storage backend: memory|sqlite|redis (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_DB_PATH          SQLite database path (default: ./data/redux.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_REDIS_URL        Redis URL for the redis backend\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_UPLOADS_DIR      Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDUX_SITE_NAME        Site name embedded in exports (default: REDUX)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("redux %s\n", info)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(newLogHandler(cfg))
	slog.SetDefault(logger)

	// Ensure the data directory exists before opening SQLite
	if cfg.StoreBackend == kv.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing store", "backend", cfg.StoreBackend)
	kvs, err := kv.NewStore(kv.StoreConfig{
		Type:     cfg.StoreBackend,
		DBPath:   cfg.DBPath,
		RedisURL: cfg.RedisURL,
		Prefix:   cfg.RedisPrefix,
	})
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer func() {
		if err := kvs.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()
	if cfg.StoreBackend == kv.BackendRedis {
		slog.Info("redis backend ready", "url", kv.SanitizeRedisURL(cfg.RedisURL))
	}

	// Upgrade the logger so WARN and ERROR records also land in the event log
	events := logging.NewEventLog(kvs)
	logger = slog.New(logging.NewEventLogHandler(newLogHandler(cfg), events))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()

	contentStore := content.NewStore(kvs, content.StoreOptions{Retention: cfg.VersionRetention})

	registry, err := slots.NewRegistry(ctx, slots.DefaultCatalog(), kvs)
	if err != nil {
		return fmt.Errorf("initializing slot registry: %w", err)
	}
	slog.Info("slot registry ready", "slots", registry.Catalog().Len())

	uploads := service.NewUploadService(registry, cfg.UploadsDir)
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	site := transfer.ExportSite{
		Name:        cfg.SiteName,
		Description: cfg.SiteDescription,
		URL:         cfg.SiteURL,
	}
	exporter := transfer.NewExporter(contentStore, registry, site, logger)
	importer := transfer.NewImporter(contentStore, registry, logger)

	// Background maintenance
	if cfg.SchedulerEnabled {
		eventMaxAge := time.Duration(cfg.EventMaxAgeDays) * 24 * time.Hour
		sched := scheduler.New(contentStore, events, eventMaxAge, logger)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Compress())
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r.Use(rateLimiter.Middleware())
	slog.Info("rate limiter initialized", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)

	apiHandler := api.NewHandler(contentStore, registry, uploads, events, exporter, importer, appVersion)
	r.Mount("/api/v1", apiHandler.Routes())

	// Uploaded assets, served verbatim
	uploadsDir, err := filepath.Abs(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("resolving uploads directory: %w", err)
	}
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=2592000")
		fileServer.ServeHTTP(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newLogHandler builds the base slog handler from the configured level and
// format.
func newLogHandler(cfg *config.Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.NewTextHandler(os.Stdout, opts)
}
