// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/flippershop/internal/analytics"
	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/auth/local"
	"github.com/olegiv/flippershop/internal/auth/supabase"
	"github.com/olegiv/flippershop/internal/cache"
	"github.com/olegiv/flippershop/internal/config"
	"github.com/olegiv/flippershop/internal/geoip"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/logging"
	"github.com/olegiv/flippershop/internal/middleware"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/scheduler"
	"github.com/olegiv/flippershop/internal/service"
	"github.com/olegiv/flippershop/internal/session"
	"github.com/olegiv/flippershop/internal/store"
	"github.com/olegiv/flippershop/internal/version"
	"github.com/olegiv/flippershop/web"
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
		_, _ = fmt.Fprintf(os.Stderr, "flippershop - bilingual Flipper Zero storefront\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_DB_PATH           SQLite database path (default: ./data/shop.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_AUTH_PROVIDER     Admin auth backend: local|supabase (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_ADMIN_EMAILS      Comma-separated admin allow-list\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_SUPABASE_URL      Supabase project URL (supabase provider)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_REDIS_URL         Redis URL for the catalog cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_GEOIP_DB_PATH     GeoLite2-Country database (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_WHATSAPP_PHONE    WhatsApp number orders are sent to\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	isDev := cfg.IsDevelopment()
	level := logging.ParseLevel(cfg.LogLevel)
	slog.SetDefault(logging.New(os.Stdout, level, isDev, nil))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors also go to the events table from here on.
	logger := logging.New(os.Stdout, level, isDev, db)
	slog.SetDefault(logger)
	logger.Info("database ready")

	ctx := context.Background()
	if err := seed(ctx, cfg, db); err != nil {
		return err
	}

	catalog, err := i18n.NewCatalog(logger)
	if err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	sm := session.New(db, isDev)

	backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = backend.Close() }()

	products := service.NewProductService(db, backend, time.Duration(cfg.CacheTTL)*time.Second)
	events := service.NewEventService(db)

	var (
		provider      auth.Provider
		localProvider *local.Provider
	)
	if cfg.UsesSupabase() {
		provider = supabase.NewProvider(supabase.Config{
			URL:         cfg.SupabaseURL,
			AnonKey:     cfg.SupabaseAnonKey,
			JWTSecret:   cfg.SupabaseJWTSecret,
			AdminEmails: cfg.AdminEmails,
			Logger:      logger,
		})
	} else {
		localProvider = local.NewProvider(db, cfg.AdminEmails, logger)
		provider = localProvider
	}
	guard := auth.NewGuard(provider, auth.WithTimeout(cfg.AuthTimeout), auth.WithLogger(logger))
	logger.Info("admin authentication configured", "provider", cfg.AuthProvider)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("GeoIP disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	tracker := analytics.NewTracker(db, geo, middleware.LanguageFromRequest, logger)
	stats := analytics.NewStats(db)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		Catalog:        catalog,
		WhatsAppPhone:  cfg.WhatsAppPhone,
		IsDev:          isDev,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer lp.Close()

	router, err := newRouter(routerDeps{
		cfg:      cfg,
		info:     info,
		db:       db,
		logger:   logger,
		catalog:  catalog,
		sm:       sm,
		guard:    guard,
		lp:       lp,
		renderer: renderer,
		products: products,
		events:   events,
		stats:    stats,
		tracker:  tracker,
	})
	if err != nil {
		return err
	}

	sched := scheduler.New(logger)
	maint := scheduler.Maintenance{
		PageViews:         stats,
		PageViewRetention: time.Duration(cfg.PageViewRetentionDays) * 24 * time.Hour,
		Events:            events,
		EventRetention:    scheduler.DefaultEventRetention,
	}
	if localProvider != nil {
		maint.Sessions = localProvider
	}
	if cfg.GeoIPEnabled() {
		maint.GeoIP = geo
	}
	if err := sched.RegisterMaintenance(maint); err != nil {
		return fmt.Errorf("registering maintenance jobs: %w", err)
	}
	sched.Start()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	sched.Stop()
	tracker.Wait()

	logger.Info("server stopped")
	return nil
}

// seed creates the default admin for the local provider and fills an empty
// catalog with the starter products.
func seed(ctx context.Context, cfg *config.Config, db *sql.DB) error {
	if !cfg.UsesSupabase() {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
	}

	counts, err := store.New(db).CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if cfg.DoSeed || counts.Total == 0 {
		if err := store.SeedCatalog(ctx, db); err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
	}
	return nil
}
