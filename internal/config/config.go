// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Authentication backends.
const (
	AuthProviderLocal    = "local"
	AuthProviderSupabase = "supabase"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"SHOP_DB_PATH" envDefault:"./data/shop.db"`
	SessionSecret string `env:"SHOP_SESSION_SECRET,required"`
	ServerHost    string `env:"SHOP_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SHOP_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SHOP_ENV" envDefault:"development"`
	LogLevel      string `env:"SHOP_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"SHOP_SITE_URL" envDefault:"http://localhost:8080"`

	// Admin authentication
	AuthProvider      string        `env:"SHOP_AUTH_PROVIDER" envDefault:"local"`
	AuthTimeout       time.Duration `env:"SHOP_AUTH_TIMEOUT" envDefault:"10s"`
	AdminEmails       []string      `env:"SHOP_ADMIN_EMAILS" envSeparator:","`
	SupabaseURL       string        `env:"SHOP_SUPABASE_URL"`
	SupabaseAnonKey   string        `env:"SHOP_SUPABASE_ANON_KEY"`
	SupabaseJWTSecret string        `env:"SHOP_SUPABASE_JWT_SECRET"`

	// Cache configuration
	RedisURL     string `env:"SHOP_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SHOP_CACHE_PREFIX" envDefault:"shop:"`   // Redis key prefix
	CacheTTL     int    `env:"SHOP_CACHE_TTL" envDefault:"600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"SHOP_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Storefront
	WhatsAppPhone string `env:"SHOP_WHATSAPP_PHONE" envDefault:"972549512744"`

	// Analytics
	GeoIPDBPath           string `env:"SHOP_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file
	PageViewRetentionDays int    `env:"SHOP_PAGEVIEW_RETENTION_DAYS" envDefault:"90"`

	DoSeed bool `env:"SHOP_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// UsesSupabase reports whether admin sessions are issued by the hosted Supabase project.
func (c Config) UsesSupabase() bool {
	return c.AuthProvider == AuthProviderSupabase
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SHOP_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SHOP_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SHOP_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.AdminEmails = normalizeEmails(cfg.AdminEmails)

	switch cfg.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("SHOP_AUTH_PROVIDER=supabase requires SHOP_SUPABASE_URL and SHOP_SUPABASE_ANON_KEY")
		}
		if len(cfg.AdminEmails) == 0 {
			return nil, fmt.Errorf("SHOP_AUTH_PROVIDER=supabase requires SHOP_ADMIN_EMAILS")
		}
	default:
		return nil, fmt.Errorf("unknown SHOP_AUTH_PROVIDER %q (want %q or %q)",
			cfg.AuthProvider, AuthProviderLocal, AuthProviderSupabase)
	}

	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = 10 * time.Second
	}

	return cfg, nil
}

// normalizeEmails lowercases and trims the admin allow-list, dropping blanks.
func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
