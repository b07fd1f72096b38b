// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records anonymous storefront page views and summarizes
// them for the admin dashboard.
package analytics

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/flippershop/internal/store"
	"github.com/olegiv/flippershop/internal/util"
)

const productPathPrefix = "/products/"

var (
	skippedPrefixes = []string{"/static/", "/admin", "/health", "/language", "/favicon", "/robots.txt", "/.well-known/"}
	skippedSuffixes = []string{".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp", ".woff", ".woff2", ".map"}
)

// CountryResolver maps an IP to a country code.
type CountryResolver interface {
	Country(ip string) string
}

// Tracker is middleware that records successful storefront GETs.
type Tracker struct {
	queries  *store.Queries
	geo      CountryResolver
	language func(*http.Request) string
	logger   *slog.Logger
	salt     dailySalt
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewTracker creates a Tracker. geo and language may be nil.
func NewTracker(db *sql.DB, geo CountryResolver, language func(*http.Request) string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		queries:  store.New(db),
		geo:      geo,
		language: language,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records the view after the handler finished with 200.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shouldTrack(r) {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status != http.StatusOK {
			return
		}

		ua := parseUserAgent(r.UserAgent())
		if ua.DeviceType == DeviceBot {
			return
		}

		ip := util.ClientIP(r)
		view := store.CreatePageViewParams{
			VisitorHash: visitorHash(t.salt.current(t.now()), ip, r.UserAgent()),
			Path:        r.URL.Path,
			ProductSlug: productSlug(r.URL.Path),
			Browser:     ua.Browser,
			Os:          ua.OS,
			DeviceType:  ua.DeviceType,
			CreatedAt:   t.now(),
		}
		if t.language != nil {
			view.Language = t.language(r)
		}
		if t.geo != nil {
			view.CountryCode = t.geo.Country(ip)
		}

		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.queries.CreatePageView(ctx, view); err != nil {
				t.logger.Error("failed to record page view", "error", err, "path", view.Path)
			}
		}()
	})
}

// Wait blocks until pending writes finish. Used on shutdown.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func shouldTrack(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	path := r.URL.Path
	for _, p := range skippedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	lower := strings.ToLower(path)
	for _, s := range skippedSuffixes {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	return true
}

func productSlug(path string) string {
	slug, ok := strings.CutPrefix(path, productPathPrefix)
	if !ok || slug == "" || strings.Contains(slug, "/") {
		return ""
	}
	return slug
}
