// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/flippershop/internal/store"
)

// Summary is the dashboard view of recent traffic.
type Summary struct {
	Days        int
	Views       int64
	Visitors    int64
	Daily       []store.DailyVisitors
	TopProducts []store.ProductViews
}

// Stats reads aggregated page view data.
type Stats struct {
	queries *store.Queries
	now     func() time.Time
}

// NewStats creates a Stats reader.
func NewStats(db *sql.DB) *Stats {
	return &Stats{queries: store.New(db), now: func() time.Time { return time.Now().UTC() }}
}

// Summary covers the last days calendar days including today.
func (s *Stats) Summary(ctx context.Context, days int, topN int64) (Summary, error) {
	if days < 1 {
		days = 1
	}
	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	sum := Summary{Days: days}
	var err error
	if sum.Views, sum.Visitors, err = s.queries.CountPageViewsSince(ctx, since); err != nil {
		return Summary{}, fmt.Errorf("counting page views: %w", err)
	}
	if sum.Daily, err = s.queries.DailyVisitorsSince(ctx, since); err != nil {
		return Summary{}, fmt.Errorf("daily visitors: %w", err)
	}
	if sum.TopProducts, err = s.queries.TopViewedProducts(ctx, since, topN); err != nil {
		return Summary{}, fmt.Errorf("top products: %w", err)
	}
	return sum, nil
}

// Purge deletes views older than retention.
func (s *Stats) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.DeletePageViewsBefore(ctx, s.now().Add(-retention))
}
