// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreatePageViewParams holds the columns for CreatePageView.
type CreatePageViewParams struct {
	VisitorHash string
	Path        string
	ProductSlug string
	Language    string
	Browser     string
	Os          string
	DeviceType  string
	CountryCode string
	CreatedAt   time.Time
}

const createPageView = `INSERT INTO page_views (
    visitor_hash, path, product_slug, language, browser, os, device_type, country_code, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreatePageView records one storefront hit.
func (q *Queries) CreatePageView(ctx context.Context, arg CreatePageViewParams) error {
	_, err := q.db.ExecContext(ctx, createPageView,
		arg.VisitorHash,
		arg.Path,
		arg.ProductSlug,
		arg.Language,
		arg.Browser,
		arg.Os,
		arg.DeviceType,
		arg.CountryCode,
		arg.CreatedAt,
	)
	return err
}

const countPageViewsSince = `SELECT COUNT(*), COUNT(DISTINCT visitor_hash) FROM page_views WHERE created_at >= ?`

// CountPageViewsSince returns total views and distinct visitors since the given time.
func (q *Queries) CountPageViewsSince(ctx context.Context, since time.Time) (views, visitors int64, err error) {
	err = q.db.QueryRowContext(ctx, countPageViewsSince, since).Scan(&views, &visitors)
	return views, visitors, err
}

// DailyVisitors is one row of the visitor trend.
type DailyVisitors struct {
	Day      string
	Views    int64
	Visitors int64
}

const dailyVisitorsSince = `SELECT substr(created_at, 1, 10) AS day, COUNT(*), COUNT(DISTINCT visitor_hash)
FROM page_views WHERE created_at >= ?
GROUP BY day ORDER BY day`

// DailyVisitorsSince groups views per calendar day (UTC).
func (q *Queries) DailyVisitorsSince(ctx context.Context, since time.Time) ([]DailyVisitors, error) {
	rows, err := q.db.QueryContext(ctx, dailyVisitorsSince, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []DailyVisitors
	for rows.Next() {
		var i DailyVisitors
		if err := rows.Scan(&i.Day, &i.Views, &i.Visitors); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ProductViews is a product slug with its view count.
type ProductViews struct {
	ProductSlug string
	Views       int64
}

const topViewedProducts = `SELECT product_slug, COUNT(*) AS views FROM page_views
WHERE product_slug != '' AND created_at >= ?
GROUP BY product_slug ORDER BY views DESC, product_slug LIMIT ?`

// TopViewedProducts returns the most viewed product pages since the given time.
func (q *Queries) TopViewedProducts(ctx context.Context, since time.Time, limit int64) ([]ProductViews, error) {
	rows, err := q.db.QueryContext(ctx, topViewedProducts, since, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ProductViews
	for rows.Next() {
		var i ProductViews
		if err := rows.Scan(&i.ProductSlug, &i.Views); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deletePageViewsBefore = `DELETE FROM page_views WHERE created_at < ?`

// DeletePageViewsBefore purges views older than cutoff.
func (q *Queries) DeletePageViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePageViewsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
