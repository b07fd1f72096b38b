// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Default maintenance schedules.
const (
	SessionPurgeSchedule  = "*/15 * * * *"
	PageViewPurgeSchedule = "30 3 * * *"
	EventPurgeSchedule    = "45 3 * * *"
	GeoIPReloadSchedule   = "0 4 * * 0"
	DefaultEventRetention = 30 * 24 * time.Hour
)

// SessionPurger deletes expired admin sessions.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PageViewPurger deletes page views older than a retention window.
type PageViewPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// EventPurger deletes old event log entries.
type EventPurger interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) error
}

// Reloader reopens an on-disk database, e.g. GeoIP.
type Reloader interface {
	Reload() error
}

// Maintenance lists the collaborators for the built-in jobs. Nil fields
// leave the corresponding job unregistered.
type Maintenance struct {
	Sessions          SessionPurger
	PageViews         PageViewPurger
	PageViewRetention time.Duration
	Events            EventPurger
	EventRetention    time.Duration
	GeoIP             Reloader
}

// RegisterMaintenance adds the cleanup jobs configured in m.
func (s *Scheduler) RegisterMaintenance(m Maintenance) error {
	var jobs []Job

	if m.Sessions != nil {
		jobs = append(jobs, Job{
			Name:        "purge-admin-sessions",
			Description: "Delete expired admin sessions",
			Schedule:    SessionPurgeSchedule,
			Run: func(ctx context.Context) error {
				n, err := m.Sessions.PurgeExpired(ctx)
				if err != nil {
					return err
				}
				logPurged(s.logger, "admin sessions", n)
				return nil
			},
		})
	}

	if m.PageViews != nil && m.PageViewRetention > 0 {
		jobs = append(jobs, Job{
			Name:        "purge-page-views",
			Description: "Delete page views past the retention window",
			Schedule:    PageViewPurgeSchedule,
			Run: func(ctx context.Context) error {
				n, err := m.PageViews.Purge(ctx, m.PageViewRetention)
				if err != nil {
					return err
				}
				logPurged(s.logger, "page views", n)
				return nil
			},
		})
	}

	if m.Events != nil {
		retention := m.EventRetention
		if retention <= 0 {
			retention = DefaultEventRetention
		}
		jobs = append(jobs, Job{
			Name:        "purge-events",
			Description: "Delete old event log entries",
			Schedule:    EventPurgeSchedule,
			Run: func(ctx context.Context) error {
				return m.Events.DeleteOldEvents(ctx, retention)
			},
		})
	}

	if m.GeoIP != nil {
		jobs = append(jobs, Job{
			Name:        "reload-geoip",
			Description: "Reopen the GeoIP database",
			Schedule:    GeoIPReloadSchedule,
			Run: func(context.Context) error {
				return m.GeoIP.Reload()
			},
		})
	}

	for _, j := range jobs {
		if err := s.Add(j); err != nil {
			return err
		}
	}
	return nil
}

func logPurged(logger *slog.Logger, what string, n int64) {
	if n > 0 {
		logger.Info("purged expired rows", "table", what, "count", n)
	}
}
