// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps SHOP_LOG_LEVEL to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a coloured tint handler in development and a text
// handler otherwise.
func NewHandler(w io.Writer, level slog.Level, isDev bool) slog.Handler {
	if isDev {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// New builds the application logger. With a database, warnings and errors
// are also written to the events table.
func New(w io.Writer, level slog.Level, isDev bool, db *sql.DB) *slog.Logger {
	h := NewHandler(w, level, isDev)
	if db != nil {
		h = NewEventLogHandler(h, db)
	}
	return slog.New(h)
}
