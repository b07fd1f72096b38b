// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"testing"

	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/store"
	"github.com/olegiv/flippershop/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func events(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	evs, err := store.New(db).ListRecentEvents(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return evs
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		captured  bool
		wantLevel string
	}{
		{"debug", slog.LevelDebug, false, ""},
		{"info", slog.LevelInfo, false, ""},
		{"warn", slog.LevelWarn, true, model.EventLevelWarning},
		{"error", slog.LevelError, true, model.EventLevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.TestDB(t)
			logger := slog.New(NewEventLogHandler(discardHandler{}, db))

			logger.Log(context.Background(), tt.level, "something happened")

			evs := events(t, db)
			if !tt.captured {
				if len(evs) != 0 {
					t.Errorf("got %d events, want 0", len(evs))
				}
				return
			}
			if len(evs) != 1 {
				t.Fatalf("got %d events, want 1", len(evs))
			}
			if evs[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", evs[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("product created")

	evs := events(t, db)
	if len(evs) != 1 || evs[0].Level != model.EventLevelInfo {
		t.Fatalf("events = %+v", evs)
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"admin login failed", model.EventCategoryAuth},
		{"auth service unavailable", model.EventCategoryAuth},
		{"product cache invalidation failed", model.EventCategoryProduct},
		{"redis unavailable, falling back", model.EventCategoryCache},
		{"invalid config value", model.EventCategoryConfig},
		{"disk almost full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			db := testutil.TestDB(t)
			slog.New(NewEventLogHandler(discardHandler{}, db)).Warn(tt.msg)

			evs := events(t, db)
			if len(evs) != 1 || evs[0].Category != tt.want {
				t.Errorf("category = %+v, want %q", evs, tt.want)
			}
		})
	}
}

func TestEventLogHandler_ColumnsAndMetadata(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("component", "guard")

	logger.Warn("admin session denied",
		AttrCategory, model.EventCategoryAuth,
		AttrIP, "203.0.113.7",
		AttrRequestURL, "/admin/dashboard",
		"reason", `bad "token"`,
	)

	evs := events(t, db)
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev := evs[0]
	if ev.Category != model.EventCategoryAuth {
		t.Errorf("Category = %q", ev.Category)
	}
	if ev.IpAddress != "203.0.113.7" || ev.RequestUrl != "/admin/dashboard" {
		t.Errorf("IpAddress = %q, RequestUrl = %q", ev.IpAddress, ev.RequestUrl)
	}
	if !strings.Contains(ev.Metadata, `"component":"guard"`) {
		t.Errorf("Metadata missing WithAttrs value: %s", ev.Metadata)
	}
	if !strings.Contains(ev.Metadata, `"reason":"bad \"token\""`) {
		t.Errorf("Metadata not JSON-escaped: %s", ev.Metadata)
	}
	if strings.Contains(ev.Metadata, "category") {
		t.Errorf("category leaked into metadata: %s", ev.Metadata)
	}
}

func TestEventLogHandler_WithGroup(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).WithGroup("http")

	logger.Error("handler failed", "status", 500)

	evs := events(t, db)
	if len(evs) != 1 || !strings.Contains(evs[0].Metadata, `"http.status":"500"`) {
		t.Errorf("events = %+v", evs)
	}
}

func TestEventLogHandler_InnerLevelRespected(t *testing.T) {
	db := testutil.TestDB(t)
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Warn("config looks odd")

	if buf.Len() != 0 {
		t.Errorf("inner handler wrote below its level: %q", buf.String())
	}
	if len(events(t, db)) != 1 {
		t.Error("warning not recorded as event")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, false, nil).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q", buf.String())
	}

	buf.Reset()
	New(&buf, slog.LevelInfo, true, nil).Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("tint output = %q", buf.String())
	}
}
