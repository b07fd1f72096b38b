// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/testutil"
)

func TestEventService_LogAndList(t *testing.T) {
	svc := NewEventService(testutil.TestDB(t))
	ctx := context.Background()

	if err := svc.LogAuthEvent(ctx, model.EventLevelInfo, "admin signed in", "203.0.113.5", map[string]any{"email": "admin@example.com"}); err != nil {
		t.Fatalf("LogAuthEvent failed: %v", err)
	}
	if err := svc.LogProductEvent(ctx, "product created", "203.0.113.5", nil); err != nil {
		t.Fatalf("LogProductEvent failed: %v", err)
	}

	events, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Category != model.EventCategoryProduct {
		t.Errorf("newest category = %q, want %q", events[0].Category, model.EventCategoryProduct)
	}
	if events[1].Metadata != `{"email":"admin@example.com"}` {
		t.Errorf("metadata = %q", events[1].Metadata)
	}
	if events[0].Metadata != "{}" {
		t.Errorf("nil metadata stored as %q, want {}", events[0].Metadata)
	}
}

func TestEventService_DeleteOldEvents(t *testing.T) {
	svc := NewEventService(testutil.TestDB(t))
	ctx := context.Background()

	_ = svc.LogEvent(ctx, model.EventLevelWarning, model.EventCategorySystem, "old", "", "/", nil)
	if err := svc.DeleteOldEvents(ctx, -time.Minute); err != nil {
		t.Fatalf("DeleteOldEvents failed: %v", err)
	}

	events, _ := svc.Recent(ctx, 10)
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}
