// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type item struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func TestTyped_GetOrLoad(t *testing.T) {
	backend := NewMemoryCache(MemoryOptions{})
	defer func() { _ = backend.Close() }()
	c := NewTyped[[]item](backend, "products:", time.Minute)
	ctx := context.Background()

	var loads atomic.Int32
	load := func(context.Context) ([]item, error) {
		loads.Add(1)
		return []item{{Name: "Flipper Zero", Price: 16999}}, nil
	}

	for range 3 {
		got, err := c.GetOrLoad(ctx, "all", load)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Flipper Zero" {
			t.Errorf("GetOrLoad = %+v", got)
		}
	}
	if loads.Load() != 1 {
		t.Errorf("load called %d times, want 1", loads.Load())
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	if _, ok := c.Get(ctx, "all"); ok {
		t.Error("value survived Invalidate")
	}
}

func TestTyped_LoadErrorNotCached(t *testing.T) {
	backend := NewMemoryCache(MemoryOptions{})
	defer func() { _ = backend.Close() }()
	c := NewTyped[item](backend, "p:", time.Minute)

	boom := errors.New("boom")
	if _, err := c.GetOrLoad(context.Background(), "x", func(context.Context) (item, error) {
		return item{}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if _, ok := c.Get(context.Background(), "x"); ok {
		t.Error("failed load was cached")
	}
}

func TestTyped_ConcurrentMissesShareLoad(t *testing.T) {
	backend := NewMemoryCache(MemoryOptions{})
	defer func() { _ = backend.Close() }()
	c := NewTyped[item](backend, "p:", time.Minute)

	var loads atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (item, error) {
		loads.Add(1)
		<-release
		return item{Name: "case"}, nil
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrLoad(context.Background(), "case", load)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := loads.Load(); n < 1 || n > 5 {
		t.Errorf("loads = %d", n)
	}
	if _, ok := c.Get(context.Background(), "case"); !ok {
		t.Error("value not cached after load")
	}
}
