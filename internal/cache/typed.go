// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Typed stores JSON-encoded values of one type under a key namespace.
// Concurrent misses for the same key share a single load.
type Typed[T any] struct {
	backend   Cacher
	namespace string
	ttl       time.Duration
	group     singleflight.Group
}

// NewTyped creates a Typed cache whose keys are prefixed by namespace.
func NewTyped[T any](backend Cacher, namespace string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{backend: backend, namespace: namespace, ttl: ttl}
}

// Get returns the cached value.
func (c *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	data, err := c.backend.Get(ctx, c.namespace+key)
	if err != nil {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false
	}
	return v, true
}

// Set stores v with the cache's TTL.
func (c *Typed[T]) Set(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, c.namespace+key, data, c.ttl)
}

// GetOrLoad returns the cached value or calls load and stores its result.
// Backend failures never fail the call; load errors are returned as-is.
func (c *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if err := c.Set(ctx, key, v); err != nil && !errors.Is(err, ErrCacheClosed) {
			slog.Debug("cache set failed", "key", c.namespace+key, "error", err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Invalidate drops every key in the namespace.
func (c *Typed[T]) Invalidate(ctx context.Context) error {
	return c.backend.DeleteByPrefix(ctx, c.namespace)
}
