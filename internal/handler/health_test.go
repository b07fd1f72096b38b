// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/flippershop/internal/version"
)

var testVersion = version.Info{Version: "v1.2.3", GitCommit: "abc1234"}

func TestLiveness(t *testing.T) {
	f := newFixture(t)

	w := f.get(RouteHealthLive)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	f := newFixture(t)

	w := f.get(RouteHealthReady)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())

	require.NoError(t, f.db.Close())
	w = f.get(RouteHealthReady)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not_ready"}`, w.Body.String())
}

func TestHealth_Anonymous(t *testing.T) {
	f := newFixture(t)

	w := f.get(RouteHealth)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestHealth_AdminDetails(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.get("/admin/health?verbose=true")
	require.Equal(t, http.StatusOK, w.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "v1.2.3", status.Version)
	assert.Equal(t, "healthy", status.Checks["database"].Status)
	require.NotNil(t, status.System)
	assert.NotEmpty(t, status.System.GoVersion)
}
