package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name        string
		pinger      Pinger
		wantCode    int
		wantStatus  string
		checkStatus string
	}{
		{name: "in-process storage", pinger: nil, wantCode: http.StatusOK, wantStatus: "healthy", checkStatus: "pass"},
		{name: "reachable database", pinger: pingerFunc(func(context.Context) error { return nil }), wantCode: http.StatusOK, wantStatus: "healthy", checkStatus: "pass"},
		{name: "unreachable database", pinger: pingerFunc(func(context.Context) error { return errors.New("connection refused") }), wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy", checkStatus: "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker(tt.pinger, "memory", "0.1.0", "test-commit")
			rec := httptest.NewRecorder()
			checker.Readyz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var response HealthCheck
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, "0.1.0", response.Version)
			assert.Equal(t, "test-commit", response.GitCommit)
			assert.NotEmpty(t, response.Timestamp)

			storage, ok := response.Checks["storage"]
			require.True(t, ok, "storage check should be present")
			assert.Equal(t, tt.checkStatus, storage.Status)
			assert.Equal(t, "memory", storage.Details["backend"])
		})
	}
}

func TestReadyzShuttingDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := NewHealthChecker(nil, "memory", "0.1.0", "test-commit")
	rec := httptest.NewRecorder()
	checker.Readyz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"shutting_down"}`, rec.Body.String())
}
