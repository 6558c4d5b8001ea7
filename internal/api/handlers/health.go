package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Togather-Foundation/venues/internal/metrics"
)

// HealthCheck represents the health status of the server
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Pinger is satisfied by storage backends that hold a connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports readiness of the storage backend.
type HealthChecker struct {
	storage   Pinger
	backend   string
	version   string
	gitCommit string
}

// NewHealthChecker creates a health checker. A nil storage pinger means the
// backend is in-process and always ready.
func NewHealthChecker(storage Pinger, backend, version, gitCommit string) *HealthChecker {
	return &HealthChecker{
		storage:   storage,
		backend:   backend,
		version:   version,
		gitCommit: gitCommit,
	}
}

// Healthz is the liveness probe.
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondHealth(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Readyz is the readiness probe: it fails while storage is unreachable or
// the server is shutting down.
func (h *HealthChecker) Readyz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			respondHealth(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting_down"})
			return
		default:
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]CheckResult{
			"storage": h.checkStorage(ctx),
		}

		overall := "healthy"
		statusCode := http.StatusOK
		for _, check := range checks {
			if check.Status == "fail" {
				overall = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}
		if overall == "healthy" {
			metrics.HealthStatus.Set(2)
		} else {
			metrics.HealthStatus.Set(0)
		}

		respondHealth(w, statusCode, HealthCheck{
			Status:    overall,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func (h *HealthChecker) checkStorage(ctx context.Context) CheckResult {
	details := map[string]any{"backend": h.backend}
	if h.storage == nil {
		return CheckResult{Status: "pass", Message: "in-process storage", Details: details}
	}

	// Keep one slow backend from exhausting the whole probe budget.
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.storage.Ping(pingCtx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		details["error"] = err.Error()
		message := "storage ping failed"
		if pingCtx.Err() == context.DeadlineExceeded {
			message = "storage ping timed out after 2 seconds"
		}
		return CheckResult{Status: "fail", Message: message, LatencyMs: latency, Details: details}
	}
	return CheckResult{Status: "pass", Message: "storage reachable", LatencyMs: latency, Details: details}
}

func respondHealth(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
