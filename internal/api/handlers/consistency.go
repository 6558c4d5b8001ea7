package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/metrics"
)

type ConsistencyHandler struct {
	Service *venues.Service
	Env     string
}

func NewConsistencyHandler(service *venues.Service, env string) *ConsistencyHandler {
	return &ConsistencyHandler{Service: service, Env: env}
}

// consistencyResponse is the audit report plus an overall verdict.
type consistencyResponse struct {
	Healthy bool `json:"healthy"`
	venues.Report
}

// Audit runs a full cross-table check. An unhealthy store answers 503 so
// probes and dashboards can alert on it directly.
func (h *ConsistencyHandler) Audit(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.Audit(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	metrics.RecordAudit(report)

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, consistencyResponse{Healthy: report.Healthy(), Report: report})
}
