package metrics

import (
	"errors"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Consistency engine metrics
var (
	// EngineOperationsTotal counts engine operations by name and outcome
	EngineOperationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_operations_total",
			Help:      "Total number of consistency engine operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// ConsistencyViolations is the violation count from the latest audit, by kind
	ConsistencyViolations = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consistency_violations",
			Help:      "Invariant violations found by the most recent consistency audit",
		},
		[]string{"kind"},
	)

	// StoredRecords is the number of records per table seen by the latest audit
	StoredRecords = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_records",
			Help:      "Records per table at the most recent consistency audit",
		},
		[]string{"table"},
	)
)

var violationKinds = []venues.ViolationKind{
	venues.ViolationCapacityExceeded,
	venues.ViolationDuplicateEvent,
	venues.ViolationMissingEvent,
	venues.ViolationUnscheduledMember,
	venues.ViolationOrphanedEvent,
	venues.ViolationMultipleVenues,
}

// ObserveOperation is a venues.WithObserver callback.
func ObserveOperation(op string, err error) {
	EngineOperationsTotal.WithLabelValues(op, Outcome(err)).Inc()
}

// Outcome classifies an engine result for the outcome label.
func Outcome(err error) string {
	var validationErr venues.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.Is(err, venues.ErrNotFound):
		return "not_found"
	case errors.Is(err, venues.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// RecordAudit publishes a consistency report. Every kind is set so a cleared
// violation drops back to zero.
func RecordAudit(report venues.Report) {
	counts := make(map[venues.ViolationKind]int, len(violationKinds))
	for _, v := range report.Violations {
		counts[v.Kind]++
	}
	for _, kind := range violationKinds {
		ConsistencyViolations.WithLabelValues(string(kind)).Set(float64(counts[kind]))
	}
	StoredRecords.WithLabelValues("venues").Set(float64(report.Venues))
	StoredRecords.WithLabelValues("events").Set(float64(report.Events))
}
