package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DBPoolConnections reports pgx pool occupancy by state: open, in_use,
	// idle and max.
	DBPoolConnections = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_connections",
			Help:      "Postgres pool connections by state",
		},
		[]string{"state"},
	)

	// DBQueryDuration is labelled by table and verb, e.g. "venues_get".
	DBQueryDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Record table query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_errors_total",
			Help:      "Record table query failures by operation and cause",
		},
		[]string{"operation", "error_type"},
	)
)

// DBCollector samples pool statistics on an interval until stopped.
type DBCollector struct {
	pool     *pgxpool.Pool
	stop     chan struct{}
	stopOnce sync.Once
}

func NewDBCollector(pool *pgxpool.Pool) *DBCollector {
	return &DBCollector{pool: pool, stop: make(chan struct{})}
}

// Start blocks, sampling immediately and then every interval, until Stop is
// called or ctx ends.
func (c *DBCollector) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop is safe to call more than once.
func (c *DBCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *DBCollector) collect() {
	if c.pool == nil {
		return
	}
	stat := c.pool.Stat()
	DBPoolConnections.WithLabelValues("open").Set(float64(stat.TotalConns()))
	DBPoolConnections.WithLabelValues("in_use").Set(float64(stat.AcquiredConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	DBPoolConnections.WithLabelValues("max").Set(float64(stat.MaxConns()))
}

// RecordQuery observes one table query. Pass the query's final error:
//
//	defer func(start time.Time) { metrics.RecordQuery("venues_get", start, err) }(time.Now())
func RecordQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}

	cause := "query_error"
	switch {
	case errors.Is(err, context.Canceled):
		cause = "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		cause = "timeout"
	}
	DBErrors.WithLabelValues(operation, cause).Inc()
}
