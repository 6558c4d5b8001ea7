package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all venues service metrics
const namespace = "venues"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// HealthStatus tracks overall server health
// Values: 0 = unhealthy, 1 = degraded, 2 = healthy
var HealthStatus = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "health_status",
		Help:      "Overall server health status (0=unhealthy, 1=degraded, 2=healthy)",
	},
)

var initOnce sync.Once

// Init registers runtime collectors and publishes build information.
// Calls after the first are no-ops.
func Init(version, commit, buildDate string) {
	initOnce.Do(func() {
		// Register default Go metrics (memory, goroutines, GC, etc.)
		Registry.MustRegister(collectors.NewGoCollector())

		// Register process metrics (CPU, memory, file descriptors)
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
	})
}
