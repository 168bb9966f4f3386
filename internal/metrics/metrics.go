package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every aurorawatch collector. It is kept separate from the
// default registry so textfile exports contain no Go runtime metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	FetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurorawatch_fetches_total",
			Help: "Total AuroraWatch API fetches by schema and outcome",
		},
		[]string{"schema", "outcome"},
	)

	FetchLatency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aurorawatch_fetch_latency_seconds",
			Help:    "AuroraWatch API fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"schema"},
	)

	StatusSeverity = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aurorawatch_status_severity",
			Help: "Last fetched alert level (0=green, 1=yellow, 2=amber, 3=red)",
		},
		[]string{"schema"},
	)

	LastSuccess = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aurorawatch_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch",
		},
		[]string{"schema"},
	)
)

// WriteTextfile writes the registry in the node_exporter textfile format.
// The file is written atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
