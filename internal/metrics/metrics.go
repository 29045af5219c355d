// Package metrics counts transformation runs in a Prometheus registry that
// can be written as a text file for the node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "transmute"

// Recorder holds the run metrics.
type Recorder struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	records  *prometheus.CounterVec
	groups   prometheus.Counter
	duration *prometheus.HistogramVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Transformation runs, partitioned by command and status.",
			},
			[]string{"command", "status"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Records read and written, partitioned by command and direction.",
			},
			[]string{"command", "direction"},
		),
		groups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_total",
			Help:      "Groups produced by aggregations.",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of transformation runs in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}

	r.registry.MustRegister(r.runs, r.records, r.groups, r.duration)

	return r
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records one run of command.
func (r *Recorder) ObserveRun(command string, in, out int, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	r.runs.WithLabelValues(command, status).Inc()
	r.records.WithLabelValues(command, "in").Add(float64(in))
	r.records.WithLabelValues(command, "out").Add(float64(out))
	r.duration.WithLabelValues(command).Observe(elapsed.Seconds())

	if command == "aggregate" && err == nil {
		r.groups.Add(float64(out))
	}
}

// WriteFile writes the metrics in the Prometheus text format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
