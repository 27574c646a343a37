// Package metrics provides Prometheus instrumentation for store and stats work.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "podium"

// Recorder holds the collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	storeOps      *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	sessionsTotal *prometheus.GaugeVec
	winRate       prometheus.Gauge
	avgScore      prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by name.",
		}, []string{"op"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed store operations by name.",
		}, []string{"op"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_seconds",
			Help:      "Store operation latency.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"op"}),
		sessionsTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "sessions",
			Help:      "Sessions seen by the last report, by kind.",
		}, []string{"kind"}),
		winRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "debate_win_rate_percent",
			Help:      "Debate win rate from the last report.",
		}),
		avgScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "practice_average_score",
			Help:      "Average overall practice score from the last report.",
		}),
	}
	r.registry.MustRegister(r.storeOps, r.storeErrors, r.storeLatency, r.sessionsTotal, r.winRate, r.avgScore)
	return r
}

// ObserveStore records one store operation. Safe on a nil Recorder.
func (r *Recorder) ObserveStore(op string, started time.Time, err error) {
	if r == nil {
		return
	}
	r.storeOps.WithLabelValues(op).Inc()
	r.storeLatency.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err != nil {
		r.storeErrors.WithLabelValues(op).Inc()
	}
}

// SetReport publishes aggregate values. Safe on a nil Recorder.
func (r *Recorder) SetReport(practice, debate int, winRate, avgScore float64) {
	if r == nil {
		return
	}
	r.sessionsTotal.WithLabelValues("practice").Set(float64(practice))
	r.sessionsTotal.WithLabelValues("debate").Set(float64(debate))
	r.winRate.Set(winRate)
	r.avgScore.Set(avgScore)
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
