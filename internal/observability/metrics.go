// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is used when NewMetrics is given an empty namespace.
const DefaultNamespace = "bankroll_lab"

// Batch status label values
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Metrics holds all Prometheus metrics for the application.
// All Record methods are safe on a nil *Metrics.
type Metrics struct {
	// Simulation metrics
	TrialsSimulated   prometheus.Counter
	TrialsRuined      prometheus.Counter
	RoundsSimulated   prometheus.Counter
	StrategyFallbacks *prometheus.CounterVec

	// Batch metrics
	BatchesTotal     *prometheus.CounterVec
	BatchDuration    *prometheus.HistogramVec
	BatchProgress    prometheus.Gauge
	LastRuinEstimate *prometheus.GaugeVec

	// Sweep metrics
	SweepPointsTotal prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Simulation metrics
		TrialsSimulated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trials_total",
			Help:      "Total number of trials simulated",
		}),
		TrialsRuined: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trials_ruined_total",
			Help:      "Total number of trials that ended in ruin",
		}),
		RoundsSimulated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "rounds_total",
			Help:      "Total number of betting rounds played",
		}),
		StrategyFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "strategy_fallbacks_total",
			Help:      "Total number of custom strategy evaluations replaced by the fallback fraction",
		}, []string{"strategy"}),

		// Batch metrics
		BatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Total number of batch runs by status",
		}, []string{"strategy", "status"}),
		BatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Batch execution duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"strategy"}),
		BatchProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "progress_ratio",
			Help:      "Progress of the running batch in [0, 1]",
		}),
		LastRuinEstimate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "probability_of_ruin",
			Help:      "Ruin probability estimated by the last completed batch",
		}, []string{"strategy"}),

		// Sweep metrics
		SweepPointsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "points_total",
			Help:      "Total number of parameter sweep points evaluated",
		}),
	}
}

// RecordTrial records one finished trial.
func (m *Metrics) RecordTrial(rounds int, ruined bool) {
	if m == nil {
		return
	}
	m.TrialsSimulated.Inc()
	m.RoundsSimulated.Add(float64(rounds))
	if ruined {
		m.TrialsRuined.Inc()
	}
}

// RecordFallbacks records custom strategy fallbacks.
func (m *Metrics) RecordFallbacks(strategyID string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.StrategyFallbacks.WithLabelValues(strategyID).Add(float64(count))
}

// RecordProgress updates the batch progress gauge.
func (m *Metrics) RecordProgress(fraction float64) {
	if m == nil {
		return
	}
	m.BatchProgress.Set(fraction)
}

// RecordBatch records a finished batch run.
func (m *Metrics) RecordBatch(strategyID, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.BatchesTotal.WithLabelValues(strategyID, status).Inc()
	m.BatchDuration.WithLabelValues(strategyID).Observe(durationSeconds)
}

// RecordRuinEstimate records the ruin probability of a completed batch.
func (m *Metrics) RecordRuinEstimate(strategyID string, probability float64) {
	if m == nil {
		return
	}
	m.LastRuinEstimate.WithLabelValues(strategyID).Set(probability)
}

// RecordSweepPoint increments the sweep points counter.
func (m *Metrics) RecordSweepPoint() {
	if m == nil {
		return
	}
	m.SweepPointsTotal.Inc()
}

// WriteTextfile writes all metrics gathered from g to path in the
// Prometheus text format (node_exporter textfile collector).
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
