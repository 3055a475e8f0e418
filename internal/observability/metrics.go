package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk engine and its fan-out adapters.
type Metrics struct {
	TicksTotal     *prometheus.CounterVec // labels: mode={manual,auto}
	TickErrors     prometheus.Counter
	TickDuration   prometheus.Histogram
	BenchScores    prometheus.Histogram
	RiskLevels     *prometheus.CounterVec // labels: classification={Low,Medium,High}
	HistorySize    prometheus.Gauge
	AutoRunning    prometheus.Gauge
	DEMAvailable   prometheus.Gauge
	TicksPublished prometheus.Counter
	PublishErrors  prometheus.Counter
	WSClients      prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.TicksTotal,
		m.TickErrors,
		m.TickDuration,
		m.BenchScores,
		m.RiskLevels,
		m.HistorySize,
		m.AutoRunning,
		m.DEMAvailable,
		m.TicksPublished,
		m.PublishErrors,
		m.WSClients,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests do not hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slope_risk",
			Name:      "ticks_total",
			Help:      "Completed evaluation ticks by mode.",
		}, []string{"mode"}),
		TickErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slope_risk",
			Name:      "tick_errors_total",
			Help:      "Evaluation ticks that failed (catalog corruption).",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slope_risk",
			Name:      "tick_duration_seconds",
			Help:      "Duration of a complete evaluation tick.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		BenchScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slope_risk",
			Name:      "bench_score",
			Help:      "Distribution of per-bench risk scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 100, 150, 200, 250},
		}),
		RiskLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slope_risk",
			Name:      "classifications_total",
			Help:      "Bench classifications by risk level.",
		}, []string{"classification"}),
		HistorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slope_risk",
			Name:      "history_records",
			Help:      "Records currently retained in the history buffer.",
		}),
		AutoRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slope_risk",
			Name:      "auto_running",
			Help:      "1 when the auto-telemetry runner is active, 0 otherwise.",
		}),
		DEMAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slope_risk",
			Name:      "dem_overlay_available",
			Help:      "1 when the DEM overlay artifact was loaded, 0 otherwise.",
		}),
		TicksPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slope_risk",
			Name:      "ticks_published_total",
			Help:      "Ticks successfully published to the Kafka sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slope_risk",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publishes.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slope_risk",
			Name:      "websocket_clients",
			Help:      "Currently connected WebSocket dashboard clients.",
		}),
	}
}
