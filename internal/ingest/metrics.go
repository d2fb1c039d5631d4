package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the ingest run collectors. A nil *Metrics records nothing.
type Metrics struct {
	fetches     *prometheus.CounterVec
	rows        *prometheus.GaugeVec
	warnings    prometheus.Counter
	runSuccess  prometheus.Gauge
	runDuration prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scout_source_fetches_total",
				Help: "Source fetches by source and outcome (ok, fetch_error, extract_error, parse_error)",
			},
			[]string{"source", "outcome"},
		),
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scout_source_rows",
				Help: "Normalized rows produced by each source in the last run",
			},
			[]string{"source"},
		),
		warnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scout_normalization_warnings_total",
				Help: "Fields set to missing because they did not parse",
			},
		),
		runSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scout_ingest_success",
				Help: "Whether the last ingest run produced data (1=success, 0=failure)",
			},
		),
		runDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scout_ingest_duration_seconds",
				Help: "Time taken for the last ingest run in seconds",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.rows, m.warnings, m.runSuccess, m.runDuration)
	}
	return m
}

func (m *Metrics) fetched(source, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) produced(source string, n, warns int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(source).Set(float64(n))
	m.warnings.Add(float64(warns))
}

func (m *Metrics) finished(ok bool, took time.Duration) {
	if m == nil {
		return
	}
	if ok {
		m.runSuccess.Set(1)
	} else {
		m.runSuccess.Set(0)
	}
	m.runDuration.Set(took.Seconds())
}
