package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for party creation and feed ingestion.
type Metrics struct {
	registry             *prometheus.Registry
	partiesCreatedTotal  prometheus.Counter
	ingestSucceededTotal prometheus.Counter
	ingestFailedTotal    prometheus.Counter
	partiesSweptTotal    prometheus.Counter
}

// New creates and registers the counters on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	partiesCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "podparty_parties_created_total",
		Help: "Total number of listening parties created",
	})
	ingestSucceededTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "podparty_ingest_succeeded_total",
		Help: "Total number of feed ingestions that completed a party",
	})
	ingestFailedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "podparty_ingest_failed_total",
		Help: "Total number of feed ingestions that failed and left a party pending",
	})
	partiesSweptTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "podparty_parties_swept_total",
		Help: "Total number of parties deactivated by the finished-party sweep",
	})

	registry.MustRegister(
		partiesCreatedTotal,
		ingestSucceededTotal,
		ingestFailedTotal,
		partiesSweptTotal,
	)

	return &Metrics{
		registry:             registry,
		partiesCreatedTotal:  partiesCreatedTotal,
		ingestSucceededTotal: ingestSucceededTotal,
		ingestFailedTotal:    ingestFailedTotal,
		partiesSweptTotal:    partiesSweptTotal,
	}
}

func (m *Metrics) IncPartiesCreated() {
	m.partiesCreatedTotal.Inc()
}

func (m *Metrics) IncIngestSucceeded() {
	m.ingestSucceededTotal.Inc()
}

func (m *Metrics) IncIngestFailed() {
	m.ingestFailedTotal.Inc()
}

func (m *Metrics) AddPartiesSwept(n int64) {
	m.partiesSweptTotal.Add(float64(n))
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
