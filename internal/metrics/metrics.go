package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the triage counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	turns          *prometheus.CounterVec
	farewells      prometheus.Counter
	fallbacks      *prometheus.CounterVec
	externalErrors *prometheus.CounterVec
	turnDuration   *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_turns_total",
				Help: "Conversation turns by the stage that handled them",
			},
			[]string{"stage"},
		),
		farewells: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_farewells_total",
			Help: "Turns closed by a farewell",
		}),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_fallbacks_total",
				Help: "Local recoveries from unusable model output",
			},
			[]string{"kind"},
		),
		externalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_external_errors_total",
				Help: "Failed calls to external services",
			},
			[]string{"service"},
		),
		turnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_turn_duration_seconds",
				Help:    "Duration of a full conversation turn",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	m.registry.MustRegister(m.turns, m.farewells, m.fallbacks, m.externalErrors, m.turnDuration)
	return m
}

func (m *Metrics) Turn(stage string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(stage).Inc()
}

func (m *Metrics) Farewell() {
	if m == nil {
		return
	}
	m.farewells.Inc()
}

// Fallback counts a local recovery, e.g. "keyword_scan" or "condition_table".
func (m *Metrics) Fallback(kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(kind).Inc()
}

// ExternalError counts a failure of "llm", "retriever" or "embedder".
func (m *Metrics) ExternalError(service string) {
	if m == nil {
		return
	}
	m.externalErrors.WithLabelValues(service).Inc()
}

func (m *Metrics) ObserveTurn(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.turnDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
