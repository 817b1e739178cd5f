package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aichat"

// Metrics holds the chat collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	turns          *prometheus.CounterVec
	fragments      prometheus.Counter
	providerErrors *prometheus.CounterVec
	titles         *prometheus.CounterVec
	turnDuration   prometheus.Histogram
}

// New creates the collectors on a fresh registry, along with Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns by outcome (completed, rejected, failed).",
		}, []string{"outcome"}),
		fragments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_fragments_total",
			Help:      "Text fragments streamed to clients.",
		}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_provider_errors_total",
			Help:      "LLM provider failures by provider and operation.",
		}, []string{"provider", "operation"}),
		titles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_titles_total",
			Help:      "Conversation titles by source (model, fallback).",
		}, []string{"source"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_turn_duration_seconds",
			Help:      "Time from turn start until the assistant message is persisted.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
	reg.MustRegister(
		m.turns,
		m.fragments,
		m.providerErrors,
		m.titles,
		m.turnDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TurnCompleted(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues("completed").Inc()
	m.turnDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) TurnRejected() {
	if m == nil {
		return
	}
	m.turns.WithLabelValues("rejected").Inc()
}

func (m *Metrics) TurnFailed() {
	if m == nil {
		return
	}
	m.turns.WithLabelValues("failed").Inc()
}

func (m *Metrics) Fragment() {
	if m == nil {
		return
	}
	m.fragments.Inc()
}

func (m *Metrics) ProviderError(provider, operation string) {
	if m == nil {
		return
	}
	m.providerErrors.WithLabelValues(provider, operation).Inc()
}

// Title records where a conversation title came from
func (m *Metrics) Title(fallback bool) {
	if m == nil {
		return
	}
	source := "model"
	if fallback {
		source = "fallback"
	}
	m.titles.WithLabelValues(source).Inc()
}
