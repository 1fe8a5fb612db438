// Package metrics holds the Prometheus collectors of the bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rate fetch results
const (
	FetchCacheHit = "cache_hit"
	FetchNetwork  = "network"
	FetchFailed   = "failed"
)

// Conversion results
const (
	ConversionOK               = "ok"
	ConversionRateNotFound     = "rate_not_found"
	ConversionRatesUnavailable = "rates_unavailable"
)

// Metrics groups the bot collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	RateFetchesTotal *prometheus.CounterVec
	ConversionsTotal *prometheus.CounterVec
	MessagesTotal    *prometheus.CounterVec
	HandleDuration   prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RateFetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "currency_bot",
			Name:      "rate_fetches_total",
			Help:      "Rate table lookups by provider and outcome",
		}, []string{"provider", "result"}),
		ConversionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "currency_bot",
			Name:      "conversions_total",
			Help:      "Conversion attempts by provider and outcome",
		}, []string{"provider", "result"}),
		MessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "currency_bot",
			Name:      "messages_total",
			Help:      "Inbound chat updates by kind",
		}, []string{"kind"}),
		HandleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "currency_bot",
			Name:      "handle_duration_seconds",
			Help:      "Time spent handling one chat update",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// NewDefault registers the collectors plus Go and process collectors on a fresh registry.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// ObserveRateFetch counts one rate table lookup.
func (m *Metrics) ObserveRateFetch(provider, result string) {
	m.RateFetchesTotal.WithLabelValues(provider, result).Inc()
}

// ObserveConversion counts one conversion attempt.
func (m *Metrics) ObserveConversion(provider, result string) {
	m.ConversionsTotal.WithLabelValues(provider, result).Inc()
}

// ObserveMessage counts one inbound update and its handling time.
func (m *Metrics) ObserveMessage(kind string, seconds float64) {
	m.MessagesTotal.WithLabelValues(kind).Inc()
	m.HandleDuration.Observe(seconds)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
