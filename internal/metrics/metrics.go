// Package metrics exposes Prometheus counters for scrapes and session saves.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scrape outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeAuthRequired   = "auth_required"
	OutcomeSessionExpired = "session_expired"
	OutcomeNavigation     = "navigation_error"
	OutcomeTimeout        = "timeout"
	OutcomeError          = "error"
)

// Metrics holds the scraper collectors and the registry they live in.
type Metrics struct {
	ScrapesTotal   *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec
	SessionsSaved  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the collectors on reg. A nil reg gets a fresh registry
// with the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		ScrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_scrapes_total",
			Help: "Scrape attempts by site and outcome",
		}, []string{"site", "outcome"}),

		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scraper_scrape_duration_seconds",
			Help:    "Wall time of one scrape attempt, browser launch to close",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		}, []string{"site"}),

		SessionsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_sessions_saved_total",
			Help: "Sessions persisted, by how they were captured",
		}, []string{"source"}),

		registry: reg,
	}
}

// RecordScrape counts one attempt. A nil receiver records nothing.
func (m *Metrics) RecordScrape(site, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(site, outcome).Inc()
	m.ScrapeDuration.WithLabelValues(site).Observe(elapsed.Seconds())
}

// RecordSessionSaved counts a saved session; source is "upload" or "login".
func (m *Metrics) RecordSessionSaved(source string) {
	if m == nil {
		return
	}
	m.SessionsSaved.WithLabelValues(source).Inc()
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
