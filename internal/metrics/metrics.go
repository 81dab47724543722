// Package metrics holds the Prometheus collectors of the discovery engine.
//
// All methods are safe on a nil *Metrics so components can be built without
// instrumentation in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	geocodeLookups      *prometheus.CounterVec
	geocodeCache        *prometheus.CounterVec
	locationResolutions *prometheus.CounterVec
	discoveryDuration   *prometheus.HistogramVec
	discoveryResults    *prometheus.HistogramVec
	httpRequests        *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		geocodeLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buurtmarkt_geocode_lookups_total",
				Help: "Geocoder calls by outcome",
			},
			[]string{"outcome"},
		),
		geocodeCache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buurtmarkt_geocode_cache_total",
				Help: "Geocode cache lookups by result",
			},
			[]string{"result"},
		),
		locationResolutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buurtmarkt_location_resolutions_total",
				Help: "Location resolution attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		discoveryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buurtmarkt_discovery_duration_seconds",
				Help:    "Discovery pipeline run time",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"kind"},
		),
		discoveryResults: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buurtmarkt_discovery_results",
				Help:    "Number of candidates returned per discovery run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"kind"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buurtmarkt_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (m *Metrics) GeocodeLookup(outcome string) {
	if m == nil {
		return
	}
	m.geocodeLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.geocodeCache.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.geocodeCache.WithLabelValues("miss").Inc()
}

func (m *Metrics) LocationResolution(source, outcome string) {
	if m == nil {
		return
	}
	m.locationResolutions.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveDiscovery(kind string, took time.Duration, results int) {
	if m == nil {
		return
	}
	m.discoveryDuration.WithLabelValues(kind).Observe(took.Seconds())
	m.discoveryResults.WithLabelValues(kind).Observe(float64(results))
}

func (m *Metrics) HTTPRequest(method, path, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
}
