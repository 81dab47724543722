package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.GeocodeLookup("ok")
	m.CacheHit()
	m.CacheMiss()
	m.LocationResolution("gps", "ok")
	m.ObserveDiscovery("listing", time.Millisecond, 3)
	m.HTTPRequest("GET", "/health", "200")
}

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.ObserveDiscovery("person", 2*time.Millisecond, 5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
		if f.GetName() == "buurtmarkt_geocode_cache_total" {
			var total float64
			for _, metric := range f.GetMetric() {
				total += metric.GetCounter().GetValue()
			}
			if total != 3 {
				t.Errorf("Expected 3 cache lookups, got %v", total)
			}
		}
	}

	for _, name := range []string{"buurtmarkt_geocode_cache_total", "buurtmarkt_discovery_duration_seconds", "buurtmarkt_discovery_results"} {
		if !found[name] {
			t.Errorf("Expected metric family %s to be gathered", name)
		}
	}
}
