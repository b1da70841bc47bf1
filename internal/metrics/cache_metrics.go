package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
)

// EngineStatter is the minimal surface CacheCollector needs from the cache
// engine. *cache.Engine satisfies it; a narrow interface keeps this package
// independent of the engine's full API and easy to fake in tests.
type EngineStatter interface {
	Stats() cache.Statistics
}

// CacheCollector is a prometheus.Collector that scrapes an
// *cache.Engine's Statistics snapshot on demand, rather than wrapping every
// Get/Set/Delete call the way InstrumentedCache did for the go-libs generic
// cache. The engine already maintains its own counters behind its single
// mutation region; duplicating that bookkeeping per-call would just be two
// sources of truth. Pull-based collection keeps Engine free of any
// Prometheus dependency.
type CacheCollector struct {
	engine EngineStatter

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	sets        *prometheus.Desc
	deletes     *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	currentSize *prometheus.Desc
	currentBytes *prometheus.Desc
	hitRatio    *prometheus.Desc
	uptime      *prometheus.Desc
}

// NewCacheCollector builds a CacheCollector for engine. name is used as the
// metric name prefix (e.g. "cachecore").
func NewCacheCollector(engine EngineStatter, name string) *CacheCollector {
	labels := []string{}
	return &CacheCollector{
		engine:       engine,
		hits:         prometheus.NewDesc(name+"_hits_total", "Total number of cache hits.", labels, nil),
		misses:       prometheus.NewDesc(name+"_misses_total", "Total number of cache misses.", labels, nil),
		sets:         prometheus.NewDesc(name+"_sets_total", "Total number of cache set operations.", labels, nil),
		deletes:      prometheus.NewDesc(name+"_deletes_total", "Total number of cache delete operations.", labels, nil),
		evictions:    prometheus.NewDesc(name+"_evictions_total", "Total number of cache evictions.", labels, nil),
		expirations:  prometheus.NewDesc(name+"_expirations_total", "Total number of lazily or proactively expired entries.", labels, nil),
		currentSize:  prometheus.NewDesc(name+"_current_size", "Current number of entries held by the cache.", labels, nil),
		currentBytes: prometheus.NewDesc(name+"_current_bytes", "Current estimated byte footprint of the cache.", labels, nil),
		hitRatio:     prometheus.NewDesc(name+"_hit_ratio", "Hits divided by hits plus misses.", labels, nil),
		uptime:       prometheus.NewDesc(name+"_uptime_seconds", "Seconds since the engine started.", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.sets
	ch <- c.deletes
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.currentSize
	ch <- c.currentBytes
	ch <- c.hitRatio
	ch <- c.uptime
}

// Collect implements prometheus.Collector, snapshotting Stats() once per
// scrape.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.engine.Stats()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(s.Sets))
	ch <- prometheus.MustNewConstMetric(c.deletes, prometheus.CounterValue, float64(s.Deletes))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(c.currentSize, prometheus.GaugeValue, float64(s.CurrentSize))
	ch <- prometheus.MustNewConstMetric(c.currentBytes, prometheus.GaugeValue, float64(s.CurrentBytes))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRatio())
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, s.Uptime().Seconds())
}

// MustRegisterCache registers a CacheCollector for engine on reg's
// underlying Prometheus registry.
func MustRegisterCache(reg *Registry, engine EngineStatter, name string) *CacheCollector {
	collector := NewCacheCollector(engine, name)
	reg.PrometheusRegistry().MustRegister(collector)
	return collector
}
