package metrics_test

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
	"github.com/GabrielNunesIT/cachecore/internal/metrics"
)

// fakeEngine is a canned EngineStatter for exercising CacheCollector without
// a real cache.Engine behind it.
type fakeEngine struct {
	stats cache.Statistics
}

func (f fakeEngine) Stats() cache.Statistics {
	return f.stats
}

func TestMustRegisterCache_ExposesCounters(t *testing.T) {
	t.Parallel()

	reg := metrics.New(metrics.WithNamespace("cachecore"))
	engine := fakeEngine{stats: cache.Statistics{
		Hits:         10,
		Misses:       5,
		Sets:         7,
		Deletes:      2,
		Evictions:    1,
		Expirations:  3,
		CurrentSize:  4,
		CurrentBytes: 512,
	}}

	metrics.MustRegisterCache(reg, engine, "cachecore_cache")

	families, err := reg.PrometheusRegistry().Gather()
	require.NoError(t, err)

	hits := findCounterValue(families, "cachecore_cache_hits_total")
	require.NotNil(t, hits)
	assert.InEpsilon(t, 10, *hits, 0)

	size := findGaugeValue(families, "cachecore_cache_current_size")
	require.NotNil(t, size)
	assert.InEpsilon(t, 4, *size, 0)

	ratio := findGaugeValue(families, "cachecore_cache_hit_ratio")
	require.NotNil(t, ratio)
	assert.InDelta(t, 10.0/15.0, *ratio, 1e-9)
}

func TestCacheCollector_RescrapesOnEachCollect(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	engine := &mutableEngine{}
	metrics.MustRegisterCache(reg, engine, "cache")

	engine.stats.Hits = 1
	families, err := reg.PrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.InEpsilon(t, 1, *findCounterValue(families, "cache_hits_total"), 0)

	engine.stats.Hits = 9
	families, err = reg.PrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.InEpsilon(t, 9, *findCounterValue(families, "cache_hits_total"), 0)
}

type mutableEngine struct {
	stats cache.Statistics
}

func (m *mutableEngine) Stats() cache.Statistics {
	return m.stats
}

func findCounterValue(families []*dto.MetricFamily, name string) *float64 {
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				v := c.GetValue()
				return &v
			}
		}
	}
	return nil
}

func findGaugeValue(families []*dto.MetricFamily, name string) *float64 {
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if g := m.GetGauge(); g != nil {
				v := g.GetValue()
				return &v
			}
		}
	}
	return nil
}
