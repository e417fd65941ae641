package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lrucache/internal/cache"
)

func newLoadedCache(t *testing.T) *cache.LRU[string, int] {
	t.Helper()
	c, err := cache.New[string, int](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("zzz")
	c.Put("c", 3) // evicts b
	return c
}

func TestCollector_ExportsStats(t *testing.T) {
	col := NewCollector("test", newLoadedCache(t))

	expected := `
# HELP test_cache_capacity Maximum number of cached entries
# TYPE test_cache_capacity gauge
test_cache_capacity 2
# HELP test_cache_entries Current number of cached entries
# TYPE test_cache_entries gauge
test_cache_entries 2
# HELP test_cache_evictions_total Total number of entries evicted by capacity pressure
# TYPE test_cache_evictions_total counter
test_cache_evictions_total 1
# HELP test_cache_hits_total Total number of Get calls that found the key
# TYPE test_cache_hits_total counter
test_cache_hits_total 1
# HELP test_cache_misses_total Total number of Get calls that missed
# TYPE test_cache_misses_total counter
test_cache_misses_total 1
`
	require.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(expected)))
	assert.Equal(t, 5, testutil.CollectAndCount(col))
}

func TestCollector_ReadsLiveValues(t *testing.T) {
	c := newLoadedCache(t)
	col := NewCollector("live", c)

	c.Get("a")
	c.Get("c")

	require.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(`
# HELP live_cache_hits_total Total number of Get calls that found the key
# TYPE live_cache_hits_total counter
live_cache_hits_total 3
`), "live_cache_hits_total"))
}

func TestSnapshot(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	locked := cache.Synchronize(newLoadedCache(t))
	require.NoError(t, reg.Register(NewCollector("snap", locked)))

	samples, err := Snapshot(reg)
	require.NoError(t, err)

	got := map[string]float64{}
	for _, s := range samples {
		got[s.Name] = s.Value
	}
	assert.Equal(t, map[string]float64{
		"snap_cache_capacity":        2,
		"snap_cache_entries":         2,
		"snap_cache_evictions_total": 1,
		"snap_cache_hits_total":      1,
		"snap_cache_misses_total":    1,
	}, got)
}

func TestSnapshot_KeepsLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	for _, component := range []string{"first", "second"} {
		wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"component": component}, reg)
		require.NoError(t, wrapped.Register(NewCollector("multi", newLoadedCache(t))))
	}

	samples, err := Snapshot(reg)
	require.NoError(t, err)
	assert.Len(t, samples, 10)

	var labels []string
	for _, s := range samples {
		if s.Name == "multi_cache_capacity" {
			labels = append(labels, s.Labels)
		}
	}
	assert.Equal(t, []string{"component=first", "component=second"}, labels)
}
