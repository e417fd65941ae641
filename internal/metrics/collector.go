// Package metrics exposes cache statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"lrucache/internal/cache"
)

// StatsSource is anything that can report cache.Stats, e.g. *cache.LRU or *cache.Locked.
type StatsSource interface {
	Stats() cache.Stats
}

// Collector reads a StatsSource on every scrape.
type Collector struct {
	source StatsSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
	capacity  *prometheus.Desc
}

// NewCollector creates a Collector with the given namespace.
func NewCollector(namespace string, source StatsSource) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "cache", n)
	}
	return &Collector{
		source:    source,
		hits:      prometheus.NewDesc(name("hits_total"), "Total number of Get calls that found the key", nil, nil),
		misses:    prometheus.NewDesc(name("misses_total"), "Total number of Get calls that missed", nil, nil),
		evictions: prometheus.NewDesc(name("evictions_total"), "Total number of entries evicted by capacity pressure", nil, nil),
		entries:   prometheus.NewDesc(name("entries"), "Current number of cached entries", nil, nil),
		capacity:  prometheus.NewDesc(name("capacity"), "Maximum number of cached entries", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
}

var _ prometheus.Collector = (*Collector)(nil)
