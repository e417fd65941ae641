package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Sample is one gathered value.
type Sample struct {
	Name   string
	Labels string // name=value pairs joined by commas, sorted by name
	Value  float64
}

// Snapshot gathers g and flattens counters and gauges into samples, in the
// registry's sorted order. Other metric types are skipped.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{Name: mf.GetName(), Labels: labelString(m), Value: m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				out = append(out, Sample{Name: mf.GetName(), Labels: labelString(m), Value: m.GetGauge().GetValue()})
			}
		}
	}
	return out, nil
}

// labelString relies on Gather returning label pairs sorted by name.
func labelString(m *dto.Metric) string {
	pairs := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
	}
	return strings.Join(pairs, ",")
}
