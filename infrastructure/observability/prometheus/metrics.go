// Package prometheus implements the Metrics port on the Prometheus client
// library. Vectors are created on first use and registered under the service
// name prefix; a metric's label set is fixed by its first recording.
package prometheus

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"accessaudit/domain/observability"
)

type Metrics struct {
	mu          sync.Mutex
	serviceName string
	registry    *prometheus.Registry
	defaultTags map[string]string

	counters   map[string]*counterEntry
	histograms map[string]*histogramEntry
	gauges     map[string]*gaugeEntry
}

type counterEntry struct {
	vec  *prometheus.CounterVec
	keys []string
}

type histogramEntry struct {
	vec  *prometheus.HistogramVec
	keys []string
}

type gaugeEntry struct {
	vec  *prometheus.GaugeVec
	keys []string
}

// New creates a Prometheus-backed metrics recorder with its own registry.
// Expose the registry via promhttp on the metrics endpoint.
func New(serviceName string) *Metrics {
	return &Metrics{
		serviceName: sanitize(serviceName),
		registry:    prometheus.NewRegistry(),
		defaultTags: map[string]string{},
		counters:    make(map[string]*counterEntry),
		histograms:  make(map[string]*histogramEntry),
		gauges:      make(map[string]*gaugeEntry),
	}
}

// Registry returns the underlying registry for the HTTP exposition handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncrementCounter(name string, tags map[string]string) {
	merged := m.merge(tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.counters[name]
	if !ok {
		keys := labelKeys(merged)
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: m.metricName(name),
			Help: fmt.Sprintf("Counter %s", name),
		}, keys)
		if err := m.registry.Register(vec); err != nil {
			return
		}
		entry = &counterEntry{vec: vec, keys: keys}
		m.counters[name] = entry
	}
	entry.vec.WithLabelValues(labelValues(entry.keys, merged)...).Inc()
}

func (m *Metrics) RecordHistogram(name string, value float64, tags map[string]string) {
	merged := m.merge(tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.histograms[name]
	if !ok {
		keys := labelKeys(merged)
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    m.metricName(name),
			Help:    fmt.Sprintf("Histogram %s", name),
			Buckets: prometheus.DefBuckets,
		}, keys)
		if err := m.registry.Register(vec); err != nil {
			return
		}
		entry = &histogramEntry{vec: vec, keys: keys}
		m.histograms[name] = entry
	}
	entry.vec.WithLabelValues(labelValues(entry.keys, merged)...).Observe(value)
}

func (m *Metrics) RecordGauge(name string, value float64, tags map[string]string) {
	merged := m.merge(tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.gauges[name]
	if !ok {
		keys := labelKeys(merged)
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: m.metricName(name),
			Help: fmt.Sprintf("Gauge %s", name),
		}, keys)
		if err := m.registry.Register(vec); err != nil {
			return
		}
		entry = &gaugeEntry{vec: vec, keys: keys}
		m.gauges[name] = entry
	}
	entry.vec.WithLabelValues(labelValues(entry.keys, merged)...).Set(value)
}

func (m *Metrics) WithTags(tags map[string]string) observability.Metrics {
	merged := make(map[string]string, len(m.defaultTags)+len(tags))
	for k, v := range m.defaultTags {
		merged[k] = v
	}
	for k, v := range tags {
		merged[k] = v
	}
	return &taggedMetrics{parent: m, tags: merged}
}

func (m *Metrics) merge(tags map[string]string) map[string]string {
	if len(m.defaultTags) == 0 {
		return tags
	}
	merged := make(map[string]string, len(m.defaultTags)+len(tags))
	for k, v := range m.defaultTags {
		merged[k] = v
	}
	for k, v := range tags {
		merged[k] = v
	}
	return merged
}

func (m *Metrics) metricName(name string) string {
	return m.serviceName + "_" + sanitize(name)
}

// taggedMetrics routes through the parent so all vectors live in one registry.
type taggedMetrics struct {
	parent *Metrics
	tags   map[string]string
}

func (t *taggedMetrics) IncrementCounter(name string, tags map[string]string) {
	t.parent.IncrementCounter(name, mergeTags(t.tags, tags))
}

func (t *taggedMetrics) RecordHistogram(name string, value float64, tags map[string]string) {
	t.parent.RecordHistogram(name, value, mergeTags(t.tags, tags))
}

func (t *taggedMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	t.parent.RecordGauge(name, value, mergeTags(t.tags, tags))
}

func (t *taggedMetrics) WithTags(tags map[string]string) observability.Metrics {
	return &taggedMetrics{parent: t.parent, tags: mergeTags(t.tags, tags)}
}

func mergeTags(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func labelKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, sanitize(k))
	}
	sort.Strings(keys)
	return keys
}

// labelValues resolves the fixed label set against the call's tags; labels
// missing from the call become empty values.
func labelValues(keys []string, tags map[string]string) []string {
	sanitized := make(map[string]string, len(tags))
	for k, v := range tags {
		sanitized[sanitize(k)] = v
	}
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = sanitized[k]
	}
	return values
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		default:
			return '_'
		}
	}, name)
}
