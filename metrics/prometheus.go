// Package metrics provides a Prometheus-backed implementation of the
// jsonpoll.Metrics interface.
//
// Attach it to a builder to export fetch outcome counters and duration
// histograms:
//
//	poller, err := jsonpoll.NewBuilder[Payload](url).
//	    WithMetrics(metrics.NewPrometheus(nil)).
//	    Build()
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements the jsonpoll.Metrics interface on top of
// prometheus/client_golang. Collectors are created lazily on first use and
// cached by metric name. Safe for concurrent use by multiple pollers.
type Prometheus struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheus creates a [Prometheus] metrics sink registering its
// collectors with reg. A nil reg means [prometheus.DefaultRegisterer].
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Prometheus{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// IncrementCounter adds one to the named counter. Labels are alternating
// key-value pairs.
func (p *Prometheus) IncrementCounter(name string, labels ...string) {
	counter := p.getOrCreateCounter(name, labelNames(labels))
	counter.WithLabelValues(labelValues(labels)...).Inc()
}

// ObserveHistogram records a value in the named histogram. Labels are
// alternating key-value pairs.
func (p *Prometheus) ObserveHistogram(name string, value float64, labels ...string) {
	histogram := p.getOrCreateHistogram(name, labelNames(labels))
	histogram.WithLabelValues(labelValues(labels)...).Observe(value)
}

func (p *Prometheus) getOrCreateCounter(name string, names []string) *prometheus.CounterVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if counter, exists := p.counters[name]; exists {
		return counter
	}

	counter := promauto.With(p.registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: name + " counter",
		},
		names,
	)
	p.counters[name] = counter
	return counter
}

func (p *Prometheus) getOrCreateHistogram(name string, names []string) *prometheus.HistogramVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if histogram, exists := p.histograms[name]; exists {
		return histogram
	}

	histogram := promauto.With(p.registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    name + " histogram",
			Buckets: prometheus.DefBuckets,
		},
		names,
	)
	p.histograms[name] = histogram
	return histogram
}

// labelNames extracts the keys from alternating key-value pairs.
func labelNames(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(labels)/2)
	for i := 0; i < len(labels)-1; i += 2 {
		names = append(names, labels[i])
	}
	return names
}

// labelValues extracts the values from alternating key-value pairs.
func labelValues(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	values := make([]string, 0, len(labels)/2)
	for i := 1; i < len(labels); i += 2 {
		values = append(values, labels[i])
	}
	return values
}
