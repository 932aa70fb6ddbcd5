package prometheus

import (
	"context"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-account-webhooks/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "account_webhooks"

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Recorder implements core.MetricsRecorder on a dedicated prometheus
// registry. Vectors are created on first use; the label set of a metric is
// fixed by the tag keys seen on that first observation.
type Recorder struct {
	namespace  string
	registry   *prom.Registry
	buckets    []float64
	mu         sync.Mutex
	counters   map[string]*counterVec
	histograms map[string]*histogramVec
}

type counterVec struct {
	labels []string
	vec    *prom.CounterVec
}

type histogramVec struct {
	labels []string
	vec    *prom.HistogramVec
}

type Option func(*Recorder)

func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		r.namespace = sanitizeName(namespace)
	}
}

// WithBuckets overrides the histogram buckets, in milliseconds.
func WithBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = append([]float64(nil), buckets...)
		}
	}
}

// WithProcessCollectors registers the go runtime and process collectors.
func WithProcessCollectors() Option {
	return func(r *Recorder) {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

func NewRecorder(opts ...Option) *Recorder {
	recorder := &Recorder{
		namespace:  DefaultNamespace,
		registry:   prom.NewRegistry(),
		buckets:    []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		counters:   map[string]*counterVec{},
		histograms: map[string]*histogramVec{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(recorder)
		}
	}
	return recorder
}

func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the recorder registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value <= 0 {
		return
	}
	metric, err := r.counter(name, tags)
	if err != nil {
		return
	}
	metric.vec.WithLabelValues(labelValues(metric.labels, tags)...).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	metric, err := r.histogram(name, tags)
	if err != nil {
		return
	}
	metric.vec.WithLabelValues(labelValues(metric.labels, tags)...).Observe(value)
}

func (r *Recorder) counter(name string, tags map[string]string) (*counterVec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sanitizeName(name)
	if existing, ok := r.counters[key]; ok {
		return existing, nil
	}
	labels := labelNames(tags)
	vec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: r.namespace,
		Name:      key,
		Help:      "Counter " + key + " recorded by account-webhooks.",
	}, labels)
	if err := r.registry.Register(vec); err != nil {
		return nil, err
	}
	metric := &counterVec{labels: labels, vec: vec}
	r.counters[key] = metric
	return metric, nil
}

func (r *Recorder) histogram(name string, tags map[string]string) (*histogramVec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sanitizeName(name)
	if existing, ok := r.histograms[key]; ok {
		return existing, nil
	}
	labels := labelNames(tags)
	vec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: r.namespace,
		Name:      key,
		Help:      "Histogram " + key + " recorded by account-webhooks.",
		Buckets:   r.buckets,
	}, labels)
	if err := r.registry.Register(vec); err != nil {
		return nil, err
	}
	metric := &histogramVec{labels: labels, vec: vec}
	r.histograms[key] = metric
	return metric, nil
}

func labelNames(tags map[string]string) []string {
	labels := make([]string, 0, len(tags))
	for key := range tags {
		if name := sanitizeName(key); name != "" {
			labels = append(labels, name)
		}
	}
	sort.Strings(labels)
	return labels
}

func labelValues(labels []string, tags map[string]string) []string {
	normalized := make(map[string]string, len(tags))
	for key, value := range tags {
		normalized[sanitizeName(key)] = value
	}
	values := make([]string, len(labels))
	for i, label := range labels {
		values[i] = normalized[label]
	}
	return values
}

func sanitizeName(value string) string {
	value = strings.TrimSpace(value)
	value = invalidNameChars.ReplaceAllString(value, "_")
	return strings.Trim(value, "_")
}

var _ core.MetricsRecorder = (*Recorder)(nil)
