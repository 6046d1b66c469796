// Package metrics exposes store activity as Prometheus metrics. Registry
// implements store.Observer, so it is attached with store.WithObserver.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/attrgrid/internal/attrerr"
)

// Registry holds the store metrics and the Prometheus registry they live in.
type Registry struct {
	DescribesTotal      prometheus.Counter
	RemovesTotal        prometheus.Counter
	GraphRebuildsTotal  prometheus.Counter
	GraphNodes          prometheus.Gauge
	RecalculationsTotal *prometheus.CounterVec
	SkipsTotal          *prometheus.CounterVec
	SetErrorsTotal      *prometheus.CounterVec
	SetDuration         prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}
	f := promauto.With(reg)

	r.DescribesTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "attrgrid_describes_total",
		Help: "Total number of successful describe calls",
	})
	r.RemovesTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "attrgrid_removes_total",
		Help: "Total number of successful remove calls",
	})
	r.GraphRebuildsTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "attrgrid_graph_rebuilds_total",
		Help: "Total number of dependency graph rebuilds",
	})
	r.GraphNodes = f.NewGauge(prometheus.GaugeOpts{
		Name: "attrgrid_graph_nodes",
		Help: "Number of nodes in the current dependency graph",
	})
	r.RecalculationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrgrid_recalculations_total",
			Help: "Total number of attribute values written by set batches",
		},
		[]string{"attribute"},
	)
	r.SkipsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrgrid_skips_total",
			Help: "Total number of unset attributes left alone by set batches",
		},
		[]string{"attribute"},
	)
	r.SetErrorsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrgrid_set_errors_total",
			Help: "Total number of failed set batches by error kind",
		},
		[]string{"kind"},
	)
	r.SetDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "attrgrid_set_duration_seconds",
		Help:    "Set batch duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})

	return r
}

// Prometheus returns the underlying Prometheus registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) Described(string) { r.DescribesTotal.Inc() }

func (r *Registry) Removed(string) { r.RemovesTotal.Inc() }

func (r *Registry) GraphRebuilt(nodes int) {
	r.GraphRebuildsTotal.Inc()
	r.GraphNodes.Set(float64(nodes))
}

func (r *Registry) Recalculated(name string) {
	r.RecalculationsTotal.WithLabelValues(name).Inc()
}

func (r *Registry) Skipped(name string) {
	r.SkipsTotal.WithLabelValues(name).Inc()
}

func (r *Registry) SetCompleted(_ int, took time.Duration, err error) {
	r.SetDuration.Observe(took.Seconds())
	if err != nil {
		r.SetErrorsTotal.WithLabelValues(attrerr.KindName(err)).Inc()
	}
}
