// Package metrics exposes the simulation loop as Prometheus collectors on a
// registry owned by each Collector.
package metrics

import (
	"net/http"
	"time"

	"github.com/TFMV/moviegraph/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes the simulation counters. Each Collector owns its
// registry so several hosts can run in one process.
type Collector struct {
	registry *prometheus.Registry

	// Frames counts simulation ticks.
	Frames prometheus.Counter

	// FrameDuration measures the time one Update plus snapshot takes.
	FrameDuration prometheus.Histogram

	// Nodes tracks node counts by phase: total, visible, active, loading.
	Nodes *prometheus.GaugeVec

	// Edges tracks edge counts by state: total, visible, active.
	Edges *prometheus.GaugeVec

	// Touches tracks the number of touches in progress.
	Touches prometheus.Gauge

	// Events counts interaction events by kind.
	Events *prometheus.CounterVec
}

// New creates a Collector and registers its metrics along with the Go
// runtime collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviegraph_frames_total",
			Help: "Total number of simulation ticks",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "moviegraph_frame_duration_seconds",
			Help: "Duration of a simulation tick in seconds",
			// Ticks run at display rate; 16ms is one frame at 60 fps.
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.033, 0.1},
		}),
		Nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "moviegraph_nodes",
			Help: "Number of nodes by state",
		}, []string{"state"}),
		Edges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "moviegraph_edges",
			Help: "Number of edges by state",
		}, []string{"state"}),
		Touches: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moviegraph_touches",
			Help: "Number of touches in progress",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviegraph_events_total",
			Help: "Total number of interaction events",
		}, []string{"kind"}),
	}

	c.registry.MustRegister(
		c.Frames,
		c.FrameDuration,
		c.Nodes,
		c.Edges,
		c.Touches,
		c.Events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe records one tick.
func (c *Collector) Observe(s graph.Stats, d time.Duration) {
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())

	c.Nodes.WithLabelValues("total").Set(float64(s.Nodes))
	c.Nodes.WithLabelValues("visible").Set(float64(s.VisibleNodes))
	c.Nodes.WithLabelValues("active").Set(float64(s.ActiveNodes))
	c.Nodes.WithLabelValues("loading").Set(float64(s.LoadingNodes))

	c.Edges.WithLabelValues("total").Set(float64(s.Edges))
	c.Edges.WithLabelValues("visible").Set(float64(s.VisibleEdges))
	c.Edges.WithLabelValues("active").Set(float64(s.ActiveEdges))

	c.Touches.Set(float64(s.Touches))
}

// Event counts one interaction of the given kind.
func (c *Collector) Event(kind string) {
	c.Events.WithLabelValues(kind).Inc()
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
