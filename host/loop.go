// Package host drives a graph at a fixed frame rate. One mutex guards every
// call into the graph, so ticks, touches and loads coming from different
// goroutines are serialized the way the engine expects.
package host

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/TFMV/moviegraph/graph"
	"github.com/TFMV/moviegraph/metrics"
	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/render"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultFPS is the tick rate when none is configured.
const DefaultFPS = 60

// Loop owns a graph and ticks it.
type Loop struct {
	mu    sync.Mutex
	g     *graph.Graph
	frame models.Frame

	session string
	fps     int
	logger  *log.Logger
	metrics *metrics.Collector
}

// Option configures a Loop.
type Option func(*Loop)

// WithFPS sets the tick rate. Non-positive values keep the default.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.fps = fps
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg *log.Logger) Option {
	return func(l *Loop) { l.logger = lg }
}

// WithMetrics records every tick in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Loop) { l.metrics = c }
}

// New creates a loop around g. The graph must not be used directly
// afterwards; go through Do.
func New(g *graph.Graph, opts ...Option) *Loop {
	l := &Loop{
		g:       g,
		session: uuid.New().String(),
		fps:     DefaultFPS,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	l.frame = g.Snapshot()
	return l
}

// Run ticks the graph until ctx is done and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(l.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.logger.Info("loop started", "session", l.session, "fps", l.fps)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped", "session", l.session, "tick", l.Frame().Tick)
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step runs one tick and refreshes the snapshot.
func (l *Loop) Step() {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	l.g.Update()
	l.frame = l.g.Snapshot()
	if l.metrics != nil {
		l.metrics.Observe(l.g.Stats(), time.Since(start))
	}
}

// Steps runs n ticks back to back.
func (l *Loop) Steps(n int) {
	for i := 0; i < n; i++ {
		l.Step()
	}
}

// Do runs fn with exclusive access to the graph and refreshes the snapshot
// afterwards.
func (l *Loop) Do(fn func(g *graph.Graph) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := fn(l.g)
	l.frame = l.g.Snapshot()
	return err
}

// Frame returns the snapshot taken after the last tick or Do.
func (l *Loop) Frame() models.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Render draws the current state onto c.
func (l *Loop) Render(c render.Canvas) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.g.Draw(c)
}

// Stats returns the current counts.
func (l *Loop) Stats() graph.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Stats()
}

// Size returns the viewport size.
func (l *Loop) Size() (float64, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Size()
}

// Session returns the id of this run.
func (l *Loop) Session() string { return l.session }

// FPS returns the tick rate.
func (l *Loop) FPS() int { return l.fps }
