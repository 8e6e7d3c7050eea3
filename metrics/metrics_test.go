package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TFMV/moviegraph/graph"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	c := New()
	s := graph.Stats{
		Nodes:        8,
		VisibleNodes: 5,
		ActiveNodes:  1,
		Edges:        8,
		VisibleEdges: 4,
		ActiveEdges:  4,
		Touches:      2,
	}

	c.Observe(s, 2*time.Millisecond)
	c.Observe(s, 3*time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"frames", testutil.ToFloat64(c.Frames), 2},
		{"nodes total", testutil.ToFloat64(c.Nodes.WithLabelValues("total")), 8},
		{"nodes visible", testutil.ToFloat64(c.Nodes.WithLabelValues("visible")), 5},
		{"nodes active", testutil.ToFloat64(c.Nodes.WithLabelValues("active")), 1},
		{"nodes loading", testutil.ToFloat64(c.Nodes.WithLabelValues("loading")), 0},
		{"edges active", testutil.ToFloat64(c.Edges.WithLabelValues("active")), 4},
		{"touches", testutil.ToFloat64(c.Touches), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(c.FrameDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestEvent(t *testing.T) {
	c := New()
	c.Event("touch")
	c.Event("touch")
	c.Event("tap")

	if got := testutil.ToFloat64(c.Events.WithLabelValues("touch")); got != 2 {
		t.Errorf("touch events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Events.WithLabelValues("tap")); got != 1 {
		t.Errorf("tap events = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	c := New()
	c.Observe(graph.Stats{Nodes: 3}, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{"moviegraph_frames_total 1", `moviegraph_nodes{state="total"} 3`, "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition is missing %q", want)
		}
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Observe(graph.Stats{}, 0)
	if got := testutil.ToFloat64(b.Frames); got != 0 {
		t.Errorf("second collector frames = %v, want 0", got)
	}
}
