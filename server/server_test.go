package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TFMV/moviegraph/graph"
	"github.com/TFMV/moviegraph/host"
	"github.com/TFMV/moviegraph/ingest"
	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/render"
	"github.com/charmbracelet/log"
)

type fixture struct {
	loop *host.Loop
	srv  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ds, err := ingest.ProcessFile("../ingest/testdata/solaris.json")
	if err != nil {
		t.Fatal(err)
	}
	g := graph.New(1024, 768, graph.WithSeed(5), graph.WithLabels(render.MonoLabels{Advance: 7}))
	if _, err := ingest.Load(g, ds); err != nil {
		t.Fatal(err)
	}
	loop := host.New(g)
	loop.Steps(2)

	s := New(loop, Config{Dataset: ds})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{loop: loop, srv: srv}
}

func (f *fixture) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestFrame(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/api/frame")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	frame := decodeBody[models.Frame](t, resp)
	if frame.Tick != 2 || len(frame.Nodes) != 5 {
		t.Errorf("frame tick %d with %d nodes, want 2 and 5", frame.Tick, len(frame.Nodes))
	}
}

func TestFrameSVG(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/frame.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	for _, want := range []string{"<svg", "<circle", "<line", "Solaris (1972)", "</svg>"} {
		if !strings.Contains(body, want) {
			t.Errorf("SVG is missing %q", want)
		}
	}
}

func TestTouch(t *testing.T) {
	f := newFixture(t)
	root := f.loop.Frame().Nodes[0]

	tests := []struct {
		name   string
		body   string
		status int
		node   string
	}{
		{"began on root", `{"phase":"began","tid":1,"x":` + ftoa(root.X) + `,"y":` + ftoa(root.Y) + `}`, http.StatusOK, root.ID},
		{"moved drags", `{"phase":"moved","tid":1,"x":600,"y":400,"px":512,"py":384}`, http.StatusOK, root.ID},
		{"ended releases", `{"phase":"ended","tid":1,"x":600,"y":400}`, http.StatusOK, root.ID},
		{"began on empty space", `{"phase":"began","tid":2,"x":5,"y":5}`, http.StatusOK, ""},
		{"unknown phase", `{"phase":"hover","tid":1}`, http.StatusBadRequest, ""},
		{"malformed body", `{"phase":`, http.StatusBadRequest, ""},
		{"unknown field", `{"phase":"began","z":1}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.post(t, "/api/touch", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			if got := decodeBody[NodeResponse](t, resp); got.Node != tt.node {
				t.Errorf("node = %q, want %q", got.Node, tt.node)
			}
		})
	}

	if s := f.loop.Stats(); s.Touches != 0 {
		t.Errorf("touches = %d, want 0: only touches on a node are tracked", s.Touches)
	}
}

func TestTapAndExpand(t *testing.T) {
	f := newFixture(t)

	var director models.NodeState
	for _, n := range f.loop.Frame().Nodes {
		if n.ID == "p_tarkovsky" {
			director = n
		}
	}
	if director.ID == "" {
		t.Fatal("director should be visible")
	}

	resp := f.post(t, "/api/tap", `{"tid":0,"x":`+ftoa(director.X)+`,"y":`+ftoa(director.Y)+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tap status = %d", resp.StatusCode)
	}
	if hit := decodeBody[NodeResponse](t, resp); hit.Node == "" {
		t.Error("tap on a visible node should report it")
	}

	resp = f.post(t, "/api/nodes/p_tarkovsky/expand", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expand status = %d", resp.StatusCode)
	}
	if got := decodeBody[NodeResponse](t, resp); got.Node != "p_tarkovsky" || got.Phase != "growing" {
		t.Errorf("expand = %+v, want p_tarkovsky growing", got)
	}

	f.loop.Steps(2)
	if s := f.loop.Stats(); s.ActiveNodes != 2 {
		t.Errorf("active nodes = %d, want 2", s.ActiveNodes)
	}

	if resp := f.post(t, "/api/nodes/nope/expand", `{}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expand unknown status = %d, want 404", resp.StatusCode)
	}
}

func TestExpandGrowingNode(t *testing.T) {
	ds := models.NewDataset("cast", "m1")
	ds.AddNode(models.NodeRecord{ID: "m1", Type: "movie"})
	for i := 0; i < 20; i++ {
		id := "p" + string(rune('a'+i))
		ds.AddNode(models.NodeRecord{ID: id, Type: "person_actor"})
		if err := ds.AddEdge(models.EdgeRecord{Source: "m1", Target: id, Type: "person_actor"}); err != nil {
			t.Fatal(err)
		}
	}

	g := graph.New(1024, 768, graph.WithSeed(5), graph.WithLabels(render.MonoLabels{Advance: 7}))
	if _, err := ingest.Load(g, ds); err != nil {
		t.Fatal(err)
	}
	loop := host.New(g)
	loop.Steps(5)
	srv := httptest.NewServer(New(loop, Config{Dataset: ds}).Handler())
	t.Cleanup(srv.Close)
	f := &fixture{loop: loop, srv: srv}

	radius := func() float64 {
		var r float64
		loop.Do(func(g *graph.Graph) error {
			r = g.GetNode("m1").Radius
			return nil
		})
		return r
	}
	before := radius()
	if before != 35 {
		t.Fatalf("radius after 5 ticks = %v, want 35", before)
	}

	for i := 0; i < 2; i++ {
		resp := f.post(t, "/api/nodes/m1/expand", `{}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expand status = %d", resp.StatusCode)
		}
		if got := decodeBody[NodeResponse](t, resp); got.Phase != "growing" {
			t.Errorf("expand %d phase = %q, want growing", i, got.Phase)
		}
	}
	if got := radius(); got != before {
		t.Errorf("radius after expanding a growing node = %v, want %v", got, before)
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.post(t, "/api/nodes/p_tarkovsky/expand", `{}`)
	f.loop.Steps(2)

	resp := f.post(t, "/api/reset", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	stats := decodeBody[graph.Stats](t, resp)
	if stats.Tick != 0 || stats.Nodes != 8 || stats.ActiveNodes != 0 || stats.LoadingNodes != 1 {
		t.Errorf("Stats after reset = %+v, want the dataset reloaded with the root loading", stats)
	}
}

func TestMetricsAndIndex(t *testing.T) {
	f := newFixture(t)
	f.post(t, "/api/tap", `{"tid":0,"x":1,"y":1}`)

	resp := f.get(t, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `moviegraph_events_total{kind="tap"} 1`) {
		t.Error("metrics should count the tap")
	}

	if resp := f.get(t, "/"); resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "text/html" {
		t.Errorf("index status %d, type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if resp := f.get(t, "/api/touch"); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/touch status = %d, want 405", resp.StatusCode)
	}
}

func ftoa(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestResetKeepsGraphOnBadDataset(t *testing.T) {
	f := newFixture(t)
	before := f.loop.Stats()

	bad := models.NewDataset("bad", "m1")
	bad.AddNode(models.NodeRecord{ID: "m1", Type: "movie"})
	bad.Edges = append(bad.Edges, models.EdgeRecord{Source: "m1", Target: "zz"})
	srv := httptest.NewServer(New(f.loop, Config{Dataset: bad}).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/reset", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if after := f.loop.Stats(); after != before {
		t.Errorf("Stats after failed reset = %+v, want %+v", after, before)
	}
}

type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header       { return w.header }
func (w *brokenWriter) WriteHeader(int)           {}
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteErrorsAreLogged(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		want string
	}{
		{"/api/frame", "write frame"},
		{"/frame.svg", "write svg frame"},
		{"/", "write index"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			s := New(f.loop, Config{Logger: log.New(&buf)})
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			s.Handler().ServeHTTP(&brokenWriter{header: http.Header{}}, req)
			if !strings.Contains(buf.String(), tt.want) || !strings.Contains(buf.String(), "connection reset") {
				t.Errorf("log = %q, want %q with the write error", buf.String(), tt.want)
			}
		})
	}
}
