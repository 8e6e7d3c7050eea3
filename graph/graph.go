// Package graph implements the interactive layout engine: nodes that are
// revealed and grown over time, edges that space them, an info overlay, and
// the Graph that owns them all, steps the simulation once per frame and
// routes touches.
//
// A Graph is not safe for concurrent use. The host calls Update and Draw once
// per frame and delivers touch events between frames on the same goroutine,
// or serializes all calls behind one lock.
package graph

import (
	"io"
	"time"

	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/physics"
	"github.com/TFMV/moviegraph/render"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Interaction defaults.
const (
	DefaultFriction = 0.75
	DefaultHitArea  = 6.0
)

// Graph owns the nodes and edges of one visualization.
type Graph struct {
	ID     string
	width  float64
	height float64

	nodes []*Node
	edges []*Edge
	nmap  map[string]int
	emap  map[string]int

	touched  map[int]Handle
	movement r2.Vec
	friction float64
	harea    float64
	info     *Info
	tick     int

	logger   *log.Logger
	labels   render.LabelRenderer
	settings Settings
	jitter   *physics.Jitter
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithLabels sets the label renderer.
func WithLabels(lr render.LabelRenderer) Option {
	return func(g *Graph) { g.labels = lr }
}

// WithSettings sets the numeric overrides applied to every new node and edge.
func WithSettings(s Settings) Option {
	return func(g *Graph) { g.settings = s }
}

// WithSeed makes the placement jitter reproducible.
func WithSeed(seed int64) Option {
	return func(g *Graph) { g.jitter = physics.NewJitter(seed) }
}

// New creates an empty graph for a width x height viewport.
func New(width, height float64, opts ...Option) *Graph {
	g := &Graph{
		ID:       uuid.New().String(),
		width:    width,
		height:   height,
		nmap:     make(map[string]int),
		emap:     make(map[string]int),
		touched:  make(map[int]Handle),
		friction: DefaultFriction,
		harea:    DefaultHitArea,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.labels == nil {
		g.labels = render.MonoLabels{}
	}
	if g.jitter == nil {
		g.jitter = physics.NewJitter(time.Now().UnixNano())
	}
	g.info = NewInfo(r2.Vec{X: width, Y: height}, g.labels)
	return g
}

// Setting stores s and applies it to the existing nodes and edges.
func (g *Graph) Setting(s Settings) {
	g.settings = s
	for _, n := range g.nodes {
		n.Setting(s)
	}
	for _, e := range g.edges {
		e.Setting(s)
	}
}

// Update runs one simulation tick.
func (g *Graph) Update() {
	g.attract()
	g.repulse()

	for _, n := range g.nodes {
		if !n.active && !n.loading {
			continue
		}

		n.Move(g.movement)
		n.Update()

		nmov := 0.0
		if d := models.Distance(n.MPos, n.Pos); d > 1 {
			nmov = d * 0.01
		}

		for _, h := range n.children {
			child := g.node(h)
			if child == nil || child.active || !child.visible || child.parent != n.handle {
				continue
			}
			child.Translate(n.Displacement())
			child.Move(r2.Vec{X: g.jitter.Signed(1) * nmov, Y: g.jitter.Signed(1) * nmov})
			child.Update()
		}
	}

	for _, e := range g.edges {
		e.refresh()
		if e.visible {
			e.Update()
		}
	}

	if g.info.Visible() {
		g.info.Update()
	}
	g.tick++
}

// Draw paints edges, then nodes, then the overlay.
func (g *Graph) Draw(c render.Canvas) {
	for _, e := range g.edges {
		if e.visible {
			e.Draw(c)
		}
	}
	for _, n := range g.nodes {
		if n.visible {
			n.Draw(c)
		}
	}
	if g.info.Visible() {
		g.info.Draw(c)
	}
}

// Reset drops all nodes, edges and touches. Nodes and edges obtained
// before the reset must not be used afterwards.
func (g *Graph) Reset() {
	g.logger.Debug("graph reset", "graph", g.ID, "nodes", len(g.nodes), "edges", len(g.edges))

	g.nodes = nil
	g.edges = nil
	g.nmap = make(map[string]int)
	g.emap = make(map[string]int)
	g.touched = make(map[int]Handle)
	g.movement = r2.Vec{}
	g.info.Hide()
	g.tick = 0
}

// TouchBegan selects the first visible node whose hit circle contains p and
// tracks it under tid. A node tid was already tracking is released first.
func (g *Graph) TouchBegan(p r2.Vec, tid int) {
	if prev := g.Touching(tid); prev != nil {
		delete(g.touched, tid)
		if !g.held(prev) {
			prev.Untouched()
		}
	}

	for _, n := range g.nodes {
		if !n.visible || !n.Contains(p, g.harea) {
			continue
		}
		g.logger.Debug("touch began", "tid", tid, "node", n.ID)

		g.touched[tid] = n.handle
		n.Touched()

		g.sinfo()
		g.info.Position(p)
		break
	}
}

// TouchMoved drags the node tracked under tid to p, or pans the graph when
// tid tracks no node.
func (g *Graph) TouchMoved(p, prev r2.Vec, tid int) {
	if n := g.Touching(tid); n != nil {
		n.MoveTo(p)
		g.info.Position(p)
		return
	}
	g.movement = r2.Scale(g.friction, r2.Sub(p, prev))
}

// TouchEnded releases tid.
func (g *Graph) TouchEnded(p r2.Vec, tid int) {
	if n := g.Touching(tid); n != nil {
		g.logger.Debug("touch ended", "tid", tid, "node", n.ID)
		n.Untouched()
		g.info.Hide()
	} else {
		g.movement = r2.Vec{}
	}
	delete(g.touched, tid)
}

// DoubleTap taps the first node whose hit circle contains p and returns it,
// or nil.
func (g *Graph) DoubleTap(p r2.Vec, tid int) *Node {
	for _, n := range g.nodes {
		if n.Contains(p, g.harea) {
			g.logger.Debug("double tap", "tid", tid, "node", n.ID)
			n.Tapped()
			return n
		}
	}
	return nil
}

// attract applies the pairwise force between active nodes, and between the
// visible children of each active node.
func (g *Graph) attract() {
	for _, n1 := range g.nodes {
		if !n1.active {
			continue
		}

		for _, n2 := range g.nodes {
			if n2.active && n1 != n2 {
				n1.Attract(n2)
			}
		}

		for _, h1 := range n1.children {
			c1 := g.node(h1)
			if c1 == nil || !c1.visible {
				continue
			}
			for _, h2 := range n1.children {
				c2 := g.node(h2)
				if c2 != nil && c2.visible && c1 != c2 {
					c1.Attract(c2)
				}
			}
		}
	}
}

// repulse lets every active edge space its endpoints.
func (g *Graph) repulse() {
	for _, e := range g.edges {
		if e.active {
			e.Repulse()
		}
	}
}

// CreateNode creates a node of the category typ at (x, y). An empty id
// returns nil. Re-using an id appends a new node and points the id at it.
func (g *Graph) CreateNode(id string, typ models.NodeType, x, y float64) *Node {
	if id == "" {
		return nil
	}

	h := Handle(len(g.nodes))
	n := newNode(g, h, id, typ, x, y)
	if g.settings != nil {
		n.Setting(g.settings)
	}

	g.nmap[id] = int(h)
	g.nodes = append(g.nodes, n)
	g.logger.Debug("node created", "id", id, "type", typ)
	return n
}

// GetNode returns the node indexed under id, or nil.
func (g *Graph) GetNode(id string) *Node {
	if i, ok := g.nmap[id]; ok {
		return g.nodes[i]
	}
	return nil
}

// CreateEdge creates an edge of the category typ between n1 and n2. An
// empty id or a nil endpoint returns nil; the endpoints are otherwise not
// checked.
func (g *Graph) CreateEdge(id string, typ models.EdgeType, n1, n2 *Node) *Edge {
	if id == "" || n1 == nil || n2 == nil {
		return nil
	}

	e := newEdge(g, id, typ, n1, n2)
	g.emap[id] = len(g.edges)
	g.edges = append(g.edges, e)
	g.logger.Debug("edge created", "id", id, "type", typ)
	return e
}

// GetEdge returns the edge between the nodes id1 and id2 in either
// direction, or nil.
func (g *Graph) GetEdge(id1, id2 string) *Edge {
	if i, ok := g.emap[models.EdgeID(id1, id2)]; ok {
		return g.edges[i]
	}
	if i, ok := g.emap[models.EdgeID(id2, id1)]; ok {
		return g.edges[i]
	}
	return nil
}

// Touching returns the node tracked under tid, or nil.
func (g *Graph) Touching(tid int) *Node {
	h, ok := g.touched[tid]
	if !ok {
		return nil
	}
	return g.node(h)
}

// held reports whether any touch still tracks n.
func (g *Graph) held(n *Node) bool {
	for _, h := range g.touched {
		if h == n.handle {
			return true
		}
	}
	return false
}

// sinfo shows the overlay with the text of every touched edge.
func (g *Graph) sinfo() {
	var txts []string
	for _, e := range g.edges {
		e.refresh()
		if e.touched {
			txts = append(txts, e.Info())
		}
	}
	if len(txts) > 0 {
		g.info.RenderText(txts)
		g.info.Show()
	}
}

func (g *Graph) node(h Handle) *Node {
	if h < 0 || int(h) >= len(g.nodes) {
		return nil
	}
	return g.nodes[h]
}

// Nodes returns the nodes in creation order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in creation order. The slice must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

// Movement returns the current pan delta.
func (g *Graph) Movement() r2.Vec { return g.movement }

// Info returns the overlay.
func (g *Graph) Info() *Info { return g.info }

// Tick returns the number of updates since creation or the last reset.
func (g *Graph) Tick() int { return g.tick }

// Size returns the viewport size.
func (g *Graph) Size() (float64, float64) { return g.width, g.height }

// Touches returns the number of tracked touches.
func (g *Graph) Touches() int { return len(g.touched) }
