package graph

import (
	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/physics"
	"github.com/TFMV/moviegraph/render"
)

// Edge relates two nodes of the same graph and keeps them near a rest
// length while active.
type Edge struct {
	ID    string
	Type  models.EdgeType
	Label string

	g      *Graph
	n1, n2 Handle
	spring physics.Spring

	visible bool
	active  bool
	touched bool

	color models.Color
	alpha float64
}

func newEdge(g *Graph, id string, typ models.EdgeType, n1, n2 *Node) *Edge {
	length, _ := edgeLength(g.settings)
	return &Edge{
		ID:     id,
		Type:   typ,
		g:      g,
		n1:     n1.handle,
		n2:     n2.handle,
		spring: physics.NewSpring(length),
		color:  edgeColorOf(typ),
	}
}

// Setting applies the edge length override of s.
func (e *Edge) Setting(s Settings) {
	e.spring.Length, _ = edgeLength(s)
}

// Nodes returns the endpoints. Either may be nil after a reset.
func (e *Edge) Nodes() (*Node, *Node) {
	return e.g.node(e.n1), e.g.node(e.n2)
}

// refresh derives the flags from the endpoints: visible when both are,
// active when visible and one of them is active, touched when a selected
// endpoint is linked to the other by parentage or both are selected.
func (e *Edge) refresh() {
	a, b := e.Nodes()
	if a == nil || b == nil {
		e.visible, e.active, e.touched = false, false, false
		return
	}

	e.visible = a.visible && b.visible
	e.active = e.visible && (a.active || b.active)
	e.touched = e.visible && ((a.selected && b.selected) ||
		(a.selected && a.parent == b.handle) ||
		(b.selected && b.parent == a.handle))
}

// Repulse drives the endpoints toward the spring's rest length.
func (e *Edge) Repulse() {
	a, b := e.Nodes()
	if a == nil || b == nil {
		return
	}
	e.spring.Apply(&a.Body, &b.Body)
}

// Update fades the edge toward its target opacity.
func (e *Edge) Update() {
	target := alphaEdge
	if e.touched {
		target = alphaEdgeTouched
	}
	e.alpha += (target - e.alpha) * 0.1
}

// Draw paints the edge as a line between the endpoints.
func (e *Edge) Draw(c render.Canvas) {
	a, b := e.Nodes()
	if a == nil || b == nil {
		return
	}
	c.Line(a.Pos, b.Pos, 1, e.color.Alpha(e.alpha))
}

// Info returns the overlay text of the relation: its label, or the endpoint
// labels when it has none.
func (e *Edge) Info() string {
	if e.Label != "" {
		return e.Label
	}
	a, b := e.Nodes()
	if a == nil || b == nil {
		return ""
	}
	return a.Label() + " / " + b.Label()
}

// Length returns the spring rest length.
func (e *Edge) Length() float64 { return e.spring.Length }

func (e *Edge) Visible() bool { return e.visible }
func (e *Edge) Active() bool  { return e.active }
func (e *Edge) Touched() bool { return e.touched }
