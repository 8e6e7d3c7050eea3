package graph

import (
	"math"

	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/physics"
	"github.com/TFMV/moviegraph/render"
	"gonum.org/v1/gonum/spatial/r2"
)

// Handle addresses a node in its graph's store.
type Handle int

// NoHandle is the handle of no node.
const NoHandle Handle = -1

// Sizes while loading.
const (
	loadRadius = 30.0
	loadCore   = 15.0
	growStep   = 1.0
	childGrow  = 3.0
)

// Phase is the lifecycle phase of a node.
type Phase int

// Lifecycle phases, in order.
const (
	PhaseHidden Phase = iota
	PhaseVisible
	PhaseLoading
	PhaseGrowing
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseVisible:
		return "visible"
	case PhaseLoading:
		return "loading"
	case PhaseGrowing:
		return "growing"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Node is a visual entity of the graph. Nodes are owned by their Graph; the
// parent and children links are handles into the same store.
type Node struct {
	physics.Body

	ID   string
	Type models.NodeType

	g        *Graph
	handle   Handle
	parent   Handle
	children []Handle

	nbChildren int
	growRadius float64
	fcount     int

	visible  bool
	active   bool
	loading  bool
	grow     bool
	selected bool

	style nodeStyle
	text  string
	label render.Label
	font  render.Font
	loff  r2.Vec
	ctxt  models.Color
}

func newNode(g *Graph, h Handle, id string, typ models.NodeType, x, y float64) *Node {
	n := &Node{
		Body:       physics.NewBody(x, y),
		ID:         id,
		Type:       typ,
		g:          g,
		handle:     h,
		parent:     NoHandle,
		nbChildren: DefaultChildren,
		style:      styleOf(typ),
		font:       render.FontLabel,
		loff:       r2.Vec{X: 0, Y: 5},
		ctxt:       colorText,
	}
	n.RenderLabel(" ")
	return n
}

// Setting applies the numeric overrides of s.
func (n *Node) Setting(s Settings) {
	if s == nil {
		s = SettingsMap{}
	}
	n.nbChildren = DefaultChildren
	if v, ok := s.Lookup(KeyNodeChildren); ok {
		n.nbChildren = int(v)
	}

	n.Dist = DefaultDist
	length, ok := edgeLength(s)
	if ok {
		n.Dist = length * 1.05
	}

	n.Perimeter = DefaultPerimeter
	if v, ok := s.Lookup(KeyNodePerimeter); ok {
		n.Perimeter = v
	}
	n.Perimeter = math.Min(n.Perimeter, length)
}

// Update advances the node by one frame and grows it while growing.
func (n *Node) Update() {
	n.fcount++
	n.Integrate()

	if n.grow {
		n.SetRadius(math.Min(n.Radius+growStep, n.growRadius))
		if n.Radius >= n.growRadius {
			n.grown()
		}
	}
}

// Draw paints the glow, the core and the label.
func (n *Node) Draw(c render.Canvas) {
	ga := alphaGlow
	if n.selected {
		ga = alphaGlowSelected
	}
	if n.loading && !n.grow {
		ga *= 1.5 + math.Sin(float64(n.fcount)*1.5*math.Pi/180)
	}
	c.Circle(n.Pos, n.Radius, n.style.color.Alpha(ga))

	ca := alphaCore
	if n.selected {
		ca = alphaCoreSelected
	}
	c.Circle(n.Pos, n.Core, n.style.color.Alpha(ca))

	txt := n.ctxt
	if n.selected {
		txt = colorTextSelected
	}
	c.Text(n.label, r2.Vec{X: n.Pos.X + n.loff.X, Y: n.Pos.Y + n.Radius + n.loff.Y}, txt.Alpha(1))
}

// Attract applies this node's force to other. The range is the perimeter
// once active and a quarter beyond the radius before that.
func (n *Node) Attract(other *Node) {
	d := models.Distance(n.Pos, other.Pos)
	p := n.Radius * 1.25
	if n.active {
		p = n.Perimeter
	}

	f := physics.Force(d, p, n.Strength, n.Ramp)
	if f == 0 {
		return
	}
	m := other.Mass
	if other.selected {
		m *= 2
	}
	other.Push(r2.Scale(f/m, r2.Sub(n.Pos, other.Pos)))
}

// AddChild appends child to the children. The child must belong to the same
// graph; it is neither deduplicated nor checked against n itself.
func (n *Node) AddChild(child *Node) {
	n.children = append(n.children, child.handle)
}

// Load enlarges the node and switches it to the loading label. Nodes that
// are already loading, growing or active ignore it.
func (n *Node) Load() {
	if n.active || n.loading {
		return
	}
	n.g.logger.Debug("node load", "id", n.ID)

	n.visible = true
	n.loading = true

	n.SetRadius(loadRadius)
	n.Core = loadCore

	n.ctxt = colorTextLoading
	n.font = render.FontLoading
	n.loff.Y = 6
	n.RenderLabel(n.text)
}

// Loaded starts growing the node toward a ceiling set by its child count.
func (n *Node) Loaded() {
	if !n.loading || n.grow {
		return
	}
	n.growRadius = math.Max(math.Min(float64(len(n.children))*childGrow, n.MRadius), n.Radius)
	n.grow = true
	n.g.logger.Debug("node loaded", "id", n.ID, "children", len(n.children), "growradius", n.growRadius)
}

func (n *Node) grown() {
	n.loading = false
	n.grow = false
	n.Mass = physics.Mass(n.Radius)
	n.active = true
	n.g.logger.Debug("node grown", "id", n.ID, "radius", n.Radius)

	n.unfold()
}

// unfold reveals the children. Adopted children already owned by another
// node are only unhidden; new ones are adopted and shown by category within
// the fan-out budget.
func (n *Node) unfold() {
	nb := n.nbChildren
	for _, h := range n.children {
		child := n.g.node(h)
		if child == nil {
			continue
		}

		if child.parent != NoHandle {
			child.Show(false)
			continue
		}

		child.parent = n.handle
		switch child.style.reveal {
		case revealAlways:
			child.Show(true)
		case revealBudget:
			if nb > 0 {
				child.Show(true)
				nb--
			} else if !child.active {
				child.Hide()
			}
		}
	}
}

// Show makes the node visible. A hidden node with a parent is placed at a
// random offset within half the parent's radius; with animate it starts on
// the parent and moves out.
func (n *Node) Show(animate bool) {
	if !n.visible {
		if pp := n.Parent(); pp != nil {
			r := pp.Radius * 0.5
			p := r2.Vec{X: pp.Pos.X + n.g.jitter.Signed(r), Y: pp.Pos.Y + n.g.jitter.Signed(r)}
			if animate {
				n.Pos = pp.Pos
				n.MoveTo(p)
			} else {
				n.Place(p)
			}
		}
	}
	n.visible = true
}

// Hide makes the node invisible.
func (n *Node) Hide() {
	n.visible = false
}

// Touched selects the node.
func (n *Node) Touched() {
	n.selected = true
}

// Untouched deselects the node.
func (n *Node) Untouched() {
	n.selected = false
}

// Tapped deselects the node and, for a dormant child sitting closer than
// Dist to its parent, moves it out to exactly Dist.
func (n *Node) Tapped() {
	n.selected = false
	if n.active || n.loading {
		return
	}

	pp := n.Parent()
	if pp == nil {
		return
	}
	pdist := r2.Sub(n.Pos, pp.Pos)
	if r2.Norm(pdist) < n.Dist {
		n.MoveTo(r2.Add(pp.Pos, r2.Scale(n.Dist, models.SafeNormalize(pdist))))
	}
}

// RenderLabel sets the label text and renders it with the current font.
func (n *Node) RenderLabel(text string) {
	if text == "" {
		text = " "
	}
	n.text = text
	n.label = n.g.labels.RenderLabel(text, n.font)
	n.loff.X = -n.label.Width / 2
}

// Label returns the label text.
func (n *Node) Label() string { return n.text }

// Handle returns the node's handle in its graph.
func (n *Node) Handle() Handle { return n.handle }

// Parent returns the adopting node, or nil.
func (n *Node) Parent() *Node { return n.g.node(n.parent) }

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, h := range n.children {
		if c := n.g.node(h); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// GrowRadius returns the growth ceiling computed by Loaded.
func (n *Node) GrowRadius() float64 { return n.growRadius }

func (n *Node) Visible() bool  { return n.visible }
func (n *Node) Active() bool   { return n.active }
func (n *Node) Loading() bool  { return n.loading }
func (n *Node) Growing() bool  { return n.grow }
func (n *Node) Selected() bool { return n.selected }

// Phase returns the lifecycle phase.
func (n *Node) Phase() Phase {
	switch {
	case n.active:
		return PhaseActive
	case n.grow:
		return PhaseGrowing
	case n.loading:
		return PhaseLoading
	case n.visible:
		return PhaseVisible
	default:
		return PhaseHidden
	}
}

// Color returns the category color.
func (n *Node) Color() models.Color { return n.style.color }
