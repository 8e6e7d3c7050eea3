package graph

import (
	"github.com/TFMV/moviegraph/models"
)

// Stats counts the graph's population after the last tick.
type Stats struct {
	Tick         int
	Nodes        int
	Edges        int
	VisibleNodes int
	ActiveNodes  int
	LoadingNodes int
	VisibleEdges int
	ActiveEdges  int
	Touches      int
}

// Stats returns the current counts.
func (g *Graph) Stats() Stats {
	s := Stats{
		Tick:    g.tick,
		Nodes:   len(g.nodes),
		Edges:   len(g.edges),
		Touches: len(g.touched),
	}
	for _, n := range g.nodes {
		if n.visible {
			s.VisibleNodes++
		}
		if n.active {
			s.ActiveNodes++
		}
		if n.loading {
			s.LoadingNodes++
		}
	}
	for _, e := range g.edges {
		if e.visible {
			s.VisibleEdges++
		}
		if e.active {
			s.ActiveEdges++
		}
	}
	return s
}

// Snapshot captures the visible nodes and edges.
func (g *Graph) Snapshot() models.Frame {
	f := models.Frame{
		GraphID: g.ID,
		Tick:    g.tick,
		Width:   g.width,
		Height:  g.height,
		Nodes:   []models.NodeState{},
		Edges:   []models.EdgeState{},
	}

	for _, n := range g.nodes {
		if !n.visible {
			continue
		}
		f.Nodes = append(f.Nodes, models.NodeState{
			ID:       n.ID,
			Type:     n.Type,
			Label:    n.text,
			Phase:    n.Phase().String(),
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			Radius:   n.Radius,
			Core:     n.Core,
			Color:    n.style.color.Hex(),
			Selected: n.selected,
		})
	}

	for _, e := range g.edges {
		if !e.visible {
			continue
		}
		a, b := e.Nodes()
		f.Edges = append(f.Edges, models.EdgeState{
			ID:      e.ID,
			Type:    e.Type,
			Source:  a.ID,
			Target:  b.ID,
			Active:  e.active,
			Touched: e.touched,
		})
	}

	if g.info.Visible() {
		f.Info = g.info.Lines()
	}
	return f
}
