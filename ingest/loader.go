package ingest

import (
	"fmt"

	"github.com/TFMV/moviegraph/graph"
	"github.com/TFMV/moviegraph/models"
)

// Load creates a node per record and an edge per relation in g, links every
// relation as a child both ways and expands the root. All nodes start at the
// center of the viewport; unfold places them around their parent.
func Load(g *graph.Graph, ds *models.Dataset) (*graph.Node, error) {
	w, h := g.Size()
	cx, cy := w/2, h/2

	for _, rec := range ds.Nodes {
		n := g.CreateNode(rec.ID, models.ParseNodeType(rec.Type), cx, cy)
		if n == nil {
			return nil, fmt.Errorf("load %s: node without id", ds.Name)
		}
		label := rec.Label
		if label == "" {
			label = rec.ID
		}
		n.RenderLabel(label)
	}

	for _, rec := range ds.Edges {
		src, tgt := g.GetNode(rec.Source), g.GetNode(rec.Target)
		if src == nil || tgt == nil {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownNode, rec.Source, rec.Target)
		}
		if g.GetEdge(rec.Source, rec.Target) != nil {
			continue
		}

		e := g.CreateEdge(rec.ID(), models.ParseEdgeType(rec.Type), src, tgt)
		e.Label = rec.Label
	}

	linked := make(map[string]bool, len(ds.Nodes))
	for _, rec := range ds.Nodes {
		if linked[rec.ID] {
			continue
		}
		linked[rec.ID] = true
		n := g.GetNode(rec.ID)
		for _, id := range ds.Neighbors(rec.ID) {
			n.AddChild(g.GetNode(id))
		}
	}

	root, err := Expand(g, ds.Root)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Expand runs the load handshake on the node id: it is enlarged, then grows
// toward a ceiling set by its children and unfolds them once grown.
func Expand(g *graph.Graph, id string) (*graph.Node, error) {
	n := g.GetNode(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.Load()
	n.Loaded()
	return n, nil
}
