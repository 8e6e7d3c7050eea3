package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EdgeSeparator joins two endpoint ids into an edge id.
const EdgeSeparator = "_edge_"

// EdgeID returns the composite id of the edge from n1 to n2.
func EdgeID(n1, n2 string) string {
	return n1 + EdgeSeparator + n2
}

// NewDataset creates an empty dataset with a unique ID.
func NewDataset(name, root string) *Dataset {
	return &Dataset{
		ID:        uuid.New().String(),
		Name:      name,
		Root:      root,
		Nodes:     []NodeRecord{},
		Edges:     []EdgeRecord{},
		CreatedAt: time.Now(),
	}
}

// AddNode appends a node record.
func (d *Dataset) AddNode(n NodeRecord) {
	d.Nodes = append(d.Nodes, n)
}

// AddEdge appends an edge record after checking both endpoints are known
// and distinct.
func (d *Dataset) AddEdge(e EdgeRecord) error {
	if e.Source == e.Target {
		return fmt.Errorf("edge %s loops on itself", EdgeID(e.Source, e.Target))
	}

	sourceExists, targetExists := false, false
	for _, n := range d.Nodes {
		if n.ID == e.Source {
			sourceExists = true
		}
		if n.ID == e.Target {
			targetExists = true
		}
		if sourceExists && targetExists {
			break
		}
	}

	if !sourceExists {
		return fmt.Errorf("source node %s does not exist", e.Source)
	}
	if !targetExists {
		return fmt.Errorf("target node %s does not exist", e.Target)
	}

	d.Edges = append(d.Edges, e)
	return nil
}

// ID returns the composite id of the edge record.
func (e EdgeRecord) ID() string {
	return EdgeID(e.Source, e.Target)
}
