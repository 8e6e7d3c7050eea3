// Package models provides data structures shared by the moviegraph packages.
// It defines the typed records supplied by data-loading collaborators, the
// node and edge categories, the vector and color primitives and the frame
// snapshots handed to renderers.
package models

import (
	"time"
)

// NodeType is the category of a node. It selects the node's color and
// whether unfold reveals it.
type NodeType string

// Node categories.
const (
	NodeGeneric  NodeType = "node"
	NodeMovie    NodeType = "movie"
	NodePerson   NodeType = "person"
	NodeActor    NodeType = "person_actor"
	NodeDirector NodeType = "person_director"
	NodeCrew     NodeType = "person_crew"
)

// EdgeType is the category of an edge.
type EdgeType string

// Edge categories.
const (
	EdgeGeneric  EdgeType = "edge"
	EdgeMovie    EdgeType = "movie"
	EdgeActor    EdgeType = "person_actor"
	EdgeDirector EdgeType = "person_director"
	EdgeCrew     EdgeType = "person_crew"
)

// ParseNodeType maps a record type string to a node category. Unknown
// strings resolve to NodeGeneric.
func ParseNodeType(s string) NodeType {
	switch t := NodeType(s); t {
	case NodeMovie, NodePerson, NodeActor, NodeDirector, NodeCrew:
		return t
	default:
		return NodeGeneric
	}
}

// ParseEdgeType maps a record type string to an edge category. Unknown
// strings resolve to EdgeGeneric.
func ParseEdgeType(s string) EdgeType {
	switch t := EdgeType(s); t {
	case EdgeMovie, EdgeActor, EdgeDirector, EdgeCrew:
		return t
	default:
		return EdgeGeneric
	}
}

// NodeRecord is an entity supplied by a data collaborator.
type NodeRecord struct {
	ID    string `json:"id" toml:"id"`
	Type  string `json:"type" toml:"type"`
	Label string `json:"label" toml:"label"`
}

// EdgeRecord is a relation between two entities. Label carries the role or
// job shown in the info overlay.
type EdgeRecord struct {
	Source string `json:"source" toml:"source"`
	Target string `json:"target" toml:"target"`
	Type   string `json:"type" toml:"type"`
	Label  string `json:"label,omitempty" toml:"label"`
}

// Dataset is a batch of records with the root entity the graph starts from.
type Dataset struct {
	ID        string       `json:"id" toml:"id"`
	Name      string       `json:"name" toml:"name"`
	Root      string       `json:"root" toml:"root"`
	Nodes     []NodeRecord `json:"nodes" toml:"nodes"`
	Edges     []EdgeRecord `json:"edges" toml:"edges"`
	CreatedAt time.Time    `json:"created_at" toml:"-"`
}
