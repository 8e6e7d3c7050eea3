package models

// Frame is a snapshot of the visible graph after one simulation tick.
type Frame struct {
	GraphID string      `json:"graph_id"`
	Tick    int         `json:"tick"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Nodes   []NodeState `json:"nodes"`
	Edges   []EdgeState `json:"edges"`
	Info    []string    `json:"info,omitempty"`
}

// NodeState is the rendered state of a node.
type NodeState struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label"`
	Phase    string   `json:"phase"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Radius   float64  `json:"radius"`
	Core     float64  `json:"core"`
	Color    string   `json:"color"`
	Selected bool     `json:"selected,omitempty"`
}

// EdgeState is the rendered state of an edge.
type EdgeState struct {
	ID      string   `json:"id"`
	Type    EdgeType `json:"type"`
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Active  bool     `json:"active"`
	Touched bool     `json:"touched,omitempty"`
}
