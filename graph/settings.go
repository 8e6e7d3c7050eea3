package graph

// Setting keys read by nodes and edges.
const (
	KeyNodeChildren  = "graph_node_children"
	KeyEdgeLength    = "graph_edge_length"
	KeyNodePerimeter = "graph_node_perimeter"
)

// Setting defaults.
const (
	DefaultChildren   = 12
	DefaultEdgeLength = 400.0
	DefaultPerimeter  = 390.0
	DefaultDist       = 420.0
)

// Settings looks up named numeric overrides. A missing key reports false and
// the caller keeps its default.
type Settings interface {
	Lookup(key string) (float64, bool)
}

// SettingsMap is a Settings backed by a plain map.
type SettingsMap map[string]float64

// Lookup implements Settings.
func (m SettingsMap) Lookup(key string) (float64, bool) {
	v, ok := m[key]
	return v, ok
}

// edgeLength returns the configured edge rest length.
func edgeLength(s Settings) (float64, bool) {
	if s == nil {
		return DefaultEdgeLength, false
	}
	if v, ok := s.Lookup(KeyEdgeLength); ok {
		return v, true
	}
	return DefaultEdgeLength, false
}
