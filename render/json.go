package render

import (
	"encoding/json"
	"fmt"

	"github.com/TFMV/moviegraph/models"
)

// EncodeFrame serializes a frame snapshot for machine consumption.
func EncodeFrame(f models.Frame) ([]byte, error) {
	if f.Nodes == nil {
		f.Nodes = []models.NodeState{}
	}
	if f.Edges == nil {
		f.Edges = []models.EdgeState{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return data, nil
}
