// Package ingest decodes movie datasets and loads them into a graph. It is
// the data collaborator of the engine: it creates the nodes and edges,
// wires the children both ways and drives the load/loaded handshake.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/TFMV/moviegraph/models"
)

var (
	// ErrUnsupportedFormat is returned for a format no processor handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnknownNode is returned for a reference to a node that does not exist.
	ErrUnknownNode = errors.New("unknown node")
)

// DataProcessor decodes raw bytes into a dataset.
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns the dataset they describe
	ProcessData(data []byte) (*models.Dataset, error)

	// GetName returns the name of the processor
	GetName() string
}

// document is the shape shared by the JSON and TOML encodings.
type document struct {
	Name  string              `json:"name" toml:"name"`
	Root  string              `json:"root" toml:"root"`
	Nodes []models.NodeRecord `json:"nodes" toml:"nodes"`
	Edges []models.EdgeRecord `json:"edges" toml:"edges"`
}

// JSONProcessor handles JSON data
type JSONProcessor struct{}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*models.Dataset, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return build(doc, "JSON Import")
}

// TOMLProcessor handles TOML data
type TOMLProcessor struct{}

// GetName returns the name of the processor
func (p *TOMLProcessor) GetName() string {
	return "TOML Processor"
}

// ProcessData processes TOML data
func (p *TOMLProcessor) ProcessData(data []byte) (*models.Dataset, error) {
	var doc document
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing TOML: %w", err)
	}
	return build(doc, "TOML Import")
}

// CSVProcessor handles CSV data with one relation per row. The source and
// target columns are required; type, label and the per-endpoint type and
// label columns are optional.
type CSVProcessor struct{}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, col := range header {
		switch c := strings.ToLower(strings.TrimSpace(col)); c {
		case "source", "from", "src":
			cols["source"] = i
		case "target", "to", "dst":
			cols["target"] = i
		case "type", "type_", "relation":
			cols["type"] = i
		case "label", "role", "job":
			cols["label"] = i
		case "source_type", "source_label", "target_type", "target_label":
			cols[c] = i
		}
	}

	if _, ok := cols["source"]; !ok {
		return nil, fmt.Errorf("CSV must contain source and target columns")
	}
	if _, ok := cols["target"]; !ok {
		return nil, fmt.Errorf("CSV must contain source and target columns")
	}

	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var doc document
	seen := make(map[string]bool)
	addNode := func(id, typ, label string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if label == "" {
			label = id
		}
		doc.Nodes = append(doc.Nodes, models.NodeRecord{ID: id, Type: typ, Label: label})
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		src, tgt := field(row, "source"), field(row, "target")
		if src == "" || tgt == "" {
			continue
		}
		addNode(src, field(row, "source_type"), field(row, "source_label"))
		addNode(tgt, field(row, "target_type"), field(row, "target_label"))

		doc.Edges = append(doc.Edges, models.EdgeRecord{
			Source: src,
			Target: tgt,
			Type:   field(row, "type"),
			Label:  field(row, "label"),
		})
	}

	return build(doc, "CSV Import")
}

// build validates doc and turns it into a dataset. The root defaults to the
// first movie, or the first node when there is none.
func build(doc document, fallbackName string) (*models.Dataset, error) {
	name := doc.Name
	if name == "" {
		name = fallbackName
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("dataset %q has no nodes", name)
	}

	ds := models.NewDataset(name, doc.Root)
	known := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("dataset %q: node without id", name)
		}
		known[n.ID] = true
		ds.AddNode(n)
	}

	if ds.Root == "" {
		ds.Root = doc.Nodes[0].ID
		movies := ds.FilterNodes(func(n models.NodeRecord) bool {
			return models.ParseNodeType(n.Type) == models.NodeMovie
		})
		if len(movies) > 0 {
			ds.Root = movies[0].ID
		}
	}
	if _, err := ds.FindNode(ds.Root); err != nil {
		return nil, fmt.Errorf("%w: root %s", ErrUnknownNode, ds.Root)
	}

	for _, e := range doc.Edges {
		if !known[e.Source] || !known[e.Target] {
			return nil, fmt.Errorf("%w: edge references non-existent node: %s -> %s", ErrUnknownNode, e.Source, e.Target)
		}
		if err := ds.AddEdge(e); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
	}
	return ds, nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return &JSONProcessor{}, nil
	case "toml":
		return &TOMLProcessor{}, nil
	case "csv":
		return &CSVProcessor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ProcessFile reads filename and decodes it by extension.
func ProcessFile(filename string) (*models.Dataset, error) {
	p, err := GetProcessor(filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return p.ProcessData(data)
}
