package models

import (
	"fmt"
)

// NodeFilter is a predicate over node records.
type NodeFilter func(n NodeRecord) bool

// FindNode finds a node record by ID.
func (d *Dataset) FindNode(id string) (NodeRecord, error) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return NodeRecord{}, fmt.Errorf("node with ID %s not found", id)
}

// Neighbors returns the IDs of all nodes related to id, in edge order.
// Each neighbor is listed once.
func (d *Dataset) Neighbors(id string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, e := range d.Edges {
		var other string
		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			result = append(result, other)
		}
	}
	return result
}

// FilterNodes returns node records matching the filter.
func (d *Dataset) FilterNodes(filter NodeFilter) []NodeRecord {
	var result []NodeRecord
	for _, n := range d.Nodes {
		if filter(n) {
			result = append(result, n)
		}
	}
	return result
}
