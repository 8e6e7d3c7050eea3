package models

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		in   string
		want NodeType
	}{
		{"movie", NodeMovie},
		{"person_actor", NodeActor},
		{"person_director", NodeDirector},
		{"person_crew", NodeCrew},
		{"person", NodePerson},
		{"", NodeGeneric},
		{"planet", NodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseNodeType(tt.in); got != tt.want {
				t.Errorf("ParseNodeType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDatasetAddEdge(t *testing.T) {
	d := NewDataset("test", "m1")
	d.AddNode(NodeRecord{ID: "m1", Type: "movie"})
	d.AddNode(NodeRecord{ID: "p1", Type: "person_actor"})

	if err := d.AddEdge(EdgeRecord{Source: "m1", Target: "p1"}); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if err := d.AddEdge(EdgeRecord{Source: "m1", Target: "m1"}); err == nil {
		t.Error("AddEdge() on a self loop should fail")
	}
	if err := d.AddEdge(EdgeRecord{Source: "m1", Target: "zz"}); err == nil {
		t.Error("AddEdge() with unknown target should fail")
	}
	if len(d.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(d.Edges))
	}
	if d.ID == "" {
		t.Error("NewDataset() should assign an ID")
	}
}

func TestDatasetNeighbors(t *testing.T) {
	d := NewDataset("test", "m1")
	for _, id := range []string{"m1", "p1", "p2"} {
		d.AddNode(NodeRecord{ID: id})
	}
	d.Edges = []EdgeRecord{
		{Source: "m1", Target: "p1"},
		{Source: "p2", Target: "m1"},
		{Source: "p1", Target: "m1"},
	}

	got := d.Neighbors("m1")
	if len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Errorf("Neighbors(m1) = %v, want [p1 p2]", got)
	}
	people := d.FilterNodes(func(n NodeRecord) bool { return n.ID != "m1" })
	if len(people) != 2 || people[0].ID != "p1" {
		t.Errorf("FilterNodes() = %v, want p1 and p2", people)
	}
	if _, err := d.FindNode("nope"); err == nil {
		t.Error("FindNode(nope) should fail")
	}
}

func TestLimit(t *testing.T) {
	v := Limit(r2.Vec{X: 30, Y: 40}, 10)
	if l := r2.Norm(v); math.Abs(l-10) > 1e-9 {
		t.Errorf("|Limit| = %v, want 10", l)
	}
	short := r2.Vec{X: 1, Y: 1}
	if got := Limit(short, 10); got != short {
		t.Errorf("Limit() changed a short vector: %v", got)
	}
}

func TestSafeNormalize(t *testing.T) {
	if got := SafeNormalize(r2.Vec{}); got != (r2.Vec{}) {
		t.Errorf("SafeNormalize(0) = %v, want zero", got)
	}
	if got := SafeNormalize(r2.Vec{X: 0, Y: -5}); got != (r2.Vec{X: 0, Y: -1}) {
		t.Errorf("SafeNormalize() = %v, want (0,-1)", got)
	}
}

func TestColorHex(t *testing.T) {
	if got := RGB255(138, 134, 96).Hex(); got != "#8a8660" {
		t.Errorf("Hex() = %s, want #8a8660", got)
	}
	c := Gray(1).Alpha(0.5).RGBA()
	if c.R != 255 || c.A != 128 {
		t.Errorf("RGBA() = %+v", c)
	}
}
