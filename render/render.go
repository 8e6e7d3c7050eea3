// Package render holds the drawing collaborators of the graph engine: the
// Canvas primitives the engine draws with, the LabelRenderer that turns
// strings into measured labels, and the SVG, ASCII and JSON back ends.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/TFMV/moviegraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// Font describes a label face.
type Font struct {
	Name string
	Size float64
	Bold bool
}

// Faces used by the engine.
var (
	FontLabel   = Font{Name: "Go", Size: 12}
	FontLoading = Font{Name: "Go-Bold", Size: 15, Bold: true}
	FontInfo    = Font{Name: "Go", Size: 13}
)

// Label is a string rendered with a font. Width and Height are in pixels.
type Label struct {
	Text   string
	Font   Font
	Width  float64
	Height float64
}

// LabelRenderer renders a string to a drawable label.
type LabelRenderer interface {
	RenderLabel(text string, f Font) Label
}

// Canvas is the set of primitives the engine draws with. Coordinates are in
// viewport pixels.
type Canvas interface {
	Circle(center r2.Vec, radius float64, c models.ColorA)
	Line(a, b r2.Vec, width float64, c models.ColorA)
	Rect(origin r2.Vec, w, h float64, c models.ColorA)
	Text(l Label, topLeft r2.Vec, c models.ColorA)
}

// MonoLabels measures labels as if every rune had the same advance.
type MonoLabels struct {
	Advance float64
}

// RenderLabel implements LabelRenderer.
func (m MonoLabels) RenderLabel(text string, f Font) Label {
	adv := m.Advance
	if adv <= 0 {
		adv = f.Size * 0.6
	}
	return Label{
		Text:   text,
		Font:   f,
		Width:  float64(utf8.RuneCountInString(text)) * adv,
		Height: f.Size * 1.2,
	}
}

// Op is a primitive recorded by a Recorder.
type Op struct {
	Kind  string // circle, line, rect, text
	A, B  r2.Vec
	Size  float64
	Color models.ColorA
	Text  string
}

// Recorder is a Canvas that keeps every call in order.
type Recorder struct {
	Ops []Op
}

// Circle implements Canvas.
func (r *Recorder) Circle(center r2.Vec, radius float64, c models.ColorA) {
	r.Ops = append(r.Ops, Op{Kind: "circle", A: center, Size: radius, Color: c})
}

// Line implements Canvas.
func (r *Recorder) Line(a, b r2.Vec, width float64, c models.ColorA) {
	r.Ops = append(r.Ops, Op{Kind: "line", A: a, B: b, Size: width, Color: c})
}

// Rect implements Canvas.
func (r *Recorder) Rect(origin r2.Vec, w, h float64, c models.ColorA) {
	r.Ops = append(r.Ops, Op{Kind: "rect", A: origin, B: r2.Vec{X: w, Y: h}, Color: c})
}

// Text implements Canvas.
func (r *Recorder) Text(l Label, topLeft r2.Vec, c models.ColorA) {
	r.Ops = append(r.Ops, Op{Kind: "text", A: topLeft, Size: l.Width, Color: c, Text: l.Text})
}

// Kinds returns the op kinds joined by spaces, handy for asserting draw order.
func (r *Recorder) Kinds() string {
	kinds := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		kinds[i] = op.Kind
	}
	return strings.Join(kinds, " ")
}
