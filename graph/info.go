package graph

import (
	"math"

	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/render"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	infoPadding = 8.0
	infoOffset  = 48.0
	infoFade    = 0.2
)

var (
	colorInfoBackground = models.Gray(0)
	colorInfoText       = models.Gray(1)
)

// Info is the overlay shown above a touch point while a relation is touched.
type Info struct {
	bounds  r2.Vec
	pos     r2.Vec
	labels  render.LabelRenderer
	lines   []render.Label
	visible bool
	alpha   float64
}

// NewInfo creates a hidden overlay kept inside a viewport of size bounds.
func NewInfo(bounds r2.Vec, labels render.LabelRenderer) *Info {
	return &Info{bounds: bounds, labels: labels}
}

// Position anchors the overlay at p.
func (i *Info) Position(p r2.Vec) {
	i.pos = p
}

// RenderText renders one line per string.
func (i *Info) RenderText(txts []string) {
	i.lines = i.lines[:0]
	for _, t := range txts {
		i.lines = append(i.lines, i.labels.RenderLabel(t, render.FontInfo))
	}
}

// Show makes the overlay visible and restarts its fade.
func (i *Info) Show() {
	i.visible = true
	i.alpha = 0
}

// Hide makes the overlay invisible.
func (i *Info) Hide() {
	i.visible = false
}

// Update fades the overlay in.
func (i *Info) Update() {
	i.alpha += (1 - i.alpha) * infoFade
}

// Draw paints the box and the text lines.
func (i *Info) Draw(c render.Canvas) {
	origin, w, h := i.Box()
	c.Rect(origin, w, h, colorInfoBackground.Alpha(0.75*i.alpha))

	y := origin.Y + infoPadding
	for _, l := range i.lines {
		x := origin.X + (w-l.Width)/2
		c.Text(l, r2.Vec{X: x, Y: y}, colorInfoText.Alpha(i.alpha))
		y += l.Height
	}
}

// Box returns the top-left corner and size of the overlay, centered above
// the anchor and clamped to the viewport.
func (i *Info) Box() (r2.Vec, float64, float64) {
	var w, h float64
	for _, l := range i.lines {
		w = math.Max(w, l.Width)
		h += l.Height
	}
	w += 2 * infoPadding
	h += 2 * infoPadding

	x := i.pos.X - w/2
	y := i.pos.Y - infoOffset - h
	x = math.Max(0, math.Min(x, i.bounds.X-w))
	y = math.Max(0, math.Min(y, i.bounds.Y-h))
	return r2.Vec{X: x, Y: y}, w, h
}

// Lines returns the rendered text.
func (i *Info) Lines() []string {
	out := make([]string, len(i.lines))
	for k, l := range i.lines {
		out[k] = l.Text
	}
	return out
}

// Anchor returns the point the overlay was last positioned at.
func (i *Info) Anchor() r2.Vec { return i.pos }

func (i *Info) Visible() bool { return i.visible }
