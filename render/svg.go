package render

import (
	"fmt"
	"io"
	"math"

	"github.com/TFMV/moviegraph/models"
	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultBackground is the viewport color behind the graph.
var DefaultBackground = models.Gray(0.08)

// SVGCanvas draws onto an SVG document.
type SVGCanvas struct {
	doc *svg.SVG
}

// NewSVGCanvas starts an SVG document of the given size on w and paints the
// background. Call Close to finish the document.
func NewSVGCanvas(w io.Writer, width, height float64, background models.Color) *SVGCanvas {
	doc := svg.New(w)
	iw, ih := px(width), px(height)
	doc.Start(iw, ih)
	doc.Rect(0, 0, iw, ih, "fill:"+background.Hex())
	return &SVGCanvas{doc: doc}
}

// Circle implements Canvas.
func (s *SVGCanvas) Circle(center r2.Vec, radius float64, c models.ColorA) {
	s.doc.Circle(px(center.X), px(center.Y), px(radius), fill(c))
}

// Line implements Canvas.
func (s *SVGCanvas) Line(a, b r2.Vec, width float64, c models.ColorA) {
	s.doc.Line(px(a.X), px(a.Y), px(b.X), px(b.Y),
		fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f", c.Hex(), c.A, width))
}

// Rect implements Canvas.
func (s *SVGCanvas) Rect(origin r2.Vec, w, h float64, c models.ColorA) {
	s.doc.Rect(px(origin.X), px(origin.Y), px(w), px(h), fill(c))
}

// Text implements Canvas. The label's top-left corner is placed at topLeft.
func (s *SVGCanvas) Text(l Label, topLeft r2.Vec, c models.ColorA) {
	weight := "normal"
	if l.Font.Bold {
		weight = "bold"
	}
	baseline := topLeft.Y + l.Height*0.8
	s.doc.Text(px(topLeft.X), px(baseline), l.Text,
		fmt.Sprintf("%s;font-family:sans-serif;font-size:%.0fpx;font-weight:%s", fill(c), l.Font.Size, weight))
}

// Close ends the document.
func (s *SVGCanvas) Close() {
	s.doc.End()
}

func fill(c models.ColorA) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.2f", c.Hex(), c.A)
}

func px(v float64) int {
	return int(math.Round(v))
}
