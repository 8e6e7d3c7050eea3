package render

import (
	"strings"

	"github.com/TFMV/moviegraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// ASCIICanvas rasterizes the graph onto a character grid.
type ASCIICanvas struct {
	width, height float64
	grid          [][]rune
}

// NewASCIICanvas creates a cols x rows grid mapped onto a width x height
// viewport, framed by a border.
func NewASCIICanvas(width, height float64, cols, rows int) *ASCIICanvas {
	cols = max(cols, 10)
	rows = max(rows, 5)

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := 0; i < cols; i++ {
		grid[0][i] = '-'
		grid[rows-1][i] = '-'
	}
	for i := 0; i < rows; i++ {
		grid[i][0] = '|'
		grid[i][cols-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][cols-1] = '+'
	grid[rows-1][0] = '+'
	grid[rows-1][cols-1] = '+'

	return &ASCIICanvas{width: width, height: height, grid: grid}
}

// Circle implements Canvas. Solid circles plot as 'O', translucent glows are
// skipped so only cores show.
func (a *ASCIICanvas) Circle(center r2.Vec, radius float64, c models.ColorA) {
	if c.A < 0.5 {
		return
	}
	x, y := a.cell(center)
	a.grid[y][x] = 'O'
}

// Line implements Canvas.
func (a *ASCIICanvas) Line(p, q r2.Vec, width float64, c models.ColorA) {
	x1, y1 := a.cell(p)
	x2, y2 := a.cell(q)
	drawLine(a.grid, x1, y1, x2, y2)
}

// Rect implements Canvas with a no-op; backgrounds do not rasterize.
func (a *ASCIICanvas) Rect(origin r2.Vec, w, h float64, c models.ColorA) {}

// Text implements Canvas.
func (a *ASCIICanvas) Text(l Label, topLeft r2.Vec, c models.ColorA) {
	x, y := a.cell(topLeft)
	cols := len(a.grid[0])
	for i, r := range []rune(l.Text) {
		if x+i >= cols-1 {
			break
		}
		a.grid[y][x+i] = r
	}
}

// String returns the grid, one row per line.
func (a *ASCIICanvas) String() string {
	var b strings.Builder
	for _, row := range a.grid {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	return b.String()
}

// cell maps a viewport point into the grid interior.
func (a *ASCIICanvas) cell(p r2.Vec) (int, int) {
	rows, cols := len(a.grid), len(a.grid[0])
	x := int(p.X*float64(cols-2)/a.width) + 1
	y := int(p.Y*float64(rows-2)/a.height) + 1
	return clamp(x, 1, cols-2), clamp(y, 1, rows-2)
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// drawLine plots a line with Bresenham's algorithm without overwriting cores.
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[0]) && grid[y1][x1] != 'O' {
			grid[y1][x1] = '.'
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
