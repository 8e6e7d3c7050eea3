package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultStiffness is the spring constant of an edge.
const DefaultStiffness = 0.015

// Spring keeps two bodies near a rest length.
type Spring struct {
	Length    float64
	Stiffness float64
}

// NewSpring creates a spring with the default stiffness.
func NewSpring(length float64) Spring {
	return Spring{Length: length, Stiffness: DefaultStiffness}
}

// Stretch returns the relative deviation from the rest length for bodies d
// apart, saturated to [-1, 1].
func (s Spring) Stretch(d float64) float64 {
	if s.Length <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, (d-s.Length)/s.Length))
}

// Apply pushes a and b apart when closer than the rest length and pulls them
// together when farther. Coincident bodies are left alone.
func (s Spring) Apply(a, b *Body) {
	diff := r2.Sub(b.Pos, a.Pos)
	d := r2.Norm(diff)
	if d == 0 {
		return
	}

	f := s.Stretch(d) * s.Stiffness
	u := r2.Scale(1/d, diff)
	a.Push(r2.Scale(f/a.Mass, u))
	b.Push(r2.Scale(-f/b.Mass, u))
}
