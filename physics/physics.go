// Package physics provides the kinematic body, the pairwise force law and the
// edge spring used by the graph simulation. Everything here is plain math on
// r2 vectors and runs on the caller's goroutine.
package physics

import (
	"math"

	"github.com/TFMV/moviegraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// Default body tunables.
const (
	DefaultPerimeter = 390.0
	DefaultDist      = 420.0
	DefaultDamping   = 0.5
	DefaultStrength  = -1.0
	DefaultRamp      = 1.0
	DefaultMVelocity = 10.0
	DefaultSpeed     = 45.0
	DefaultCore      = 9.0
	DefaultMRadius   = 90.0

	// VelocityThreshold is the per-component speed below which a body settles.
	VelocityThreshold = 0.1
)

// Mass returns the mass of a body of radius r.
func Mass(r float64) float64 {
	return r*r*0.0001 + 0.01
}

// Force returns the scalar force a body exerts at distance d with range p.
// The result is zero at d == 0 and outside the range. Multiplied by the
// vector from the target to the source it gives the target's impulse, so a
// negative value pushes the target away.
func Force(d, p, strength, ramp float64) float64 {
	if d <= 0 || d >= p {
		return 0
	}
	s := math.Pow(d/p, 1/ramp)
	return s * 9 * strength * (1/(s+1) + (s-3)/4) / d
}

// Body is the kinematic state of a node.
//
// Pos is the rendered position, PPos its value one step earlier and MPos the
// target the velocity integrates into. Pos chases MPos with a lag of Speed.
type Body struct {
	Pos      r2.Vec
	PPos     r2.Vec
	MPos     r2.Vec
	Velocity r2.Vec

	Radius  float64
	Core    float64
	MRadius float64
	Mass    float64

	Perimeter float64
	Dist      float64
	Damping   float64
	Strength  float64
	Ramp      float64
	MVelocity float64
	Speed     float64
}

// NewBody creates a body at rest at (x, y) with the default tunables.
func NewBody(x, y float64) Body {
	p := r2.Vec{X: x, Y: y}
	b := Body{
		Pos:       p,
		PPos:      p,
		MPos:      p,
		Core:      DefaultCore,
		MRadius:   DefaultMRadius,
		Perimeter: DefaultPerimeter,
		Dist:      DefaultDist,
		Damping:   DefaultDamping,
		Strength:  DefaultStrength,
		Ramp:      DefaultRamp,
		MVelocity: DefaultMVelocity,
		Speed:     DefaultSpeed,
	}
	b.SetRadius(DefaultCore)
	return b
}

// SetRadius sets the radius and recomputes the mass.
func (b *Body) SetRadius(r float64) {
	b.Radius = r
	b.Mass = Mass(r)
}

// Integrate advances the body by one step: clamp, settle, damp, integrate
// the velocity into MPos and let Pos follow.
func (b *Body) Integrate() {
	b.Velocity = models.Limit(b.Velocity, b.MVelocity)

	if math.Abs(b.Velocity.X) < VelocityThreshold && math.Abs(b.Velocity.Y) < VelocityThreshold {
		b.Velocity = r2.Vec{}
	}

	b.Velocity = r2.Scale(1-b.Damping, b.Velocity)
	b.MPos = r2.Add(b.MPos, b.Velocity)

	b.PPos = b.Pos
	b.Pos = r2.Add(b.Pos, r2.Scale(1/b.Speed, r2.Sub(b.MPos, b.Pos)))
}

// Push adds an impulse to the velocity.
func (b *Body) Push(dv r2.Vec) {
	b.Velocity = r2.Add(b.Velocity, dv)
}

// Move shifts the target position by d.
func (b *Body) Move(d r2.Vec) {
	b.MPos = r2.Add(b.MPos, d)
}

// MoveTo sets the target position.
func (b *Body) MoveTo(p r2.Vec) {
	b.MPos = p
}

// Translate shifts both the rendered and the target position by d.
func (b *Body) Translate(d r2.Vec) {
	b.Pos = r2.Add(b.Pos, d)
	b.MPos = r2.Add(b.MPos, d)
}

// Place puts the body at p without any lag.
func (b *Body) Place(p r2.Vec) {
	b.Pos = p
	b.MPos = p
}

// Displacement returns how far Pos moved during the last step.
func (b *Body) Displacement() r2.Vec {
	return r2.Sub(b.Pos, b.PPos)
}

// Contains reports whether p is strictly inside the core grown by margin.
func (b *Body) Contains(p r2.Vec, margin float64) bool {
	return models.Distance(b.Pos, p) < b.Core+margin
}
