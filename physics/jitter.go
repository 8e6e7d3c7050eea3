package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// jitterStep walks the noise field off its lattice points.
const jitterStep = 1.618033988749895

// Jitter draws small pseudo-random offsets from a simplex noise field.
// Two jitters with the same seed produce the same sequence.
type Jitter struct {
	noise opensimplex.Noise
	t     float64
}

// NewJitter creates a jitter source.
func NewJitter(seed int64) *Jitter {
	return &Jitter{noise: opensimplex.NewNormalized(seed)}
}

// Float returns a value in [lo, hi].
func (j *Jitter) Float(lo, hi float64) float64 {
	j.t += jitterStep
	n := j.noise.Eval2(j.t, j.t*0.5+17.3)
	n = math.Max(0, math.Min(1, n))
	return lo + n*(hi-lo)
}

// Signed returns a value in [-r, r].
func (j *Jitter) Signed(r float64) float64 {
	return j.Float(-r, r)
}
