package experiment

import (
	"math/rand"

	"github.com/san-kum/chaoslab/internal/vecmath"
)

// Generator produces reproducible initial conditions from a seed.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Bodies draws n particles: mass uniform in [0, massScale), each position
// component uniform in ±spread/2 around the origin and each velocity
// component uniform in ±velSpread/2.
func (g *Generator) Bodies(n int, massScale, spread, velSpread float64) (masses []float64, positions, velocities []vecmath.Vec2) {
	masses = make([]float64, n)
	for i := range masses {
		masses[i] = g.rng.Float64() * massScale
	}

	velocities = make([]vecmath.Vec2, n)
	for i := range velocities {
		velocities[i] = vecmath.Vec2{
			X: (g.rng.Float64() - 0.5) * velSpread,
			Y: (g.rng.Float64() - 0.5) * velSpread,
		}
	}

	positions = make([]vecmath.Vec2, n)
	for i := range positions {
		positions[i] = vecmath.Vec2{
			X: (g.rng.Float64() - 0.5) * spread,
			Y: (g.rng.Float64() - 0.5) * spread,
		}
	}
	return masses, positions, velocities
}

