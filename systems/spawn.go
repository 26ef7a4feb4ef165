package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Spawn color defaults: hue is spread over the population.
const (
	spawnSaturation = 0.75
	spawnValue      = 0.95
)

// HaltonPositions returns count points covering bounds (centered on the origin)
// from a scrambled 2D Halton sequence. Low discrepancy keeps the initial
// flock from clumping the way uniform random placement does.
func HaltonPositions(count int, bounds Vec2, rng *rand.Rand) []Vec2 {
	if count <= 0 {
		return nil
	}
	half := bounds.Scale(0.5)
	q := distmv.NewUniform([]r1.Interval{
		{Min: float64(-half.X), Max: float64(half.X)},
		{Min: float64(-half.Y), Max: float64(half.Y)},
	}, nil)

	batch := mat.NewDense(count, 2, nil)
	samplemv.Halton{
		Kind: samplemv.Owen,
		Q:    q,
		Src:  rand.NewPCG(rng.Uint64(), rng.Uint64()),
	}.Sample(batch)

	out := make([]Vec2, count)
	for i := range out {
		out[i] = Vec2{float32(batch.At(i, 0)), float32(batch.At(i, 1))}
	}
	return out
}

// SpawnHalton fills arena with count agents placed on a Halton sequence,
// each heading in a random direction at the configured spawn speed.
func SpawnHalton(arena *Arena, count int, v Values, rng *rand.Rand) {
	speed := clampFloat(v.BoidSpeed, v.MinSpeed, v.MaxSpeed)

	for i, pos := range HaltonPositions(count, v.Bounds, rng) {
		heading := float32(rng.Float64() * 2 * math.Pi)
		color := Vec3{
			X: 360 * float32(i) / float32(count),
			Y: spawnSaturation,
			Z: spawnValue,
		}
		arena.Add(Agent{
			Pos:        pos,
			Vel:        FromAngle(heading).Scale(speed),
			Heading:    heading,
			Color:      color,
			StartColor: color,
		})
	}
}
