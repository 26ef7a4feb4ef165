// Package components defines the ECS components the host mirrors from the
// simulation arena for rendering and inspection.
package components

import "math"

// Boid links an entity to its agent in the simulation arena.
type Boid struct {
	ID uint32 `inspect:"label"`
}

// Tint is the current HSV color of a boid. Hue is in degrees.
type Tint struct {
	H float32 `inspect:"hue"`
	S float32 `inspect:"bar"`
	V float32 `inspect:"bar"`
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
