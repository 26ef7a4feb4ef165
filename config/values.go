package config

import (
	"math"

	"github.com/pthm-cable/flock/systems"
)

// Values builds the flocking tunables from the active profile and mode flags.
func (c *Config) Values() systems.Values {
	p := c.Active()
	return systems.Values{
		Count:        p.Count,
		BoidSize:     float32(p.BoidSize),
		BoidSpeed:    float32(p.BoidSpeed),
		MaxNeighbors: p.MaxNeighbors,
		VisRange:     float32(p.VisRange),
		ProtRange:    float32(p.ProtRange),
		FOV:          float32(p.FOVDegrees * math.Pi / 180),
		Centering:    float32(p.Centering),
		Avoidance:    float32(p.Avoidance),
		Matching:     float32(p.Matching),
		MouseChase:   float32(p.MouseChase),
		MinSpeed:     float32(p.MinSpeed),
		MaxSpeed:     float32(p.MaxSpeed),
		Bounds:       systems.Vec2{X: float32(p.BoundsWidth), Y: float32(p.BoundsHeight)},
		BoundSize:    float32(p.BoundSize),
		TurnFactor:   float32(p.TurnFactor),

		ColorBlendFactor:  float32(c.Color.BlendFactor),
		ColorRevertFactor: float32(c.Color.RevertFactor),

		PredatorMode: c.Modes.Predator,
		Toroidal:     c.Modes.Toroidal,
		ColorBlend:   c.Color.BlendEnabled,
	}.WithDerived()
}

// PipelineOptions returns the worker pool and index settings.
func (c *Config) PipelineOptions() systems.PipelineOptions {
	return systems.PipelineOptions{
		Workers:       c.Parallel.Workers,
		Threshold:     c.Parallel.Threshold,
		IndexInterval: c.Derived.IndexInterval,
	}
}
