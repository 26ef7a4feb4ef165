package main

import (
	"maps"

	"github.com/pthm-cable/flock/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable steering parameters.
// Each is read from and written to the active profile.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "centering", Path: "profiles.*.centering", Min: 0.0001, Max: 0.005},
			{Name: "avoidance", Path: "profiles.*.avoidance", Min: 0.01, Max: 0.2},
			{Name: "matching", Path: "profiles.*.matching", Min: 0.01, Max: 0.2},
			{Name: "turn_factor", Path: "profiles.*.turn_factor", Min: 0.1, Max: 1.0},
			{Name: "vis_range", Path: "profiles.*.vis_range", Min: 10, Max: 60},
			{Name: "prot_range", Path: "profiles.*.prot_range", Min: 2, Max: 20},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into the active profile.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	p := cfg.Active()
	p.Centering = clamped[0]
	p.Avoidance = clamped[1]
	p.Matching = clamped[2]
	p.TurnFactor = clamped[3]
	p.VisRange = clamped[4]
	p.ProtRange = min(clamped[5], clamped[4])

	// The profile map is shared with shallow copies; replace it.
	profiles := maps.Clone(cfg.Profiles)
	profiles[cfg.Profile] = p
	cfg.Profiles = profiles
}

// ExtractFromConfig reads the current parameter values from the active profile.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	p := cfg.Active()
	return []float64{
		p.Centering,
		p.Avoidance,
		p.Matching,
		p.TurnFactor,
		p.VisRange,
		p.ProtRange,
	}
}
