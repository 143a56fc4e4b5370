// Package main provides CMA-ES optimization for cytosoup simulation parameters.
package main

import (
	"github.com/pthm-cable/cytosoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Geometry, timestep and store capacity are locked: changing them would
// invalidate derived values computed at load time.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Physics
			{Name: "repulsion", Path: "physics.repulsion", Min: 0.005, Max: 0.1, Default: 0.02},
			{Name: "damping", Path: "physics.damping", Min: 0.90, Max: 0.995, Default: 0.97},
			{Name: "jitter", Path: "physics.jitter", Min: 0.005, Max: 0.05, Default: 0.015},
			// Transcription
			{Name: "pol_bind_chance", Path: "reactions.polymerase.bind_chance", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "pol_dwell_ticks", Path: "reactions.polymerase.dwell_ticks", Min: 10, Max: 200, Default: 50},
			// Translation
			{Name: "rib_bind_chance", Path: "reactions.ribosome.bind_chance", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "rib_dwell_ticks", Path: "reactions.ribosome.dwell_ticks", Min: 10, Max: 200, Default: 40},
			{Name: "rib_burn_chance", Path: "reactions.ribosome.burn_chance", Min: 0.1, Max: 1.0, Default: 0.5},
			// Energy intake
			{Name: "absorb_rate", Path: "energy.absorb_rate", Min: 0.5, Max: 20.0, Default: 4.0},
			// Nutrient field
			{Name: "field_scale", Path: "field.scale", Min: 0.02, Max: 0.5, Default: 0.08},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
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
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0
	cfg.Physics.Repulsion = clamped[i]; i++
	cfg.Physics.Damping = clamped[i]; i++
	cfg.Physics.Jitter = clamped[i]; i++

	cfg.Reactions.Polymerase.BindChance = clamped[i]; i++
	cfg.Reactions.Polymerase.DwellTicks = clamped[i]; i++

	cfg.Reactions.Ribosome.BindChance = clamped[i]; i++
	cfg.Reactions.Ribosome.DwellTicks = clamped[i]; i++
	cfg.Reactions.Ribosome.BurnChance = clamped[i]; i++

	cfg.Energy.AbsorbRate = clamped[i]; i++
	cfg.Field.Scale = clamped[i]; i++
}
