package main

import (
	"math"

	"github.com/pthm-cable/meltdown/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of cascade parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Atoms
			{Name: "atom_spawn_rate", Path: "atoms.spawn_rate", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "child_count", Path: "atoms.child_count", Min: 1, Max: 4, Default: 2, Integer: true},
			{Name: "neutron_count", Path: "atoms.neutron_count", Min: 1, Max: 6, Default: 3, Integer: true},
			{Name: "child_speed", Path: "atoms.child_speed", Min: 0.3, Max: 3.0, Default: 1.0},
			{Name: "cone_half_angle", Path: "atoms.cone_half_angle", Min: 0.2, Max: math.Pi, Default: math.Pi / 2},
			// Neutrons
			{Name: "neutron_lifespan", Path: "neutrons.lifespan", Min: 1.0, Max: 8.0, Default: 4.0},
			{Name: "fission_speed", Path: "neutrons.fission_speed", Min: 0.5, Max: 5.0, Default: 2.0},
			// Emitter
			{Name: "emitter_period", Path: "emitter.period", Min: 0.2, Max: 2.0, Default: 0.5},
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

// Clamp ensures all values are within bounds and integers are whole.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	next := func() float64 {
		v := clamped[i]
		i++
		return v
	}

	cfg.Atoms.SpawnRate = next()
	cfg.Atoms.ChildCount = int(next())
	cfg.Atoms.NeutronCount = int(next())
	cfg.Atoms.ChildSpeed = next()
	cfg.Atoms.ConeHalfAngle = next()

	cfg.Neutrons.Lifespan = next()
	cfg.Neutrons.FissionSpeed = next()

	cfg.Emitter.Period = next()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Atoms.SpawnRate,
		float64(cfg.Atoms.ChildCount),
		float64(cfg.Atoms.NeutronCount),
		cfg.Atoms.ChildSpeed,
		cfg.Atoms.ConeHalfAngle,
		cfg.Neutrons.Lifespan,
		cfg.Neutrons.FissionSpeed,
		cfg.Emitter.Period,
	}
}
