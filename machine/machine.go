// Package machine describes the static geometry, masses and limits of an arm.
package machine

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/sybot/spatialmath"
	"go.viam.com/sybot/units"
)

// AngleData converts between the calculation frame (Phi) and the control frame (Gamma) of
// one axis.
type AngleData struct {
	Offset  units.Delta `json:"offset"`
	Counter bool        `json:"counter"`
}

// PhiFromGamma returns phi = Offset + (±gamma).
func (a AngleData) PhiFromGamma(gamma units.Gamma) units.Phi {
	if a.Counter {
		return units.Phi(float64(a.Offset) - float64(gamma))
	}
	return units.Phi(float64(a.Offset) + float64(gamma))
}

// GammaFromPhi is the inverse of PhiFromGamma.
func (a AngleData) GammaFromPhi(phi units.Phi) units.Gamma {
	if a.Counter {
		return units.Gamma(float64(a.Offset) - float64(phi))
	}
	return units.Gamma(float64(phi) - float64(a.Offset))
}

// SimData holds the simulation parameters of a segment.
type SimData struct {
	Mass float64 `json:"mass"`
}

// MeasInstance configures the homing run of an axis: drive by Dist toward the reference,
// then set the axis to SetVal once it triggers.
type MeasInstance struct {
	SetVal units.Gamma `json:"set_val"`
	Dist   units.Delta `json:"dist"`
}

// Limit holds the optional bounds of an axis in the control frame.
type Limit struct {
	Min *units.Gamma `json:"min,omitempty"`
	Max *units.Gamma `json:"max,omitempty"`
}

// Contains reports whether gamma lies inside the bounds. A missing bound does not restrict.
func (l Limit) Contains(gamma units.Gamma) bool {
	return l.Dest(gamma) == 0
}

// Dest returns how far gamma lies outside the bounds, negative below Min, positive above
// Max, zero inside.
func (l Limit) Dest(gamma units.Gamma) units.Delta {
	if l.Min != nil && gamma < *l.Min {
		return gamma.Sub(*l.Min)
	}
	if l.Max != nil && gamma > *l.Max {
		return gamma.Sub(*l.Max)
	}
	return 0
}

// Mount locates the two ends of a linear actuator driving a joint. Both vectors are given
// in the default pose relative to the joint's pivot: Parent in the frame of the segment
// carrying the joint, Child in the frame of the segment the joint moves.
type Mount struct {
	Parent r3.Vector `json:"parent"`
	Child  r3.Vector `json:"child"`
}

// Config is the immutable description of an arm. All per-axis slices have one entry per
// axis, in base to tip order.
type Config struct {
	Name   string
	Anchor r3.Vector

	// Dims are the segment vectors in the default pose, Dims[0] is the base.
	Dims []r3.Vector
	// Axes are the rotation axes of every joint in the default pose.
	Axes []r3.Vector

	Ang    []AngleData
	Sim    []SimData
	Vels   []units.Omega
	Meas   []MeasInstance
	Home   []units.Gamma
	Limits []Limit

	// Mounts is either empty or has one entry per axis, nil for joints without a linear
	// actuator.
	Mounts []*Mount
}

// Len returns the number of axes.
func (cfg *Config) Len() int {
	return len(cfg.Dims)
}

// Validate ensures every per-axis slice has one entry per axis and that the geometry can
// be computed with.
func (cfg *Config) Validate(path string) error {
	if len(cfg.Dims) == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "dims")
	}
	n := len(cfg.Dims)
	lengths := []struct {
		field string
		n     int
	}{
		{"axes", len(cfg.Axes)},
		{"ang", len(cfg.Ang)},
		{"sim", len(cfg.Sim)},
		{"vels", len(cfg.Vels)},
		{"meas", len(cfg.Meas)},
		{"home", len(cfg.Home)},
		{"limits", len(cfg.Limits)},
	}
	for _, l := range lengths {
		if l.n != n {
			return goutils.NewConfigValidationError(path,
				errors.Errorf("%s has %d entries, expected one per axis (%d)", l.field, l.n, n))
		}
	}
	if len(cfg.Mounts) != 0 && len(cfg.Mounts) != n {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("mounts has %d entries, expected none or one per axis (%d)", len(cfg.Mounts), n))
	}
	if !spatialmath.R3VectorIsFinite(cfg.Anchor) {
		return goutils.NewConfigValidationError(path, errors.New("anchor must be finite"))
	}
	for i := 0; i < n; i++ {
		if !spatialmath.R3VectorIsFinite(cfg.Dims[i]) {
			return goutils.NewConfigValidationError(path, errors.Errorf("dims[%d] must be finite", i))
		}
		if cfg.Axes[i].Norm2() == 0 || !spatialmath.R3VectorIsFinite(cfg.Axes[i]) {
			return goutils.NewConfigValidationError(path, errors.Errorf("axes[%d] must be a non-zero finite vector", i))
		}
		if cfg.Vels[i] <= 0 || !cfg.Vels[i].IsFinite() {
			return goutils.NewConfigValidationError(path, errors.Errorf("vels[%d] must be positive", i))
		}
		if cfg.Sim[i].Mass < 0 || math.IsNaN(cfg.Sim[i].Mass) {
			return goutils.NewConfigValidationError(path, errors.Errorf("sim[%d].mass cannot be negative", i))
		}
		if m := cfg.MountAt(i); m != nil && (m.Parent.Norm2() == 0 || m.Child.Norm2() == 0) {
			return goutils.NewConfigValidationError(path, errors.Errorf("mounts[%d] needs non-zero parent and child vectors", i))
		}
		lim := cfg.Limits[i]
		if lim.Min != nil && lim.Max != nil && *lim.Min > *lim.Max {
			return goutils.NewConfigValidationError(path, errors.Errorf("limits[%d] min is greater than max", i))
		}
		if !lim.Contains(cfg.Home[i]) {
			return goutils.NewConfigValidationError(path, errors.Errorf("home[%d] lies outside of its limits", i))
		}
	}
	return nil
}

// PhisFromGammas converts control-frame positions into calculation-frame angles.
func (cfg *Config) PhisFromGammas(gammas []units.Gamma) []units.Phi {
	phis := make([]units.Phi, len(gammas))
	for i, g := range gammas {
		phis[i] = cfg.Ang[i].PhiFromGamma(g)
	}
	return phis
}

// GammasFromPhis converts calculation-frame angles into control-frame positions.
func (cfg *Config) GammasFromPhis(phis []units.Phi) []units.Gamma {
	gammas := make([]units.Gamma, len(phis))
	for i, p := range phis {
		gammas[i] = cfg.Ang[i].GammaFromPhi(p)
	}
	return gammas
}

// MountAt returns the actuator mount of axis i or nil.
func (cfg *Config) MountAt(i int) *Mount {
	if i < 0 || i >= len(cfg.Mounts) {
		return nil
	}
	return cfg.Mounts[i]
}

// Masses returns the segment masses.
func (cfg *Config) Masses() []float64 {
	masses := make([]float64, len(cfg.Sim))
	for i, s := range cfg.Sim {
		masses[i] = s.Mass
	}
	return masses
}

// HomePhis returns the home position in the calculation frame.
func (cfg *Config) HomePhis() []units.Phi {
	return cfg.PhisFromGammas(cfg.Home)
}

func (cfg *Config) String() string {
	return fmt.Sprintf("machine %q (%d axes)", cfg.Name, cfg.Len())
}
