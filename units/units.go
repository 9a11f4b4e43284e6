// Package units defines the scalar quantities passed between the kinematics engine, the
// statics engine and the axis components. Each quantity is its own type so that a joint
// angle in calculation space can never be handed to a motor by accident.
package units

import (
	"fmt"
	"math"
)

// Phi is a joint angle in the calculation frame, in radians. It is what the rotation
// matrices of the kinematics engine consume.
type Phi float64

// Gamma is a joint position in the control frame: radians for rotational axes,
// millimeters for linear ones. It is what the components drive to.
type Gamma float64

// Delta is a relative displacement between two Gamma values.
type Delta float64

// Omega is a velocity limit, in radians per second or millimeters per second
// depending on the axis.
type Omega float64

// Inertia is the load inertia applied to an axis: kg·m² for rotational axes, an
// equivalent mass in kg for linear ones.
type Inertia float64

// Force is the load applied to an axis: N·m for rotational axes, N for linear ones.
type Force float64

// Zero values, for readability at call sites.
const (
	PhiZero     Phi     = 0
	GammaZero   Gamma   = 0
	DeltaZero   Delta   = 0
	OmegaZero   Omega   = 0
	InertiaZero Inertia = 0
	ForceZero   Force   = 0
)

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsFinite reports whether the angle is neither NaN nor infinite.
func (p Phi) IsFinite() bool { return isFinite(float64(p)) }

// IsFinite reports whether the position is neither NaN nor infinite.
func (g Gamma) IsFinite() bool { return isFinite(float64(g)) }

// IsFinite reports whether the displacement is neither NaN nor infinite.
func (d Delta) IsFinite() bool { return isFinite(float64(d)) }

// IsFinite reports whether the velocity is neither NaN nor infinite.
func (o Omega) IsFinite() bool { return isFinite(float64(o)) }

// Add returns the position reached by moving g by d.
func (g Gamma) Add(d Delta) Gamma {
	return g + Gamma(d)
}

// Sub returns the displacement that leads from other to g.
func (g Gamma) Sub(other Gamma) Delta {
	return Delta(g - other)
}

// Abs returns the magnitude of the displacement.
func (d Delta) Abs() Delta {
	return Delta(math.Abs(float64(d)))
}

// Duration returns the time in seconds needed to travel d at o. A zero or non-finite
// velocity yields +Inf.
func (d Delta) Duration(o Omega) float64 {
	if o == 0 || !o.IsFinite() {
		return math.Inf(1)
	}
	return math.Abs(float64(d) / float64(o))
}

func (p Phi) String() string     { return fmt.Sprintf("Phi(%.4f)", float64(p)) }
func (g Gamma) String() string   { return fmt.Sprintf("Gamma(%.4f)", float64(g)) }
func (d Delta) String() string   { return fmt.Sprintf("Delta(%.4f)", float64(d)) }
func (o Omega) String() string   { return fmt.Sprintf("Omega(%.4f)", float64(o)) }
func (j Inertia) String() string { return fmt.Sprintf("Inertia(%.6f)", float64(j)) }
func (f Force) String() string   { return fmt.Sprintf("Force(%.4f)", float64(f)) }

// Number is the set of unit types; it lets the slice helpers below work on any of them.
type Number interface {
	~float64
}

// ToFloats converts a slice of unit values into plain floats.
func ToFloats[T Number](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}

// FromFloats converts plain floats into a slice of unit values.
func FromFloats[T Number](vals []float64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
	}
	return out
}

// AllFinite reports whether every value is neither NaN nor infinite.
func AllFinite[T Number](vals []T) bool {
	for _, v := range vals {
		if !isFinite(float64(v)) {
			return false
		}
	}
	return true
}
