package component

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/sybot/units"
)

// Cylinder is a linear actuator: a spindle turned by the child component. Its position is
// the extension in mm.
type Cylinder struct {
	compound
	pitch float64
}

var _ Component = (*Cylinder)(nil)

// NewCylinder returns a linear actuator driven by child. pitch is the travel of the spindle
// per revolution in mm.
func NewCylinder(child Component, pitch float64) (*Cylinder, error) {
	if pitch == 0 || math.IsNaN(pitch) || math.IsInf(pitch, 0) {
		return nil, errors.Errorf("spindle pitch must be finite and non-zero, got %v", pitch)
	}
	c := &Cylinder{pitch: pitch}
	c.compound = compound{child: child, trans: spindleTransmission{perRad: pitch / (2 * math.Pi)}}
	return c, nil
}

// Pitch returns the travel per spindle revolution in mm.
func (c *Cylinder) Pitch() float64 {
	return c.pitch
}

// Child returns the component turning the spindle.
func (c *Cylinder) Child() Component {
	return c.child
}

// spindleTransmission converts mm of extension into rad of the spindle, perRad being mm/rad.
type spindleTransmission struct {
	perRad float64
}

func (t spindleTransmission) gammaToChild(gamma units.Gamma) units.Gamma {
	return units.Gamma(float64(gamma) / t.perRad)
}

func (t spindleTransmission) gammaFromChild(gamma units.Gamma) units.Gamma {
	return units.Gamma(float64(gamma) * t.perRad)
}

func (t spindleTransmission) distToChild(_ units.Gamma, dist units.Delta) units.Delta {
	return units.Delta(float64(dist) / t.perRad)
}

func (t spindleTransmission) omegaToChild(_, _ units.Gamma, omega units.Omega) units.Omega {
	return units.Omega(float64(omega) / math.Abs(t.perRad))
}

// forceToChild turns a force in N into the spindle torque in N·m.
func (t spindleTransmission) forceToChild(force units.Force) units.Force {
	return units.Force(float64(force) * math.Abs(t.perRad) / 1000)
}

// inertiaToChild turns a moved mass in kg into the spindle inertia in kg·m².
func (t spindleTransmission) inertiaToChild(inertia units.Inertia) units.Inertia {
	lever := t.perRad / 1000
	return units.Inertia(float64(inertia) * lever * lever)
}
