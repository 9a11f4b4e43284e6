package component

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/sybot/spatialmath"
	"go.viam.com/sybot/units"
)

// CylinderTriangle is a rotational joint driven by a linear actuator. The actuator spans the
// third side of a triangle whose sides A and B meet at the joint, so the joint angle is
// the angle opposite the actuator.
type CylinderTriangle struct {
	compound
	tri triangleTransmission
}

var _ Component = (*CylinderTriangle)(nil)

// NewCylinderTriangle returns the joint spanned by cyl between the sides a and b in mm.
func NewCylinderTriangle(cyl Component, a, b float64) (*CylinderTriangle, error) {
	for _, side := range []float64{a, b} {
		if side <= 0 || math.IsNaN(side) || math.IsInf(side, 0) {
			return nil, errors.Errorf("triangle sides must be positive and finite, got %v and %v", a, b)
		}
	}
	tri := triangleTransmission{a: a, b: b}
	t := &CylinderTriangle{tri: tri}
	t.compound = compound{child: cyl, trans: tri}
	return t, nil
}

// Sides returns the sides of the triangle adjacent to the joint.
func (t *CylinderTriangle) Sides() (a, b float64) {
	return t.tri.a, t.tri.b
}

// Child returns the actuator.
func (t *CylinderTriangle) Child() Component {
	return t.child
}

// ActuatorLength returns the actuator length that sets the joint to gamma.
func (t *CylinderTriangle) ActuatorLength(gamma units.Gamma) float64 {
	return float64(t.tri.gammaToChild(gamma))
}

type triangleTransmission struct {
	a, b float64
}

func (t triangleTransmission) gammaToChild(gamma units.Gamma) units.Gamma {
	return units.Gamma(spatialmath.ThirdSide(t.a, t.b, float64(gamma)))
}

// gammaFromChild clamps lengths the triangle cannot close with to the nearest valid angle.
func (t triangleTransmission) gammaFromChild(gamma units.Gamma) units.Gamma {
	c := float64(gamma)
	cos := (t.a*t.a + t.b*t.b - c*c) / (2 * t.a * t.b)
	return units.Gamma(math.Acos(math.Max(-1, math.Min(1, cos))))
}

// distToChild returns the actuator travel of a homing run by dist, bounded to the angles
// the linkage can reach.
func (t triangleTransmission) distToChild(gamma units.Gamma, dist units.Delta) units.Delta {
	end := units.Gamma(math.Max(0, math.Min(math.Pi, float64(gamma.Add(dist)))))
	start := units.Gamma(math.Max(0, math.Min(math.Pi, float64(gamma))))
	return t.gammaToChild(end).Sub(t.gammaToChild(start))
}

// omegaToChild scales omega by the mean rate of the actuator length over the motion, or by
// the derivative at from for a motion in place.
func (t triangleTransmission) omegaToChild(from, to units.Gamma, omega units.Omega) units.Omega {
	var rate float64
	if span := math.Abs(float64(to.Sub(from))); span > 1e-9 {
		rate = math.Abs(float64(t.gammaToChild(to).Sub(t.gammaToChild(from)))) / span
	} else if c := float64(t.gammaToChild(from)); c > 0 {
		rate = t.a * t.b * math.Abs(math.Sin(float64(from))) / c
	}
	if rate <= 0 || math.IsNaN(rate) {
		// at a stretched or folded linkage the actuator barely moves
		rate = 2 * math.Min(t.a, t.b) / math.Pi
	}
	return units.Omega(float64(omega) * rate)
}

func (t triangleTransmission) forceToChild(force units.Force) units.Force {
	return force
}

func (t triangleTransmission) inertiaToChild(inertia units.Inertia) units.Inertia {
	return inertia
}
