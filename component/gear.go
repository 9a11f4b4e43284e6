package component

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/sybot/units"
)

// GearJoint is a rotational joint driven through a gear train: its angle is the angle of
// the driving component times the ratio.
type GearJoint struct {
	compound
	ratio float64
}

var _ Component = (*GearJoint)(nil)

// NewGearJoint returns a joint driven by child with the given ratio. A negative ratio
// reverses the direction.
func NewGearJoint(child Component, ratio float64) (*GearJoint, error) {
	if ratio == 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, errors.Errorf("gear ratio must be finite and non-zero, got %v", ratio)
	}
	g := &GearJoint{ratio: ratio}
	g.compound = compound{child: child, trans: gearTransmission{ratio: ratio}}
	return g, nil
}

// Ratio returns the joint angle per unit of child motion.
func (g *GearJoint) Ratio() float64 {
	return g.ratio
}

// Child returns the driving component.
func (g *GearJoint) Child() Component {
	return g.child
}

type gearTransmission struct {
	ratio float64
}

func (t gearTransmission) gammaToChild(gamma units.Gamma) units.Gamma {
	return units.Gamma(float64(gamma) / t.ratio)
}

func (t gearTransmission) gammaFromChild(gamma units.Gamma) units.Gamma {
	return units.Gamma(float64(gamma) * t.ratio)
}

func (t gearTransmission) distToChild(_ units.Gamma, dist units.Delta) units.Delta {
	return units.Delta(float64(dist) / t.ratio)
}

func (t gearTransmission) omegaToChild(_, _ units.Gamma, omega units.Omega) units.Omega {
	return units.Omega(float64(omega) / math.Abs(t.ratio))
}

func (t gearTransmission) forceToChild(force units.Force) units.Force {
	return units.Force(float64(force) * math.Abs(t.ratio))
}

func (t gearTransmission) inertiaToChild(inertia units.Inertia) units.Inertia {
	return units.Inertia(float64(inertia) * t.ratio * t.ratio)
}
