package component

import (
	"context"
	"sort"
	"sync"

	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/units"
)

// transmission converts the quantities of an axis into those of the component it drives.
type transmission interface {
	gammaToChild(gamma units.Gamma) units.Gamma
	gammaFromChild(gamma units.Gamma) units.Gamma
	// distToChild converts a homing distance starting at gamma.
	distToChild(gamma units.Gamma, dist units.Delta) units.Delta
	// omegaToChild converts the velocity of a motion from one position to another.
	omegaToChild(from, to units.Gamma, omega units.Omega) units.Omega
	forceToChild(force units.Force) units.Force
	inertiaToChild(inertia units.Inertia) units.Inertia
}

// stillTolerance is the child travel below which a converted motion is only rounding noise
// of the transmission and the child is left alone.
const stillTolerance = 1e-9

// compound implements Component on top of a child component and a transmission.
type compound struct {
	child Component
	trans transmission

	mu         sync.Mutex
	limit      machine.Limit
	force      units.Force
	inertia    units.Inertia
	asyncStart units.Gamma
}

func (c *compound) Gamma() units.Gamma {
	return c.trans.gammaFromChild(c.child.Gamma())
}

func (c *compound) WriteGamma(gamma units.Gamma) {
	c.child.WriteGamma(c.trans.gammaToChild(gamma))
}

func (c *compound) DriveRel(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error) {
	return c.DriveAbs(ctx, c.Gamma().Add(delta), omega)
}

func (c *compound) DriveAbs(ctx context.Context, gamma units.Gamma, omega units.Omega) (units.Delta, error) {
	if err := c.checkDrive(gamma, omega); err != nil {
		return 0, err
	}
	start := c.Gamma()
	target := c.trans.gammaToChild(gamma)
	if target.Sub(c.child.Gamma()).Abs() <= stillTolerance {
		return 0, nil
	}
	_, err := c.child.DriveAbs(ctx, target, c.trans.omegaToChild(start, gamma, omega))
	return c.Gamma().Sub(start), err
}

func (c *compound) DriveRelAsync(ctx context.Context, delta units.Delta, omega units.Omega) error {
	return c.DriveAbsAsync(ctx, c.Gamma().Add(delta), omega)
}

func (c *compound) DriveAbsAsync(ctx context.Context, gamma units.Gamma, omega units.Omega) error {
	start := c.Gamma()
	c.mu.Lock()
	c.asyncStart = start
	c.mu.Unlock()
	if err := c.checkDrive(gamma, omega); err != nil {
		return err
	}
	return c.child.DriveAbsAsync(ctx, c.trans.gammaToChild(gamma), c.trans.omegaToChild(start, gamma, omega))
}

func (c *compound) AwaitInactive(ctx context.Context) (units.Delta, error) {
	_, err := c.child.AwaitInactive(ctx)
	c.mu.Lock()
	start := c.asyncStart
	c.mu.Unlock()
	return c.Gamma().Sub(start), err
}

func (c *compound) Measure(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) (bool, error) {
	if err := checkOmega(omega); err != nil {
		return false, err
	}
	gamma := c.Gamma()
	childDist := c.trans.distToChild(gamma, dist)
	return c.child.Measure(ctx, childDist, c.measureOmega(gamma, dist, omega), c.trans.gammaToChild(set))
}

func (c *compound) MeasureAsync(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) error {
	gamma := c.Gamma()
	c.mu.Lock()
	c.asyncStart = gamma
	c.mu.Unlock()
	if err := checkOmega(omega); err != nil {
		return err
	}
	childDist := c.trans.distToChild(gamma, dist)
	return c.child.MeasureAsync(ctx, childDist, c.measureOmega(gamma, dist, omega), c.trans.gammaToChild(set))
}

func (c *compound) measureOmega(gamma units.Gamma, dist units.Delta, omega units.Omega) units.Omega {
	return c.trans.omegaToChild(gamma, gamma.Add(dist), omega)
}

func (c *compound) LimitDest(gamma units.Gamma) units.Delta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limit.Dest(gamma)
}

// SetLimit stores the limits and hands them down converted. A transmission may reverse the
// direction, so the child's bounds are sorted again.
func (c *compound) SetLimit(minimum, maximum *units.Gamma) {
	c.mu.Lock()
	c.limit = machine.Limit{Min: minimum, Max: maximum}
	c.mu.Unlock()

	var bounds []units.Gamma
	for _, b := range []*units.Gamma{minimum, maximum} {
		if b != nil {
			bounds = append(bounds, c.trans.gammaToChild(*b))
		}
	}
	if len(bounds) != 2 {
		// a single bound cannot be placed once the direction may be reversed
		c.child.SetLimit(nil, nil)
		return
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })
	c.child.SetLimit(&bounds[0], &bounds[1])
}

func (c *compound) ApplyLoadForce(force units.Force) {
	c.mu.Lock()
	c.force = force
	c.mu.Unlock()
	c.child.ApplyLoadForce(c.trans.forceToChild(force))
}

func (c *compound) ApplyLoadInertia(inertia units.Inertia) {
	c.mu.Lock()
	c.inertia = inertia
	c.mu.Unlock()
	c.child.ApplyLoadInertia(c.trans.inertiaToChild(inertia))
}

func (c *compound) Loads() (units.Force, units.Inertia) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.force, c.inertia
}

func (c *compound) checkDrive(gamma units.Gamma, omega units.Omega) error {
	if err := checkOmega(omega); err != nil {
		return err
	}
	return NewLimitError(c, gamma)
}
