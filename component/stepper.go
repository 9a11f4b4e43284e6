package component

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/units"
)

// Stepper is a generic stepped axis: its position is the shaft angle of its Driver.
type Stepper struct {
	name   string
	driver Driver
	logger logging.Logger

	mu      sync.Mutex
	limit   machine.Limit
	force   units.Force
	inertia units.Inertia
	// set by MeasureAsync, applied by AwaitInactive once the switch triggered
	pendingSet *units.Gamma
}

var _ Component = (*Stepper)(nil)

// NewStepper returns a Stepper driving driver.
func NewStepper(name string, driver Driver, logger logging.Logger) *Stepper {
	return &Stepper{name: name, driver: driver, logger: logger}
}

// Driver returns the underlying motion primitive.
func (s *Stepper) Driver() Driver {
	return s.driver
}

// Gamma returns the shaft position.
func (s *Stepper) Gamma() units.Gamma {
	return s.driver.Position()
}

// WriteGamma overwrites the shaft position.
func (s *Stepper) WriteGamma(gamma units.Gamma) {
	s.driver.SetPosition(gamma)
}

// DriveRel moves the shaft by delta.
func (s *Stepper) DriveRel(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error) {
	return s.drive(ctx, s.Gamma().Add(delta), delta, omega)
}

// DriveAbs moves the shaft to gamma.
func (s *Stepper) DriveAbs(ctx context.Context, gamma units.Gamma, omega units.Omega) (units.Delta, error) {
	return s.drive(ctx, gamma, gamma.Sub(s.Gamma()), omega)
}

func (s *Stepper) drive(ctx context.Context, target units.Gamma, delta units.Delta, omega units.Omega) (units.Delta, error) {
	if err := s.checkMove(target, delta, omega); err != nil {
		return 0, err
	}
	s.logger.Debugw("drive", "axis", s.name, "delta", float64(delta), "omega", float64(omega))
	return s.driver.Move(ctx, delta, omega)
}

// DriveRelAsync issues a move by delta.
func (s *Stepper) DriveRelAsync(ctx context.Context, delta units.Delta, omega units.Omega) error {
	return s.driveAsync(ctx, s.Gamma().Add(delta), delta, omega)
}

// DriveAbsAsync issues a move to gamma.
func (s *Stepper) DriveAbsAsync(ctx context.Context, gamma units.Gamma, omega units.Omega) error {
	return s.driveAsync(ctx, gamma, gamma.Sub(s.Gamma()), omega)
}

func (s *Stepper) driveAsync(ctx context.Context, target units.Gamma, delta units.Delta, omega units.Omega) error {
	if err := s.checkMove(target, delta, omega); err != nil {
		return err
	}
	s.logger.Debugw("drive async", "axis", s.name, "delta", float64(delta), "omega", float64(omega))
	return s.driver.MoveAsync(ctx, delta, omega)
}

// AwaitInactive waits for the issued motion.
func (s *Stepper) AwaitInactive(ctx context.Context) (units.Delta, error) {
	delta, err := s.driver.Wait(ctx)

	s.mu.Lock()
	set := s.pendingSet
	s.pendingSet = nil
	s.mu.Unlock()

	if err != nil {
		return delta, err
	}
	if set != nil {
		s.driver.SetPosition(*set)
	}
	return delta, nil
}

// Measure runs the shaft toward its reference switch.
func (s *Stepper) Measure(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) (bool, error) {
	if err := checkOmega(omega); err != nil {
		return false, err
	}
	reached, err := s.driver.Home(ctx, dist, omega)
	if err != nil {
		return false, err
	}
	if !reached {
		s.logger.Warnw("reference not reached", "axis", s.name, "dist", float64(dist))
		return false, nil
	}
	s.driver.SetPosition(set)
	return true, nil
}

// MeasureAsync issues a homing run.
func (s *Stepper) MeasureAsync(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) error {
	if err := checkOmega(omega); err != nil {
		return err
	}
	if err := s.driver.HomeAsync(ctx, dist, omega); err != nil {
		return err
	}
	s.mu.Lock()
	s.pendingSet = &set
	s.mu.Unlock()
	return nil
}

// LimitDest returns how far gamma lies outside of the limits.
func (s *Stepper) LimitDest(gamma units.Gamma) units.Delta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit.Dest(gamma)
}

// SetLimit replaces the limits.
func (s *Stepper) SetLimit(minimum, maximum *units.Gamma) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = machine.Limit{Min: minimum, Max: maximum}
}

// ApplyLoadForce forwards the load torque to the driver.
func (s *Stepper) ApplyLoadForce(force units.Force) {
	s.mu.Lock()
	s.force = force
	inertia := s.inertia
	s.mu.Unlock()
	s.driver.SetLoad(force, inertia)
}

// ApplyLoadInertia forwards the load inertia to the driver.
func (s *Stepper) ApplyLoadInertia(inertia units.Inertia) {
	s.mu.Lock()
	s.inertia = inertia
	force := s.force
	s.mu.Unlock()
	s.driver.SetLoad(force, inertia)
}

// Loads returns the applied loads.
func (s *Stepper) Loads() (units.Force, units.Inertia) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.force, s.inertia
}

func (s *Stepper) checkMove(target units.Gamma, delta units.Delta, omega units.Omega) error {
	if err := checkOmega(omega); err != nil {
		return err
	}
	if err := NewLimitError(s, target); err != nil {
		return err
	}
	if !delta.IsFinite() {
		return errors.Errorf("distance must be finite, got %v", delta)
	}
	return nil
}
