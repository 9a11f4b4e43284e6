// Package component defines the axes of an arm. Every axis, whatever drives it, exposes the
// same contract to move, home, limit and load it.
//
// Positions are given in the axis' control frame (Gamma): radians for joints, millimeters
// for linear actuators.
package component

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/sybot/units"
)

// A Component is a single axis of an arm.
type Component interface {
	// Gamma returns the current position.
	Gamma() units.Gamma
	// WriteGamma overwrites the current position without moving the axis.
	WriteGamma(gamma units.Gamma)

	// DriveRel moves the axis by delta with a velocity of at most omega and blocks until it
	// stopped. It returns the distance actually travelled. A target outside the limits fails
	// with a *LimitError before anything moves.
	DriveRel(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error)
	// DriveAbs is DriveRel toward an absolute position.
	DriveAbs(ctx context.Context, gamma units.Gamma, omega units.Omega) (units.Delta, error)
	// DriveRelAsync starts the same motion as DriveRel and returns once it is issued.
	DriveRelAsync(ctx context.Context, delta units.Delta, omega units.Omega) error
	// DriveAbsAsync starts the same motion as DriveAbs and returns once it is issued.
	DriveAbsAsync(ctx context.Context, gamma units.Gamma, omega units.Omega) error
	// AwaitInactive blocks until the last asynchronous motion finished and returns the
	// distance it travelled.
	AwaitInactive(ctx context.Context) (units.Delta, error)

	// Measure drives by at most dist toward the reference switch. Once it triggers the
	// position is set to set. It reports whether the switch was reached.
	Measure(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) (bool, error)
	// MeasureAsync starts the same run as Measure. AwaitInactive then fails with
	// ErrReferenceNotReached if the switch did not trigger.
	MeasureAsync(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) error

	// LimitDest returns how far gamma lies outside of the limits, zero when it is inside.
	LimitDest(gamma units.Gamma) units.Delta
	// SetLimit replaces the limits; nil leaves a side open.
	SetLimit(minimum, maximum *units.Gamma)

	// ApplyLoadForce feeds the static load of the axis into its motion model.
	ApplyLoadForce(force units.Force)
	// ApplyLoadInertia feeds the inertia moved by the axis into its motion model.
	ApplyLoadInertia(inertia units.Inertia)
	// Loads returns the last applied force and inertia.
	Loads() (units.Force, units.Inertia)
}

// A Driver is the motion primitive behind an axis: a stepper motor and its controller.
// Positions are in radians of the motor shaft.
type Driver interface {
	Position() units.Gamma
	SetPosition(pos units.Gamma)

	// Move turns the shaft by delta and blocks until done.
	Move(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error)
	// MoveAsync issues the motion and returns. Completion is observed with Wait.
	MoveAsync(ctx context.Context, delta units.Delta, omega units.Omega) error
	// Home turns by at most dist until the reference switch triggers and stops there.
	Home(ctx context.Context, dist units.Delta, omega units.Omega) (bool, error)
	// HomeAsync issues a Home run. Wait returns ErrReferenceNotReached if it did not trigger.
	HomeAsync(ctx context.Context, dist units.Delta, omega units.Omega) error
	// Wait blocks until the issued motion is over and returns the distance it travelled.
	Wait(ctx context.Context) (units.Delta, error)

	SetLoad(force units.Force, inertia units.Inertia)
}

// ErrReferenceNotReached is returned when a homing run ended without the reference switch
// triggering.
var ErrReferenceNotReached = errors.New("reference switch was not reached")

// LimitError is returned when a motion would leave the limits of an axis.
type LimitError struct {
	Gamma units.Gamma
	Dest  units.Delta
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("target %v is outside of the limits by %v", e.Gamma, e.Dest)
}

// NewLimitError returns a *LimitError for gamma if it lies outside of comp's limits, nil
// otherwise. Non-finite targets are always outside.
func NewLimitError(comp interface{ LimitDest(units.Gamma) units.Delta }, gamma units.Gamma) error {
	if !gamma.IsFinite() {
		return &LimitError{Gamma: gamma, Dest: units.Delta(gamma)}
	}
	if dest := comp.LimitDest(gamma); dest != 0 {
		return &LimitError{Gamma: gamma, Dest: dest}
	}
	return nil
}

func checkOmega(omega units.Omega) error {
	if omega <= 0 || !omega.IsFinite() {
		return errors.Errorf("velocity must be positive and finite, got %v", omega)
	}
	return nil
}
