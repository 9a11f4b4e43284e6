package robot

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMotionInFlight is returned when an operation needs the arm at rest while an
// asynchronous motion has not been awaited yet.
var ErrMotionInFlight = errors.New("an asynchronous motion is in flight, call AwaitInactive first")

// ValidationError is returned when a target is not finite or lies outside of the limits.
// Nothing moved. Valids holds the verdict for every axis.
type ValidationError struct {
	Valids []bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid target, valid axes: %v", e.Valids)
}

// HomingError is returned when some axes did not reach their reference switch. Reached
// holds the outcome of every axis.
type HomingError struct {
	Reached []bool
}

func (e *HomingError) Error() string {
	return fmt.Sprintf("homing failed, reached axes: %v", e.Reached)
}

// ToolIndexError is returned when a tool outside of the tool list is selected.
type ToolIndexError struct {
	Index int
	Count int
}

func (e *ToolIndexError) Error() string {
	return fmt.Sprintf("tool index %d out of range, %d tools available", e.Index, e.Count)
}

// MotionError is returned when axes failed while moving. Unlike a ValidationError some
// axes may have moved: Moved reports which ones did.
type MotionError struct {
	Moved  []bool
	Failed []bool
	Err    error
}

func (e *MotionError) Error() string {
	return errors.Wrapf(e.Err, "motion failed (moved axes: %v)", e.Moved).Error()
}

func (e *MotionError) Unwrap() error {
	return e.Err
}
