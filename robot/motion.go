package robot

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

// movedTolerance is the travel below which an axis counts as not moved.
const movedTolerance = 1e-9

// acquire takes the motion token. It fails if another motion holds it. An async token is
// only given back by AwaitInactive.
func (r *Robot) acquire(homing, async bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrMotionInFlight
	}
	r.busy = true
	r.async = async
	r.homing = homing
	return nil
}

// release returns the motion token and recomputes the pose the axes ended up in.
func (r *Robot) release() error {
	r.mu.Lock()
	r.busy = false
	r.async = false
	r.homing = false
	err := r.refreshLocked()
	phis := r.phis
	r.mu.Unlock()

	r.publish(phisEvent(phis))
	return err
}

func (r *Robot) omegas() []units.Omega {
	r.mu.Lock()
	factor := r.vars.SpeedFactor
	r.mu.Unlock()
	return lo.Map(r.mach.Vels, func(v units.Omega, _ int) units.Omega {
		return units.Omega(float64(v) * factor)
	})
}

// motionError turns the failure of a batched motion into a *MotionError.
func motionError(moved []units.Delta, err error) error {
	if err == nil {
		return nil
	}
	me := &MotionError{Err: err}
	var groupErr *component.GroupError
	if errors.As(err, &groupErr) {
		me.Failed = groupErr.Failed()
	}
	me.Moved = make([]bool, len(moved))
	for i, d := range moved {
		me.Moved[i] = d.Abs() > movedTolerance
	}
	return me
}

// DriveAbs moves every axis to its target and blocks until all of them stopped. Targets are
// validated first: a *ValidationError means nothing moved.
func (r *Robot) DriveAbs(ctx context.Context, gammas []units.Gamma) ([]units.Delta, error) {
	if _, err := r.ValidGammas(gammas); err != nil {
		return nil, err
	}
	if err := r.acquire(false, false); err != nil {
		return nil, err
	}
	moved, err := r.comps.DriveAbs(ctx, gammas, r.omegas())
	return moved, firstErr(motionError(moved, err), r.release())
}

// DriveRel moves every axis by its delta and blocks until all of them stopped.
func (r *Robot) DriveRel(ctx context.Context, deltas []units.Delta) ([]units.Delta, error) {
	targets, err := r.targets(deltas)
	if err != nil {
		return nil, err
	}
	if _, err := r.ValidGammas(targets); err != nil {
		return nil, err
	}
	if err := r.acquire(false, false); err != nil {
		return nil, err
	}
	moved, err := r.comps.DriveRel(ctx, deltas, r.omegas())
	return moved, firstErr(motionError(moved, err), r.release())
}

// DriveAbsAsync starts moving every axis to its target. The Robot stays busy until
// AwaitInactive. If issuing fails on an axis, the axes already issued are awaited and the
// Robot is free again.
func (r *Robot) DriveAbsAsync(ctx context.Context, gammas []units.Gamma) error {
	if _, err := r.ValidGammas(gammas); err != nil {
		return err
	}
	if err := r.acquire(false, true); err != nil {
		return err
	}
	if err := r.comps.DriveAbsAsync(ctx, gammas, r.omegas()); err != nil {
		return r.abortAsync(ctx, err)
	}
	return nil
}

// DriveRelAsync starts moving every axis by its delta.
func (r *Robot) DriveRelAsync(ctx context.Context, deltas []units.Delta) error {
	targets, err := r.targets(deltas)
	if err != nil {
		return err
	}
	if _, err := r.ValidGammas(targets); err != nil {
		return err
	}
	if err := r.acquire(false, true); err != nil {
		return err
	}
	if err := r.comps.DriveRelAsync(ctx, deltas, r.omegas()); err != nil {
		return r.abortAsync(ctx, err)
	}
	return nil
}

// abortAsync waits for the axes that were issued before issueErr and gives back the token.
// If ctx ends first the Robot stays busy until AwaitInactive.
func (r *Robot) abortAsync(ctx context.Context, issueErr error) error {
	moved, _ := r.comps.AwaitInactive(ctx)
	if ctx.Err() != nil {
		return motionError(moved, issueErr)
	}
	return firstErr(motionError(moved, issueErr), r.release())
}

func (r *Robot) targets(deltas []units.Delta) ([]units.Gamma, error) {
	gammas := r.comps.Gammas()
	if len(deltas) != len(gammas) {
		return nil, errors.Errorf("expected %d deltas, got %d", len(gammas), len(deltas))
	}
	return lo.Map(gammas, func(g units.Gamma, i int) units.Gamma { return g.Add(deltas[i]) }), nil
}

// AwaitInactive blocks until every asynchronous motion finished, then recomputes the pose.
// If ctx ends first the Robot stays busy. With nothing in flight it returns at once; while
// a blocking motion runs it fails with ErrMotionInFlight.
func (r *Robot) AwaitInactive(ctx context.Context) ([]units.Delta, error) {
	r.mu.Lock()
	busy, async, homing := r.busy, r.async, r.homing
	r.mu.Unlock()
	if !busy {
		return make([]units.Delta, len(r.comps)), nil
	}
	if !async {
		return nil, ErrMotionInFlight
	}

	moved, err := r.comps.AwaitInactive(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return moved, ctxErr
	}

	if homing {
		err = r.finishHoming(homingReached(r.comps, err), err)
	} else {
		err = motionError(moved, err)
	}
	return moved, firstErr(err, r.release())
}

// homingReached derives which axes reached their switch from the error of a batched
// homing run.
func homingReached(comps component.Group, err error) []bool {
	reached := make([]bool, len(comps))
	var groupErr *component.GroupError
	if !errors.As(err, &groupErr) {
		for i := range reached {
			reached[i] = err == nil
		}
		return reached
	}
	for i, e := range groupErr.Errs {
		reached[i] = e == nil
	}
	return reached
}

// DriveCompAbs moves a single axis to gamma.
func (r *Robot) DriveCompAbs(ctx context.Context, index int, gamma units.Gamma) (units.Delta, error) {
	if index < 0 || index >= len(r.comps) {
		return 0, errors.Errorf("axis index %d out of range", index)
	}
	comp := r.comps[index]
	if err := component.NewLimitError(comp, gamma); err != nil {
		valids := lo.Times(len(r.comps), func(i int) bool { return i != index })
		return 0, &ValidationError{Valids: valids}
	}
	if err := r.acquire(false, false); err != nil {
		return 0, err
	}
	omega := r.omegas()[index]
	moved, err := comp.DriveAbs(ctx, gamma, omega)
	if err != nil {
		movedAll := make([]units.Delta, len(r.comps))
		movedAll[index] = moved
		err = motionError(movedAll, err)
	}
	return moved, firstErr(err, r.release())
}

// DriveCompRel moves a single axis by delta.
func (r *Robot) DriveCompRel(ctx context.Context, index int, delta units.Delta) (units.Delta, error) {
	if index < 0 || index >= len(r.comps) {
		return 0, errors.Errorf("axis index %d out of range", index)
	}
	return r.DriveCompAbs(ctx, index, r.comps[index].Gamma().Add(delta))
}

// Measure homes every axis. Each axis runs toward its reference switch and, once there,
// takes its configured set value. If any axis misses its switch the error is a
// *HomingError; reached reports every axis either way.
func (r *Robot) Measure(ctx context.Context) ([]bool, error) {
	if err := r.acquire(true, false); err != nil {
		return nil, err
	}
	dists, sets := r.measureArgs()
	reached, err := r.comps.Measure(ctx, dists, r.omegas(), sets)
	if reached == nil {
		reached = make([]bool, len(r.comps))
	}
	if err != nil {
		err = motionError(make([]units.Delta, len(r.comps)), err)
	} else {
		err = r.finishHoming(reached, nil)
	}
	return reached, firstErr(err, r.release())
}

// MeasureAsync starts homing every axis. AwaitInactive reports the outcome.
func (r *Robot) MeasureAsync(ctx context.Context) error {
	if err := r.acquire(true, true); err != nil {
		return err
	}
	dists, sets := r.measureArgs()
	if err := r.comps.MeasureAsync(ctx, dists, r.omegas(), sets); err != nil {
		return r.abortAsync(ctx, err)
	}
	return nil
}

func (r *Robot) measureArgs() ([]units.Delta, []units.Gamma) {
	dists := make([]units.Delta, len(r.mach.Meas))
	sets := make([]units.Gamma, len(r.mach.Meas))
	for i, m := range r.mach.Meas {
		dists[i], sets[i] = m.Dist, m.SetVal
	}
	return dists, sets
}

// finishHoming records the outcome of a homing run.
func (r *Robot) finishHoming(reached []bool, err error) error {
	if lo.Contains(reached, false) {
		r.logger.Warnw("homing failed", "reached", reached)
		homingErr := &HomingError{Reached: reached}
		if err != nil && !onlyMissedSwitches(err) {
			return motionError(make([]units.Delta, len(reached)), err)
		}
		return homingErr
	}

	r.mu.Lock()
	r.state = Homed
	r.mu.Unlock()
	r.logger.Info("homed")
	r.publish(newEvent(EventHomed))
	return nil
}

func onlyMissedSwitches(err error) bool {
	var groupErr *component.GroupError
	if !errors.As(err, &groupErr) {
		return errors.Is(err, component.ErrReferenceNotReached)
	}
	for _, e := range groupErr.Errs {
		if e != nil && !errors.Is(e, component.ErrReferenceNotReached) {
			return false
		}
	}
	return true
}

// MoveHome homes the arm and drives it to its home position.
func (r *Robot) MoveHome(ctx context.Context) ([]units.Delta, error) {
	if _, err := r.Measure(ctx); err != nil {
		return nil, err
	}
	return r.DriveAbs(ctx, r.mach.Home)
}

// MoveToPoint drives the tool center point to the given coordinates. Missing coordinates
// keep their current value, a missing deco keeps the current orientation.
func (r *Robot) MoveToPoint(ctx context.Context, x, y, z, deco *float64) ([]units.Delta, error) {
	r.mu.Lock()
	pos := r.vars.CachePos(x, y, z)
	d := r.vars.Deco
	r.mu.Unlock()
	if deco != nil {
		d = *deco
	}

	phis, err := r.PhisFromVec(pos, d)
	if err != nil {
		return nil, err
	}
	moved, err := r.DriveAbs(ctx, r.mach.GammasFromPhis(phis))
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return nil, errors.Wrapf(err, "target %v", pos)
		}
		return moved, err
	}

	r.mu.Lock()
	r.vars.Deco = d
	r.mu.Unlock()
	return moved, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
