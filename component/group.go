package component

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/units"
	"go.viam.com/sybot/utils"
)

// A Group is the ordered, fixed-count set of axes of an arm. Batched operations run every
// axis in its own goroutine and never abort the remaining axes when one of them fails.
type Group []Component

// GroupError reports the axes that failed in a batched operation. Errs holds one entry per
// axis, nil for the axes that succeeded.
type GroupError struct {
	Errs []error
}

func (e *GroupError) Error() string {
	var msgs []string
	for i, err := range e.Errs {
		if err != nil {
			msgs = append(msgs, errors.Wrapf(err, "axis %d", i).Error())
		}
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the errors of the failed axes.
func (e *GroupError) Unwrap() []error {
	return multierr.Errors(multierr.Combine(e.Errs...))
}

// Failed returns whether each axis failed.
func (e *GroupError) Failed() []bool {
	return lo.Map(e.Errs, func(err error, _ int) bool { return err != nil })
}

func groupErr(errs []error, err error) error {
	if err == nil {
		return nil
	}
	return &GroupError{Errs: errs}
}

func (g Group) checkLen(what string, n int) error {
	if n != len(g) {
		return errors.Errorf("expected %d %s, got %d", len(g), what, n)
	}
	return nil
}

// Gammas returns the position of every axis.
func (g Group) Gammas() []units.Gamma {
	return lo.Map(g, func(c Component, _ int) units.Gamma { return c.Gamma() })
}

// WriteGammas overwrites the position of every axis.
func (g Group) WriteGammas(gammas []units.Gamma) error {
	if err := g.checkLen("gammas", len(gammas)); err != nil {
		return err
	}
	for i, c := range g {
		c.WriteGamma(gammas[i])
	}
	return nil
}

// DriveRel moves every axis by its delta and blocks until all of them stopped.
func (g Group) DriveRel(ctx context.Context, deltas []units.Delta, omegas []units.Omega) ([]units.Delta, error) {
	if err := multierr.Combine(g.checkLen("deltas", len(deltas)), g.checkLen("velocities", len(omegas))); err != nil {
		return nil, err
	}
	moved, errs, err := utils.GetEach(ctx, len(g), func(ctx context.Context, i int) (units.Delta, error) {
		return g[i].DriveRel(ctx, deltas[i], omegas[i])
	})
	return moved, groupErr(errs, err)
}

// DriveAbs moves every axis to its gamma and blocks until all of them stopped.
func (g Group) DriveAbs(ctx context.Context, gammas []units.Gamma, omegas []units.Omega) ([]units.Delta, error) {
	if err := multierr.Combine(g.checkLen("gammas", len(gammas)), g.checkLen("velocities", len(omegas))); err != nil {
		return nil, err
	}
	moved, errs, err := utils.GetEach(ctx, len(g), func(ctx context.Context, i int) (units.Delta, error) {
		return g[i].DriveAbs(ctx, gammas[i], omegas[i])
	})
	return moved, groupErr(errs, err)
}

// DriveRelAsync issues a relative move on every axis.
func (g Group) DriveRelAsync(ctx context.Context, deltas []units.Delta, omegas []units.Omega) error {
	if err := multierr.Combine(g.checkLen("deltas", len(deltas)), g.checkLen("velocities", len(omegas))); err != nil {
		return err
	}
	_, errs, err := utils.RunEach(ctx, len(g), func(ctx context.Context, i int) error {
		return g[i].DriveRelAsync(ctx, deltas[i], omegas[i])
	})
	return groupErr(errs, err)
}

// DriveAbsAsync issues an absolute move on every axis.
func (g Group) DriveAbsAsync(ctx context.Context, gammas []units.Gamma, omegas []units.Omega) error {
	if err := multierr.Combine(g.checkLen("gammas", len(gammas)), g.checkLen("velocities", len(omegas))); err != nil {
		return err
	}
	_, errs, err := utils.RunEach(ctx, len(g), func(ctx context.Context, i int) error {
		return g[i].DriveAbsAsync(ctx, gammas[i], omegas[i])
	})
	return groupErr(errs, err)
}

// AwaitInactive waits for every axis to finish its issued motion.
func (g Group) AwaitInactive(ctx context.Context) ([]units.Delta, error) {
	moved, errs, err := utils.GetEach(ctx, len(g), func(ctx context.Context, i int) (units.Delta, error) {
		return g[i].AwaitInactive(ctx)
	})
	return moved, groupErr(errs, err)
}

// Measure homes every axis and reports which reached their reference switch. An axis that
// did not reach it is not an error.
func (g Group) Measure(ctx context.Context, dists []units.Delta, omegas []units.Omega, sets []units.Gamma) ([]bool, error) {
	if err := g.checkMeasure(dists, omegas, sets); err != nil {
		return nil, err
	}
	reached, errs, err := utils.GetEach(ctx, len(g), func(ctx context.Context, i int) (bool, error) {
		return g[i].Measure(ctx, dists[i], omegas[i], sets[i])
	})
	return reached, groupErr(errs, err)
}

// MeasureAsync issues a homing run on every axis.
func (g Group) MeasureAsync(ctx context.Context, dists []units.Delta, omegas []units.Omega, sets []units.Gamma) error {
	if err := g.checkMeasure(dists, omegas, sets); err != nil {
		return err
	}
	_, errs, err := utils.RunEach(ctx, len(g), func(ctx context.Context, i int) error {
		return g[i].MeasureAsync(ctx, dists[i], omegas[i], sets[i])
	})
	return groupErr(errs, err)
}

func (g Group) checkMeasure(dists []units.Delta, omegas []units.Omega, sets []units.Gamma) error {
	return multierr.Combine(
		g.checkLen("distances", len(dists)),
		g.checkLen("velocities", len(omegas)),
		g.checkLen("set values", len(sets)),
	)
}

// LimitDests returns how far every gamma lies outside of its axis' limits.
func (g Group) LimitDests(gammas []units.Gamma) ([]units.Delta, error) {
	if err := g.checkLen("gammas", len(gammas)); err != nil {
		return nil, err
	}
	return lo.Map(g, func(c Component, i int) units.Delta { return c.LimitDest(gammas[i]) }), nil
}

// ValidGammas reports for every axis whether its gamma is finite and within its limits.
func (g Group) ValidGammas(gammas []units.Gamma) ([]bool, error) {
	if err := g.checkLen("gammas", len(gammas)); err != nil {
		return nil, err
	}
	return lo.Map(g, func(c Component, i int) bool {
		return NewLimitError(c, gammas[i]) == nil
	}), nil
}

// SetLimits replaces the limits of every axis.
func (g Group) SetLimits(limits []machine.Limit) error {
	if err := g.checkLen("limits", len(limits)); err != nil {
		return err
	}
	for i, c := range g {
		c.SetLimit(limits[i].Min, limits[i].Max)
	}
	return nil
}

// ApplyLoadForces hands every axis its load.
func (g Group) ApplyLoadForces(forces []units.Force) error {
	if err := g.checkLen("forces", len(forces)); err != nil {
		return err
	}
	for i, c := range g {
		c.ApplyLoadForce(forces[i])
	}
	return nil
}

// ApplyLoadInertias hands every axis its inertia.
func (g Group) ApplyLoadInertias(inertias []units.Inertia) error {
	if err := g.checkLen("inertias", len(inertias)); err != nil {
		return err
	}
	for i, c := range g {
		c.ApplyLoadInertia(inertias[i])
	}
	return nil
}

// Loads returns the applied force and inertia of every axis.
func (g Group) Loads() ([]units.Force, []units.Inertia) {
	forces := make([]units.Force, len(g))
	inertias := make([]units.Inertia, len(g))
	for i, c := range g {
		forces[i], inertias[i] = c.Loads()
	}
	return forces, inertias
}
