package inject

import (
	"context"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

// Component is an injectable component.Component.
type Component struct {
	component.Component
	GammaFunc         func() units.Gamma
	DriveAbsFunc      func(ctx context.Context, gamma units.Gamma, omega units.Omega) (units.Delta, error)
	DriveAbsAsyncFunc func(ctx context.Context, gamma units.Gamma, omega units.Omega) error
	AwaitInactiveFunc func(ctx context.Context) (units.Delta, error)
	MeasureFunc       func(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) (bool, error)
}

// Gamma calls the injected GammaFunc or the real version.
func (c *Component) Gamma() units.Gamma {
	if c.GammaFunc == nil {
		return c.Component.Gamma()
	}
	return c.GammaFunc()
}

// DriveAbs calls the injected DriveAbsFunc or the real version.
func (c *Component) DriveAbs(ctx context.Context, gamma units.Gamma, omega units.Omega) (units.Delta, error) {
	if c.DriveAbsFunc == nil {
		return c.Component.DriveAbs(ctx, gamma, omega)
	}
	return c.DriveAbsFunc(ctx, gamma, omega)
}

// DriveAbsAsync calls the injected DriveAbsAsyncFunc or the real version.
func (c *Component) DriveAbsAsync(ctx context.Context, gamma units.Gamma, omega units.Omega) error {
	if c.DriveAbsAsyncFunc == nil {
		return c.Component.DriveAbsAsync(ctx, gamma, omega)
	}
	return c.DriveAbsAsyncFunc(ctx, gamma, omega)
}

// AwaitInactive calls the injected AwaitInactiveFunc or the real version.
func (c *Component) AwaitInactive(ctx context.Context) (units.Delta, error) {
	if c.AwaitInactiveFunc == nil {
		return c.Component.AwaitInactive(ctx)
	}
	return c.AwaitInactiveFunc(ctx)
}

// Measure calls the injected MeasureFunc or the real version.
func (c *Component) Measure(ctx context.Context, dist units.Delta, omega units.Omega, set units.Gamma) (bool, error) {
	if c.MeasureFunc == nil {
		return c.Component.Measure(ctx, dist, omega, set)
	}
	return c.MeasureFunc(ctx, dist, omega, set)
}
