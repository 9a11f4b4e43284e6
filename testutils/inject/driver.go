package inject

import (
	"context"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

// Driver is an injectable component.Driver.
type Driver struct {
	component.Driver
	PositionFunc    func() units.Gamma
	SetPositionFunc func(pos units.Gamma)
	MoveFunc        func(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error)
	MoveAsyncFunc   func(ctx context.Context, delta units.Delta, omega units.Omega) error
	HomeFunc        func(ctx context.Context, dist units.Delta, omega units.Omega) (bool, error)
	HomeAsyncFunc   func(ctx context.Context, dist units.Delta, omega units.Omega) error
	WaitFunc        func(ctx context.Context) (units.Delta, error)
	SetLoadFunc     func(force units.Force, inertia units.Inertia)
}

// Position calls the injected PositionFunc or the real version.
func (d *Driver) Position() units.Gamma {
	if d.PositionFunc == nil {
		return d.Driver.Position()
	}
	return d.PositionFunc()
}

// SetPosition calls the injected SetPositionFunc or the real version.
func (d *Driver) SetPosition(pos units.Gamma) {
	if d.SetPositionFunc == nil {
		d.Driver.SetPosition(pos)
		return
	}
	d.SetPositionFunc(pos)
}

// Move calls the injected MoveFunc or the real version.
func (d *Driver) Move(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error) {
	if d.MoveFunc == nil {
		return d.Driver.Move(ctx, delta, omega)
	}
	return d.MoveFunc(ctx, delta, omega)
}

// MoveAsync calls the injected MoveAsyncFunc or the real version.
func (d *Driver) MoveAsync(ctx context.Context, delta units.Delta, omega units.Omega) error {
	if d.MoveAsyncFunc == nil {
		return d.Driver.MoveAsync(ctx, delta, omega)
	}
	return d.MoveAsyncFunc(ctx, delta, omega)
}

// Home calls the injected HomeFunc or the real version.
func (d *Driver) Home(ctx context.Context, dist units.Delta, omega units.Omega) (bool, error) {
	if d.HomeFunc == nil {
		return d.Driver.Home(ctx, dist, omega)
	}
	return d.HomeFunc(ctx, dist, omega)
}

// HomeAsync calls the injected HomeAsyncFunc or the real version.
func (d *Driver) HomeAsync(ctx context.Context, dist units.Delta, omega units.Omega) error {
	if d.HomeAsyncFunc == nil {
		return d.Driver.HomeAsync(ctx, dist, omega)
	}
	return d.HomeAsyncFunc(ctx, dist, omega)
}

// Wait calls the injected WaitFunc or the real version.
func (d *Driver) Wait(ctx context.Context) (units.Delta, error) {
	if d.WaitFunc == nil {
		return d.Driver.Wait(ctx)
	}
	return d.WaitFunc(ctx)
}

// SetLoad calls the injected SetLoadFunc or the real version.
func (d *Driver) SetLoad(force units.Force, inertia units.Inertia) {
	if d.SetLoadFunc == nil {
		d.Driver.SetLoad(force, inertia)
		return
	}
	d.SetLoadFunc(force, inertia)
}
