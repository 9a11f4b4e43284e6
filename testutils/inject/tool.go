package inject

import (
	"context"

	"github.com/golang/geo/r3"

	"go.viam.com/sybot/tool"
)

// Tool is an injectable tool.Tool.
type Tool struct {
	tool.Tool
	NameFunc     func() string
	VecFunc      func() r3.Vector
	MassFunc     func() float64
	MountFunc    func(ctx context.Context) error
	DismountFunc func(ctx context.Context) error
}

// Name calls the injected NameFunc or the real version.
func (t *Tool) Name() string {
	if t.NameFunc == nil {
		return t.Tool.Name()
	}
	return t.NameFunc()
}

// Vec calls the injected VecFunc or the real version.
func (t *Tool) Vec() r3.Vector {
	if t.VecFunc == nil {
		return t.Tool.Vec()
	}
	return t.VecFunc()
}

// Mass calls the injected MassFunc or the real version.
func (t *Tool) Mass() float64 {
	if t.MassFunc == nil {
		return t.Tool.Mass()
	}
	return t.MassFunc()
}

// Mount calls the injected MountFunc or the real version.
func (t *Tool) Mount(ctx context.Context) error {
	if t.MountFunc == nil {
		return t.Tool.Mount(ctx)
	}
	return t.MountFunc(ctx)
}

// Dismount calls the injected DismountFunc or the real version.
func (t *Tool) Dismount(ctx context.Context) error {
	if t.DismountFunc == nil {
		return t.Tool.Dismount(ctx)
	}
	return t.DismountFunc(ctx)
}
