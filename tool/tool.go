// Package tool contains the end effectors an arm can carry. Every tool has an offset vector
// from the last joint and a mass; further abilities are exposed through capability
// interfaces queried with AsSimple, AsSpindle and AsAxis.
package tool

import (
	"context"

	"github.com/golang/geo/r3"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

// A Tool is an end effector mounted at the tip of an arm.
type Tool interface {
	// Name returns the kind of tool.
	Name() string
	// Vec is the offset of the tool center point from the last joint, in the default pose.
	Vec() r3.Vector
	// Mass is in kg.
	Mass() float64
	// Mount is called when the tool becomes the active tool.
	Mount(ctx context.Context) error
	// Dismount is called when another tool is selected.
	Dismount(ctx context.Context) error
}

// A SimpleTool can be switched on and off, for instance a gripper.
type SimpleTool interface {
	Tool
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
	IsActive() bool
}

// A SpindleTool runs a motor at a speed.
type SpindleTool interface {
	Tool
	SetRPM(ctx context.Context, rpm float64) error
	RPM() float64
}

// An AxisTool rotates about its own axis, driven by a component.
type AxisTool interface {
	Tool
	Axis() component.Component
	RotateAbs(ctx context.Context, gamma units.Gamma) (units.Delta, error)
	RotateRel(ctx context.Context, delta units.Delta) (units.Delta, error)
}

// AsSimple returns t as a SimpleTool if it is one.
func AsSimple(t Tool) (SimpleTool, bool) {
	s, ok := t.(SimpleTool)
	return s, ok
}

// AsSpindle returns t as a SpindleTool if it is one.
func AsSpindle(t Tool) (SpindleTool, bool) {
	s, ok := t.(SpindleTool)
	return s, ok
}

// AsAxis returns t as an AxisTool if it is one.
func AsAxis(t Tool) (AxisTool, bool) {
	a, ok := t.(AxisTool)
	return a, ok
}

// A Servo positions a gripper, 0 being fully open and 1 fully closed.
type Servo interface {
	SetPosition(ctx context.Context, pos float64) error
}

// A SpeedMotor runs at a set speed.
type SpeedMotor interface {
	SetRPM(ctx context.Context, rpm float64) error
}

// tip describes the body of a tool: a straight extension along the last segment.
type tip struct {
	length float64
	mass   float64
}

func (t tip) Vec() r3.Vector {
	return r3.Vector{Y: t.length}
}

func (t tip) Mass() float64 {
	return t.mass
}
