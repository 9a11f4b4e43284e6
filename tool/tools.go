package tool

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

// Kinds of tools.
const (
	KindNoTool     = "no_tool"
	KindPencil     = "pencil"
	KindTongs      = "tongs"
	KindSpindle    = "spindle"
	KindAxialJoint = "axial_joint"
	KindAxisTongs  = "axis_tongs"
)

// NoTool is the bare flange.
type NoTool struct{}

// NewNoTool returns the empty tool.
func NewNoTool() *NoTool {
	return &NoTool{}
}

func (*NoTool) Name() string { return KindNoTool }

func (*NoTool) Vec() r3.Vector { return r3.Vector{} }

func (*NoTool) Mass() float64 { return 0 }

func (*NoTool) Mount(context.Context) error { return nil }

func (*NoTool) Dismount(context.Context) error { return nil }

// PencilTool is a passive tool of a given length.
type PencilTool struct {
	tip
}

// NewPencilTool returns a pencil of length mm weighing mass kg.
func NewPencilTool(length, mass float64) *PencilTool {
	return &PencilTool{tip{length: length, mass: mass}}
}

func (*PencilTool) Name() string { return KindPencil }

func (*PencilTool) Mount(context.Context) error { return nil }

func (*PencilTool) Dismount(context.Context) error { return nil }

// Length returns the length of the pencil.
func (p *PencilTool) Length() float64 { return p.length }

// Tongs is a gripper closed by a servo.
type Tongs struct {
	tip
	servo           Servo
	openPos, closed float64

	mu     sync.Mutex
	active bool
}

// NewTongs returns tongs driven by servo between openPos and closedPos.
func NewTongs(servo Servo, openPos, closedPos, length, mass float64) *Tongs {
	return &Tongs{tip: tip{length: length, mass: mass}, servo: servo, openPos: openPos, closed: closedPos}
}

func (*Tongs) Name() string { return KindTongs }

// Mount opens the tongs.
func (t *Tongs) Mount(ctx context.Context) error {
	return t.Deactivate(ctx)
}

// Dismount opens the tongs so the workpiece is released.
func (t *Tongs) Dismount(ctx context.Context) error {
	return t.Deactivate(ctx)
}

// Activate closes the tongs.
func (t *Tongs) Activate(ctx context.Context) error {
	return t.set(ctx, true)
}

// Deactivate opens the tongs.
func (t *Tongs) Deactivate(ctx context.Context) error {
	return t.set(ctx, false)
}

// IsActive reports whether the tongs are closed.
func (t *Tongs) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Positions returns the servo positions of the open and the closed tongs.
func (t *Tongs) Positions() (openPos, closedPos float64) {
	return t.openPos, t.closed
}

// Length returns the length of the tongs.
func (t *Tongs) Length() float64 { return t.length }

func (t *Tongs) set(ctx context.Context, active bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	pos := t.openPos
	if active {
		pos = t.closed
	}
	if err := t.servo.SetPosition(ctx, pos); err != nil {
		return errors.Wrap(err, "failed to move tongs")
	}
	t.active = active
	return nil
}

// Spindle is a rotating tool such as a drill or a mill.
type Spindle struct {
	tip
	motor  SpeedMotor
	maxRPM float64

	mu  sync.Mutex
	rpm float64
}

// NewSpindle returns a spindle run by motor up to maxRPM.
func NewSpindle(motor SpeedMotor, maxRPM, length, mass float64) *Spindle {
	return &Spindle{tip: tip{length: length, mass: mass}, motor: motor, maxRPM: maxRPM}
}

func (*Spindle) Name() string { return KindSpindle }

func (*Spindle) Mount(context.Context) error { return nil }

// Dismount stops the spindle.
func (s *Spindle) Dismount(ctx context.Context) error {
	return s.SetRPM(ctx, 0)
}

// SetRPM runs the spindle at rpm.
func (s *Spindle) SetRPM(ctx context.Context, rpm float64) error {
	if s.maxRPM > 0 && (rpm > s.maxRPM || rpm < -s.maxRPM) {
		return errors.Errorf("spindle speed %v exceeds the maximum of %v rpm", rpm, s.maxRPM)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.motor.SetRPM(ctx, rpm); err != nil {
		return errors.Wrap(err, "failed to set spindle speed")
	}
	s.rpm = rpm
	return nil
}

// RPM returns the speed last set.
func (s *Spindle) RPM() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rpm
}

// MaxRPM returns the speed limit, zero when unlimited.
func (s *Spindle) MaxRPM() float64 { return s.maxRPM }

// Length returns the length of the spindle.
func (s *Spindle) Length() float64 { return s.length }

// AxialJoint is a tool rotating about its own axis, for instance a wrist rotation.
type AxialJoint struct {
	tip
	axis  component.Component
	omega units.Omega
}

// NewAxialJoint returns a tool rotated by axis at omega.
func NewAxialJoint(axis component.Component, omega units.Omega, length, mass float64) *AxialJoint {
	return &AxialJoint{tip: tip{length: length, mass: mass}, axis: axis, omega: omega}
}

func (*AxialJoint) Name() string { return KindAxialJoint }

func (*AxialJoint) Mount(context.Context) error { return nil }

func (*AxialJoint) Dismount(context.Context) error { return nil }

// Axis returns the component rotating the tool.
func (j *AxialJoint) Axis() component.Component { return j.axis }

// Omega returns the velocity of the rotation.
func (j *AxialJoint) Omega() units.Omega { return j.omega }

// Length returns the length of the tool.
func (j *AxialJoint) Length() float64 { return j.length }

// RotateAbs turns the tool to gamma.
func (j *AxialJoint) RotateAbs(ctx context.Context, gamma units.Gamma) (units.Delta, error) {
	return j.axis.DriveAbs(ctx, gamma, j.omega)
}

// RotateRel turns the tool by delta.
func (j *AxialJoint) RotateRel(ctx context.Context, delta units.Delta) (units.Delta, error) {
	return j.axis.DriveRel(ctx, delta, j.omega)
}

// AxisTongs are tongs that can also rotate about their own axis.
type AxisTongs struct {
	*Tongs
	joint *AxialJoint
}

// NewAxisTongs returns tongs closed by servo and rotated by axis.
func NewAxisTongs(axis component.Component, omega units.Omega, servo Servo, openPos, closedPos, length, mass float64) *AxisTongs {
	return &AxisTongs{
		Tongs: NewTongs(servo, openPos, closedPos, length, mass),
		joint: NewAxialJoint(axis, omega, length, mass),
	}
}

func (*AxisTongs) Name() string { return KindAxisTongs }

// Axis returns the component rotating the tongs.
func (t *AxisTongs) Axis() component.Component { return t.joint.axis }

// Omega returns the velocity of the rotation.
func (t *AxisTongs) Omega() units.Omega { return t.joint.omega }

// RotateAbs turns the tongs to gamma.
func (t *AxisTongs) RotateAbs(ctx context.Context, gamma units.Gamma) (units.Delta, error) {
	return t.joint.RotateAbs(ctx, gamma)
}

// RotateRel turns the tongs by delta.
func (t *AxisTongs) RotateRel(ctx context.Context, delta units.Delta) (units.Delta, error) {
	return t.joint.RotateRel(ctx, delta)
}

var (
	_ Tool        = (*NoTool)(nil)
	_ Tool        = (*PencilTool)(nil)
	_ SimpleTool  = (*Tongs)(nil)
	_ SpindleTool = (*Spindle)(nil)
	_ AxisTool    = (*AxialJoint)(nil)
	_ AxisTool    = (*AxisTongs)(nil)
	_ SimpleTool  = (*AxisTongs)(nil)
)
