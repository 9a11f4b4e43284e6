package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/component/fake"
	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/tool"
	"go.viam.com/sybot/units"
)

func TestCapabilities(t *testing.T) {
	logger := logging.NewTestLogger(t)
	axis := component.NewStepper("wrist", fake.NewStepper("wrist", fake.WithTimeScale(1000)), logger)
	servo := fake.NewServo("grip")

	for _, tc := range []struct {
		tool                   tool.Tool
		name                   string
		simple, spindle, rotor bool
	}{
		{tool.NewNoTool(), tool.KindNoTool, false, false, false},
		{tool.NewPencilTool(127, 0.25), tool.KindPencil, false, false, false},
		{tool.NewTongs(servo, 0, 1, 80, 0.3), tool.KindTongs, true, false, false},
		{tool.NewSpindle(fake.NewMotor("m", 0), 0, 60, 0.8), tool.KindSpindle, false, true, false},
		{tool.NewAxialJoint(axis, 2, 40, 0.2), tool.KindAxialJoint, false, false, true},
		{tool.NewAxisTongs(axis, 2, servo, 0, 1, 90, 0.4), tool.KindAxisTongs, true, false, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.tool.Name(), test.ShouldEqual, tc.name)
			_, ok := tool.AsSimple(tc.tool)
			test.That(t, ok, test.ShouldEqual, tc.simple)
			_, ok = tool.AsSpindle(tc.tool)
			test.That(t, ok, test.ShouldEqual, tc.spindle)
			_, ok = tool.AsAxis(tc.tool)
			test.That(t, ok, test.ShouldEqual, tc.rotor)
		})
	}
}

func TestGeometry(t *testing.T) {
	test.That(t, tool.NewNoTool().Vec(), test.ShouldResemble, r3.Vector{})
	test.That(t, tool.NewNoTool().Mass(), test.ShouldEqual, 0.0)

	pencil := tool.NewPencilTool(127, 0.25)
	test.That(t, pencil.Vec(), test.ShouldResemble, r3.Vector{Y: 127})
	test.That(t, pencil.Mass(), test.ShouldEqual, 0.25)
	test.That(t, pencil.Length(), test.ShouldEqual, 127.0)
}

func TestTongs(t *testing.T) {
	ctx := context.Background()
	servo := fake.NewServo("grip")
	tongs := tool.NewTongs(servo, 0.1, 0.9, 80, 0.3)

	test.That(t, tongs.Activate(ctx), test.ShouldBeNil)
	test.That(t, tongs.IsActive(), test.ShouldBeTrue)
	test.That(t, servo.Position(), test.ShouldEqual, 0.9)

	// dismounting releases the workpiece
	test.That(t, tongs.Dismount(ctx), test.ShouldBeNil)
	test.That(t, tongs.IsActive(), test.ShouldBeFalse)
	test.That(t, servo.Position(), test.ShouldEqual, 0.1)

	broken := tool.NewTongs(servo, 0.1, 2, 80, 0.3)
	test.That(t, broken.Activate(ctx), test.ShouldNotBeNil)
	test.That(t, broken.IsActive(), test.ShouldBeFalse)
}

func TestSpindle(t *testing.T) {
	ctx := context.Background()
	motor := fake.NewMotor("m", 0)
	spindle := tool.NewSpindle(motor, 10000, 60, 0.8)

	test.That(t, spindle.SetRPM(ctx, 8000), test.ShouldBeNil)
	test.That(t, spindle.RPM(), test.ShouldEqual, 8000.0)
	test.That(t, motor.RPM(), test.ShouldEqual, 8000.0)

	test.That(t, spindle.SetRPM(ctx, 12000), test.ShouldNotBeNil)
	test.That(t, spindle.RPM(), test.ShouldEqual, 8000.0)

	test.That(t, spindle.Dismount(ctx), test.ShouldBeNil)
	test.That(t, motor.RPM(), test.ShouldEqual, 0.0)
}

func TestAxisTools(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	axis := component.NewStepper("wrist", fake.NewStepper("wrist", fake.WithTimeScale(1000)), logger)

	joint := tool.NewAxialJoint(axis, 2, 40, 0.2)
	moved, err := joint.RotateAbs(ctx, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved, test.ShouldEqual, units.Delta(1))
	moved, err = joint.RotateRel(ctx, -0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved, test.ShouldEqual, units.Delta(-0.5))
	test.That(t, joint.Axis().Gamma(), test.ShouldEqual, units.Gamma(0.5))

	lo, hi := units.Gamma(-1), units.Gamma(1)
	axis.SetLimit(&lo, &hi)
	tongs := tool.NewAxisTongs(axis, 2, fake.NewServo("grip"), 0, 1, 90, 0.4)
	_, err = tongs.RotateAbs(ctx, 2)
	var limitErr *component.LimitError
	test.That(t, errors.As(err, &limitErr), test.ShouldBeTrue)
	test.That(t, tongs.Vec(), test.ShouldResemble, r3.Vector{Y: 90})
	test.That(t, tongs.Activate(ctx), test.ShouldBeNil)
}
