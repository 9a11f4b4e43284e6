package fake

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

func TestMove(t *testing.T) {
	ctx := context.Background()
	s := NewStepper("m", WithTimeScale(100))

	moved, err := s.Move(ctx, 1.5, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved, test.ShouldEqual, units.Delta(1.5))
	test.That(t, s.Position(), test.ShouldEqual, units.Gamma(1.5))
	test.That(t, s.Moves(), test.ShouldEqual, int64(1))

	_, err = s.Move(ctx, 1, 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, s.Moves(), test.ShouldEqual, int64(1))
}

func TestMoveTakesTime(t *testing.T) {
	s := NewStepper("m")
	start := time.Now()
	_, err := s.Move(context.Background(), 0.1, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, time.Since(start), test.ShouldBeGreaterThanOrEqualTo, 100*time.Millisecond)
}

func TestMoveCancelled(t *testing.T) {
	s := NewStepper("m")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	moved, err := s.Move(ctx, 10, 1)
	test.That(t, errors.Is(err, context.DeadlineExceeded), test.ShouldBeTrue)
	test.That(t, moved, test.ShouldBeGreaterThan, units.Delta(0))
	test.That(t, moved, test.ShouldBeLessThan, units.Delta(10))
	test.That(t, s.Position(), test.ShouldEqual, units.Gamma(moved))
}

func TestMoveAsync(t *testing.T) {
	ctx := context.Background()
	s := NewStepper("m", WithTimeScale(10))

	test.That(t, s.MoveAsync(ctx, -1, 10), test.ShouldBeNil)
	moved, err := s.Wait(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved, test.ShouldEqual, units.Delta(-1))
	test.That(t, s.Position(), test.ShouldEqual, units.Gamma(-1))

	// nothing pending
	moved, err = s.Wait(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved, test.ShouldEqual, units.Delta(0))

	test.That(t, s.MoveAsync(ctx, 1, -1), test.ShouldNotBeNil)
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	s := NewStepper("m")
	test.That(t, s.MoveAsync(ctx, 100, 1), test.ShouldBeNil)
	for !s.IsMoving() {
		time.Sleep(time.Millisecond)
	}
	s.Stop()
	moved, err := s.Wait(ctx)
	test.That(t, errors.Is(err, ErrMotionInterrupted), test.ShouldBeTrue)
	test.That(t, moved, test.ShouldBeLessThan, units.Delta(100))
}

func TestHome(t *testing.T) {
	ctx := context.Background()

	t.Run("switch at the end of the run", func(t *testing.T) {
		s := NewStepper("m", WithTimeScale(100))
		reached, err := s.Home(ctx, -2, 5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, reached, test.ShouldBeTrue)
		test.That(t, s.Position(), test.ShouldEqual, units.Gamma(-2))
	})

	t.Run("switch within reach", func(t *testing.T) {
		s := NewStepper("m", WithTimeScale(100), WithPosition(1), WithReference(-0.5))
		reached, err := s.Home(ctx, -2, 5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, reached, test.ShouldBeTrue)
		test.That(t, s.Position(), test.ShouldEqual, units.Gamma(-0.5))
	})

	t.Run("switch behind the run", func(t *testing.T) {
		s := NewStepper("m", WithTimeScale(100), WithReference(-0.5))
		reached, err := s.Home(ctx, 1, 5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, reached, test.ShouldBeFalse)
		test.That(t, s.Position(), test.ShouldEqual, units.Gamma(1))
	})

	t.Run("switch out of reach", func(t *testing.T) {
		s := NewStepper("m", WithTimeScale(100), WithReference(-5))
		reached, err := s.Home(ctx, -1, 5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, reached, test.ShouldBeFalse)
	})

	t.Run("no switch", func(t *testing.T) {
		s := NewStepper("m", WithTimeScale(100), WithoutSwitch())
		test.That(t, s.HomeAsync(ctx, 1, 5), test.ShouldBeNil)
		moved, err := s.Wait(ctx)
		test.That(t, errors.Is(err, component.ErrReferenceNotReached), test.ShouldBeTrue)
		test.That(t, moved, test.ShouldEqual, units.Delta(1))
	})
}

func TestSetLoad(t *testing.T) {
	s := NewStepper("m")
	s.SetLoad(2, 0.5)
	force, inertia := s.Load()
	test.That(t, force, test.ShouldEqual, units.Force(2))
	test.That(t, inertia, test.ShouldEqual, units.Inertia(0.5))
}

func TestServoAndMotor(t *testing.T) {
	ctx := context.Background()
	servo := NewServo("s")
	test.That(t, servo.SetPosition(ctx, 0.75), test.ShouldBeNil)
	test.That(t, servo.Position(), test.ShouldEqual, 0.75)
	test.That(t, servo.SetPosition(ctx, 1.5), test.ShouldNotBeNil)
	test.That(t, servo.Position(), test.ShouldEqual, 0.75)

	motor := NewMotor("m", 1000)
	test.That(t, motor.SetRPM(ctx, -500), test.ShouldBeNil)
	test.That(t, motor.RPM(), test.ShouldEqual, -500.0)
	test.That(t, motor.SetRPM(ctx, 2000), test.ShouldNotBeNil)
	test.That(t, motor.RPM(), test.ShouldEqual, -500.0)
}
