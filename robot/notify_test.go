package robot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/robot"
	"go.viam.com/sybot/testutils/inject"
	"go.viam.com/sybot/units"
)

func waitEvent(t *testing.T, events <-chan robot.Event, kind robot.EventKind) robot.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %q event received", kind)
		}
	}
}

func TestNotifierReceivesEvents(t *testing.T) {
	ctx := context.Background()
	events := make(chan robot.Event, 64)
	notifier := &inject.Notifier{NotifyFunc: func(ctx context.Context, ev robot.Event) error {
		events <- ev
		return nil
	}}
	r, _ := newRobot(t, 1000, nil, robot.WithNotifier(notifier))

	_, err := r.DriveCompRel(ctx, 0, 0.2)
	test.That(t, err, test.ShouldBeNil)
	ev := waitEvent(t, events, robot.EventPhis)
	test.That(t, ev.Phis, test.ShouldHaveLength, 4)
	test.That(t, ev.Phis[0], test.ShouldAlmostEqual, 0.2, 1e-9)
	test.That(t, ev.Time.IsZero(), test.ShouldBeFalse)

	_, err = r.Measure(ctx)
	test.That(t, err, test.ShouldBeNil)
	homed := waitEvent(t, events, robot.EventHomed)
	test.That(t, homed.ID, test.ShouldNotEqual, ev.ID)

	test.That(t, r.SetToolID(ctx, 1), test.ShouldBeNil)
	test.That(t, waitEvent(t, events, robot.EventTool).ToolID, test.ShouldEqual, 1)
}

func TestFailingNotifierIsLogged(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedTestLogger(t)
	mach := machine.DefaultConfig()
	comps, _ := newComps(t, mach, 1000, nil)
	notifier := &inject.Notifier{NotifyFunc: func(ctx context.Context, ev robot.Event) error {
		return errors.New("client gone")
	}}
	r, err := robot.New(ctx, mach, comps, nil, logger, robot.WithNotifier(notifier))
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()

	_, err = r.DriveRel(ctx, []units.Delta{0.1, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)

	deadline := time.Now().Add(2 * time.Second)
	for logs.FilterMessage("failed to deliver notification").Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	test.That(t, logs.FilterMessage("failed to deliver notification").Len(), test.ShouldBeGreaterThan, 0)
}

func TestBlockingNotifierNeverBlocksRobot(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedTestLogger(t)
	mach := machine.DefaultConfig()
	comps, _ := newComps(t, mach, 1000, nil)
	notifier := &inject.Notifier{NotifyFunc: func(ctx context.Context, ev robot.Event) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	r, err := robot.New(ctx, mach, comps, nil, logger, robot.WithNotifier(notifier), robot.WithQueueSize(1))
	test.That(t, err, test.ShouldBeNil)

	start := time.Now()
	for i := 0; i < 5; i++ {
		test.That(t, r.Update(nil), test.ShouldBeNil)
	}
	test.That(t, time.Since(start), test.ShouldBeLessThan, time.Second)
	test.That(t, logs.FilterMessage("notification queue full, dropping event").Len(), test.ShouldBeGreaterThanOrEqualTo, 3)

	test.That(t, r.Close(), test.ShouldBeNil)
	test.That(t, r.Close(), test.ShouldBeNil)
}

func TestCloseDeliversQueuedEvents(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedTestLogger(t)
	mach := machine.DefaultConfig()
	comps, _ := newComps(t, mach, 1000, nil)

	var mu sync.Mutex
	var delivered []robot.Event
	notifier := &inject.Notifier{NotifyFunc: func(ctx context.Context, ev robot.Event) error {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		delivered = append(delivered, ev)
		mu.Unlock()
		return nil
	}}
	r, err := robot.New(ctx, mach, comps, nil, logger, robot.WithNotifier(notifier))
	test.That(t, err, test.ShouldBeNil)

	for i := 0; i < 5; i++ {
		test.That(t, r.Update(nil), test.ShouldBeNil)
	}
	test.That(t, r.Close(), test.ShouldBeNil)

	mu.Lock()
	defer mu.Unlock()
	test.That(t, delivered, test.ShouldHaveLength, 5)
	for _, ev := range delivered {
		test.That(t, ev.Kind, test.ShouldEqual, robot.EventPhis)
	}
	test.That(t, logs.FilterMessage("dropping notification on close").Len(), test.ShouldEqual, 0)
}
