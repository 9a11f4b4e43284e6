package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestRunEach(t *testing.T) {
	ctx := context.Background()

	t.Run("runs in parallel", func(t *testing.T) {
		elapsed, errs, err := RunEach(ctx, 4, func(ctx context.Context, index int) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, errs, test.ShouldResemble, []error{nil, nil, nil, nil})
		test.That(t, elapsed, test.ShouldBeLessThan, 150*time.Millisecond)
	})

	t.Run("a failure does not stop the others", func(t *testing.T) {
		var finished int32
		boom := errors.New("boom")
		_, errs, err := RunEach(ctx, 3, func(ctx context.Context, index int) error {
			if index == 1 {
				return boom
			}
			time.Sleep(10 * time.Millisecond)
			if ctx.Err() == nil {
				atomic.AddInt32(&finished, 1)
			}
			return nil
		})
		test.That(t, errors.Is(err, boom), test.ShouldBeTrue)
		test.That(t, errs[0], test.ShouldBeNil)
		test.That(t, errs[1], test.ShouldEqual, boom)
		test.That(t, errs[2], test.ShouldBeNil)
		test.That(t, atomic.LoadInt32(&finished), test.ShouldEqual, int32(2))
	})

	t.Run("panics are reported", func(t *testing.T) {
		_, errs, err := RunEach(ctx, 2, func(ctx context.Context, index int) error {
			if index == 0 {
				panic("kaboom")
			}
			return nil
		})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errs[0].Error(), test.ShouldContainSubstring, "kaboom")
		test.That(t, errs[1], test.ShouldBeNil)
	})

	t.Run("GetEach", func(t *testing.T) {
		vals, _, err := GetEach(ctx, 3, func(ctx context.Context, index int) (int, error) {
			return index * index, nil
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, vals, test.ShouldResemble, []int{0, 1, 4})
	})
}

func TestStoppableWorkers(t *testing.T) {
	var ticks int32
	workers := NewStoppableWorkers(0, func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
				atomic.AddInt32(&ticks, 1)
			}
		}
	})
	time.Sleep(20 * time.Millisecond)
	workers.Stop()
	test.That(t, workers.Context().Err(), test.ShouldNotBeNil)
	test.That(t, atomic.LoadInt32(&ticks), test.ShouldBeGreaterThan, 0)

	// adding after Stop is a no-op
	workers.AddWorkers(func(ctx context.Context) { atomic.StoreInt32(&ticks, -1) })
	test.That(t, atomic.LoadInt32(&ticks), test.ShouldBeGreaterThan, 0)
}

func TestStoppableWorkersDrain(t *testing.T) {
	queue := make(chan int, 8)
	for i := 0; i < 5; i++ {
		queue <- i
	}
	var handled int32
	var sawCancel atomic.Bool

	var workers StoppableWorkers
	started := make(chan struct{})
	workers = NewStoppableWorkers(time.Second, func(ctx context.Context) {
		<-started
		<-workers.Draining()
		for {
			select {
			case <-queue:
				atomic.AddInt32(&handled, 1)
			default:
				sawCancel.Store(ctx.Err() != nil)
				return
			}
		}
	})
	close(started)
	workers.Stop()
	test.That(t, atomic.LoadInt32(&handled), test.ShouldEqual, int32(5))
	test.That(t, sawCancel.Load(), test.ShouldBeFalse)
	test.That(t, workers.Context().Err(), test.ShouldNotBeNil)

	t.Run("grace runs out", func(t *testing.T) {
		stuck := NewStoppableWorkers(20*time.Millisecond, func(ctx context.Context) {
			<-ctx.Done()
		})
		start := time.Now()
		stuck.Stop()
		test.That(t, time.Since(start), test.ShouldBeGreaterThanOrEqualTo, 20*time.Millisecond)
		stuck.Stop()
	})
}
