package utils

import (
	"context"
	"sync"
	"time"

	goutils "go.viam.com/utils"
)

// StoppableWorkers is a collection of background loops that can be stopped at a later time.
//
// Stopping happens in two steps. Draining is closed first: loops holding queued work may
// finish it and return. Once every loop returned, or the grace period ran out, the context
// of the loops is cancelled.
type StoppableWorkers interface {
	AddWorkers(...func(context.Context))
	Draining() <-chan struct{}
	Stop()
	Context() context.Context
}

// stoppableWorkersImpl is only ever handed out through the interface so the WaitGroup is
// never copied.
type stoppableWorkersImpl struct {
	grace time.Duration

	mu                      sync.Mutex
	draining                chan struct{}
	drainOnce               sync.Once
	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewStoppableWorkers runs the functions in separate goroutines. Stop gives them up to grace
// to drain before cancelling them; zero cancels right away.
func NewStoppableWorkers(grace time.Duration, funcs ...func(context.Context)) StoppableWorkers {
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	workers := &stoppableWorkersImpl{
		grace:      grace,
		draining:   make(chan struct{}),
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	workers.AddWorkers(funcs...)
	return workers
}

// AddWorkers starts up additional goroutines for each function passed in. Once Stop was
// called it returns without starting anything.
func (sw *stoppableWorkersImpl) AddWorkers(funcs ...func(context.Context)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.stopping() {
		return
	}

	sw.activeBackgroundWorkers.Add(len(funcs))
	for _, f := range funcs {
		goutils.PanicCapturingGo(func() {
			defer sw.activeBackgroundWorkers.Done()
			f(sw.cancelCtx)
		})
	}
}

// Draining is closed when Stop was called.
func (sw *stoppableWorkersImpl) Draining() <-chan struct{} {
	return sw.draining
}

// Stop drains and then shuts down all the goroutines and waits for them to return. Calling
// it again is a no-op.
func (sw *stoppableWorkersImpl) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.drainOnce.Do(func() { close(sw.draining) })

	done := make(chan struct{})
	goutils.PanicCapturingGo(func() {
		sw.activeBackgroundWorkers.Wait()
		close(done)
	})
	if sw.grace > 0 {
		timer := time.NewTimer(sw.grace)
		defer timer.Stop()
		select {
		case <-done:
		case <-timer.C:
		}
	}
	sw.cancelFunc()
	<-done
}

// Context gets the context the workers are checking on.
func (sw *stoppableWorkersImpl) Context() context.Context {
	return sw.cancelCtx
}

func (sw *stoppableWorkersImpl) stopping() bool {
	select {
	case <-sw.draining:
		return true
	default:
		return false
	}
}
