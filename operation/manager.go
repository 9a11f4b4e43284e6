// Package operation makes sure an axis runs one motion at a time.
package operation

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// SingleOperationManager ensures only 1 operation is happening a time.
// An operation can be nested, so if there is already an operation in progress,
// it can have sub-operations without an issue.
type SingleOperationManager struct {
	mu        sync.Mutex
	currentOp *anOp
}

type somCtxKey byte

const somCtxKeySingleOp = somCtxKey(iota)

// CancelRunning cancels the current operation unless it's mine.
func (sm *SingleOperationManager) CancelRunning(ctx context.Context) {
	if ctx.Value(somCtxKeySingleOp) != nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cancelInLock(ctx)
}

// OpRunning returns if there is a current operation.
func (sm *SingleOperationManager) OpRunning() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.currentOp != nil
}

// New creates a new operation, cancels the previous one, and returns the operation's context
// plus a function to call when done.
func (sm *SingleOperationManager) New(ctx context.Context) (context.Context, func()) {
	// nested ops run inside their parent
	if ctx.Value(somCtxKeySingleOp) != nil {
		return ctx, func() {}
	}

	sm.mu.Lock()
	sm.cancelInLock(ctx)

	theOp := &anOp{}
	ctx = context.WithValue(ctx, somCtxKeySingleOp, theOp)
	theOp.ctx, theOp.cancelFunc = context.WithCancel(ctx)
	sm.currentOp = theOp
	sm.mu.Unlock()

	return theOp.ctx, func() {
		theOp.cancelFunc()
		sm.mu.Lock()
		if theOp == sm.currentOp {
			sm.currentOp = nil
		}
		sm.mu.Unlock()
	}
}

// NewTimedWaitOp returns true if the wait of dur on clk finished, false if it was cancelled.
// If there are other operations pending, this will cancel them.
func (sm *SingleOperationManager) NewTimedWaitOp(ctx context.Context, clk clock.Clock, dur time.Duration) bool {
	ctx, finish := sm.New(ctx)
	defer finish()

	return SelectContextOrWait(ctx, clk, dur)
}

// SelectContextOrWait waits dur on clk. It returns false if ctx was done first.
func SelectContextOrWait(ctx context.Context, clk clock.Clock, dur time.Duration) bool {
	if dur <= 0 {
		return ctx.Err() == nil
	}
	timer := clk.Timer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	return true
}

func (sm *SingleOperationManager) cancelInLock(ctx context.Context) {
	myOp := ctx.Value(somCtxKeySingleOp)
	op := sm.currentOp

	if op == nil || myOp == op {
		return
	}

	op.cancelFunc()
	sm.currentOp = nil
}

type anOp struct {
	ctx        context.Context
	cancelFunc context.CancelFunc
}
