// Package inject provides test doubles whose behavior is set per test through function
// fields. Unset fields fall back to the embedded implementation.
package inject

import (
	"context"

	"go.viam.com/sybot/robot"
)

// Notifier is an injectable robot.Notifier.
type Notifier struct {
	NotifyFunc func(ctx context.Context, ev robot.Event) error
}

// Notify calls the injected NotifyFunc, doing nothing if unset.
func (n *Notifier) Notify(ctx context.Context, ev robot.Event) error {
	if n.NotifyFunc == nil {
		return nil
	}
	return n.NotifyFunc(ctx, ev)
}
