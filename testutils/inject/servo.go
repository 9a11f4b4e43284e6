package inject

import (
	"context"
)

// Servo is an injectable tool.Servo.
type Servo struct {
	SetPositionFunc func(ctx context.Context, pos float64) error
}

// SetPosition calls the injected SetPositionFunc, doing nothing if unset.
func (s *Servo) SetPosition(ctx context.Context, pos float64) error {
	if s.SetPositionFunc == nil {
		return nil
	}
	return s.SetPositionFunc(ctx, pos)
}
