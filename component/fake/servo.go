package fake

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Servo is a simulated hobby servo holding a position in [0, 1].
type Servo struct {
	Name string
	pos  atomic.Float64
}

// NewServo returns a servo resting at 0.
func NewServo(name string) *Servo {
	return &Servo{Name: name}
}

// SetPosition moves the servo to pos.
func (s *Servo) SetPosition(ctx context.Context, pos float64) error {
	if pos < 0 || pos > 1 {
		return errors.Errorf("servo position must be in [0, 1], got %v", pos)
	}
	s.pos.Store(pos)
	return ctx.Err()
}

// Position returns the last position set.
func (s *Servo) Position() float64 {
	return s.pos.Load()
}

// Motor is a simulated speed controlled motor.
type Motor struct {
	Name   string
	maxRPM float64
	rpm    atomic.Float64
}

// NewMotor returns a stopped motor that refuses speeds above maxRPM.
func NewMotor(name string, maxRPM float64) *Motor {
	return &Motor{Name: name, maxRPM: maxRPM}
}

// SetRPM runs the motor at rpm, a negative value turning it backwards.
func (m *Motor) SetRPM(ctx context.Context, rpm float64) error {
	if m.maxRPM > 0 && (rpm > m.maxRPM || rpm < -m.maxRPM) {
		return errors.Errorf("speed %v exceeds the maximum of %v rpm", rpm, m.maxRPM)
	}
	m.rpm.Store(rpm)
	return ctx.Err()
}

// RPM returns the current speed.
func (m *Motor) RPM() float64 {
	return m.rpm.Load()
}
