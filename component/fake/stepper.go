// Package fake implements a simulated stepper driver. Motions take the time they would take
// on hardware, measured on a clock.Clock, and every asynchronous motion runs in its own
// goroutine.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.viam.com/utils"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/operation"
	"go.viam.com/sybot/units"
)

// ErrMotionInterrupted is returned when a motion was replaced by another one before it
// finished.
var ErrMotionInterrupted = errors.New("motion interrupted")

// An Option configures a Stepper.
type Option func(*Stepper)

// WithClock makes the Stepper measure its motions on clk.
func WithClock(clk clock.Clock) Option {
	return func(s *Stepper) { s.clk = clk }
}

// WithReference places the reference switch at pos. Without it the switch triggers at the
// end of every homing run.
func WithReference(pos units.Gamma) Option {
	return func(s *Stepper) { s.reference = &pos }
}

// WithoutSwitch removes the reference switch: homing runs never reach it.
func WithoutSwitch() Option {
	return func(s *Stepper) { s.noSwitch = true }
}

// WithTimeScale speeds every motion up by factor.
func WithTimeScale(factor float64) Option {
	return func(s *Stepper) { s.timeScale = factor }
}

// WithPosition sets the initial shaft position.
func WithPosition(pos units.Gamma) Option {
	return func(s *Stepper) { s.pos.Store(float64(pos)) }
}

// Stepper is a simulated component.Driver.
type Stepper struct {
	Name string

	clk       clock.Clock
	timeScale float64
	reference *units.Gamma
	noSwitch  bool

	pos   atomic.Float64
	moves atomic.Int64
	opMgr operation.SingleOperationManager

	mu      sync.Mutex
	force   units.Force
	inertia units.Inertia
	pending *motion
}

type motion struct {
	done  chan struct{}
	moved units.Delta
	err   error
}

var _ component.Driver = (*Stepper)(nil)

// NewStepper returns a simulated driver resting at zero.
func NewStepper(name string, opts ...Option) *Stepper {
	s := &Stepper{Name: name, clk: clock.New(), timeScale: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Position returns the shaft position.
func (s *Stepper) Position() units.Gamma {
	return units.Gamma(s.pos.Load())
}

// SetPosition overwrites the shaft position.
func (s *Stepper) SetPosition(pos units.Gamma) {
	s.pos.Store(float64(pos))
}

// Moves returns how many motions were started.
func (s *Stepper) Moves() int64 {
	return s.moves.Load()
}

// IsMoving reports whether a motion is in progress.
func (s *Stepper) IsMoving() bool {
	return s.opMgr.OpRunning()
}

// Move turns the shaft by delta at omega, taking |delta|/omega seconds. If the motion is
// cancelled, the shaft stays where it was at that time.
func (s *Stepper) Move(ctx context.Context, delta units.Delta, omega units.Omega) (units.Delta, error) {
	if omega <= 0 || !omega.IsFinite() {
		return 0, errors.Errorf("velocity must be positive and finite, got %v", omega)
	}
	if !delta.IsFinite() {
		return 0, errors.Errorf("distance must be finite, got %v", delta)
	}
	s.moves.Inc()

	dur := s.duration(delta, omega)
	start := s.clk.Now()
	if s.opMgr.NewTimedWaitOp(ctx, s.clk, dur) {
		s.pos.Add(float64(delta))
		return delta, nil
	}

	elapsed := s.clk.Since(start).Seconds() * s.timeScale
	travelled := math.Min(elapsed*float64(omega), math.Abs(float64(delta)))
	moved := units.Delta(math.Copysign(travelled, float64(delta)))
	s.pos.Add(float64(moved))
	if err := ctx.Err(); err != nil {
		return moved, err
	}
	return moved, ErrMotionInterrupted
}

// MoveAsync starts Move in a new goroutine.
func (s *Stepper) MoveAsync(ctx context.Context, delta units.Delta, omega units.Omega) error {
	if omega <= 0 || !omega.IsFinite() {
		return errors.Errorf("velocity must be positive and finite, got %v", omega)
	}
	s.start(func() (units.Delta, error) {
		return s.Move(ctx, delta, omega)
	})
	return nil
}

// Home turns the shaft by at most dist toward the reference switch.
func (s *Stepper) Home(ctx context.Context, dist units.Delta, omega units.Omega) (bool, error) {
	if s.noSwitch {
		_, err := s.Move(ctx, dist, omega)
		return false, err
	}
	if s.reference == nil {
		_, err := s.Move(ctx, dist, omega)
		return err == nil, err
	}

	toRef := s.reference.Sub(s.Position())
	if toRef != 0 && (math.Signbit(float64(toRef)) != math.Signbit(float64(dist)) || toRef.Abs() > dist.Abs()) {
		_, err := s.Move(ctx, dist, omega)
		return false, err
	}
	if _, err := s.Move(ctx, toRef, omega); err != nil {
		return false, err
	}
	s.pos.Store(float64(*s.reference))
	return true, nil
}

// HomeAsync starts Home in a new goroutine.
func (s *Stepper) HomeAsync(ctx context.Context, dist units.Delta, omega units.Omega) error {
	if omega <= 0 || !omega.IsFinite() {
		return errors.Errorf("velocity must be positive and finite, got %v", omega)
	}
	start := s.Position()
	s.start(func() (units.Delta, error) {
		reached, err := s.Home(ctx, dist, omega)
		moved := s.Position().Sub(start)
		if err == nil && !reached {
			err = component.ErrReferenceNotReached
		}
		return moved, err
	})
	return nil
}

// Wait blocks until the last issued motion finished.
func (s *Stepper) Wait(ctx context.Context) (units.Delta, error) {
	s.mu.Lock()
	m := s.pending
	s.mu.Unlock()
	if m == nil {
		return 0, nil
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-m.done:
	}

	s.mu.Lock()
	if s.pending == m {
		s.pending = nil
	}
	s.mu.Unlock()
	return m.moved, m.err
}

// SetLoad stores the load of the axis.
func (s *Stepper) SetLoad(force units.Force, inertia units.Inertia) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.force = force
	s.inertia = inertia
}

// Load returns the last load set.
func (s *Stepper) Load() (units.Force, units.Inertia) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.force, s.inertia
}

// Stop cancels the motion in progress.
func (s *Stepper) Stop() {
	s.opMgr.CancelRunning(context.Background())
}

func (s *Stepper) start(run func() (units.Delta, error)) {
	m := &motion{done: make(chan struct{})}
	s.mu.Lock()
	s.pending = m
	s.mu.Unlock()

	utils.PanicCapturingGo(func() {
		defer close(m.done)
		m.moved, m.err = run()
	})
}

func (s *Stepper) duration(delta units.Delta, omega units.Omega) time.Duration {
	secs := delta.Duration(omega) / s.timeScale
	return time.Duration(secs * float64(time.Second))
}
