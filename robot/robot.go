// Package robot ties the geometry of an arm, its axis components and its tools together.
// A Robot validates every target before anything moves, keeps the pose and the tool
// center point current and feeds the resulting loads back into the components.
package robot

import (
	"context"
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/kinematics"
	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/statics"
	"go.viam.com/sybot/tool"
	"go.viam.com/sybot/units"
)

// An Option configures a Robot.
type Option func(*options)

type options struct {
	notifier  Notifier
	queueSize int
}

// WithNotifier sends the events of the Robot to n.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithQueueSize sets how many events may wait for the Notifier before new ones are dropped.
func WithQueueSize(size int) Option {
	return func(o *options) { o.queueSize = size }
}

// Robot is an arm built from a machine description, one component per axis and a list of
// tools of which exactly one is active.
type Robot struct {
	mach   *machine.Config
	comps  component.Group
	tools  []tool.Tool
	logger logging.Logger
	events *dispatcher

	closeOnce sync.Once

	mu     sync.Mutex
	vars   Vars
	toolID int
	state  State
	// busy is held by every motion, and by asynchronous ones until AwaitInactive
	busy   bool
	async  bool
	homing bool
	phis   []units.Phi
	vecs   kinematics.Vectors
	points kinematics.Points
}

// New builds a Robot, puts every axis at its home position and mounts the first tool. An
// empty tool list gets the bare flange.
func New(
	ctx context.Context,
	mach *machine.Config,
	comps component.Group,
	tools []tool.Tool,
	logger logging.Logger,
	opts ...Option,
) (*Robot, error) {
	if err := mach.Validate("machine"); err != nil {
		return nil, machine.NewConfigurationError("machine", err)
	}
	if err := kinematics.ValidateTopology(mach); err != nil {
		return nil, machine.NewConfigurationError("machine", err)
	}
	if len(comps) != mach.Len() {
		return nil, machine.NewConfigurationError("components",
			errors.Errorf("expected %d components, got %d", mach.Len(), len(comps)))
	}
	for i, c := range comps {
		if c == nil {
			return nil, machine.NewConfigurationError("components", errors.Errorf("component %d is missing", i))
		}
	}
	if len(tools) == 0 {
		tools = []tool.Tool{tool.NewNoTool()}
	}

	o := options{queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Robot{
		mach:   mach,
		comps:  comps,
		tools:  tools,
		logger: logger,
		vars:   Vars{SpeedFactor: 1},
		state:  Unconfigured,
	}
	if err := multierr.Combine(comps.SetLimits(mach.Limits), comps.WriteGammas(mach.Home)); err != nil {
		return nil, err
	}
	if err := r.tools[0].Mount(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to mount tool %q", r.tools[0].Name())
	}

	r.mu.Lock()
	err := r.refreshLocked()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if o.notifier != nil {
		r.events = newDispatcher(o.notifier, o.queueSize, logger.Sublogger("notify"))
	}
	logger.Infow("robot created", "name", mach.Name, "axes", mach.Len(), "tools", len(tools))
	return r, nil
}

// Close stops the delivery of events.
func (r *Robot) Close() error {
	r.closeOnce.Do(func() {
		if r.events != nil {
			r.events.close()
		}
	})
	return nil
}

// Mach returns the machine description.
func (r *Robot) Mach() *machine.Config {
	return r.mach
}

// Comps returns the axis components.
func (r *Robot) Comps() component.Group {
	return r.comps
}

// State returns the lifecycle stage.
func (r *Robot) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Vars returns a copy of the mutable values.
func (r *Robot) Vars() Vars {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vars
}

// Pos returns the tool center point of the last update.
func (r *Robot) Pos() r3.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vars.Point
}

// Vecs returns the segment vectors of the last update.
func (r *Robot) Vecs() kinematics.Vectors {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(kinematics.Vectors(nil), r.vecs...)
}

// Points returns the joint positions of the last update.
func (r *Robot) Points() kinematics.Points {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(kinematics.Points(nil), r.points...)
}

// Gammas returns the current position of every axis.
func (r *Robot) Gammas() []units.Gamma {
	return r.comps.Gammas()
}

// Phis returns the current joint angles.
func (r *Robot) Phis() []units.Phi {
	return r.mach.PhisFromGammas(r.comps.Gammas())
}

// GammasFromPhis converts joint angles into axis positions.
func (r *Robot) GammasFromPhis(phis []units.Phi) []units.Gamma {
	return r.mach.GammasFromPhis(phis)
}

// PhisFromGammas converts axis positions into joint angles.
func (r *Robot) PhisFromGammas(gammas []units.Gamma) []units.Phi {
	return r.mach.PhisFromGammas(gammas)
}

// ValidGammas reports for every axis whether its target is finite and within the limits.
// If any is not, the error is a *ValidationError.
func (r *Robot) ValidGammas(gammas []units.Gamma) ([]bool, error) {
	valids, err := r.comps.ValidGammas(gammas)
	if err != nil {
		return nil, err
	}
	if lo.Contains(valids, false) {
		return valids, &ValidationError{Valids: valids}
	}
	return valids, nil
}

// ValidPhis is ValidGammas for joint angles.
func (r *Robot) ValidPhis(phis []units.Phi) ([]bool, error) {
	if len(phis) != r.mach.Len() {
		return nil, errors.Errorf("expected %d phis, got %d", r.mach.Len(), len(phis))
	}
	return r.ValidGammas(r.mach.GammasFromPhis(phis))
}

// VecsFromPhis returns the segment vectors of the pose phis.
func (r *Robot) VecsFromPhis(phis []units.Phi) kinematics.Vectors {
	return kinematics.VecsFromPhis(r.mach, phis)
}

// PointsFromVecs returns the joint positions of the pose phis with the segment vectors
// vecs, the tip carrying the active tool.
func (r *Robot) PointsFromVecs(vecs kinematics.Vectors, phis []units.Phi) kinematics.Points {
	return kinematics.PointsFromVecs(r.mach, vecs, kinematics.ToolVec(r.mach, phis, r.Tool().Vec()))
}

// PointsFromPhis returns the joint positions of the pose phis.
func (r *Robot) PointsFromPhis(phis []units.Phi) kinematics.Points {
	return kinematics.PointsFromPhis(r.mach, phis, r.Tool().Vec())
}

// PhisFromDefVec solves the planar arm for a wrist point, leaving the wrist at zero.
func (r *Robot) PhisFromDefVec(pos r3.Vector) ([]units.Phi, error) {
	return kinematics.PhisFromDefVec(r.mach, pos)
}

// ReduceToDef returns the wrist point the arm has to reach to put the active tool at pos
// with the orientation deco.
func (r *Robot) ReduceToDef(pos r3.Vector, deco float64) r3.Vector {
	return kinematics.ReduceToDef(r.mach, pos, deco, r.Tool().Vec())
}

// PhisFromVec returns the joint angles that put the active tool at pos with the
// orientation deco.
func (r *Robot) PhisFromVec(pos r3.Vector, deco float64) ([]units.Phi, error) {
	return kinematics.PhisFromVec(r.mach, pos, deco, r.Tool().Vec())
}

// CylVectors returns the lines of the linear actuators in the pose phis.
func (r *Robot) CylVectors(phis []units.Phi) statics.CylVectors {
	return statics.CylVectorsFromPhis(r.mach, phis)
}

// InertiasFromPhis returns the load inertia of every axis in the pose phis.
func (r *Robot) InertiasFromPhis(phis []units.Phi) []units.Inertia {
	return statics.Inertias(r.staticsInput(phis))
}

// ForcesFromPhis returns the gravity load of every axis in the pose phis.
func (r *Robot) ForcesFromPhis(phis []units.Phi) []units.Force {
	return statics.Forces(r.staticsInput(phis))
}

func (r *Robot) staticsInput(phis []units.Phi) statics.Input {
	r.mu.Lock()
	t, load := r.tools[r.toolID], r.vars.Load
	r.mu.Unlock()
	return statics.NewInput(r.mach, phis, t.Vec(), t.Mass(), load)
}

// Update recomputes the pose and the loads from phis, or from the current axis positions
// if phis is nil, and hands the loads to the components.
func (r *Robot) Update(phis []units.Phi) error {
	if phis != nil {
		if _, err := r.ValidPhis(phis); err != nil {
			return err
		}
	}

	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return ErrMotionInFlight
	}
	var err error
	if phis == nil {
		err = r.refreshLocked()
	} else {
		err = r.applyLocked(phis)
	}
	if r.state == Homed {
		r.state = Ready
	}
	phis = r.phis
	r.mu.Unlock()

	r.publish(phisEvent(phis))
	return err
}

// refreshLocked recomputes the pose from the current axis positions.
func (r *Robot) refreshLocked() error {
	return r.applyLocked(r.mach.PhisFromGammas(r.comps.Gammas()))
}

func (r *Robot) applyLocked(phis []units.Phi) error {
	t := r.tools[r.toolID]
	in := statics.NewInput(r.mach, phis, t.Vec(), t.Mass(), r.vars.Load)

	r.phis = append([]units.Phi(nil), phis...)
	r.vecs = in.Vecs
	r.points = kinematics.PointsFromVecs(r.mach, in.Vecs, in.ToolVec)
	r.vars.Point = r.points.Tip()

	return multierr.Combine(
		r.comps.ApplyLoadForces(statics.Forces(in)),
		r.comps.ApplyLoadInertias(statics.Inertias(in)),
	)
}

// Tool returns the active tool.
func (r *Robot) Tool() tool.Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tools[r.toolID]
}

// ToolID returns the index of the active tool.
func (r *Robot) ToolID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.toolID
}

// Tools returns every tool of the Robot.
func (r *Robot) Tools() []tool.Tool {
	return append([]tool.Tool(nil), r.tools...)
}

// SetToolID makes the tool at id the active one, dismounting the previous tool. If either
// step fails the previous tool stays active.
func (r *Robot) SetToolID(ctx context.Context, id int) error {
	if id < 0 || id >= len(r.tools) {
		return &ToolIndexError{Index: id, Count: len(r.tools)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrMotionInFlight
	}
	if id == r.toolID {
		return nil
	}

	prev, next := r.tools[r.toolID], r.tools[id]
	if err := prev.Dismount(ctx); err != nil {
		return errors.Wrapf(err, "failed to dismount tool %q", prev.Name())
	}
	if err := next.Mount(ctx); err != nil {
		err = errors.Wrapf(err, "failed to mount tool %q", next.Name())
		return multierr.Combine(err, errors.Wrap(prev.Mount(ctx), "failed to remount the previous tool"))
	}
	r.toolID = id
	r.logger.Infow("tool changed", "id", id, "tool", next.Name())

	err := r.refreshLocked()
	ev := newEvent(EventTool)
	ev.ToolID = id
	r.publish(ev)
	return err
}

// SetPayload sets the mass carried by the tool in kg.
func (r *Robot) SetPayload(mass float64) error {
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return errors.Errorf("payload must be finite and not negative, got %v", mass)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrMotionInFlight
	}
	r.vars.Load = mass
	return r.refreshLocked()
}

// SetSpeedFactor scales every axis velocity by factor.
func (r *Robot) SetSpeedFactor(factor float64) error {
	if factor <= 0 || factor > 1 || math.IsNaN(factor) {
		return errors.Errorf("speed factor must be in (0, 1], got %v", factor)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars.SpeedFactor = factor
	return nil
}

// SetEndpoint overwrites the axis positions without moving, for instance after the arm was
// moved by hand.
func (r *Robot) SetEndpoint(gammas []units.Gamma) error {
	if _, err := r.ValidGammas(gammas); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrMotionInFlight
	}
	if err := r.comps.WriteGammas(gammas); err != nil {
		return err
	}
	return r.refreshLocked()
}

func (r *Robot) publish(ev Event) {
	if r.events != nil {
		r.events.publish(ev)
	}
}
