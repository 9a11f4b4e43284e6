// Package statics propagates gravity loads and rigid body inertia from the tool center point
// back to every joint of an arm.
//
// Lengths are in mm and masses in kg. Results are handed to the axis components: rotational
// joints receive N·m and kg·m², joints driven by a linear actuator receive the force along
// the actuator in N and the equivalent mass moved by it in kg.
package statics

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/sybot/kinematics"
	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/spatialmath"
	"go.viam.com/sybot/units"
)

// Gravity is the gravitational acceleration in m/s², pointing down the world Z axis.
var Gravity = r3.Vector{Z: -9.805}

const (
	// InertiaScale converts kg·mm² into kg·m².
	InertiaScale = 1e-6
	// TorqueScale converts N·mm into N·m.
	TorqueScale = 1e-3
)

// CylVector is the line of a linear actuator in world space. Pos and ParentPos are the
// child attachment and the parent mount, both relative to the pivot of the driven joint.
// Dir points from the parent mount to the child attachment.
type CylVector struct {
	Dir       r3.Vector
	Pos       r3.Vector
	ParentPos r3.Vector
}

// Lever returns the moment arm of a unit force along the actuator about axis.
func (c *CylVector) Lever(axis r3.Vector) float64 {
	if c.Dir.Norm2() == 0 {
		return 0
	}
	return c.Pos.Cross(c.Dir.Normalize()).Dot(axis.Normalize())
}

// CylVectors has one entry per axis, nil for joints without a linear actuator.
type CylVectors []*CylVector

// CylVectorsFromPhis places the actuator mounts of cfg in world space for the given pose.
func CylVectorsFromPhis(cfg *machine.Config, phis []units.Phi) CylVectors {
	frames := kinematics.FramesFromPhis(cfg, phis)
	lines := make(CylVectors, cfg.Len())
	for i := range lines {
		mount := cfg.MountAt(i)
		if mount == nil {
			continue
		}
		parentFrame := spatialmath.NewIdentityRotation()
		if i > 0 {
			parentFrame = frames[i-1]
		}
		pos := frames[i].Apply(mount.Child)
		parentPos := parentFrame.Apply(mount.Parent)
		lines[i] = &CylVector{Dir: pos.Sub(parentPos), Pos: pos, ParentPos: parentPos}
	}
	return lines
}

// Input gathers everything the engine needs about one pose. Vecs, Axes and ToolVec are in
// world space.
type Input struct {
	Vecs     kinematics.Vectors
	Axes     []r3.Vector
	Masses   []float64
	ToolVec  r3.Vector
	ToolMass float64
	Payload  float64
	Lines    CylVectors
}

// NewInput assembles the engine input of cfg in the pose phis.
func NewInput(cfg *machine.Config, phis []units.Phi, toolVec r3.Vector, toolMass, payload float64) Input {
	return Input{
		Vecs:     kinematics.VecsFromPhis(cfg, phis),
		Axes:     kinematics.AxesFromPhis(cfg, phis),
		Masses:   cfg.Masses(),
		ToolVec:  kinematics.ToolVec(cfg, phis, toolVec),
		ToolMass: toolMass,
		Payload:  payload,
		Lines:    CylVectorsFromPhis(cfg, phis),
	}
}

func (in Input) line(i int) *CylVector {
	if i >= len(in.Lines) {
		return nil
	}
	return in.Lines[i]
}

// Tensors returns the inertia tensor, in kg·mm², of everything moved by every joint about
// that joint's pivot. Segments are uniform rods, tool and payload a point mass at the tip.
func Tensors(in Input) []*mat.SymDense {
	n := len(in.Vecs)
	tensors := make([]*mat.SymDense, n)
	segments := make([]spatialmath.Segment, 0, n)
	tip := in.ToolVec
	for i := n - 1; i >= 0; i-- {
		tip = tip.Add(in.Vecs[i])
		segments = append([]spatialmath.Segment{{Mass: in.Masses[i], Vec: in.Vecs[i]}}, segments...)
		tensors[i] = spatialmath.InertiaSum(
			spatialmath.InertiaRods(segments),
			spatialmath.InertiaPoint(tip, in.ToolMass+in.Payload),
		)
	}
	return tensors
}

// Inertias returns the load inertia of every axis.
func Inertias(in Input) []units.Inertia {
	tensors := Tensors(in)
	inertias := make([]units.Inertia, len(tensors))
	for i, j := range tensors {
		if line := in.line(i); line != nil {
			inertias[i] = InertiaToMass(j, in.Axes[i], line)
			continue
		}
		inertias[i] = units.Inertia(spatialmath.AxisInertia(j, in.Axes[i]) * InertiaScale)
	}
	return inertias
}

// InertiaToMass returns the mass that, moved along the actuator line, has the same kinetic
// energy as the body of inertia j rotating about axis. A body without inertia needs no
// mass; a line through the pivot cannot move the body at all and yields +Inf.
func InertiaToMass(j mat.Symmetric, axis r3.Vector, line *CylVector) units.Inertia {
	moment := spatialmath.AxisInertia(j, axis)
	if moment == 0 {
		return 0
	}
	lever := line.Lever(axis)
	if lever == 0 {
		return units.Inertia(math.Inf(1))
	}
	return units.Inertia(moment / (lever * lever))
}

// PointLoad is a force applied at a position.
type PointLoad struct {
	Force r3.Vector
	Pos   r3.Vector
}

// ForcesJoint returns the torque (N·mm) and the force (N) the loads exert about pivot.
func ForcesJoint(loads []PointLoad, pivot r3.Vector) (torque, force r3.Vector) {
	for _, load := range loads {
		torque = torque.Add(load.Pos.Sub(pivot).Cross(load.Force))
		force = force.Add(load.Force)
	}
	return torque, force
}

// ForcesSegment balances a segment rotating about axis at the origin with a linear actuator
// along line. torque is the load torque about the pivot in N·mm. It returns the actuator
// force and the reaction force at the pivot, both in N, given the sum of all other forces
// on the segment.
func ForcesSegment(torque, force, axis r3.Vector, line *CylVector) (actuator, reaction r3.Vector) {
	lever := line.Lever(axis)
	axialTorque := torque.Dot(axis.Normalize())
	switch {
	case axialTorque == 0:
	case lever == 0:
		inf := math.Inf(1)
		actuator = r3.Vector{X: inf, Y: inf, Z: inf}
	default:
		actuator = line.Dir.Normalize().Mul(-axialTorque / lever)
	}
	reaction = force.Add(actuator).Mul(-1)
	return actuator, reaction
}

// weights returns the gravity loads of the arm with positions relative to the anchor.
func weights(in Input) []PointLoad {
	loads := make([]PointLoad, 0, len(in.Vecs)+1)
	start := r3.Vector{}
	for i, vec := range in.Vecs {
		loads = append(loads, PointLoad{
			Force: Gravity.Mul(in.Masses[i]),
			Pos:   start.Add(vec.Mul(0.5)),
		})
		start = start.Add(vec)
	}
	return append(loads, PointLoad{
		Force: Gravity.Mul(in.ToolMass + in.Payload),
		Pos:   start.Add(in.ToolVec),
	})
}

// Forces returns the gravity load of every axis. Forces inside the moved body, including
// those of child actuators, cancel out, so each joint balances the weights of everything
// beyond it.
func Forces(in Input) []units.Force {
	loads := weights(in)
	n := len(in.Vecs)
	forces := make([]units.Force, n)
	pivot := r3.Vector{}
	for i := 0; i < n; i++ {
		// loads[i:] are segment i and beyond plus the tool
		torque, force := ForcesJoint(loads[i:], pivot)
		if line := in.line(i); line != nil {
			actuator, _ := ForcesSegment(torque, force, in.Axes[i], line)
			forces[i] = units.Force(actuator.Norm())
		} else {
			forces[i] = units.Force(math.Abs(torque.Dot(in.Axes[i].Normalize())) * TorqueScale)
		}
		pivot = pivot.Add(in.Vecs[i])
	}
	return forces
}
