// Package kinematics converts between joint angles and cartesian positions of an arm with a
// yawing base, two planar links and a wrist.
//
// All functions are pure: they read the machine description and never touch hardware.
// Callers are expected to validate the angles they pass in.
package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/spatialmath"
	"go.viam.com/sybot/units"
)

// Vectors holds one segment vector per axis, expressed in world space.
type Vectors []r3.Vector

// Points holds the world position of the end of every segment, the last entry being the
// tool center point.
type Points []r3.Vector

// Tip returns the last point.
func (p Points) Tip() r3.Vector {
	if len(p) == 0 {
		return r3.Vector{}
	}
	return p[len(p)-1]
}

// NumAxes is the number of axes of the supported topology.
const NumAxes = 4

var (
	axisZ = r3.Vector{Z: 1}
	axisX = r3.Vector{X: 1}
)

// UnreachableTargetError is returned when a target lies outside of the workspace.
type UnreachableTargetError struct {
	Target r3.Vector
	Err    error
}

func (e *UnreachableTargetError) Error() string {
	return errors.Wrapf(e.Err, "target (%.3f, %.3f, %.3f) is unreachable", e.Target.X, e.Target.Y, e.Target.Z).Error()
}

func (e *UnreachableTargetError) Unwrap() error {
	return e.Err
}

// ValidateTopology checks that cfg describes the supported arm: a base rotating about Z
// followed by three joints rotating about X, with every segment lying in the base's Y-Z plane
// in the default pose.
func ValidateTopology(cfg *machine.Config) error {
	if cfg.Len() != NumAxes {
		return errors.Errorf("the solver supports %d axes, got %d", NumAxes, cfg.Len())
	}
	for i, axis := range cfg.Axes {
		want := axisX
		if i == 0 {
			want = axisZ
		}
		if !spatialmath.R3VectorAlmostEqual(axis.Normalize(), want, 1e-9) {
			return errors.Errorf("axis %d must rotate about %v, got %v", i, want, axis)
		}
		if math.Abs(cfg.Dims[i].X) > 1e-9 {
			return errors.Errorf("segment %d must lie in the Y-Z plane, got %v", i, cfg.Dims[i])
		}
	}
	return nil
}

// JointRotations returns the rotation of every joint about its own default axis.
func JointRotations(cfg *machine.Config, phis []units.Phi) []*spatialmath.RotationMatrix {
	rots := make([]*spatialmath.RotationMatrix, len(phis))
	for i, phi := range phis {
		rots[i] = spatialmath.NewRotationAboutAxis(cfg.Axes[i], float64(phi))
	}
	return rots
}

// FramesFromPhis returns the cumulative rotation of every segment, composed from base to tip.
func FramesFromPhis(cfg *machine.Config, phis []units.Phi) []*spatialmath.RotationMatrix {
	rots := JointRotations(cfg, phis)
	frames := make([]*spatialmath.RotationMatrix, len(rots))
	total := spatialmath.NewIdentityRotation()
	for i, rot := range rots {
		total = total.Mul(rot)
		frames[i] = total
	}
	return frames
}

// VecsFromPhis returns the world space segment vectors for the given joint angles.
func VecsFromPhis(cfg *machine.Config, phis []units.Phi) Vectors {
	frames := FramesFromPhis(cfg, phis)
	vecs := make(Vectors, len(frames))
	for i, frame := range frames {
		vecs[i] = frame.Apply(cfg.Dims[i])
	}
	return vecs
}

// AxesFromPhis returns the world space rotation axis of every joint.
func AxesFromPhis(cfg *machine.Config, phis []units.Phi) []r3.Vector {
	frames := FramesFromPhis(cfg, phis)
	axes := make([]r3.Vector, len(frames))
	for i, frame := range frames {
		axes[i] = frame.Apply(cfg.Axes[i]).Normalize()
	}
	return axes
}

// ToolVec returns the default pose tool vector rotated along with the last segment.
func ToolVec(cfg *machine.Config, phis []units.Phi, toolVec r3.Vector) r3.Vector {
	frames := FramesFromPhis(cfg, phis)
	if len(frames) == 0 {
		return toolVec
	}
	return frames[len(frames)-1].Apply(toolVec)
}

// PointsFromVecs accumulates the segment vectors starting at the anchor. The last point is
// offset by the world space tool vector.
func PointsFromVecs(cfg *machine.Config, vecs Vectors, toolVec r3.Vector) Points {
	points := make(Points, len(vecs))
	point := cfg.Anchor
	for i, vec := range vecs {
		point = point.Add(vec)
		points[i] = point
	}
	if len(points) > 0 {
		points[len(points)-1] = points[len(points)-1].Add(toolVec)
	}
	return points
}

// VecsFromPoints is the inverse of PointsFromVecs.
func VecsFromPoints(cfg *machine.Config, points Points, toolVec r3.Vector) Vectors {
	vecs := make(Vectors, len(points))
	prev := cfg.Anchor
	for i, point := range points {
		if i == len(points)-1 {
			point = point.Sub(toolVec)
		}
		vecs[i] = point.Sub(prev)
		prev = point
	}
	return vecs
}

// PointsFromPhis combines VecsFromPhis, ToolVec and PointsFromVecs.
func PointsFromPhis(cfg *machine.Config, phis []units.Phi, toolVec r3.Vector) Points {
	return PointsFromVecs(cfg, VecsFromPhis(cfg, phis), ToolVec(cfg, phis, toolVec))
}

// BaseAngle returns the yaw of the base that turns its Y axis toward pos, seen from above.
// A target on the Z axis keeps the base at zero.
func BaseAngle(pos r3.Vector) units.Phi {
	if pos.X == 0 && pos.Y == 0 {
		return 0
	}
	return units.Phi(spatialmath.TopDownAngle(pos) - math.Pi/2)
}

// PhisFromDefVec solves the base yaw and the two planar links for pos, the vector from the
// first planar joint to the wrist. The wrist angle is left at zero.
func PhisFromDefVec(cfg *machine.Config, pos r3.Vector) ([]units.Phi, error) {
	if !spatialmath.R3VectorIsFinite(pos) {
		return nil, &UnreachableTargetError{Target: pos, Err: errors.New("target is not finite")}
	}
	phiB := BaseAngle(pos)
	local := spatialmath.RotationZ(-float64(phiB)).Apply(pos)

	phi1, phi2, err := solvePlanar(cfg, local)
	if err != nil {
		return nil, &UnreachableTargetError{Target: pos, Err: err}
	}

	phis := make([]units.Phi, cfg.Len())
	phis[0] = phiB
	phis[1] = phi1
	phis[2] = phi2
	return phis, nil
}

// solvePlanar solves the two link triangle for a target in the base's Y-Z plane.
func solvePlanar(cfg *machine.Config, local r3.Vector) (units.Phi, units.Phi, error) {
	dist := local.Norm()
	if dist == 0 {
		return 0, 0, errors.New("target coincides with the shoulder")
	}
	len1, len2 := cfg.Dims[1].Norm(), cfg.Dims[2].Norm()

	phiH1, err := spatialmath.LawOfCosines(dist, len1, len2)
	if err != nil {
		return 0, 0, err
	}
	elbow, err := spatialmath.LawOfCosines(len2, len1, dist)
	if err != nil {
		return 0, 0, err
	}

	// signed angle from the base's Y axis toward the target
	phiH := math.Atan2(local.Z, local.Y)

	return units.Phi(phiH + phiH1), units.Phi(elbow - math.Pi), nil
}

// DecoVec returns the default pose vector from the wrist joint to the tool center point.
func DecoVec(cfg *machine.Config, toolVec r3.Vector) r3.Vector {
	return cfg.Dims[cfg.Len()-1].Add(toolVec)
}

// reduceLocal returns the base yaw for pos and the wrist target in the base's Y-Z plane.
func reduceLocal(cfg *machine.Config, pos r3.Vector, deco float64, toolVec r3.Vector) (units.Phi, r3.Vector) {
	rel := pos.Sub(cfg.Anchor)
	phiB := BaseAngle(rel)
	local := spatialmath.RotationZ(-float64(phiB)).Apply(rel)

	decoVec := spatialmath.RotationX(deco).Apply(DecoVec(cfg, toolVec))
	return phiB, local.Sub(decoVec).Sub(cfg.Dims[0])
}

// ReduceToDef turns a tool center point target into the vector PhisFromDefVec expects:
// the anchor and base are removed and the wrist plus tool, pitched by deco in the base's
// Y-Z plane, is subtracted. The result is expressed in world orientation.
func ReduceToDef(cfg *machine.Config, pos r3.Vector, deco float64, toolVec r3.Vector) r3.Vector {
	phiB, local := reduceLocal(cfg, pos, deco, toolVec)
	return spatialmath.RotationZ(float64(phiB)).Apply(local)
}

// PhisFromVec solves all joint angles so that the tool center point reaches pos with the
// wrist pitched at deco, i.e. phi1 + phi2 + phi3 == deco.
func PhisFromVec(cfg *machine.Config, pos r3.Vector, deco float64, toolVec r3.Vector) ([]units.Phi, error) {
	if !spatialmath.R3VectorIsFinite(pos) || math.IsNaN(deco) || math.IsInf(deco, 0) {
		return nil, &UnreachableTargetError{Target: pos, Err: errors.New("target is not finite")}
	}
	phiB, local := reduceLocal(cfg, pos, deco, toolVec)

	phi1, phi2, err := solvePlanar(cfg, local)
	if err != nil {
		return nil, &UnreachableTargetError{Target: pos, Err: err}
	}

	phis := make([]units.Phi, cfg.Len())
	phis[0] = phiB
	phis[1] = phi1
	phis[2] = phi2
	phis[cfg.Len()-1] = units.Phi(deco) - (phi1 + phi2)
	return phis, nil
}
