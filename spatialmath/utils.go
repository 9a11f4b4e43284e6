package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrOutOfDomain is returned when a trigonometric argument leaves the domain of its
// inverse function, e.g. a triangle whose sides cannot close.
var ErrOutOfDomain = errors.New("argument outside of [-1, 1]")

// LawOfCosines returns the angle opposite side c in a triangle with sides a, b and c.
// It fails with ErrOutOfDomain instead of returning NaN when the sides cannot form a
// triangle or a side adjacent to the angle is zero.
func LawOfCosines(a, b, c float64) (float64, error) {
	if a == 0 || b == 0 {
		return 0, errors.Wrapf(ErrOutOfDomain, "degenerate triangle (a: %f, b: %f)", a, b)
	}
	arg := (a*a + b*b - c*c) / (2 * a * b)
	if math.IsNaN(arg) || arg < -1 || arg > 1 {
		return 0, errors.Wrapf(ErrOutOfDomain, "law of cosines argument %f (a: %f, b: %f, c: %f)", arg, a, b, c)
	}
	return math.Acos(arg), nil
}

// ThirdSide returns the side opposite the angle gamma between sides a and b.
func ThirdSide(a, b, gamma float64) float64 {
	return math.Sqrt(math.Max(a*a+b*b-2*a*b*math.Cos(gamma), 0))
}

// AngleBetween returns the unsigned angle between two vectors in radians. A zero vector
// yields zero.
func AngleBetween(a, b r3.Vector) float64 {
	if a.Norm2() == 0 || b.Norm2() == 0 {
		return 0
	}
	return float64(a.Angle(b))
}

// TopDownAngle returns the signed angle of the vector's XY projection to the X axis, seen
// from above (positive Z).
func TopDownAngle(v r3.Vector) float64 {
	return math.Atan2(v.Y, v.X)
}

// R3VectorAlmostEqual compares two vectors component-wise within epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) <= epsilon && math.Abs(a.Y-b.Y) <= epsilon && math.Abs(a.Z-b.Z) <= epsilon
}

// R3VectorIsFinite reports whether no component is NaN or infinite.
func R3VectorIsFinite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
