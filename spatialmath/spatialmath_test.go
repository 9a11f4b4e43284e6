package spatialmath

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRotationAboutAxis(t *testing.T) {
	rz := RotationZ(math.Pi / 2)
	v := rz.Apply(r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(v, r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)

	rx := RotationX(math.Pi / 2)
	v = rx.Apply(r3.Vector{Y: 1})
	test.That(t, R3VectorAlmostEqual(v, r3.Vector{Z: 1}, 1e-12), test.ShouldBeTrue)

	// same rotation expressed through an unnormalized axis
	other := NewRotationAboutAxis(r3.Vector{X: 5}, math.Pi/2)
	test.That(t, other.AlmostEqual(rx, 1e-12), test.ShouldBeTrue)

	test.That(t, NewRotationAboutAxis(r3.Vector{}, 1).AlmostEqual(NewIdentityRotation(), 0), test.ShouldBeTrue)
}

func TestRotationComposition(t *testing.T) {
	a := RotationZ(0.3)
	b := RotationX(-1.1)
	v := r3.Vector{X: 1, Y: 2, Z: 3}

	composed := a.Mul(b).Apply(v)
	stepwise := a.Apply(b.Apply(v))
	test.That(t, R3VectorAlmostEqual(composed, stepwise, 1e-12), test.ShouldBeTrue)

	back := a.Transpose().Apply(a.Apply(v))
	test.That(t, R3VectorAlmostEqual(back, v, 1e-12), test.ShouldBeTrue)
}

func TestLawOfCosines(t *testing.T) {
	// 3-4-5 triangle, the angle opposite 5 is the right angle
	angle, err := LawOfCosines(3, 4, 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angle, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, ThirdSide(3, 4, angle), test.ShouldAlmostEqual, 5)

	_, err = LawOfCosines(1, 1, 3)
	test.That(t, errors.Is(err, ErrOutOfDomain), test.ShouldBeTrue)

	_, err = LawOfCosines(0, 1, 1)
	test.That(t, errors.Is(err, ErrOutOfDomain), test.ShouldBeTrue)
}

func TestTopDownAngle(t *testing.T) {
	test.That(t, TopDownAngle(r3.Vector{Y: 10, Z: 3}), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, TopDownAngle(r3.Vector{Y: -10}), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, AngleBetween(r3.Vector{X: 1}, r3.Vector{}), test.ShouldEqual, 0)
}

func TestInertiaPoint(t *testing.T) {
	j := InertiaPoint(r3.Vector{X: 2}, 3)
	// a point on the X axis has no inertia about X, m*r² about Y and Z
	test.That(t, AxisInertia(j, r3.Vector{X: 1}), test.ShouldAlmostEqual, 0)
	test.That(t, AxisInertia(j, r3.Vector{Y: 1}), test.ShouldAlmostEqual, 12)
	test.That(t, AxisInertia(j, r3.Vector{Z: 1}), test.ShouldAlmostEqual, 12)
}

func TestInertiaRod(t *testing.T) {
	// rod of length L pivoting at one end: m L² / 3
	j := InertiaRod(r3.Vector{}, r3.Vector{Y: 300}, 2)
	test.That(t, AxisInertia(j, r3.Vector{X: 1}), test.ShouldAlmostEqual, 2*300*300/3.0)
	test.That(t, AxisInertia(j, r3.Vector{Y: 1}), test.ShouldAlmostEqual, 0)

	chained := InertiaRods([]Segment{
		{Mass: 2, Vec: r3.Vector{Y: 300}},
		{Mass: 1, Vec: r3.Vector{Y: 100}},
	})
	second := 1*100*100/12.0 + 1*350*350.0
	test.That(t, AxisInertia(chained, r3.Vector{Z: 1}), test.ShouldAlmostEqual, 2*300*300/3.0+second)
	test.That(t, AxisInertia(InertiaRods(nil), r3.Vector{Z: 1}), test.ShouldEqual, 0)
}
