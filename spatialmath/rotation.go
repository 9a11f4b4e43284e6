// Package spatialmath defines the rotation, vector and rigid body helpers shared by the
// kinematics and statics engines.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// RotationMatrix is a 3x3 rotation matrix stored in row-major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewIdentityRotation returns the identity rotation.
func NewIdentityRotation() *RotationMatrix {
	return &RotationMatrix{mat: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// NewRotationMatrix builds a RotationMatrix from nine row-major values. The values are
// not checked for orthonormality.
func NewRotationMatrix(m [9]float64) *RotationMatrix {
	return &RotationMatrix{mat: m}
}

// NewRotationAboutAxis returns the right-handed rotation of theta radians about axis.
// The axis does not need to be normalized; a zero axis yields the identity.
func NewRotationAboutAxis(axis r3.Vector, theta float64) *RotationMatrix {
	if axis.Norm2() == 0 {
		return NewIdentityRotation()
	}
	u := axis.Normalize()
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c

	return &RotationMatrix{mat: [9]float64{
		c + u.X*u.X*t, u.X*u.Y*t - u.Z*s, u.X*u.Z*t + u.Y*s,
		u.Y*u.X*t + u.Z*s, c + u.Y*u.Y*t, u.Y*u.Z*t - u.X*s,
		u.Z*u.X*t - u.Y*s, u.Z*u.Y*t + u.X*s, c + u.Z*u.Z*t,
	}}
}

// RotationX returns a rotation of theta radians about the X axis.
func RotationX(theta float64) *RotationMatrix {
	return NewRotationAboutAxis(r3.Vector{X: 1}, theta)
}

// RotationZ returns a rotation of theta radians about the Z axis.
func RotationZ(theta float64) *RotationMatrix {
	return NewRotationAboutAxis(r3.Vector{Z: 1}, theta)
}

// At returns the value at row, col.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the given row as a vector.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Col returns the given column as a vector.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[3+col], Z: rm.mat[6+col]}
}

// Mul returns rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = rm.Row(i).Dot(other.Col(j))
		}
	}
	return &RotationMatrix{mat: out}
}

// Apply rotates v.
func (rm *RotationMatrix) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// Transpose returns the transpose, which for a rotation is its inverse.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	m := rm.mat
	return &RotationMatrix{mat: [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// AlmostEqual reports whether every entry of the two matrices is within epsilon.
func (rm *RotationMatrix) AlmostEqual(other *RotationMatrix, epsilon float64) bool {
	for i := range rm.mat {
		if math.Abs(rm.mat[i]-other.mat[i]) > epsilon {
			return false
		}
	}
	return true
}
