package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Segment is a uniform rod of the given mass spanning Vec, used to build inertia tensors
// of a chain of arm segments.
type Segment struct {
	Mass float64
	Vec  r3.Vector
}

// NewZeroInertia returns an all-zero 3x3 inertia tensor.
func NewZeroInertia() *mat.SymDense {
	return mat.NewSymDense(3, nil)
}

func r3ToVec(v r3.Vector) *mat.VecDense {
	return mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
}

// addPointTerm adds m * (|r|² I - r rᵀ) to dst.
func addPointTerm(dst *mat.SymDense, r r3.Vector, m float64) {
	if m == 0 {
		return
	}
	n2 := r.Norm2()
	for i := 0; i < 3; i++ {
		dst.SetSym(i, i, dst.At(i, i)+m*n2)
	}
	dst.SymRankOne(dst, -m, r3ToVec(r))
}

// InertiaPoint returns the inertia tensor of a point mass m located at pos, about the
// origin. Units follow the inputs (kg·mm² for kg and mm).
func InertiaPoint(pos r3.Vector, m float64) *mat.SymDense {
	j := NewZeroInertia()
	addPointTerm(j, pos, m)
	return j
}

// InertiaRod returns the inertia tensor, about the origin, of a uniform rod of mass m
// spanning from start to start+vec.
func InertiaRod(start, vec r3.Vector, m float64) *mat.SymDense {
	j := NewZeroInertia()
	// about the rod's own center, then moved by the parallel-axis law
	addPointTerm(j, vec, m/12)
	addPointTerm(j, start.Add(vec.Mul(0.5)), m)
	return j
}

// InertiaRods returns the inertia tensor, about the origin, of a chain of rods placed
// end to end starting at the origin.
func InertiaRods(segments []Segment) *mat.SymDense {
	j := NewZeroInertia()
	start := r3.Vector{}
	for _, seg := range segments {
		j.AddSym(j, InertiaRod(start, seg.Vec, seg.Mass))
		start = start.Add(seg.Vec)
	}
	return j
}

// AxisInertia returns nᵀ J n for the normalized axis n, the scalar moment of inertia of J
// about that axis. A zero axis yields zero.
func AxisInertia(j mat.Symmetric, axis r3.Vector) float64 {
	if axis.Norm2() == 0 {
		return 0
	}
	n := r3ToVec(axis.Normalize())
	return mat.Inner(n, j, n)
}

// InertiaSum returns the sum of the given tensors.
func InertiaSum(js ...mat.Symmetric) *mat.SymDense {
	out := NewZeroInertia()
	for _, j := range js {
		out.AddSym(out, j)
	}
	return out
}
