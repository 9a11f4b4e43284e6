package units

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestGammaArithmetic(t *testing.T) {
	g := Gamma(1.5)
	test.That(t, g.Add(Delta(0.5)), test.ShouldEqual, Gamma(2.0))
	test.That(t, g.Sub(Gamma(2.0)), test.ShouldEqual, Delta(-0.5))
	test.That(t, Delta(-0.5).Abs(), test.ShouldEqual, Delta(0.5))
}

func TestFinite(t *testing.T) {
	test.That(t, Gamma(math.NaN()).IsFinite(), test.ShouldBeFalse)
	test.That(t, Phi(math.Inf(-1)).IsFinite(), test.ShouldBeFalse)
	test.That(t, Delta(3).IsFinite(), test.ShouldBeTrue)
	test.That(t, AllFinite([]Gamma{0, 1, 2}), test.ShouldBeTrue)
	test.That(t, AllFinite([]Gamma{0, Gamma(math.NaN())}), test.ShouldBeFalse)
}

func TestDuration(t *testing.T) {
	test.That(t, Delta(-2).Duration(Omega(4)), test.ShouldAlmostEqual, 0.5)
	test.That(t, math.IsInf(Delta(1).Duration(0), 1), test.ShouldBeTrue)
}

func TestFloatConversions(t *testing.T) {
	phis := FromFloats[Phi]([]float64{0.1, 0.2})
	test.That(t, phis, test.ShouldResemble, []Phi{0.1, 0.2})
	test.That(t, ToFloats(phis), test.ShouldResemble, []float64{0.1, 0.2})
}
