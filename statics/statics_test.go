package statics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/units"
)

// stretched is the arm lying flat along +Y with rotational joints only.
func stretched() Input {
	return Input{
		Vecs:   []r3.Vector{{}, {Y: 300}, {Y: 250}, {Y: 50}},
		Axes:   []r3.Vector{{Z: 1}, {X: 1}, {X: 1}, {X: 1}},
		Masses: []float64{0, 1.5, 1.0, 0.3},
	}
}

func TestMasslessArmHasNoLoad(t *testing.T) {
	cfg := machine.DefaultConfig()
	for i := range cfg.Sim {
		cfg.Sim[i].Mass = 0
	}
	meas := make([]units.Gamma, cfg.Len())
	for i, m := range cfg.Meas {
		meas[i] = m.SetVal
	}

	for _, phis := range [][]units.Phi{cfg.HomePhis(), cfg.PhisFromGammas(meas)} {
		in := NewInput(cfg, phis, r3.Vector{Y: 40}, 0, 0)
		for i, inertia := range Inertias(in) {
			test.That(t, float64(inertia), test.ShouldAlmostEqual, 0)
			test.That(t, float64(Forces(in)[i]), test.ShouldAlmostEqual, 0)
		}
	}
}

func TestForcesRotational(t *testing.T) {
	in := stretched()
	forces := Forces(in)
	g := -Gravity.Z

	test.That(t, float64(forces[0]), test.ShouldAlmostEqual, 0)
	test.That(t, float64(forces[3]), test.ShouldAlmostEqual, 0.3*g*25*TorqueScale)
	test.That(t, float64(forces[2]), test.ShouldAlmostEqual, g*(1.0*125+0.3*275)*TorqueScale)
	test.That(t, float64(forces[1]), test.ShouldAlmostEqual, g*(1.5*150+1.0*425+0.3*575)*TorqueScale)

	// a payload at the tip loads every planar joint by its lever
	in.Payload = 2
	loaded := Forces(in)
	test.That(t, float64(loaded[3]-forces[3]), test.ShouldAlmostEqual, 2*g*50*TorqueScale)
	test.That(t, float64(loaded[1]-forces[1]), test.ShouldAlmostEqual, 2*g*600*TorqueScale)

	// pointing straight up there is no gravity torque
	in.Vecs = []r3.Vector{{}, {Z: 300}, {Z: 250}, {Z: 50}}
	for _, f := range Forces(in) {
		test.That(t, float64(f), test.ShouldAlmostEqual, 0)
	}
}

func TestInertiasRotational(t *testing.T) {
	in := stretched()
	in.ToolVec = r3.Vector{Y: 20}
	in.ToolMass = 0.5
	inertias := Inertias(in)

	test.That(t, float64(inertias[3]), test.ShouldAlmostEqual, (0.3*50*50/3+0.5*70*70)*InertiaScale)

	base := 1.5*(300*300/12.0+150*150) + 1.0*(250*250/12.0+425*425) + 0.3*(50*50/12.0+575*575) + 0.5*620*620
	test.That(t, float64(inertias[0]), test.ShouldAlmostEqual, base*InertiaScale)

	// lying flat, the base and the shoulder move the same body about parallel axes
	test.That(t, float64(inertias[1]), test.ShouldAlmostEqual, float64(inertias[0]))
	for i := 2; i < len(inertias); i++ {
		test.That(t, inertias[i], test.ShouldBeLessThan, inertias[i-1])
	}
}

func TestCylVectors(t *testing.T) {
	cfg := machine.DefaultConfig()
	phis := cfg.HomePhis()
	lines := CylVectorsFromPhis(cfg, phis)

	test.That(t, lines[0], test.ShouldBeNil)
	test.That(t, lines[3], test.ShouldBeNil)
	for i := 1; i <= 2; i++ {
		line := lines[i]
		test.That(t, line, test.ShouldNotBeNil)
		test.That(t, line.Pos.Norm(), test.ShouldAlmostEqual, cfg.Mounts[i].Child.Norm())
		test.That(t, line.ParentPos.Norm(), test.ShouldAlmostEqual, cfg.Mounts[i].Parent.Norm())
		test.That(t, line.Dir.Sub(line.Pos.Sub(line.ParentPos)).Norm(), test.ShouldAlmostEqual, 0)

		// the angle between the mounts is the control angle of the linkage
		angle := float64(line.Pos.Angle(line.ParentPos))
		test.That(t, angle, test.ShouldAlmostEqual, float64(cfg.Home[i]), 1e-9)
	}
}

func TestLinearActuatorLoads(t *testing.T) {
	cfg := machine.DefaultConfig()
	phis := cfg.HomePhis()
	withLines := NewInput(cfg, phis, r3.Vector{Y: 30}, 0.2, 1.0)
	rotational := withLines
	rotational.Lines = nil

	linForces, rotForces := Forces(withLines), Forces(rotational)
	linInertias, rotInertias := Inertias(withLines), Inertias(rotational)

	for i := 1; i <= 2; i++ {
		lever := math.Abs(withLines.Lines[i].Lever(withLines.Axes[i]))
		test.That(t, lever, test.ShouldBeGreaterThan, 0)
		test.That(t, float64(linForces[i])*lever*TorqueScale, test.ShouldAlmostEqual, float64(rotForces[i]))
		test.That(t, float64(linInertias[i])*lever*lever*InertiaScale, test.ShouldAlmostEqual, float64(rotInertias[i]))
	}
	test.That(t, linForces[3], test.ShouldEqual, rotForces[3])
}

func TestDegenerateActuatorLine(t *testing.T) {
	in := stretched()
	in.Lines = CylVectors{nil, {Dir: r3.Vector{Y: 250}, Pos: r3.Vector{Y: 150}, ParentPos: r3.Vector{Y: -100}}, nil, nil}

	test.That(t, math.IsInf(float64(Inertias(in)[1]), 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(float64(Forces(in)[1]), 1), test.ShouldBeTrue)

	in.Masses = []float64{0, 0, 0, 0}
	test.That(t, Inertias(in)[1], test.ShouldEqual, units.InertiaZero)
	test.That(t, Forces(in)[1], test.ShouldEqual, units.ForceZero)
}

func TestForcesSegmentBalance(t *testing.T) {
	loads := []PointLoad{
		{Force: r3.Vector{Z: -10}, Pos: r3.Vector{Y: 100}},
		{Force: r3.Vector{Z: -5}, Pos: r3.Vector{Y: 200, Z: 20}},
	}
	torque, force := ForcesJoint(loads, r3.Vector{})
	test.That(t, torque.X, test.ShouldAlmostEqual, -2000)
	test.That(t, force.Z, test.ShouldAlmostEqual, -15)

	line := &CylVector{Dir: r3.Vector{Y: 150, Z: 100}, Pos: r3.Vector{Y: 50}, ParentPos: r3.Vector{Y: -100, Z: -100}}
	axis := r3.Vector{X: 1}
	actuator, reaction := ForcesSegment(torque, force, axis, line)

	// the actuator cancels the load torque and the pivot takes the rest
	test.That(t, line.Pos.Cross(actuator).Dot(axis)+torque.Dot(axis), test.ShouldAlmostEqual, 0)
	sum := actuator.Add(reaction).Add(force)
	test.That(t, sum.Norm(), test.ShouldAlmostEqual, 0)
}
