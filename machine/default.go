package machine

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/sybot/units"
)

func gammaPtr(g float64) *units.Gamma {
	v := units.Gamma(g)
	return &v
}

// DefaultConfig returns the geometry of the reference four axis arm: a yawing base, two
// planar links of 300 mm and 250 mm, each lifted by a cylinder, and a 50 mm wrist. In the
// default pose every link points along +Y.
//
// The cylinder joints are controlled by the angle between their two mounts: the first one
// sits 100 mm behind the shoulder on the base, the second one at the middle of the first
// link.
func DefaultConfig() *Config {
	return &Config{
		Name:   "syarm",
		Anchor: r3.Vector{Z: 50},
		Dims: []r3.Vector{
			{},
			{Y: 300},
			{Y: 250},
			{Y: 50},
		},
		Axes: []r3.Vector{
			{Z: 1},
			{X: 1},
			{X: 1},
			{X: 1},
		},
		Ang: []AngleData{
			{},
			{Offset: units.Delta(math.Pi), Counter: true},
			{Offset: units.Delta(-math.Pi)},
			{},
		},
		Sim: []SimData{
			{Mass: 2.0},
			{Mass: 1.5},
			{Mass: 1.0},
			{Mass: 0.3},
		},
		Vels: []units.Omega{2, 2, 2, 3},
		Meas: []MeasInstance{
			{SetVal: -3.0, Dist: -6.5},
			{SetVal: 2.9, Dist: 3.0},
			{SetVal: 0.3, Dist: -3.0},
			{SetVal: -2.5, Dist: -5.5},
		},
		Home: []units.Gamma{0, 1.94, 1.0, 0.4},
		Limits: []Limit{
			{Min: gammaPtr(-math.Pi), Max: gammaPtr(math.Pi)},
			{Min: gammaPtr(0.4), Max: gammaPtr(2.9)},
			{Min: gammaPtr(0.3), Max: gammaPtr(3.0)},
			{Min: gammaPtr(-2.5), Max: gammaPtr(2.5)},
		},
		Mounts: []*Mount{
			nil,
			{Parent: r3.Vector{Y: -100}, Child: r3.Vector{Y: 150}},
			{Parent: r3.Vector{Y: -150}, Child: r3.Vector{Y: 125}},
			nil,
		},
	}
}
