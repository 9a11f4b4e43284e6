package robot

import (
	"github.com/golang/geo/r3"
)

// State is the lifecycle stage of a Robot.
type State int

// States of a Robot. A Robot starts Unconfigured, becomes Homed once every axis reached its
// reference switch and Ready after the first update in the homed pose.
const (
	Unconfigured State = iota
	Homed
	Ready
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Homed:
		return "homed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Vars are the mutable values of a Robot.
type Vars struct {
	// Load is the payload carried by the tool in kg.
	Load float64
	// Deco is the orientation of the last segment in its plane of motion, in rad.
	Deco float64
	// Point is the tool center point of the last update.
	Point r3.Vector
	// SpeedFactor scales every axis velocity, in (0, 1].
	SpeedFactor float64
}

// CachePos returns the position with the given coordinates, taking the missing ones from
// the cached tool center point.
func (v Vars) CachePos(x, y, z *float64) r3.Vector {
	pos := v.Point
	if x != nil {
		pos.X = *x
	}
	if y != nil {
		pos.Y = *y
	}
	if z != nil {
		pos.Z = *z
	}
	return pos
}
