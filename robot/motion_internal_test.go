package robot

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/units"
)

func TestMotionErrorIgnoresRoundingNoise(t *testing.T) {
	test.That(t, motionError([]units.Delta{1, 0}, nil), test.ShouldBeNil)

	cause := &component.GroupError{Errs: []error{nil, nil, errors.New("stalled")}}
	err := motionError([]units.Delta{0.3, -5.7e-14, 0}, cause)

	var motionErr *MotionError
	test.That(t, errors.As(err, &motionErr), test.ShouldBeTrue)
	test.That(t, motionErr.Moved, test.ShouldResemble, []bool{true, false, false})
	test.That(t, motionErr.Failed, test.ShouldResemble, []bool{false, false, true})
}
