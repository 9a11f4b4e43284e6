package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("moving", "axis", 2, "gamma", 1.5)
	logger.Infof("homed %d axes", 4)

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entries := logs.All()
	test.That(t, entries[0].Message, test.ShouldEqual, "moving")
	test.That(t, entries[0].ContextMap()["axis"], test.ShouldEqual, int64(2))
	test.That(t, entries[1].Message, test.ShouldEqual, "homed 4 axes")
}

func TestSubloggerLevels(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("robot")
	sub.SetLevel(WARN)

	sub.Info("dropped")
	sub.Warn("kept")
	logger.Info("parent still logs info")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.All()[0].LoggerName, test.ShouldEqual, "robot")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)

	subsub := sub.Sublogger("axis0")
	subsub.Error("nested")
	test.That(t, logs.FilterLoggerName("robot.axis0").Len(), test.ShouldEqual, 1)
}

func TestLevelFromString(t *testing.T) {
	level, err := LevelFromString("Warning")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, WARN)

	_, err = LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBlankLogger(t *testing.T) {
	logger := NewBlankLogger("quiet")
	logger.Error("nothing happens")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}
