package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"sybot", "--time-scale", "1000"}, args...))
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "machine: syarm (4 axes)")
	test.That(t, out, test.ShouldContainSubstring, "tool 2: tongs")
	test.That(t, out, test.ShouldContainSubstring, "state: unconfigured")
	test.That(t, out, test.ShouldContainSubstring, "gammas: 0.0000 1.9400 1.0000 0.4000")
}

func TestHome(t *testing.T) {
	out, err := run(t, "home")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "reached: [true true true true]")
	test.That(t, out, test.ShouldContainSubstring, "state: homed")
	test.That(t, out, test.ShouldContainSubstring, "gammas: -3.0000 2.9000 0.3000 -2.5000")
}

func TestMove(t *testing.T) {
	out, err := run(t, "move", "--home", "--x", "0", "--y", "400", "--z", "100", "--deco", "0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "400.000 100.000")

	_, err = run(t, "move", "--y", "2000")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unreachable")
}

func TestJoints(t *testing.T) {
	out, err := run(t, "joints", "0.5", "2", "1.2", "0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "gammas: 0.5000 2.0000 1.2000 0.0000")

	_, err = run(t, "joints", "0.5", "2")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected 4 positions")

	_, err = run(t, "joints", "0.5", "two", "1.2", "0")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "joints", "0", "0", "1.2", "0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid target")
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.json")
	_, err := run(t, "write-config", path)
	test.That(t, err, test.ShouldBeNil)

	out, err := run(t, "--config", path, "info")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "machine: syarm")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "info")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = run(t, "write-config")
	test.That(t, err, test.ShouldNotBeNil)
}
