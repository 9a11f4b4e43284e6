// Package config reads, validates and writes the declarative description of an arm and
// builds the machine, its axis components and its tools from it.
package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/units"
)

// ConfigurationError is returned when a document cannot be turned into an arm.
type ConfigurationError = machine.ConfigurationError

// AttributeMap holds the type specific attributes of a descriptor.
type AttributeMap map[string]interface{}

// Has reports whether name is set.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// Config describes an arm: its geometry, one component per axis and its tools.
type Config struct {
	ConfigFilePath string `json:"-"`

	Machine    Machine     `json:"machine"`
	Components []Component `json:"components"`
	Tools      []Tool      `json:"tools,omitempty"`
}

// Validate ensures every part of the document can be built.
func (c *Config) Validate() error {
	if err := c.Machine.Validate("machine"); err != nil {
		return err
	}
	if len(c.Components) != len(c.Machine.Dims) {
		return machine.NewConfigurationError("components",
			errors.Errorf("expected %d components, got %d", len(c.Machine.Dims), len(c.Components)))
	}
	mach := c.Machine.ToMachine()
	for i := range c.Components {
		path := fmt.Sprintf("components.%d", i)
		if err := c.Components[i].Validate(path); err != nil {
			return err
		}
		if err := checkMount(mach, i, &c.Components[i]); err != nil {
			return machine.NewConfigurationError(path, err)
		}
	}
	for i := range c.Tools {
		if err := c.Tools[i].Validate(fmt.Sprintf("tools.%d", i)); err != nil {
			return err
		}
	}
	return nil
}

// Machine is the document form of machine.Config. The per-axis angle, simulation and
// limit lists may be left out and default to zero offsets, massless segments and open
// limits.
type Machine struct {
	Name   string                 `json:"name"`
	Anchor r3.Vector              `json:"anchor"`
	Dims   []r3.Vector            `json:"dims"`
	Axes   []r3.Vector            `json:"axes"`
	Ang    []machine.AngleData    `json:"ang,omitempty"`
	Sim    []machine.SimData      `json:"sim,omitempty"`
	Vels   []units.Omega          `json:"vels"`
	Meas   []machine.MeasInstance `json:"meas"`
	Home   []units.Gamma          `json:"home"`
	Limits []machine.Limit        `json:"limits,omitempty"`
	Mounts []*machine.Mount       `json:"mounts,omitempty"`
}

// FromMachine returns the document form of cfg.
func FromMachine(cfg *machine.Config) Machine {
	return Machine{
		Name:   cfg.Name,
		Anchor: cfg.Anchor,
		Dims:   cfg.Dims,
		Axes:   cfg.Axes,
		Ang:    cfg.Ang,
		Sim:    cfg.Sim,
		Vels:   cfg.Vels,
		Meas:   cfg.Meas,
		Home:   cfg.Home,
		Limits: cfg.Limits,
		Mounts: cfg.Mounts,
	}
}

// ToMachine returns the machine description, filling in the optional lists.
func (m *Machine) ToMachine() *machine.Config {
	n := len(m.Dims)
	cfg := &machine.Config{
		Name:   m.Name,
		Anchor: m.Anchor,
		Dims:   m.Dims,
		Axes:   m.Axes,
		Ang:    m.Ang,
		Sim:    m.Sim,
		Vels:   m.Vels,
		Meas:   m.Meas,
		Home:   m.Home,
		Limits: m.Limits,
		Mounts: m.Mounts,
	}
	if len(cfg.Ang) == 0 {
		cfg.Ang = make([]machine.AngleData, n)
	}
	if len(cfg.Sim) == 0 {
		cfg.Sim = make([]machine.SimData, n)
	}
	if len(cfg.Limits) == 0 {
		cfg.Limits = make([]machine.Limit, n)
	}
	return cfg
}

// Validate checks the machine description.
func (m *Machine) Validate(path string) error {
	if m.Name == "" {
		return machine.NewConfigurationError(path, goutils.NewConfigValidationFieldRequiredError(path, "name"))
	}
	if err := m.ToMachine().Validate(path); err != nil {
		return machine.NewConfigurationError(path, err)
	}
	return nil
}

// Component describes one axis. Compound axes name the component they drive in their
// attributes, so a descriptor is a tree ending in a stepper.
type Component struct {
	Name       string       `json:"name,omitempty"`
	Type       string       `json:"type"`
	Attributes AttributeMap `json:"obj,omitempty"`

	ConvertedAttributes interface{} `json:"-"`
}

// Validate converts and checks the attributes of the component and everything it drives.
func (c *Component) Validate(path string) error {
	if c.Type == "" {
		return machine.NewConfigurationError(path, goutils.NewConfigValidationFieldRequiredError(path, "type"))
	}
	conv, ok := componentTypes[c.Type]
	if !ok {
		return machine.NewConfigurationError(path, errors.Errorf("unknown component type %q", c.Type))
	}
	attrs, err := conv(c.Attributes)
	if err != nil {
		return machine.NewConfigurationError(path, errors.Wrap(err, "failed to decode attributes"))
	}
	if err := attrs.Validate(path + ".obj"); err != nil {
		return asConfigurationError(path, err)
	}
	c.ConvertedAttributes = attrs
	return nil
}

// Tool describes one tool.
type Tool struct {
	Type       string       `json:"type"`
	Attributes AttributeMap `json:"obj,omitempty"`

	ConvertedAttributes interface{} `json:"-"`
}

// Validate converts and checks the attributes of the tool.
func (t *Tool) Validate(path string) error {
	if t.Type == "" {
		return machine.NewConfigurationError(path, goutils.NewConfigValidationFieldRequiredError(path, "type"))
	}
	conv, ok := toolTypes[t.Type]
	if !ok {
		return machine.NewConfigurationError(path, errors.Errorf("unknown tool type %q", t.Type))
	}
	attrs, err := conv(t.Attributes)
	if err != nil {
		return machine.NewConfigurationError(path, errors.Wrap(err, "failed to decode attributes"))
	}
	if err := attrs.Validate(path + ".obj"); err != nil {
		return asConfigurationError(path, err)
	}
	t.ConvertedAttributes = attrs
	return nil
}

// checkMount ensures an axis is driven through a cylinder triangle exactly when the machine
// places an actuator mount on it. The loads of a mounted axis are forces along the actuator
// in N and kg, those of any other axis are torques in N·m and kg·m².
func checkMount(mach *machine.Config, axis int, comp *Component) error {
	triangle := comp.Type == TypeCylinderTriangle
	switch mounted := mach.MountAt(axis) != nil; {
	case mounted && !triangle:
		return errors.Errorf("axis %d has an actuator mount and must be a %s, got %s",
			axis, TypeCylinderTriangle, comp.Type)
	case !mounted && triangle:
		return errors.Errorf("axis %d has no actuator mount and cannot be a %s", axis, TypeCylinderTriangle)
	}
	return nil
}

func asConfigurationError(path string, err error) error {
	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return err
	}
	return machine.NewConfigurationError(path, err)
}
