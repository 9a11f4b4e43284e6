package config

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/robot"
	"go.viam.com/sybot/tool"
)

// Hardware provides the devices a config refers to by name.
type Hardware interface {
	Driver(name string) (component.Driver, error)
	Servo(name string) (tool.Servo, error)
	Motor(name string, maxRPM float64) (tool.SpeedMotor, error)
}

// Built is everything a config describes.
type Built struct {
	Machine    *machine.Config
	Components component.Group
	Tools      []tool.Tool
}

// Build validates cfg and constructs the machine, its components and its tools.
func Build(cfg *Config, hw Hardware, logger logging.Logger) (*Built, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mach := cfg.Machine.ToMachine()

	comps := make(component.Group, len(cfg.Components))
	for i := range cfg.Components {
		path := fmt.Sprintf("components.%d", i)
		comp, err := buildComponent(mach, i, &cfg.Components[i], hw, logger, path)
		if err != nil {
			return nil, asConfigurationError(path, err)
		}
		comps[i] = comp
	}

	tools := make([]tool.Tool, 0, len(cfg.Tools))
	for i := range cfg.Tools {
		path := fmt.Sprintf("tools.%d", i)
		t, err := buildTool(mach, &cfg.Tools[i], hw, logger, path)
		if err != nil {
			return nil, asConfigurationError(path, err)
		}
		tools = append(tools, t)
	}
	return &Built{Machine: mach, Components: comps, Tools: tools}, nil
}

// NewRobot builds cfg and hands the result to robot.New.
func NewRobot(ctx context.Context, cfg *Config, hw Hardware, logger logging.Logger, opts ...robot.Option) (*robot.Robot, error) {
	built, err := Build(cfg, hw, logger)
	if err != nil {
		return nil, err
	}
	return robot.New(ctx, built.Machine, built.Components, built.Tools, logger, opts...)
}

func buildComponent(
	mach *machine.Config,
	axis int,
	desc *Component,
	hw Hardware,
	logger logging.Logger,
	path string,
) (component.Component, error) {
	name := desc.Name
	if name == "" {
		name = path
	}
	switch attrs := desc.ConvertedAttributes.(type) {
	case *StepperAttrs:
		driver, err := hw.Driver(attrs.Driver)
		if err != nil {
			return nil, errors.Wrapf(err, "no driver %q", attrs.Driver)
		}
		return component.NewStepper(name, driver, logger.Sublogger(name)), nil
	case *GearJointAttrs:
		child, err := buildComponent(mach, axis, attrs.Child, hw, logger, path+".obj.child")
		if err != nil {
			return nil, err
		}
		return component.NewGearJoint(child, attrs.Ratio)
	case *CylinderAttrs:
		child, err := buildComponent(mach, axis, attrs.Child, hw, logger, path+".obj.child")
		if err != nil {
			return nil, err
		}
		return component.NewCylinder(child, attrs.Pitch)
	case *CylinderTriangleAttrs:
		child, err := buildComponent(mach, axis, attrs.Child, hw, logger, path+".obj.child")
		if err != nil {
			return nil, err
		}
		cyl, ok := child.(*component.Cylinder)
		if !ok {
			return nil, errors.Errorf("a cylinder triangle must drive a %s", TypeCylinder)
		}
		a, b := attrs.A, attrs.B
		if mount := mach.MountAt(axis); mount != nil {
			if a == 0 {
				a = mount.Parent.Norm()
			}
			if b == 0 {
				b = mount.Child.Norm()
			}
		}
		if a == 0 || b == 0 {
			return nil, errors.Errorf("axis %d has no actuator mount, the triangle sides must be given", axis)
		}
		return component.NewCylinderTriangle(cyl, a, b)
	default:
		return nil, errors.Errorf("component %q was not validated", name)
	}
}

func buildTool(mach *machine.Config, desc *Tool, hw Hardware, logger logging.Logger, path string) (tool.Tool, error) {
	switch attrs := desc.ConvertedAttributes.(type) {
	case *NoToolAttrs:
		return tool.NewNoTool(), nil
	case *TipAttrs:
		return tool.NewPencilTool(attrs.Length, attrs.Mass), nil
	case *TongsAttrs:
		servo, err := hw.Servo(attrs.Servo)
		if err != nil {
			return nil, errors.Wrapf(err, "no servo %q", attrs.Servo)
		}
		return tool.NewTongs(servo, attrs.OpenPos, attrs.ClosedPos, attrs.Length, attrs.Mass), nil
	case *SpindleAttrs:
		motor, err := hw.Motor(attrs.Motor, attrs.MaxRPM)
		if err != nil {
			return nil, errors.Wrapf(err, "no motor %q", attrs.Motor)
		}
		return tool.NewSpindle(motor, attrs.MaxRPM, attrs.Length, attrs.Mass), nil
	case *AxialJointAttrs:
		axis, err := buildComponent(mach, -1, attrs.Axis, hw, logger, path+".obj.axis")
		if err != nil {
			return nil, err
		}
		return tool.NewAxialJoint(axis, attrs.Omega, attrs.Length, attrs.Mass), nil
	case *AxisTongsAttrs:
		axis, err := buildComponent(mach, -1, attrs.Axis, hw, logger, path+".obj.axis")
		if err != nil {
			return nil, err
		}
		servo, err := hw.Servo(attrs.Servo)
		if err != nil {
			return nil, errors.Wrapf(err, "no servo %q", attrs.Servo)
		}
		return tool.NewAxisTongs(axis, attrs.Omega, servo, attrs.OpenPos, attrs.ClosedPos, attrs.Length, attrs.Mass), nil
	default:
		return nil, errors.Errorf("tool %q was not validated", desc.Type)
	}
}
