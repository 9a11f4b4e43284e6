package config

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/sybot/tool"
	"go.viam.com/sybot/units"
)

// Component types.
const (
	TypeStepper          = "stepper"
	TypeGearJoint        = "gear_joint"
	TypeCylinder         = "cylinder"
	TypeCylinderTriangle = "cylinder_triangle"
)

type validator interface {
	Validate(path string) error
}

type converter func(attributes AttributeMap) (validator, error)

var componentTypes = map[string]converter{
	TypeStepper:          convertTo[*StepperAttrs],
	TypeGearJoint:        convertTo[*GearJointAttrs],
	TypeCylinder:         convertTo[*CylinderAttrs],
	TypeCylinderTriangle: convertTo[*CylinderTriangleAttrs],
}

var toolTypes = map[string]converter{
	tool.KindNoTool:     convertTo[*NoToolAttrs],
	tool.KindPencil:     convertTo[*TipAttrs],
	tool.KindTongs:      convertTo[*TongsAttrs],
	tool.KindSpindle:    convertTo[*SpindleAttrs],
	tool.KindAxialJoint: convertTo[*AxialJointAttrs],
	tool.KindAxisTongs:  convertTo[*AxisTongsAttrs],
}

// convertTo decodes attributes into a new T. Attributes T does not know are an error.
func convertTo[T interface {
	*E
	validator
}, E any](attributes AttributeMap) (validator, error) {
	out := T(new(E))
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Squash:   true,
		Result:   out,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, err
	}
	if len(md.Unused) != 0 {
		return nil, errors.Errorf("unknown attributes %v", md.Unused)
	}
	return out, nil
}

// StepperAttrs configures an axis driven directly by a stepper motor.
type StepperAttrs struct {
	// Driver names the motor driver.
	Driver string `json:"driver"`
}

// Validate ensures the driver is named.
func (a *StepperAttrs) Validate(path string) error {
	if a.Driver == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "driver")
	}
	return nil
}

// GearJointAttrs configures a joint behind a gearbox.
type GearJointAttrs struct {
	Ratio float64    `json:"ratio"`
	Child *Component `json:"child"`
}

// Validate checks the ratio and the driven component.
func (a *GearJointAttrs) Validate(path string) error {
	if a.Ratio == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "ratio")
	}
	return validateChild(path, a.Child)
}

// CylinderAttrs configures a spindle driven linear actuator.
type CylinderAttrs struct {
	// Pitch is the travel per revolution in mm.
	Pitch float64    `json:"pitch"`
	Child *Component `json:"child"`
}

// Validate checks the pitch and the driven component.
func (a *CylinderAttrs) Validate(path string) error {
	if a.Pitch == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "pitch")
	}
	return validateChild(path, a.Child)
}

// CylinderTriangleAttrs configures a joint lifted by a cylinder. Missing sides are taken
// from the actuator mounts of the machine.
type CylinderTriangleAttrs struct {
	A     float64    `json:"a,omitempty"`
	B     float64    `json:"b,omitempty"`
	Child *Component `json:"child"`
}

// Validate checks the sides and the driven cylinder.
func (a *CylinderTriangleAttrs) Validate(path string) error {
	if a.A < 0 || a.B < 0 {
		return errors.Errorf("%s: triangle sides must not be negative", path)
	}
	if err := validateChild(path, a.Child); err != nil {
		return err
	}
	if a.Child.Type != TypeCylinder {
		return errors.Errorf("%s: a cylinder triangle must drive a %s, got %s", path, TypeCylinder, a.Child.Type)
	}
	return nil
}

func validateChild(path string, child *Component) error {
	if child == nil {
		return goutils.NewConfigValidationFieldRequiredError(path, "child")
	}
	return child.Validate(path + ".child")
}

// NoToolAttrs takes no attributes.
type NoToolAttrs struct{}

// Validate accepts everything.
func (*NoToolAttrs) Validate(string) error {
	return nil
}

// TipAttrs are shared by every tool: its length along the last segment in mm and its mass
// in kg.
type TipAttrs struct {
	Length float64 `json:"length"`
	Mass   float64 `json:"mass"`
}

// Validate checks the geometry of the tool.
func (a *TipAttrs) Validate(path string) error {
	if a.Length < 0 || a.Mass < 0 {
		return errors.Errorf("%s: length and mass must not be negative", path)
	}
	return nil
}

// TongsAttrs configures servo driven tongs.
type TongsAttrs struct {
	TipAttrs 
	Servo     string  `json:"servo"`
	OpenPos   float64 `json:"open"`
	ClosedPos float64 `json:"closed"`
}

// Validate checks the servo and its positions.
func (a *TongsAttrs) Validate(path string) error {
	if a.Servo == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "servo")
	}
	if a.OpenPos == a.ClosedPos {
		return errors.Errorf("%s: open and closed positions must differ", path)
	}
	return a.TipAttrs.Validate(path)
}

// SpindleAttrs configures a spindle.
type SpindleAttrs struct {
	TipAttrs
	Motor    string  `json:"motor"`
	MaxRPM   float64 `json:"max_rpm"`
}

// Validate checks the motor.
func (a *SpindleAttrs) Validate(path string) error {
	if a.Motor == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "motor")
	}
	if a.MaxRPM <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "max_rpm")
	}
	return a.TipAttrs.Validate(path)
}

// AxialJointAttrs configures a tool rotating about its own axis.
type AxialJointAttrs struct {
	TipAttrs
	Omega    units.Omega `json:"omega"`
	Axis     *Component  `json:"axis"`
}

// Validate checks the axis and its velocity.
func (a *AxialJointAttrs) Validate(path string) error {
	if a.Omega <= 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "omega")
	}
	if a.Axis == nil {
		return goutils.NewConfigValidationFieldRequiredError(path, "axis")
	}
	if err := a.Axis.Validate(path + ".axis"); err != nil {
		return err
	}
	return a.TipAttrs.Validate(path)
}

// AxisTongsAttrs configures rotating tongs.
type AxisTongsAttrs struct {
	AxialJointAttrs
	Servo           string  `json:"servo"`
	OpenPos         float64 `json:"open"`
	ClosedPos       float64 `json:"closed"`
}

// Validate checks the axis and the servo.
func (a *AxisTongsAttrs) Validate(path string) error {
	if a.Servo == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "servo")
	}
	if a.OpenPos == a.ClosedPos {
		return errors.Errorf("%s: open and closed positions must differ", path)
	}
	return a.AxialJointAttrs.Validate(path)
}
