package config

import (
	"go.viam.com/sybot/machine"
	"go.viam.com/sybot/tool"
)

func stepper(driver string) map[string]interface{} {
	return map[string]interface{}{
		"type": TypeStepper,
		"obj":  map[string]interface{}{"driver": driver},
	}
}

func gearJoint(name string, ratio float64) Component {
	return Component{
		Name:       name,
		Type:       TypeGearJoint,
		Attributes: AttributeMap{"ratio": ratio, "child": stepper(name)},
	}
}

func liftedJoint(name string, pitch float64) Component {
	return Component{
		Name: name,
		Type: TypeCylinderTriangle,
		Attributes: AttributeMap{"child": map[string]interface{}{
			"type": TypeCylinder,
			"obj":  map[string]interface{}{"pitch": pitch, "child": stepper(name)},
		}},
	}
}

// DefaultConfig describes the reference arm of machine.DefaultConfig: a geared base and
// wrist and two joints lifted by cylinders with a 4 mm spindle.
func DefaultConfig() *Config {
	return &Config{
		Machine: FromMachine(machine.DefaultConfig()),
		Components: []Component{
			gearJoint("base", 0.125),
			liftedJoint("shoulder", 4),
			liftedJoint("elbow", 4),
			gearJoint("wrist", 0.25),
		},
		Tools: []Tool{
			{Type: tool.KindNoTool},
			{Type: tool.KindPencil, Attributes: AttributeMap{"length": 127.0, "mass": 0.05}},
			{Type: tool.KindTongs, Attributes: AttributeMap{
				"servo": "tongs", "open": 0.2, "closed": 0.8, "length": 110.0, "mass": 0.2,
			}},
		},
	}
}
