package config

import (
	"sync"

	"go.viam.com/sybot/component"
	"go.viam.com/sybot/component/fake"
	"go.viam.com/sybot/tool"
)

// SimHardware provides simulated devices. Asking twice for a name returns the same device.
type SimHardware struct {
	opts []fake.Option

	mu       sync.Mutex
	steppers map[string]*fake.Stepper
	servos   map[string]*fake.Servo
	motors   map[string]*fake.Motor
}

var _ Hardware = (*SimHardware)(nil)

// NewSimHardware returns simulated hardware whose steppers are created with opts.
func NewSimHardware(opts ...fake.Option) *SimHardware {
	return &SimHardware{
		opts:     opts,
		steppers: map[string]*fake.Stepper{},
		servos:   map[string]*fake.Servo{},
		motors:   map[string]*fake.Motor{},
	}
}

// Driver returns the simulated stepper called name.
func (h *SimHardware) Driver(name string) (component.Driver, error) {
	return h.Stepper(name), nil
}

// Stepper returns the simulated stepper called name, creating it if needed.
func (h *SimHardware) Stepper(name string) *fake.Stepper {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.steppers[name]
	if !ok {
		s = fake.NewStepper(name, h.opts...)
		h.steppers[name] = s
	}
	return s
}

// Servo returns the simulated servo called name.
func (h *SimHardware) Servo(name string) (tool.Servo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.servos[name]
	if !ok {
		s = fake.NewServo(name)
		h.servos[name] = s
	}
	return s, nil
}

// Motor returns the simulated motor called name.
func (h *SimHardware) Motor(name string, maxRPM float64) (tool.SpeedMotor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.motors[name]
	if !ok {
		m = fake.NewMotor(name, maxRPM)
		h.motors[name] = m
	}
	return m, nil
}

// Moves returns how many motions all simulated steppers started.
func (h *SimHardware) Moves() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var n int64
	for _, s := range h.steppers {
		n += s.Moves()
	}
	return n
}
