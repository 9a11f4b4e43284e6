package machine

import (
	"fmt"
)

// ConfigurationError is returned when an arm cannot be built from its description. Path
// names the offending part of the description.
type ConfigurationError struct {
	Path string
	Err  error
}

// NewConfigurationError wraps err as a ConfigurationError at path.
func NewConfigurationError(path string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration at %q: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
