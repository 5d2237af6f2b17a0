package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	// ErrInvalidConfig is wrapped by every construction-time validation failure.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownKind indicates a scene, terrain or target name that is not registered.
	ErrUnknownKind = errors.New("dynamo: unknown kind")
)

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Component string
	Field     string
	Value     any
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", e.Component, e.Field, e.Reason, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Invalid builds a *ConfigError.
func Invalid(component, field string, value any, reason string) error {
	return &ConfigError{Component: component, Field: field, Value: value, Reason: reason}
}
