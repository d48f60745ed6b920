package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports an unknown token or an unusable parameter. It is raised
// immediately and never replaced by a default.
type ConfigError struct {
	Kind   string // what was being parsed, e.g. "direction"
	Value  string // the offending input
	Reason string // optional detail
}

func NewConfigError(kind, value string) *ConfigError {
	return &ConfigError{Kind: kind, Value: value}
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Value, e.Reason)
	}
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
