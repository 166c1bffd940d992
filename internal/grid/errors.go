package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches every configuration failure: bad sizes, channel
	// counts, empty palettes and the like. Raised before any work is done.
	ErrConfig = errors.New("maptex: invalid configuration")

	// ErrInvalidGeometry matches geometry the algorithms cannot map, such as
	// a zero-area triangle.
	ErrInvalidGeometry = errors.New("maptex: invalid geometry")
)

// ConfigError describes which input was rejected and why.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("maptex: invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfig) hold for every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
