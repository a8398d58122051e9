package chart

import "fmt"

// InvalidConfigurationError is returned when a splitter or batch can't produce a sensible sequence of steps.
type InvalidConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (err InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", err.Field, err.Value, err.Reason)
}

// InvalidBeatError is returned when an action's delivery beat is NaN or infinite and so can't be ordered.
type InvalidBeatError struct {
	Beat float64
	Cmd  string
}

func (err InvalidBeatError) Error() string {
	return fmt.Sprintf("action %s has non-finite beat %v", err.Cmd, err.Beat)
}
