package statemachine

import "context"

// State represents a state in the lifecycle.
type State interface {
	Name() string
}

// Guard evaluates whether a declared edge may be taken based on runtime conditions.
type Guard func(ctx context.Context, from, to State, data any) bool

// Edge is a single allowed from → to move.
type Edge struct {
	From   State
	To     State
	Guards []Guard // all must pass for the edge to be taken
}

// StringState provides a simple string-based state implementation.
type StringState string

func (s StringState) Name() string {
	return string(s)
}
