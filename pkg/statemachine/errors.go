package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("invalid transition: from and to cannot be nil")
	ErrDuplicateTransition = errors.New("transition declared twice")
)

// ErrNoTransitionAvailable indicates the table declares no edge between the two states.
type ErrNoTransitionAvailable struct {
	From string
	To   string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' to state '%s'", e.From, e.To)
}

func NewErrNoTransitionAvailable(from, to string) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{From: from, To: to}
}

// ErrTransitionRejected indicates a declared edge was blocked by a guard.
type ErrTransitionRejected struct {
	From string
	To   string
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state '%s' to state '%s' was rejected by guards", e.From, e.To)
}

func NewErrTransitionRejected(from, to string) *ErrTransitionRejected {
	return &ErrTransitionRejected{From: from, To: to}
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
