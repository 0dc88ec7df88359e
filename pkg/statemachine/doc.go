// Package statemachine provides an immutable transition table for modelling
// finite-state lifecycles.
//
// The package revolves around the State interface and a Table that records,
// for every state, the set of states it may move to. Unlike an event-driven
// machine the table holds no current state: callers ask whether a concrete
// from → to change is legal, which fits domains where the current state lives
// in a database row rather than in process memory.
//
// The table handles:
//  1. Edge lookup in O(1) per (from, to) pair
//  2. Optional Guard evaluation to accept or reject an otherwise legal edge
//  3. Terminal-state detection (known states with no outgoing edges)
//
// # Architecture
//
// A Table is built once with functional options and never changes afterwards,
// so it is safe for concurrent use without locking. Edge order is preserved so
// Targets reports allowed next states in the order they were declared.
//
// Rich error types with helper predicates (IsNoTransitionAvailableError,
// IsTransitionRejectedError) allow callers to differentiate between "edge not
// defined" and "guard rejected" cases.
//
// # Usage
//
//	const (
//	    Draft     = statemachine.StringState("draft")
//	    Published = statemachine.StringState("published")
//	    Archived  = statemachine.StringState("archived")
//	)
//
//	table := statemachine.MustNew(
//	    statemachine.WithTransitions(Draft, Published, Archived),
//	    statemachine.WithTransitions(Published, Archived),
//	)
//
//	err := table.Transition(ctx, Published, Draft, nil)
//	// statemachine.IsNoTransitionAvailableError(err) == true
//	table.IsTerminal(Archived) // true
//
// # Guards
//
// Guards veto a declared edge based on runtime data:
//
//	reviewed := func(ctx context.Context, from, to statemachine.State, data any) bool {
//	    ok, _ := data.(bool)
//	    return ok
//	}
//
//	table := statemachine.MustNew(
//	    statemachine.WithTransition(Draft, Published, statemachine.WithGuard(reviewed)),
//	)
package statemachine
