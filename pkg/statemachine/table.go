package statemachine

import (
	"context"
	"fmt"
)

// Table is an immutable set of allowed transitions keyed by state name.
// It is safe for concurrent use.
type Table struct {
	states map[string]State
	order  []string
	edges  map[string][]Edge // from name → outgoing edges in declaration order
}

// Option configures a table during construction.
type Option func(*Table) error

// TransitionOption configures a single edge.
type TransitionOption func(*Edge)

// New builds a table from the given options.
func New(opts ...Option) (*Table, error) {
	t := &Table{
		states: make(map[string]State),
		edges:  make(map[string][]Edge),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew works like New but panics on a malformed definition.
func MustNew(opts ...Option) *Table {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to build transition table: %v", err))
	}
	return t
}

// WithStates registers states without edges. Use it for terminal states that
// nothing has been declared to leave from.
func WithStates(states ...State) Option {
	return func(t *Table) error {
		for _, s := range states {
			if s == nil {
				return ErrInvalidTransition
			}
			t.register(s)
		}
		return nil
	}
}

// WithTransition adds a single edge.
func WithTransition(from, to State, opts ...TransitionOption) Option {
	return func(t *Table) error {
		edge := Edge{From: from, To: to}
		for _, opt := range opts {
			opt(&edge)
		}
		return t.add(edge)
	}
}

// WithTransitions adds an unguarded edge from one state to each of the targets.
func WithTransitions(from State, to ...State) Option {
	return func(t *Table) error {
		if from == nil {
			return ErrInvalidTransition
		}
		t.register(from)
		for i, target := range to {
			if err := t.add(Edge{From: from, To: target}); err != nil {
				return fmt.Errorf("failed to add transition[%d] from %s: %w", i, from.Name(), err)
			}
		}
		return nil
	}
}

// WithGuard adds a single guard to an edge.
func WithGuard(guard Guard) TransitionOption {
	return func(e *Edge) {
		if guard != nil {
			e.Guards = append(e.Guards, guard)
		}
	}
}

// WithGuards adds multiple guards to an edge.
func WithGuards(guards ...Guard) TransitionOption {
	return func(e *Edge) {
		for _, guard := range guards {
			if guard != nil {
				e.Guards = append(e.Guards, guard)
			}
		}
	}
}

func (t *Table) register(s State) {
	if _, ok := t.states[s.Name()]; ok {
		return
	}
	t.states[s.Name()] = s
	t.order = append(t.order, s.Name())
}

func (t *Table) add(edge Edge) error {
	if edge.From == nil || edge.To == nil {
		return ErrInvalidTransition
	}
	for _, existing := range t.edges[edge.From.Name()] {
		if existing.To.Name() == edge.To.Name() {
			return fmt.Errorf("%w: %s -> %s", ErrDuplicateTransition, edge.From.Name(), edge.To.Name())
		}
	}
	t.register(edge.From)
	t.register(edge.To)
	t.edges[edge.From.Name()] = append(t.edges[edge.From.Name()], edge)
	return nil
}

func (t *Table) edge(from, to State) (Edge, bool) {
	for _, e := range t.edges[from.Name()] {
		if e.To.Name() == to.Name() {
			return e, true
		}
	}
	return Edge{}, false
}

// Transition reports whether moving from → to is allowed.
// It returns nil on success, *ErrNoTransitionAvailable when the edge is not
// declared and *ErrTransitionRejected when a guard vetoes it.
func (t *Table) Transition(ctx context.Context, from, to State, data any) error {
	if from == nil || to == nil {
		return ErrInvalidTransition
	}

	e, ok := t.edge(from, to)
	if !ok {
		return NewErrNoTransitionAvailable(from.Name(), to.Name())
	}

	for _, guard := range e.Guards {
		if !guard(ctx, from, to, data) {
			return NewErrTransitionRejected(from.Name(), to.Name())
		}
	}
	return nil
}

// HasTransition reports whether the edge from → to is declared, ignoring guards.
func (t *Table) HasTransition(from, to State) bool {
	if from == nil || to == nil {
		return false
	}
	_, ok := t.edge(from, to)
	return ok
}

// CanTransition is the boolean form of Transition.
func (t *Table) CanTransition(ctx context.Context, from, to State, data any) bool {
	return t.Transition(ctx, from, to, data) == nil
}

// Targets returns the states reachable from the given one in declaration order.
func (t *Table) Targets(from State) []State {
	if from == nil {
		return nil
	}
	edges := t.edges[from.Name()]
	out := make([]State, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.To)
	}
	return out
}

// IsTerminal reports whether the state is known and has no outgoing edges.
func (t *Table) IsTerminal(s State) bool {
	return t.Has(s) && len(t.edges[s.Name()]) == 0
}

// Has reports whether the state appears anywhere in the table.
func (t *Table) Has(s State) bool {
	if s == nil {
		return false
	}
	_, ok := t.states[s.Name()]
	return ok
}

// States returns every known state in first-declared order.
func (t *Table) States() []State {
	out := make([]State, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.states[name])
	}
	return out
}
