package fermentation

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/winery/pkg/statemachine"
	"github.com/dmitrymomot/winery/pkg/validator"
)

// lifecycleTable holds every allowed status change. STUCK and COMPLETED have
// no outgoing edges. Every edge into COMPLETED is guarded by the completion
// criteria and expects a CompletionInput as transition data.
var lifecycleTable = statemachine.MustNew(
	statemachine.WithTransitions(StatusActive, StatusDecline, StatusSlow),
	completes(StatusActive),
	statemachine.WithTransitions(StatusActive, StatusStuck),
	statemachine.WithTransitions(StatusLag, StatusActive, StatusStuck),
	statemachine.WithTransitions(StatusDecline, StatusSlow, StatusStuck),
	completes(StatusDecline),
	statemachine.WithTransitions(StatusSlow, StatusActive, StatusStuck),
	completes(StatusSlow),
	statemachine.WithStates(StatusStuck, StatusCompleted),
)

// CompletionInput is the data a batch is judged on when it is marked completed.
type CompletionInput struct {
	InputMassKg    float64
	FinalSugarBrix float64
	DurationDays   int
}

func completes(from Status) statemachine.Option {
	return statemachine.WithTransition(from, StatusCompleted, statemachine.WithGuard(completionGuard))
}

func completionGuard(_ context.Context, _, _ statemachine.State, data any) bool {
	in, ok := data.(CompletionInput)
	return ok && completionCriteria(in).IsValid()
}

// LifecycleValidator governs status transitions, batch creation and completion.
type LifecycleValidator struct {
	table *statemachine.Table
	now   func() time.Time
}

// LifecycleOption configures a LifecycleValidator.
type LifecycleOption func(*LifecycleValidator)

// WithLifecycleClock overrides the clock used for the vintage year check.
func WithLifecycleClock(now func() time.Time) LifecycleOption {
	return func(v *LifecycleValidator) {
		if now != nil {
			v.now = now
		}
	}
}

func NewLifecycleValidator(opts ...LifecycleOption) *LifecycleValidator {
	v := &LifecycleValidator{
		table: lifecycleTable,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Targets returns the statuses reachable from current in table order.
func (v *LifecycleValidator) Targets(current Status) []Status {
	states := v.table.Targets(current)
	out := make([]Status, 0, len(states))
	for _, s := range states {
		out = append(out, s.(Status))
	}
	return out
}

// IsTerminal reports whether no transition leaves the status.
func (v *LifecycleValidator) IsTerminal(s Status) bool {
	return v.table.IsTerminal(s)
}

// ValidateStatusTransition fails with a single status error when next is not
// reachable from current. Self-transitions are never allowed.
func (v *LifecycleValidator) ValidateStatusTransition(current, next Status) validator.Result {
	for _, s := range []Status{current, next} {
		if !v.table.Has(s) {
			return validator.Failure(validator.ValidationError{
				Field:         FieldStatus,
				Message:       fmt.Sprintf("unknown status %q", s),
				CurrentValue:  string(s),
				ExpectedRange: fmt.Sprintf("one of %v", Statuses()),
			})
		}
	}

	if !v.table.HasTransition(current, next) {
		msg := fmt.Sprintf("invalid status transition from %s to %s", current, next)
		expected := fmt.Sprintf("one of %v", v.Targets(current))
		if v.IsTerminal(current) {
			msg += fmt.Sprintf(": %s is a terminal status", current)
			expected = "none"
		}
		return validator.Failure(validator.ValidationError{
			Field:         FieldStatus,
			Message:       msg,
			CurrentValue:  string(next),
			ExpectedRange: expected,
		})
	}
	return validator.Success()
}

// ValidateTransition checks a status change including the guards of its edge.
// Moving to COMPLETED requires data to be a CompletionInput; when the
// completion guard rejects it, the failing criteria are reported.
func (v *LifecycleValidator) ValidateTransition(ctx context.Context, current, next Status, data any) validator.Result {
	if res := v.ValidateStatusTransition(current, next); !res.IsValid() {
		return res
	}

	err := v.table.Transition(ctx, current, next, data)
	if err == nil {
		return validator.Success()
	}
	if statemachine.IsTransitionRejectedError(err) {
		if in, ok := data.(CompletionInput); ok {
			if res := completionCriteria(in); !res.IsValid() {
				return res
			}
		}
	}
	return validator.Failure(validator.ValidationError{
		Field:        FieldStatus,
		Message:      fmt.Sprintf("transition from %s to %s was rejected: %v", current, next, err),
		CurrentValue: string(next),
	})
}

// ValidateCreationData checks every attribute of a new batch and reports all
// failures at once.
func (v *LifecycleValidator) ValidateCreationData(data CreationData) validator.Result {
	rules := []validator.Rule{
		validator.Positive(FieldInputMass, data.InputMassKg),
		validator.Between(FieldInitialSugar, data.InitialSugarBrix, 0, MaxInitialSugarBrix),
		validator.Positive(FieldInitialDens, data.InitialDensity),
		validator.YearNotAfter(FieldVintageYear, data.VintageYear, v.now()),
	}

	if data.InitialStatus != "" {
		rules = append(rules, validator.Rule{
			Check: func() bool {
				return data.InitialStatus == StatusActive || data.InitialStatus == StatusLag
			},
			Error: validator.ValidationError{
				Field:         FieldStatus,
				Message:       "a new fermentation must start as ACTIVE or LAG",
				CurrentValue:  string(data.InitialStatus),
				ExpectedRange: fmt.Sprintf("one of %v", []Status{StatusActive, StatusLag}),
			},
		})
	}

	if r := data.TemperatureRange; r != nil {
		rules = append(rules, validator.Rule{
			Check: func() bool { return r.Min <= r.Max },
			Error: validator.ValidationError{
				Field:        FieldTempRange,
				Message:      "minimum must not exceed maximum",
				CurrentValue: *r,
			},
		})
	}

	return validator.Collect(rules...)
}

// ValidateCompletionCriteria checks whether a batch may be marked completed
// and reports all failures at once.
func (v *LifecycleValidator) ValidateCompletionCriteria(inputMassKg, finalSugarBrix float64, durationDays int) validator.Result {
	return completionCriteria(CompletionInput{
		InputMassKg:    inputMassKg,
		FinalSugarBrix: finalSugarBrix,
		DurationDays:   durationDays,
	})
}

func completionCriteria(in CompletionInput) validator.Result {
	return validator.Collect(
		validator.MinNum(FieldDurationDays, in.DurationDays, MinFermentationDays),
		validator.LessThan(FieldFinalSugar, in.FinalSugarBrix, DryWineSugarThreshold),
		validator.Positive(FieldInputMass, in.InputMassKg),
		validator.NonNegative(FieldFinalSugar, in.FinalSugarBrix),
	)
}
