package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	t.Run("returns default message when no errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with single error", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "sugar", Message: "is required"})
		assert.Equal(t, "validation failed: sugar: is required", errs.Error())
	})

	t.Run("prefixes origin when present", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "recorded_at", Message: "out of order", Origin: "samples[2]"})
		assert.Equal(t, "validation failed: samples[2].recorded_at: out of order", errs.Error())
	})
}

func TestValidationErrors_Accessors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "sugar", Message: "first"},
		{Field: "temperature", Message: "second"},
		{Field: "sugar", Message: "third"},
	}

	assert.True(t, errs.Has("sugar"))
	assert.False(t, errs.Has("density"))
	assert.Equal(t, []string{"first", "third"}, errs.Get("sugar"))
	assert.Equal(t, []string{"sugar", "temperature"}, errs.Fields())
	assert.False(t, errs.IsEmpty())
	assert.True(t, validator.ValidationErrors(nil).IsEmpty())
}

func TestCollect(t *testing.T) {
	t.Parallel()

	t.Run("accumulates every failing rule in order", func(t *testing.T) {
		res := validator.Collect(
			validator.Positive("input_mass_kg", -1.0),
			validator.Between("initial_sugar_brix", 12.0, 0, 30),
			validator.Positive("initial_density", 0.0),
		)
		require.False(t, res.IsValid())
		require.Len(t, res.Errors, 2)
		assert.Equal(t, "input_mass_kg", res.Errors[0].Field)
		assert.Equal(t, "initial_density", res.Errors[1].Field)
	})

	t.Run("valid when all rules pass", func(t *testing.T) {
		res := validator.Collect(validator.Positive("input_mass_kg", 10))
		assert.True(t, res.IsValid())
		assert.Empty(t, res.Errors)
	})
}

func TestFirst(t *testing.T) {
	t.Parallel()

	calls := 0
	counting := func(ok bool) validator.Rule {
		return validator.Rule{
			Check: func() bool { calls++; return ok },
			Error: validator.ValidationError{Field: fmt.Sprintf("rule%d", calls)},
		}
	}

	res := validator.First(counting(true), counting(false), counting(false))
	require.False(t, res.IsValid())
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, 2, calls, "evaluation must stop at the first failure")
}

func TestApplyAndExtract(t *testing.T) {
	t.Parallel()

	err := validator.Apply(validator.NonNegative("value", -3))
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	wrapped := fmt.Errorf("import: %w", err)
	extracted := validator.ExtractValidationErrors(wrapped)
	require.Len(t, extracted, 1)
	assert.Equal(t, "value", extracted[0].Field)

	assert.NoError(t, validator.Apply(validator.NonNegative("value", 3)))
	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))
	assert.False(t, validator.IsValidationError(errors.New("plain")))
}
