package validator

import (
	"fmt"
	"math"
)

// MinNum validates that a numeric value is greater than or equal to the minimum.
func MinNum[T Numeric](field string, value T, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must be at least %v", min),
			CurrentValue:  value,
			ExpectedRange: fmt.Sprintf(">= %v", min),
		},
	}
}

// MaxNum validates that a numeric value is less than or equal to the maximum.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value <= max
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must be at most %v", max),
			CurrentValue:  value,
			ExpectedRange: fmt.Sprintf("<= %v", max),
		},
	}
}

// LessThan validates that a numeric value is strictly below the limit.
func LessThan[T Numeric](field string, value T, limit T) Rule {
	return Rule{
		Check: func() bool {
			return value < limit
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must be less than %v", limit),
			CurrentValue:  value,
			ExpectedRange: fmt.Sprintf("< %v", limit),
		},
	}
}

// Between validates that a numeric value lies within [min, max] inclusive.
func Between[T Numeric](field string, value T, min T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must be between %v and %v", min, max),
			CurrentValue:  value,
			ExpectedRange: fmt.Sprintf("[%v, %v]", min, max),
		},
	}
}

// Positive validates that a numeric value is strictly greater than zero.
func Positive[T Numeric](field string, value T) Rule {
	var zero T
	return Rule{
		Check: func() bool {
			return value > zero
		},
		Error: ValidationError{
			Field:         field,
			Message:       "must be greater than 0",
			CurrentValue:  value,
			ExpectedRange: "> 0",
		},
	}
}

// NonNegative validates that a numeric value is zero or greater.
func NonNegative[T Numeric](field string, value T) Rule {
	var zero T
	return Rule{
		Check: func() bool {
			return value >= zero
		},
		Error: ValidationError{
			Field:         field,
			Message:       "must not be negative",
			CurrentValue:  value,
			ExpectedRange: ">= 0",
		},
	}
}

// Finite validates that a float is neither NaN nor infinite.
func Finite(field string, value float64) Rule {
	return Rule{
		Check: func() bool {
			return !math.IsNaN(value) && !math.IsInf(value, 0)
		},
		Error: ValidationError{
			Field:        field,
			Message:      "must be a finite number",
			CurrentValue: value,
		},
	}
}
