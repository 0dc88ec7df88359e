package validator

import (
	"fmt"
	"time"
)

// RequiredTime validates that a timestamp is set.
func RequiredTime(field string, value time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.IsZero()
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
		},
	}
}

// TimeAfter validates that value is strictly after the given instant.
func TimeAfter(field string, value time.Time, after time.Time) Rule {
	return Rule{
		Check: func() bool {
			return value.After(after)
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must be after %s", after.Format(time.RFC3339)),
			CurrentValue:  value,
			ExpectedRange: "> " + after.Format(time.RFC3339),
		},
	}
}

// TimeNotBefore validates that value is equal to or later than the given instant.
func TimeNotBefore(field string, value time.Time, notBefore time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.Before(notBefore)
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must not be earlier than %s", notBefore.Format(time.RFC3339)),
			CurrentValue:  value,
			ExpectedRange: ">= " + notBefore.Format(time.RFC3339),
		},
	}
}

// YearNotAfter validates that a calendar year does not lie beyond the year of now.
func YearNotAfter(field string, year int, now time.Time) Rule {
	return Rule{
		Check: func() bool {
			return year <= now.Year()
		},
		Error: ValidationError{
			Field:         field,
			Message:       fmt.Sprintf("must not be in the future (current year is %d)", now.Year()),
			CurrentValue:  year,
			ExpectedRange: fmt.Sprintf("<= %d", now.Year()),
		},
	}
}
