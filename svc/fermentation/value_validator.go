package fermentation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrymomot/winery/pkg/validator"
)

// Bounds limits a numeric value. Infinite bounds are not checked.
type Bounds struct {
	Min float64
	Max float64
}

// Unbounded accepts every finite number.
var Unbounded = Bounds{Min: math.Inf(-1), Max: math.Inf(1)}

// ValidateSampleValue checks that value is a well-formed, non-negative number
// for a known sample type. value may be any numeric kind, a json.Number or
// its textual form.
func ValidateSampleValue(sampleType SampleType, value any) validator.Result {
	var typeResult validator.Result
	if !sampleType.IsValid() {
		typeResult = validator.Failure(validator.ValidationError{
			Field:         FieldSampleType,
			Message:       "unknown sample type",
			CurrentValue:  string(sampleType),
			ExpectedRange: fmt.Sprintf("one of %v", SampleTypes()),
		})
	}

	n, coerceErr := coerceNumber(value)
	if coerceErr != nil {
		return typeResult.Merge(validator.Failure(*coerceErr))
	}

	return typeResult.Merge(validator.First(
		validator.Finite(FieldValue, n),
		validator.NonNegative(FieldValue, n),
	))
}

// ValidateNumericValue checks value against the given inclusive bounds.
func ValidateNumericValue(value float64, bounds Bounds) validator.Result {
	rules := []validator.Rule{validator.Finite(FieldValue, value)}
	if !math.IsInf(bounds.Min, 0) {
		rules = append(rules, validator.MinNum(FieldValue, value, bounds.Min))
	}
	if !math.IsInf(bounds.Max, 0) {
		rules = append(rules, validator.MaxNum(FieldValue, value, bounds.Max))
	}
	return validator.First(rules...)
}

func coerceNumber(value any) (float64, *validator.ValidationError) {
	switch v := value.(type) {
	case nil:
		return 0, &validator.ValidationError{Field: FieldValue, Message: "value is required"}
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return parseNumber(string(v))
	case string:
		return parseNumber(v)
	case *float64:
		if v == nil {
			return 0, &validator.ValidationError{Field: FieldValue, Message: "value is required"}
		}
		return *v, nil
	default:
		return 0, &validator.ValidationError{
			Field:        FieldValue,
			Message:      fmt.Sprintf("must be numeric, got %T", value),
			CurrentValue: value,
		}
	}
}

func parseNumber(s string) (float64, *validator.ValidationError) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &validator.ValidationError{Field: FieldValue, Message: "value must not be empty", CurrentValue: s}
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &validator.ValidationError{Field: FieldValue, Message: "must be a valid number", CurrentValue: s}
	}
	return n, nil
}
