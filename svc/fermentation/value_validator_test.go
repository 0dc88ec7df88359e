package fermentation_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/svc/fermentation"
)

func TestValidateSampleValue(t *testing.T) {
	t.Parallel()

	valid := []struct {
		name  string
		value any
	}{
		{"float", 24.0},
		{"zero", 0.0},
		{"int", 18},
		{"uint8", uint8(3)},
		{"float32", float32(1.5)},
		{"numeric string", " 22.4 "},
		{"json number", json.Number("990.5")},
	}
	for _, tc := range valid {
		t.Run("accepts "+tc.name, func(t *testing.T) {
			t.Parallel()
			res := fermentation.ValidateSampleValue(fermentation.SampleTypeSugar, tc.value)
			assert.True(t, res.IsValid(), res.Errors)
		})
	}

	invalid := []struct {
		name    string
		value   any
		message string
	}{
		{"nil", nil, "value is required"},
		{"empty string", "", "value must not be empty"},
		{"blank string", "   ", "value must not be empty"},
		{"text", "sweet", "must be a valid number"},
		{"bool", true, "must be numeric, got bool"},
		{"negative", -0.1, "must not be negative"},
		{"negative int", -3, "must not be negative"},
		{"nan", math.NaN(), "must be a finite number"},
		{"infinity", math.Inf(1), "must be a finite number"},
	}
	for _, tc := range invalid {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			t.Parallel()
			res := fermentation.ValidateSampleValue(fermentation.SampleTypeTemperature, tc.value)
			require.False(t, res.IsValid())
			require.Len(t, res.Errors, 1)
			assert.Equal(t, fermentation.FieldValue, res.Errors[0].Field)
			assert.Equal(t, tc.message, res.Errors[0].Message)
		})
	}

	t.Run("rejects unknown sample type", func(t *testing.T) {
		t.Parallel()
		res := fermentation.ValidateSampleValue("PH", 3.4)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, fermentation.FieldSampleType, res.Errors[0].Field)
	})

	t.Run("reports type and value independently", func(t *testing.T) {
		t.Parallel()
		res := fermentation.ValidateSampleValue("", nil)
		assert.Equal(t, []string{fermentation.FieldSampleType, fermentation.FieldValue}, res.Errors.Fields())
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		for _, v := range []any{12.5, -4, "x", nil, ""} {
			first := fermentation.ValidateSampleValue(fermentation.SampleTypeDensity, v)
			second := fermentation.ValidateSampleValue(fermentation.SampleTypeDensity, v)
			assert.Equal(t, first, second, "value %v", v)
		}
	})
}

func TestValidateNumericValue(t *testing.T) {
	t.Parallel()

	assert.True(t, fermentation.ValidateNumericValue(-1e9, fermentation.Unbounded).IsValid())
	assert.False(t, fermentation.ValidateNumericValue(math.NaN(), fermentation.Unbounded).IsValid())

	bounds := fermentation.Bounds{Min: 10, Max: 35}
	assert.True(t, fermentation.ValidateNumericValue(10, bounds).IsValid())
	assert.True(t, fermentation.ValidateNumericValue(35, bounds).IsValid())

	low := fermentation.ValidateNumericValue(9.9, bounds)
	require.Len(t, low.Errors, 1)
	assert.Equal(t, ">= 10", low.Errors[0].ExpectedRange)

	high := fermentation.ValidateNumericValue(35.1, bounds)
	require.Len(t, high.Errors, 1)
	assert.Equal(t, "<= 35", high.Errors[0].ExpectedRange)

	halfOpen := fermentation.Bounds{Min: 0, Max: math.Inf(1)}
	assert.True(t, fermentation.ValidateNumericValue(1e12, halfOpen).IsValid())
}

func TestSampleType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "°Brix", fermentation.SampleTypeSugar.Units())
	assert.Equal(t, "°C", fermentation.SampleTypeTemperature.Units())
	assert.Equal(t, "g/mL", fermentation.SampleTypeDensity.Units())
	assert.Empty(t, fermentation.SampleType("PH").Units())

	st, err := fermentation.ParseSampleType(" sugar ")
	require.NoError(t, err)
	assert.Equal(t, fermentation.SampleTypeSugar, st)

	_, err = fermentation.ParseSampleType("ph")
	assert.ErrorIs(t, err, fermentation.ErrUnknownSampleType)

	for _, st := range fermentation.SampleTypes() {
		assert.True(t, st.IsValid())
		assert.NotEmpty(t, st.Units())
	}
}
