package fermentation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/winery/pkg/validator"
)

// trendEpsilon absorbs float rounding when comparing against the tolerance.
const trendEpsilon = 1e-9

// BusinessRuleValidator checks per-type trend and range rules.
type BusinessRuleValidator struct {
	samples       SampleReader
	fermentations FermentationReader
}

func NewBusinessRuleValidator(samples SampleReader, fermentations FermentationReader) *BusinessRuleValidator {
	return &BusinessRuleValidator{samples: samples, fermentations: fermentations}
}

// ValidateSugarTrend fails when current exceeds the latest stored sugar value
// by more than tolerance. A rise within tolerance passes with a warning.
// Negative tolerances are treated as zero.
func (v *BusinessRuleValidator) ValidateSugarTrend(ctx context.Context, current float64, fermentationID uuid.UUID, tolerance float64) validator.Result {
	if v.samples == nil {
		return missingCollaborator("sample reader")
	}
	tolerance = max(tolerance, 0)

	prev, err := v.samples.GetLatestSampleByType(ctx, fermentationID, SampleTypeSugar)
	if err != nil {
		return validator.Failure(validator.Errorf(FieldSugarTrend, "failed to load previous sugar sample: %v", err))
	}
	if prev == nil {
		return validator.Success()
	}

	units := SampleTypeSugar.Units()
	rise := current - prev.Value
	switch {
	case rise > tolerance+trendEpsilon:
		return validator.Failure(validator.ValidationError{
			Field: FieldSugar,
			Message: fmt.Sprintf(
				"sugar increased from %g to %g %s: increasing trend not allowed during fermentation",
				prev.Value, current, units,
			),
			CurrentValue:  current,
			ExpectedRange: fmt.Sprintf("<= %g", prev.Value+tolerance),
		})
	case rise > 0:
		return validator.Warning(validator.ValidationError{
			Field:         FieldSugar,
			Message:       fmt.Sprintf("sugar rose from %g to %g %s within tolerance %g", prev.Value, current, units, tolerance),
			CurrentValue:  current,
			ExpectedRange: fmt.Sprintf("<= %g", prev.Value),
		})
	}
	return validator.Success()
}

// ValidateTemperatureRange fails when temperature lies outside the batch band.
// Batches without a configured band accept any temperature.
func (v *BusinessRuleValidator) ValidateTemperatureRange(ctx context.Context, temperature float64, fermentationID uuid.UUID) validator.Result {
	if v.fermentations == nil {
		return missingCollaborator("fermentation reader")
	}

	band, err := v.fermentations.GetFermentationTemperatureRange(ctx, fermentationID)
	if err != nil {
		return validator.Failure(validator.Errorf(FieldTempRange, "failed to load temperature range: %v", err))
	}
	if band == nil {
		return validator.Success()
	}

	rule := validator.Between(FieldTemperature, temperature, band.Min, band.Max)
	rule.Error.Message = fmt.Sprintf(
		"temperature %g %s is outside the allowed range %g to %g %s",
		temperature, SampleTypeTemperature.Units(), band.Min, band.Max, SampleTypeTemperature.Units(),
	)
	return validator.First(rule)
}
