package fermentation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/winery/pkg/validator"
)

// ChronologyValidator keeps samples of one type strictly time-ordered within a batch.
type ChronologyValidator struct {
	samples       SampleReader
	fermentations FermentationReader
}

func NewChronologyValidator(samples SampleReader, fermentations FermentationReader) *ChronologyValidator {
	return &ChronologyValidator{samples: samples, fermentations: fermentations}
}

// ValidateSampleChronology fails when the sample is not strictly later than
// every stored sample of the same type. Samples of other types are ignored.
func (v *ChronologyValidator) ValidateSampleChronology(ctx context.Context, fermentationID uuid.UUID, sample Sample) validator.Result {
	if res := validator.Collect(
		validator.Rule{
			Check: func() bool { return sample.Type != "" },
			Error: validator.Errorf(FieldSampleType, "field is required"),
		},
		validator.RequiredTime(FieldRecordedAt, sample.RecordedAt),
	); !res.IsValid() {
		return res
	}

	if v.samples == nil {
		return missingCollaborator("sample reader")
	}

	prior, err := v.samples.GetSamplesByFermentationID(ctx, fermentationID)
	if err != nil {
		return validator.Failure(validator.Errorf(FieldChronology, "failed to load prior samples: %v", err))
	}

	var (
		latest time.Time
		found  bool
	)
	for _, p := range prior {
		if p.Type != sample.Type {
			continue
		}
		if !found || p.RecordedAt.After(latest) {
			latest = p.RecordedAt
			found = true
		}
	}
	if !found {
		return validator.Success()
	}

	rule := validator.TimeAfter(FieldRecordedAt, sample.RecordedAt, latest)
	rule.Error.Message = fmt.Sprintf(
		"must be after the latest %s sample recorded at %s",
		sample.Type, latest.Format(time.RFC3339),
	)
	return validator.First(rule)
}

// ValidateFermentationTimeline fails when timestamp precedes the batch start
// date or when the batch has no start date.
func (v *ChronologyValidator) ValidateFermentationTimeline(ctx context.Context, fermentationID uuid.UUID, timestamp time.Time) validator.Result {
	if v.fermentations == nil {
		return missingCollaborator("fermentation reader")
	}

	start, err := v.fermentations.GetFermentationStartDate(ctx, fermentationID)
	if err != nil {
		return validator.Failure(validator.Errorf(FieldTimeline, "failed to load fermentation start date: %v", err))
	}
	if start.IsZero() {
		return validator.Failure(validator.Errorf(FieldTimeline, "fermentation has no recorded start date"))
	}

	rule := validator.TimeNotBefore(FieldRecordedAt, timestamp, start)
	rule.Error.Message = fmt.Sprintf("must not be earlier than the fermentation start %s", start.Format(time.RFC3339))
	return validator.First(rule)
}

func missingCollaborator(name string) validator.Result {
	return validator.Failure(validator.Errorf(FieldRepository, "%s is not configured", name))
}
