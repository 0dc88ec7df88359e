package fermentation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/winery/pkg/validator"
)

// businessRule runs the trend or range check that applies to one sample type.
type businessRule func(ctx context.Context, o *Orchestrator, fermentationID uuid.UUID, sample Sample) validator.Result

// businessRules maps every sample type to its rule. A type without a rule
// must still be listed, which makes the omission visible.
var businessRules = mustCoverSampleTypes(map[SampleType]businessRule{
	SampleTypeSugar: func(ctx context.Context, o *Orchestrator, id uuid.UUID, s Sample) validator.Result {
		return o.rules.ValidateSugarTrend(ctx, s.Value, id, o.sugarTolerance)
	},
	SampleTypeTemperature: func(ctx context.Context, o *Orchestrator, id uuid.UUID, s Sample) validator.Result {
		return o.rules.ValidateTemperatureRange(ctx, s.Value, id)
	},
	SampleTypeDensity: noBusinessRule,
})

func noBusinessRule(context.Context, *Orchestrator, uuid.UUID, Sample) validator.Result {
	return validator.Success()
}

func mustCoverSampleTypes(rules map[SampleType]businessRule) map[SampleType]businessRule {
	for _, t := range SampleTypes() {
		if rules[t] == nil {
			panic(fmt.Sprintf("fermentation: no business rule registered for sample type %s", t))
		}
	}
	return rules
}

// Orchestrator runs chronology, value and business-rule checks in that order
// and stops at the first failing stage.
type Orchestrator struct {
	samples        SampleReader
	fermentations  FermentationReader
	chronology     *ChronologyValidator
	rules          *BusinessRuleValidator
	sugarTolerance float64
	checkTimeline  bool
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSugarTolerance sets how far sugar may rise between consecutive samples.
func WithSugarTolerance(tolerance float64) OrchestratorOption {
	return func(o *Orchestrator) {
		o.sugarTolerance = tolerance
	}
}

// WithTimelineCheck makes the chronology stage also reject samples recorded
// before the fermentation start date.
func WithTimelineCheck() OrchestratorOption {
	return func(o *Orchestrator) {
		o.checkTimeline = true
	}
}

func NewOrchestrator(samples SampleReader, fermentations FermentationReader, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		samples:       samples,
		fermentations: fermentations,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.chronology = NewChronologyValidator(samples, fermentations)
	o.rules = NewBusinessRuleValidator(samples, fermentations)
	return o
}

// withSamples returns a copy reading samples from r.
func (o *Orchestrator) withSamples(r SampleReader) *Orchestrator {
	c := *o
	c.samples = r
	c.chronology = NewChronologyValidator(r, o.fermentations)
	c.rules = NewBusinessRuleValidator(r, o.fermentations)
	return &c
}

// ValidateSampleComplete validates one sample against the batch history.
// Warnings of every passed stage are carried into the result.
func (o *Orchestrator) ValidateSampleComplete(ctx context.Context, fermentationID uuid.UUID, sample Sample) validator.Result {
	res := o.chronology.ValidateSampleChronology(ctx, fermentationID, sample)
	if res.IsValid() && o.checkTimeline {
		res = res.Merge(o.chronology.ValidateFermentationTimeline(ctx, fermentationID, sample.RecordedAt))
	}
	if !res.IsValid() {
		return res
	}

	res = res.Merge(ValidateSampleValue(sample.Type, sample.Value))
	if !res.IsValid() {
		return res
	}

	rule, ok := businessRules[sample.Type]
	if !ok {
		// ValidateSampleValue already rejects unknown types.
		panic(fmt.Sprintf("fermentation: no business rule for sample type %s", sample.Type))
	}
	return res.Merge(rule(ctx, o, fermentationID, sample))
}

// SampleOrigin is the origin tag given to diagnostics of the i-th sample of a batch.
func SampleOrigin(i int) string {
	return fmt.Sprintf("samples[%d]", i)
}

// ValidateSampleBatch validates samples in order. Each sample sees the stored
// history plus the samples before it in the batch that passed. Every
// diagnostic is tagged with SampleOrigin; a failing sample does not affect
// the outcome of the ones already accepted.
func (o *Orchestrator) ValidateSampleBatch(ctx context.Context, fermentationID uuid.UUID, samples []Sample) validator.Result {
	run := o
	var overlay *batchOverlay
	if o.samples != nil {
		overlay = newBatchOverlay(o.samples)
		run = o.withSamples(overlay)
	}

	result := validator.Success()
	for i, s := range samples {
		res := run.ValidateSampleComplete(ctx, fermentationID, s).WithOrigin(SampleOrigin(i))
		if res.IsValid() && overlay != nil {
			overlay.accept(fermentationID, s)
		}
		result = result.Merge(res)
	}
	return result
}
