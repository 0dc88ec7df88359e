package fermentation

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// batchOverlay extends a SampleReader with samples accepted earlier in the
// same batch. It is used by a single ValidateSampleBatch call and is not
// safe for concurrent use.
type batchOverlay struct {
	base     SampleReader
	accepted map[uuid.UUID][]Sample
}

func newBatchOverlay(base SampleReader) *batchOverlay {
	return &batchOverlay{base: base, accepted: make(map[uuid.UUID][]Sample)}
}

func (b *batchOverlay) accept(fermentationID uuid.UUID, s Sample) {
	b.accepted[fermentationID] = append(b.accepted[fermentationID], s)
}

func (b *batchOverlay) GetSamplesByFermentationID(ctx context.Context, fermentationID uuid.UUID) ([]Sample, error) {
	stored, err := b.base.GetSamplesByFermentationID(ctx, fermentationID)
	if err != nil {
		return nil, err
	}
	extra := b.accepted[fermentationID]
	if len(extra) == 0 {
		return stored, nil
	}

	out := make([]Sample, 0, len(stored)+len(extra))
	out = append(out, stored...)
	out = append(out, extra...)
	slices.SortStableFunc(out, func(a, b Sample) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})
	return out, nil
}

func (b *batchOverlay) GetLatestSampleByType(ctx context.Context, fermentationID uuid.UUID, sampleType SampleType) (*Sample, error) {
	latest, err := b.base.GetLatestSampleByType(ctx, fermentationID, sampleType)
	if err != nil {
		return nil, err
	}
	for _, s := range b.accepted[fermentationID] {
		if s.Type != sampleType {
			continue
		}
		if latest == nil || !s.RecordedAt.Before(latest.RecordedAt) {
			latest = &s
		}
	}
	return latest, nil
}
