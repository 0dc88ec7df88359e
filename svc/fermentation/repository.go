package fermentation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SampleReader gives the validators read access to recorded samples.
type SampleReader interface {
	// GetSamplesByFermentationID returns every sample of the batch ordered by RecordedAt ascending.
	GetSamplesByFermentationID(ctx context.Context, fermentationID uuid.UUID) ([]Sample, error)
	// GetLatestSampleByType returns nil when the batch has no sample of that type.
	GetLatestSampleByType(ctx context.Context, fermentationID uuid.UUID, sampleType SampleType) (*Sample, error)
}

// FermentationReader gives the validators read access to batch-level data.
type FermentationReader interface {
	// GetFermentationStartDate returns the zero time when no start date is recorded.
	GetFermentationStartDate(ctx context.Context, fermentationID uuid.UUID) (time.Time, error)
	// GetFermentationTemperatureRange returns nil when no band is configured.
	GetFermentationTemperatureRange(ctx context.Context, fermentationID uuid.UUID) (*TemperatureRange, error)
}

// DuplicateChecker reports whether a sample of the same type already exists at
// the same timestamp. excludeSampleID may be uuid.Nil.
type DuplicateChecker interface {
	CheckDuplicateTimestamp(ctx context.Context, fermentationID uuid.UUID, sample Sample, excludeSampleID uuid.UUID) (bool, error)
}

// Storage is the persistence boundary used by Service.
type Storage interface {
	SampleReader
	FermentationReader
	DuplicateChecker

	CreateFermentation(ctx context.Context, f Fermentation) error
	// GetFermentation returns ErrFermentationNotFound for unknown batches.
	GetFermentation(ctx context.Context, id uuid.UUID) (Fermentation, error)
	// UpdateFermentationStatus moves the batch from one status to another and
	// returns ErrStatusConflict when the stored status is no longer from.
	UpdateFermentationStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error
	// CreateSample returns ErrDuplicateSample when the type and timestamp are already taken.
	CreateSample(ctx context.Context, s Sample) error
}
