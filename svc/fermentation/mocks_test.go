package fermentation_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/winery/svc/fermentation"
)

var harvest = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

type MockSampleReader struct {
	mock.Mock
}

func (m *MockSampleReader) GetSamplesByFermentationID(ctx context.Context, id uuid.UUID) ([]fermentation.Sample, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fermentation.Sample), args.Error(1)
}

func (m *MockSampleReader) GetLatestSampleByType(ctx context.Context, id uuid.UUID, t fermentation.SampleType) (*fermentation.Sample, error) {
	args := m.Called(ctx, id, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fermentation.Sample), args.Error(1)
}

type MockFermentationReader struct {
	mock.Mock
}

func (m *MockFermentationReader) GetFermentationStartDate(ctx context.Context, id uuid.UUID) (time.Time, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockFermentationReader) GetFermentationTemperatureRange(ctx context.Context, id uuid.UUID) (*fermentation.TemperatureRange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fermentation.TemperatureRange), args.Error(1)
}

func sugar(v float64, at time.Time) fermentation.Sample {
	return fermentation.Sample{Type: fermentation.SampleTypeSugar, Value: v, RecordedAt: at}
}

func temperature(v float64, at time.Time) fermentation.Sample {
	return fermentation.Sample{Type: fermentation.SampleTypeTemperature, Value: v, RecordedAt: at}
}

func density(v float64, at time.Time) fermentation.Sample {
	return fermentation.Sample{Type: fermentation.SampleTypeDensity, Value: v, RecordedAt: at}
}

// newBatch stores a fermentation starting at harvest and returns its ID.
func newBatch(s *fermentation.MemoryStorage, band *fermentation.TemperatureRange) uuid.UUID {
	id := uuid.New()
	_ = s.CreateFermentation(context.Background(), fermentation.Fermentation{
		ID:               id,
		Status:           fermentation.StatusActive,
		StartDate:        harvest,
		InputMassKg:      1000,
		InitialSugarBrix: 24,
		InitialDensity:   1.1,
		VintageYear:      2024,
		TemperatureRange: band,
	})
	return id
}
