package fermentation

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-process Storage. It returns copies so callers cannot
// modify stored records.
type MemoryStorage struct {
	mu            sync.RWMutex
	fermentations map[uuid.UUID]Fermentation
	samples       map[uuid.UUID][]Sample // kept sorted by RecordedAt
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		fermentations: make(map[uuid.UUID]Fermentation),
		samples:       make(map[uuid.UUID][]Sample),
	}
}

func (m *MemoryStorage) CreateFermentation(_ context.Context, f Fermentation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f.TemperatureRange = cloneRange(f.TemperatureRange)
	m.fermentations[f.ID] = f
	return nil
}

func (m *MemoryStorage) GetFermentation(_ context.Context, id uuid.UUID) (Fermentation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.fermentations[id]
	if !ok {
		return Fermentation{}, ErrFermentationNotFound
	}
	f.TemperatureRange = cloneRange(f.TemperatureRange)
	return f, nil
}

func (m *MemoryStorage) UpdateFermentationStatus(_ context.Context, id uuid.UUID, from, to Status, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.fermentations[id]
	if !ok {
		return ErrFermentationNotFound
	}
	if f.Status != from {
		return ErrStatusConflict
	}
	f.Status = to
	f.UpdatedAt = at
	m.fermentations[id] = f
	return nil
}

func (m *MemoryStorage) CreateSample(_ context.Context, s Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.fermentations[s.FermentationID]; !ok {
		return ErrFermentationNotFound
	}
	list := m.samples[s.FermentationID]
	for _, existing := range list {
		if existing.Type == s.Type && existing.RecordedAt.Equal(s.RecordedAt) {
			return ErrDuplicateSample
		}
	}

	i, _ := slices.BinarySearchFunc(list, s.RecordedAt, func(e Sample, t time.Time) int {
		if e.RecordedAt.After(t) {
			return 1
		}
		return -1
	})
	m.samples[s.FermentationID] = slices.Insert(list, i, s)
	return nil
}

func (m *MemoryStorage) GetSamplesByFermentationID(_ context.Context, fermentationID uuid.UUID) ([]Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.samples[fermentationID]), nil
}

func (m *MemoryStorage) GetLatestSampleByType(_ context.Context, fermentationID uuid.UUID, sampleType SampleType) (*Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.samples[fermentationID]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Type == sampleType {
			s := list[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) GetFermentationStartDate(_ context.Context, fermentationID uuid.UUID) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.fermentations[fermentationID]
	if !ok {
		return time.Time{}, ErrFermentationNotFound
	}
	return f.StartDate, nil
}

func (m *MemoryStorage) GetFermentationTemperatureRange(_ context.Context, fermentationID uuid.UUID) (*TemperatureRange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.fermentations[fermentationID]
	if !ok {
		return nil, ErrFermentationNotFound
	}
	return cloneRange(f.TemperatureRange), nil
}

func (m *MemoryStorage) CheckDuplicateTimestamp(_ context.Context, fermentationID uuid.UUID, sample Sample, excludeSampleID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, existing := range m.samples[fermentationID] {
		if excludeSampleID != uuid.Nil && existing.ID == excludeSampleID {
			continue
		}
		if existing.Type == sample.Type && existing.RecordedAt.Equal(sample.RecordedAt) {
			return true, nil
		}
	}
	return false, nil
}

func cloneRange(r *TemperatureRange) *TemperatureRange {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
