package fermentation_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/pkg/logger"
	"github.com/dmitrymomot/winery/svc/fermentation"
)

type fixture struct {
	svc     *fermentation.Service
	storage *fermentation.MemoryStorage
	reg     *prometheus.Registry
	now     *time.Time
	logs    *bytes.Buffer
}

func newFixture(t *testing.T, opts ...fermentation.ServiceOption) *fixture {
	t.Helper()
	f := &fixture{
		storage: fermentation.NewMemoryStorage(),
		reg:     prometheus.NewRegistry(),
		logs:    &bytes.Buffer{},
	}
	now := harvest
	f.now = &now
	clock := func() time.Time { return *f.now }

	base := []fermentation.ServiceOption{
		fermentation.WithClock(clock),
		fermentation.WithMetrics(fermentation.NewMetrics(f.reg)),
		fermentation.WithLogger(logger.New(
			logger.WithOutput(f.logs),
			logger.WithFormat(logger.FormatJSON),
			logger.WithLevel(-8),
		)),
	}
	f.svc = fermentation.NewService(f.storage, append(base, opts...)...)
	return f
}

func (f *fixture) create(t *testing.T) fermentation.Fermentation {
	t.Helper()
	batch, res, err := f.svc.CreateFermentation(context.Background(), fermentation.CreationData{
		InputMassKg:      1000,
		InitialSugarBrix: 24,
		InitialDensity:   1.1,
		VintageYear:      2024,
	})
	require.NoError(t, err)
	require.True(t, res.IsValid(), res.Errors)
	return batch
}

func TestService_CreateFermentation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)

		assert.Equal(t, fermentation.StatusActive, batch.Status)
		assert.Equal(t, harvest, batch.StartDate)

		stored, err := f.svc.GetFermentation(ctx, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, batch, stored)
		assert.Equal(t, 1.0, metricValidations(f, fermentation.OpCreateFermentation, "accepted"))
	})

	t.Run("rejected data is not stored", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch, res, err := f.svc.CreateFermentation(ctx, fermentation.CreationData{InputMassKg: -5, InitialDensity: 1, VintageYear: 2024})
		require.NoError(t, err)
		assert.False(t, res.IsValid())
		assert.Equal(t, uuid.Nil, batch.ID)
		assert.Equal(t, []string{fermentation.FieldInputMass}, res.Errors.Fields())
		assert.Contains(t, f.logs.String(), "fermentation rejected")
		assert.Equal(t, 1.0, metricValidations(f, fermentation.OpCreateFermentation, "rejected"))
	})
}

func TestService_RecordSample(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores accepted samples", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)

		stored, res, err := f.svc.RecordSample(ctx, batch.ID, sugar(24, harvest.Add(time.Hour)))
		require.NoError(t, err)
		require.True(t, res.IsValid())
		assert.NotEqual(t, uuid.Nil, stored.ID)
		assert.Equal(t, batch.ID, stored.FermentationID)

		all, err := f.storage.GetSamplesByFermentationID(ctx, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, []fermentation.Sample{stored}, all)
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)
		at := harvest.Add(time.Hour)

		_, _, err := f.svc.RecordSample(ctx, batch.ID, sugar(24, at))
		require.NoError(t, err)

		_, res, err := f.svc.RecordSample(ctx, batch.ID, sugar(23, at))
		require.NoError(t, err)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, fermentation.FieldRecordedAt, res.Errors[0].Field)
		assert.Contains(t, res.Errors[0].Message, "already recorded")

		// Another type at the same instant is fine.
		_, res, err = f.svc.RecordSample(ctx, batch.ID, temperature(18, at))
		require.NoError(t, err)
		assert.True(t, res.IsValid())
	})

	t.Run("rejected sample is not stored", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)

		_, _, err := f.svc.RecordSample(ctx, batch.ID, sugar(22, harvest.Add(time.Hour)))
		require.NoError(t, err)
		_, res, err := f.svc.RecordSample(ctx, batch.ID, sugar(23, harvest.Add(2*time.Hour)))
		require.NoError(t, err)
		assert.False(t, res.IsValid())

		all, _ := f.storage.GetSamplesByFermentationID(ctx, batch.ID)
		assert.Len(t, all, 1)
		assert.Equal(t, 1.0, metricRejections(f, fermentation.OpRecordSample, fermentation.FieldSugar))
		assert.Contains(t, f.logs.String(), "sample rejected")
	})

	t.Run("unknown fermentation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, _, err := f.svc.RecordSample(ctx, uuid.New(), sugar(22, harvest))
		assert.ErrorIs(t, err, fermentation.ErrFermentationNotFound)
	})

	t.Run("timeline option", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, fermentation.WithOrchestratorOptions(fermentation.WithTimelineCheck()))
		batch := f.create(t)

		_, res, err := f.svc.RecordSample(ctx, batch.ID, sugar(22, harvest.Add(-time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, []string{fermentation.FieldRecordedAt}, res.Errors.Fields())
	})

	t.Run("concurrent submissions keep one sample per timestamp", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)
		at := harvest.Add(time.Hour)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, res, err := f.svc.RecordSample(ctx, batch.ID, sugar(20, at))
				assert.NoError(t, err)
				if res.IsValid() {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, accepted)
		all, _ := f.storage.GetSamplesByFermentationID(ctx, batch.ID)
		assert.Len(t, all, 1)
	})

	t.Run("lock failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, fermentation.WithLocker(failingLocker{}))
		batch := f.create(t)

		_, _, err := f.svc.RecordSample(ctx, batch.ID, sugar(22, harvest))
		assert.ErrorIs(t, err, fermentation.ErrFailedToAcquireLock)
	})
}

func TestService_ImportSamples(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	batch := f.create(t)

	_, _, err := f.svc.RecordSample(ctx, batch.ID, sugar(24, harvest.Add(time.Hour)))
	require.NoError(t, err)

	samples := []fermentation.Sample{
		sugar(23, harvest.Add(2*time.Hour)),
		sugar(25, harvest.Add(3*time.Hour)),
		sugar(22, harvest.Add(4*time.Hour)),
		density(1.085, harvest.Add(4*time.Hour)),
	}

	res, err := f.svc.ValidateSamples(ctx, batch.ID, samples)
	require.NoError(t, err)
	assert.False(t, res.ForOrigin("samples[1]").IsValid())

	stored, res, err := f.svc.ImportSamples(ctx, batch.ID, samples)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, []string{fermentation.FieldSugar}, res.Errors.Fields())
	assert.Equal(t, "samples[1]", res.Errors[0].Origin)

	all, _ := f.storage.GetSamplesByFermentationID(ctx, batch.ID)
	assert.Len(t, all, 4)
	assert.Contains(t, f.logs.String(), "samples imported")
	assert.Equal(t, 1.0, metricValidations(f, fermentation.OpImportSamples, "rejected"))

	_, _, err = f.svc.ImportSamples(ctx, uuid.New(), samples)
	assert.ErrorIs(t, err, fermentation.ErrFermentationNotFound)
}

func TestService_ChangeStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("allowed transition", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)

		updated, res, err := f.svc.ChangeStatus(ctx, batch.ID, fermentation.StatusSlow)
		require.NoError(t, err)
		require.True(t, res.IsValid())
		assert.Equal(t, fermentation.StatusSlow, updated.Status)

		stored, _ := f.svc.GetFermentation(ctx, batch.ID)
		assert.Equal(t, fermentation.StatusSlow, stored.Status)
		assert.Equal(t, 1.0, metricTransitions(f, fermentation.StatusActive, fermentation.StatusSlow))
	})

	t.Run("illegal transition", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)

		_, res, err := f.svc.ChangeStatus(ctx, batch.ID, fermentation.StatusLag)
		require.NoError(t, err)
		assert.Equal(t, []string{fermentation.FieldStatus}, res.Errors.Fields())

		stored, _ := f.svc.GetFermentation(ctx, batch.ID)
		assert.Equal(t, fermentation.StatusActive, stored.Status)
	})

	t.Run("completion requires a sugar sample", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)
		*f.now = harvest.Add(10 * 24 * time.Hour)

		_, res, err := f.svc.ChangeStatus(ctx, batch.ID, fermentation.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, []string{fermentation.FieldFinalSugar}, res.Errors.Fields())
	})

	t.Run("completion criteria", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		batch := f.create(t)

		_, _, err := f.svc.RecordSample(ctx, batch.ID, sugar(8, harvest.Add(time.Hour)))
		require.NoError(t, err)
		_, _, err = f.svc.RecordSample(ctx, batch.ID, sugar(3.5, harvest.Add(5*24*time.Hour)))
		require.NoError(t, err)

		*f.now = harvest.Add(6*24*time.Hour + 23*time.Hour)
		_, res, err := f.svc.ChangeStatus(ctx, batch.ID, fermentation.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, []string{fermentation.FieldDurationDays}, res.Errors.Fields())

		*f.now = harvest.Add(7 * 24 * time.Hour)
		updated, res, err := f.svc.ChangeStatus(ctx, batch.ID, fermentation.StatusCompleted)
		require.NoError(t, err)
		require.True(t, res.IsValid(), res.Errors)
		assert.Equal(t, fermentation.StatusCompleted, updated.Status)

		_, res, err = f.svc.ChangeStatus(ctx, batch.ID, fermentation.StatusActive)
		require.NoError(t, err)
		assert.False(t, res.IsValid())
	})

	t.Run("unknown fermentation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, _, err := f.svc.ChangeStatus(ctx, uuid.New(), fermentation.StatusSlow)
		assert.ErrorIs(t, err, fermentation.ErrFermentationNotFound)
	})
}

func TestDaysSince(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, fermentation.DaysSince(harvest, harvest))
	assert.Equal(t, 0, fermentation.DaysSince(harvest, harvest.Add(-time.Hour)))
	assert.Equal(t, 6, fermentation.DaysSince(harvest, harvest.Add(7*24*time.Hour-time.Second)))
	assert.Equal(t, 7, fermentation.DaysSince(harvest, harvest.Add(7*24*time.Hour)))
}

func TestMemoryLocker(t *testing.T) {
	t.Parallel()
	l := fermentation.NewMemoryLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "a")
	require.NoError(t, err)

	// A different key is independent.
	other, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "release is idempotent")

	again, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (func(context.Context) error, error) {
	return nil, errors.New("redis unavailable")
}

func metricValidations(f *fixture, op, outcome string) float64 {
	return counterValue(f, "winery_fermentation_validations_total", map[string]string{"operation": op, "outcome": outcome})
}

func metricRejections(f *fixture, op, field string) float64 {
	return counterValue(f, "winery_fermentation_validation_errors_total", map[string]string{"operation": op, "field": field})
}

func metricTransitions(f *fixture, from, to fermentation.Status) float64 {
	return counterValue(f, "winery_fermentation_status_transitions_total", map[string]string{"from": string(from), "to": string(to)})
}

// counterValue returns the value of the series matching labels, or 0.
func counterValue(f *fixture, name string, labels map[string]string) float64 {
	families, err := f.reg.Gather()
	if err != nil {
		return -1
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	series:
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue series
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

type brokenSampleWrites struct {
	*fermentation.MemoryStorage
}

func (brokenSampleWrites) CreateSample(context.Context, fermentation.Sample) error {
	return errors.New("disk full")
}

func TestService_StorageFailuresAreCounted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storage := fermentation.NewMemoryStorage()
	f := &fixture{storage: storage, reg: prometheus.NewRegistry(), logs: &bytes.Buffer{}}
	now := harvest
	f.now = &now
	f.svc = fermentation.NewService(brokenSampleWrites{storage},
		fermentation.WithClock(func() time.Time { return *f.now }),
		fermentation.WithMetrics(fermentation.NewMetrics(f.reg)),
		fermentation.WithLogger(logger.Discard()),
	)
	batch := f.create(t)

	_, res, err := f.svc.RecordSample(ctx, batch.ID, sugar(22, harvest.Add(time.Hour)))
	require.ErrorIs(t, err, fermentation.ErrFailedToRecordSample)
	assert.True(t, res.IsValid())
	assert.Equal(t, 1.0, metricValidations(f, fermentation.OpRecordSample, "accepted"))

	stored, _, err := f.svc.ImportSamples(ctx, batch.ID, []fermentation.Sample{sugar(21, harvest.Add(2*time.Hour))})
	require.ErrorIs(t, err, fermentation.ErrFailedToRecordSample)
	assert.Empty(t, stored)
	assert.Equal(t, 1.0, metricValidations(f, fermentation.OpImportSamples, "accepted"))
}
