package fermentation_test

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/pkg/logger"
	"github.com/dmitrymomot/winery/pkg/pg"
	"github.com/dmitrymomot/winery/svc/fermentation"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	t.Parallel()
	entries, err := fs.ReadDir(fermentation.Migrations, "migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_fermentations.sql", entries[0].Name())
	assert.Equal(t, "00002_create_samples.sql", entries[1].Name())
}

// newPostgresStorage connects to TEST_PG_URL and applies migrations, or skips.
func newPostgresStorage(t *testing.T) *fermentation.PostgresStorage {
	t.Helper()
	url := os.Getenv("TEST_PG_URL")
	if url == "" || testing.Short() {
		t.Skip("TEST_PG_URL not set")
	}
	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: url,
		MaxOpenConns:     4,
		MaxIdleConns:     1,
		RetryAttempts:    1,
		RetryInterval:    time.Millisecond,
		MigrationsDir:    "migrations",
		MigrationsTable:  "schema_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pg.Migrate(ctx, pool, fermentation.Migrations, cfg, logger.Discard()))
	return fermentation.NewPostgresStorage(pool)
}

func TestPostgresStorage(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	f := fermentation.Fermentation{
		ID:               uuid.New(),
		Status:           fermentation.StatusActive,
		StartDate:        harvest,
		InputMassKg:      900,
		InitialSugarBrix: 23,
		InitialDensity:   1.09,
		VintageYear:      2024,
		TemperatureRange: &fermentation.TemperatureRange{Min: 12, Max: 27},
		CreatedAt:        harvest,
		UpdatedAt:        harvest,
	}
	require.NoError(t, s.CreateFermentation(ctx, f))

	got, err := s.GetFermentation(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, f.TemperatureRange, got.TemperatureRange)
	assert.True(t, f.StartDate.Equal(got.StartDate))

	_, err = s.GetFermentation(ctx, uuid.New())
	assert.ErrorIs(t, err, fermentation.ErrFermentationNotFound)

	first := fermentation.Sample{ID: uuid.New(), FermentationID: f.ID, Type: fermentation.SampleTypeSugar, Value: 22, RecordedAt: harvest.Add(time.Hour), CreatedAt: harvest}
	second := fermentation.Sample{ID: uuid.New(), FermentationID: f.ID, Type: fermentation.SampleTypeSugar, Value: 21, RecordedAt: harvest.Add(2 * time.Hour), CreatedAt: harvest}
	require.NoError(t, s.CreateSample(ctx, second))
	require.NoError(t, s.CreateSample(ctx, first))

	dup := first
	dup.ID = uuid.New()
	assert.ErrorIs(t, s.CreateSample(ctx, dup), fermentation.ErrDuplicateSample)

	found, err := s.CheckDuplicateTimestamp(ctx, f.ID, dup, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, found)

	all, err := s.GetSamplesByFermentationID(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	latest, err := s.GetLatestSampleByType(ctx, f.ID, fermentation.SampleTypeSugar)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)

	none, err := s.GetLatestSampleByType(ctx, f.ID, fermentation.SampleTypeDensity)
	require.NoError(t, err)
	assert.Nil(t, none)

	assert.ErrorIs(t,
		s.UpdateFermentationStatus(ctx, f.ID, fermentation.StatusSlow, fermentation.StatusStuck, harvest),
		fermentation.ErrStatusConflict,
	)
	require.NoError(t, s.UpdateFermentationStatus(ctx, f.ID, fermentation.StatusActive, fermentation.StatusSlow, harvest))
}
