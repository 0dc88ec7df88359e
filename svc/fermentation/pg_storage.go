package fermentation

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/winery/pkg/pg"
)

// Migrations holds the goose migrations for PostgresStorage under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage implements Storage on PostgreSQL.
type PostgresStorage struct {
	db DBTX
}

func NewPostgresStorage(db DBTX) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const fermentationColumns = `id, status, start_date, input_mass_kg, initial_sugar_brix, initial_density,
	vintage_year, temperature_min, temperature_max, created_at, updated_at`

const sampleColumns = `id, fermentation_id, sample_type, value, recorded_at, created_at`

func (p *PostgresStorage) CreateFermentation(ctx context.Context, f Fermentation) error {
	var tmin, tmax *float64
	if f.TemperatureRange != nil {
		tmin, tmax = &f.TemperatureRange.Min, &f.TemperatureRange.Max
	}
	_, err := p.db.Exec(ctx, `
		INSERT INTO fermentations (`+fermentationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		f.ID, string(f.Status), f.StartDate, f.InputMassKg, f.InitialSugarBrix, f.InitialDensity,
		f.VintageYear, tmin, tmax, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (p *PostgresStorage) GetFermentation(ctx context.Context, id uuid.UUID) (Fermentation, error) {
	row := p.db.QueryRow(ctx, `SELECT `+fermentationColumns+` FROM fermentations WHERE id = $1`, id)
	f, err := scanFermentation(row)
	if pg.IsNotFoundError(err) {
		return Fermentation{}, ErrFermentationNotFound
	}
	return f, err
}

func (p *PostgresStorage) UpdateFermentationStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE fermentations SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Tell a missing batch apart from a lost race.
	if _, err := p.GetFermentation(ctx, id); err != nil {
		return err
	}
	return ErrStatusConflict
}

func (p *PostgresStorage) CreateSample(ctx context.Context, s Sample) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO samples (`+sampleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.FermentationID, string(s.Type), s.Value, s.RecordedAt, s.CreatedAt,
	)
	switch {
	case pg.IsDuplicateKeyError(err):
		return errors.Join(ErrDuplicateSample, err)
	case pg.IsForeignKeyViolationError(err):
		return errors.Join(ErrFermentationNotFound, err)
	}
	return err
}

func (p *PostgresStorage) GetSamplesByFermentationID(ctx context.Context, fermentationID uuid.UUID) ([]Sample, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+sampleColumns+` FROM samples
		WHERE fermentation_id = $1
		ORDER BY recorded_at ASC, created_at ASC`,
		fermentationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) GetLatestSampleByType(ctx context.Context, fermentationID uuid.UUID, sampleType SampleType) (*Sample, error) {
	row := p.db.QueryRow(ctx, `
		SELECT `+sampleColumns+` FROM samples
		WHERE fermentation_id = $1 AND sample_type = $2
		ORDER BY recorded_at DESC
		LIMIT 1`,
		fermentationID, string(sampleType),
	)
	s, err := scanSample(row)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresStorage) GetFermentationStartDate(ctx context.Context, fermentationID uuid.UUID) (time.Time, error) {
	var start time.Time
	err := p.db.QueryRow(ctx, `SELECT start_date FROM fermentations WHERE id = $1`, fermentationID).Scan(&start)
	if pg.IsNotFoundError(err) {
		return time.Time{}, ErrFermentationNotFound
	}
	return start, err
}

func (p *PostgresStorage) GetFermentationTemperatureRange(ctx context.Context, fermentationID uuid.UUID) (*TemperatureRange, error) {
	var tmin, tmax *float64
	err := p.db.QueryRow(ctx,
		`SELECT temperature_min, temperature_max FROM fermentations WHERE id = $1`,
		fermentationID,
	).Scan(&tmin, &tmax)
	if pg.IsNotFoundError(err) {
		return nil, ErrFermentationNotFound
	}
	if err != nil {
		return nil, err
	}
	return rangeOf(tmin, tmax), nil
}

func (p *PostgresStorage) CheckDuplicateTimestamp(ctx context.Context, fermentationID uuid.UUID, sample Sample, excludeSampleID uuid.UUID) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM samples
			WHERE fermentation_id = $1 AND sample_type = $2 AND recorded_at = $3 AND id <> $4
		)`,
		fermentationID, string(sample.Type), sample.RecordedAt, excludeSampleID,
	).Scan(&exists)
	return exists, err
}

func scanFermentation(row pgx.Row) (Fermentation, error) {
	var (
		f          Fermentation
		status     string
		tmin, tmax *float64
	)
	err := row.Scan(
		&f.ID, &status, &f.StartDate, &f.InputMassKg, &f.InitialSugarBrix, &f.InitialDensity,
		&f.VintageYear, &tmin, &tmax, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return Fermentation{}, err
	}
	f.Status = Status(status)
	f.TemperatureRange = rangeOf(tmin, tmax)
	return f, nil
}

func scanSample(row pgx.Row) (Sample, error) {
	var (
		s          Sample
		sampleType string
	)
	if err := row.Scan(&s.ID, &s.FermentationID, &sampleType, &s.Value, &s.RecordedAt, &s.CreatedAt); err != nil {
		return Sample{}, err
	}
	s.Type = SampleType(sampleType)
	return s, nil
}

func rangeOf(tmin, tmax *float64) *TemperatureRange {
	if tmin == nil || tmax == nil {
		return nil
	}
	return &TemperatureRange{Min: *tmin, Max: *tmax}
}
