package bodyrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
)

// PostgresRepository loads the metrics table from the celestial_bodies table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadBodies implements bodies.Source. Rows come back in display order.
func (r *PostgresRepository) LoadBodies(ctx context.Context) ([]bodies.BodyRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, gravity_factor, year_length_days, gravity, surface, temperature,
		       day_length, year_length, fun_facts, image_key
		FROM celestial_bodies
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query celestial bodies: %w", err)
	}
	defer rows.Close()

	var out []bodies.BodyRecord
	for rows.Next() {
		record, err := scanBody(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBody(rows rowScanner) (bodies.BodyRecord, error) {
	var (
		record   bodies.BodyRecord
		yearDays sql.NullFloat64
		imageKey sql.NullString
	)
	if err := rows.Scan(
		&record.ID,
		&record.GravityFactor,
		&yearDays,
		&record.Gravity,
		&record.Surface,
		&record.Temperature,
		&record.DayLength,
		&record.YearLength,
		&record.FunFacts,
		&imageKey,
	); err != nil {
		return bodies.BodyRecord{}, fmt.Errorf("scan celestial body: %w", err)
	}
	if yearDays.Valid {
		record.YearLengthDays = bodies.Days(yearDays.Float64)
	} else {
		record.YearLengthDays = bodies.ParseYearLength(record.YearLength)
	}
	if imageKey.Valid {
		record.ImageKey = imageKey.String
	}
	return record, nil
}

var _ bodies.Source = (*PostgresRepository)(nil)
