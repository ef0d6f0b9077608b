package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EncounterRow is a row of instance_encounters.
type EncounterRow struct {
	Name      string
	State     int16
	Attempts  int32
	Kills     int32
	UpdatedAt time.Time
}

// EncounterRepository persists instance encounter progress.
type EncounterRepository struct {
	pool *pgxpool.Pool
}

// NewEncounterRepository creates a new EncounterRepository.
func NewEncounterRepository(pool *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{pool: pool}
}

// LoadEncounters returns all encounter rows ordered by name.
func (r *EncounterRepository) LoadEncounters(ctx context.Context) ([]EncounterRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, state, attempts, kills, updated_at
		 FROM instance_encounters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query instance_encounters: %w", err)
	}
	defer rows.Close()

	var result []EncounterRow
	for rows.Next() {
		var row EncounterRow
		if err := rows.Scan(&row.Name, &row.State, &row.Attempts, &row.Kills, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan instance_encounters: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetEncounter returns one encounter row. Returns nil, nil if not found.
func (r *EncounterRepository) GetEncounter(ctx context.Context, name string) (*EncounterRow, error) {
	var row EncounterRow
	err := r.pool.QueryRow(ctx,
		`SELECT name, state, attempts, kills, updated_at
		 FROM instance_encounters WHERE name = $1`, name,
	).Scan(&row.Name, &row.State, &row.Attempts, &row.Kills, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query instance_encounters %q: %w", name, err)
	}
	return &row, nil
}

// SaveEncounter inserts or updates an encounter row.
func (r *EncounterRepository) SaveEncounter(ctx context.Context, row EncounterRow) error {
	updated := row.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO instance_encounters (name, state, attempts, kills, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO UPDATE SET
		   state      = EXCLUDED.state,
		   attempts   = EXCLUDED.attempts,
		   kills      = EXCLUDED.kills,
		   updated_at = EXCLUDED.updated_at`,
		row.Name, row.State, row.Attempts, row.Kills, updated)
	if err != nil {
		return fmt.Errorf("upsert instance_encounters %q: %w", row.Name, err)
	}
	return nil
}

// DeleteEncounter removes an encounter row.
func (r *EncounterRepository) DeleteEncounter(ctx context.Context, name string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM instance_encounters WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete instance_encounters %q: %w", name, err)
	}
	return nil
}
