package main

import (
	"context"

	"github.com/udisondev/zgscript/internal/db"
	"github.com/udisondev/zgscript/internal/game/raid"
)

// encounterStoreAdapter adapts db.EncounterRepository to raid.EncounterStore.
type encounterStoreAdapter struct {
	repo *db.EncounterRepository
}

func (a *encounterStoreAdapter) LoadEncounters(ctx context.Context) ([]raid.EncounterRow, error) {
	rows, err := a.repo.LoadEncounters(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]raid.EncounterRow, len(rows))
	for i, r := range rows {
		result[i] = raid.EncounterRow{
			Name:      r.Name,
			State:     r.State,
			Attempts:  r.Attempts,
			Kills:     r.Kills,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return result, nil
}

func (a *encounterStoreAdapter) SaveEncounter(ctx context.Context, row raid.EncounterRow) error {
	return a.repo.SaveEncounter(ctx, db.EncounterRow{
		Name:      row.Name,
		State:     row.State,
		Attempts:  row.Attempts,
		Kills:     row.Kills,
		UpdatedAt: row.UpdatedAt,
	})
}
