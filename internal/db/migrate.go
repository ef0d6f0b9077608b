package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/udisondev/zgscript/internal/db/migrations"
)

// RunMigrations brings the encounter schema at dsn up to date.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening database for migrations: %w", err)
	}
	defer sqlDB.Close()

	applied, err := migrations.Up(ctx, sqlDB)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		slog.Info("encounter schema migrated", "applied", applied, "table", migrations.TableName)
	}
	return nil
}
