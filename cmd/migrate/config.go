package main

import (
	"context"
	"fmt"

	"booklibrary/internal/config"
	"booklibrary/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	defaultMigrationsDir = "db/migrations"
	migrationsDirEnv     = "MIGRATIONS_DIR"
)

// openDatabase loads the shared service config and connects to its database.
func openDatabase(ctx context.Context, log zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return database.Open(ctx, cfg, log)
}
