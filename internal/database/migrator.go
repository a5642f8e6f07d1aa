package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"booklibrary/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/rs/zerolog"
)

// Command is a goose migration command run against the embedded migrations.
type Command string

const (
	CommandUp     Command = "up"
	CommandDown   Command = "down"
	CommandStatus Command = "status"
)

func newProvider(pool *pgxpool.Pool) (*goose.Provider, *sql.DB, error) {
	migrations, err := fs.Sub(db.Migrations, db.MigrationsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve migrations subtree: %w", err)
	}
	// Serializes concurrent migrators, e.g. several API replicas starting at once.
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, nil, fmt.Errorf("create migration lock: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations, goose.WithSessionLocker(locker))
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("construct migration provider: %w", err)
	}
	return provider, sqlDB, nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	return Run(ctx, pool, log, CommandUp)
}

// Run executes cmd against the embedded migrations.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cmd Command) error {
	provider, sqlDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	switch cmd {
	case CommandUp:
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if len(results) == 0 {
			log.Info().Int64("version", version).Msg("database schema up to date")
		} else {
			log.Info().Int("applied", len(results)).Int64("version", version).Msg("migrated database schema")
		}
	case CommandDown:
		result, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		log.Info().Int64("version", result.Source.Version).Msg("rolled back migration")
	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, s := range statuses {
			log.Info().
				Int64("version", s.Source.Version).
				Str("path", s.Source.Path).
				Str("state", string(s.State)).
				Msg("migration")
		}
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}
	return nil
}
