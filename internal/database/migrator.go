package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

// LatestVersion asks MigrateTo for every embedded migration.
const LatestVersion int32 = -1

const versionTable = "schema_version"

//go:embed migrations/*.sql
var migrations embed.FS

func migrationFS() (fs.FS, error) {
	return fs.Sub(migrations, "migrations")
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	return MigrateTo(ctx, logger, cfg, LatestVersion)
}

// MigrateTo moves the schema to the target version, running down sections
// when the target is below the current version.
func MigrateTo(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, target int32) error {
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := migrationFS()
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	to, err := resolveTarget(target, int32(len(m.Migrations)))
	if err != nil {
		return err
	}
	if to == current {
		logger.Info().Int32("version", current).Msg("database schema up to date")
		return nil
	}

	m.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Info().Int32("sequence", sequence).Str("name", name).Str("direction", direction).Msg("applying migration")
	}
	if err := m.MigrateTo(ctx, to); err != nil {
		return fmt.Errorf("migrating schema to version %d: %w", to, err)
	}

	logger.Info().Int32("from", current).Int32("to", to).Msg("migrated database schema")
	return nil
}

func resolveTarget(target, available int32) (int32, error) {
	if target == LatestVersion {
		return available, nil
	}
	if target < 0 || target > available {
		return 0, fmt.Errorf("migration version %d out of range 0..%d", target, available)
	}
	return target, nil
}
