package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

func newMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, Migrations)
}

// BringUpToDate creates the migration tables if needed and applies every
// pending migration.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := newMigrator(db)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := lock(ctx, migrator); err != nil {
		return nil, err
	}
	defer unlock(ctx, migrator)

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}

// Rollback undoes the last migration group.
func Rollback(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := newMigrator(db)
	if err := lock(ctx, migrator); err != nil {
		return nil, err
	}
	defer unlock(ctx, migrator)

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}

// Status returns every known migration along with whether it was applied.
func Status(ctx context.Context, db *bun.DB) (migrate.MigrationSlice, error) {
	ms, err := newMigrator(db).MigrationsWithStatus(ctx)
	return ms, errors.WithStack(err)
}

func lock(ctx context.Context, migrator *migrate.Migrator) error {
	return errors.WithStack(migrator.Lock(ctx))
}

func unlock(ctx context.Context, migrator *migrate.Migrator) {
	_ = migrator.Unlock(ctx)
}
