package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/birlikkoshan/todo-tracker/migrations"

	"github.com/pressly/goose/v3"
)

// MigrateDirection is a goose command understood by Migrate.
type MigrateDirection string

const (
	MigrateUp     MigrateDirection = "up"
	MigrateDown   MigrateDirection = "down"
	MigrateStatus MigrateDirection = "status"
)

// Migrate applies the embedded migrations to db.
func Migrate(ctx context.Context, db *sql.DB, dir MigrateDirection) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	var err error
	switch dir {
	case MigrateUp:
		err = goose.UpContext(ctx, db, ".")
	case MigrateDown:
		err = goose.DownContext(ctx, db, ".")
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migrate command %q", dir)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", dir, err)
	}
	return nil
}
