package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

func createTables(ctx context.Context, db *bun.DB, tables ...any) error {
	for _, table := range tables {
		_, err := db.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("creating table for %T: %w", table, err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, db *bun.DB, tables ...any) error {
	for _, table := range tables {
		_, err := db.NewDropTable().
			Model(table).
			IfExists().
			Cascade().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("dropping table for %T: %w", table, err)
		}
	}
	return nil
}
