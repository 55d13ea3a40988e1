package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/centerhq/appstore-server/builder/store/database"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, database.Release{})
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			"CREATE INDEX IF NOT EXISTS idx_releases_version_code ON releases (version_code DESC)")
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, database.Release{})
	})
}
