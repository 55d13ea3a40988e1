package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/centerhq/appstore-server/builder/store/database"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, database.Download{})
		if err != nil {
			return err
		}
		// no FK on release_id: downloads outlive their release
		_, err = db.ExecContext(ctx,
			"CREATE INDEX IF NOT EXISTS idx_downloads_downloaded_at ON downloads (downloaded_at DESC)")
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, database.Download{})
	})
}
