package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/builder/store/database/migrations"
	"github.com/centerhq/appstore-server/common/config"
)

var Cmd = &cobra.Command{
	Use:   "migration",
	Short: "Run database migrations",
}

func init() {
	Cmd.AddCommand(
		initCmd,
		migrateCmd,
		rollbackCmd,
		statusCmd,
	)
}

func newMigrator(ctx context.Context) (*migrate.Migrator, *database.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewDB(ctx, database.DBConfig{
		Dialect: database.DatabaseDialect(cfg.Database.Driver),
		DSN:     cfg.Database.DSN,
	})
	if err != nil {
		return nil, nil, err
	}
	return migrate.NewMigrator(db.BunDB, migrations.Migrations), db, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the migration tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, db, err := newMigrator(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return migrator.Init(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, db, err := newMigrator(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrator.Lock(cmd.Context()); err != nil {
			return err
		}
		defer func() {
			if err := migrator.Unlock(cmd.Context()); err != nil {
				slog.Error("failed to unlock migrations", slog.Any("error", err))
			}
		}()

		group, err := migrator.Migrate(cmd.Context())
		if err != nil {
			return err
		}
		if group.IsZero() {
			fmt.Println("there are no new migrations to run (database is up to date)")
			return nil
		}
		fmt.Printf("migrated to %s\n", group)
		return nil
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Rollback the last migration group",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, db, err := newMigrator(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrator.Lock(cmd.Context()); err != nil {
			return err
		}
		defer func() {
			if err := migrator.Unlock(cmd.Context()); err != nil {
				slog.Error("failed to unlock migrations", slog.Any("error", err))
			}
		}()

		group, err := migrator.Rollback(cmd.Context())
		if err != nil {
			return err
		}
		if group.IsZero() {
			fmt.Println("there are no groups to roll back")
			return nil
		}
		fmt.Printf("rolled back %s\n", group)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, db, err := newMigrator(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		ms, err := migrator.MigrationsWithStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("migrations: %s\n", ms)
		fmt.Printf("unapplied migrations: %s\n", ms.Unapplied())
		fmt.Printf("last migration group: %s\n", ms.LastGroup())
		return nil
	},
}
