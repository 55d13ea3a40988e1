package start

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/centerhq/appstore-server/api/httpbase"
	"github.com/centerhq/appstore-server/api/router"
	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/common/config"
)

func init() {
	Cmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:     "server",
	Short:   "Start the API server",
	Example: serverExample(),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		dbConfig := database.DBConfig{
			Dialect: database.DatabaseDialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		}
		err = database.InitDB(dbConfig)
		if err != nil {
			return err
		}
		r, err := router.NewRouter(cfg)
		if err != nil {
			return err
		}
		slog.Info("starting server", slog.Int("port", cfg.APIServer.Port), slog.String("frontend", cfg.Frontend.URL))
		server := httpbase.NewGracefulServer(
			httpbase.GraceServerOpt{
				Port: cfg.APIServer.Port,
			},
			r,
		)
		server.Run()

		return nil
	},
}

func serverExample() string {
	return `
# for development
appstore-server start server
`
}
