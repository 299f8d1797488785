package root

import (
	"log/slog"

	"github.com/dinerozz/productivity-tracker-backend/cmd/migrate"
	"github.com/dinerozz/productivity-tracker-backend/config"
	"github.com/dinerozz/productivity-tracker-backend/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "productivity-tracker-backend",
	Short: "Productivity tracker application",
}

func GetRootCmd(config *config.Config, logger *slog.Logger) *cobra.Command {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			server.RunServer(config, logger)
		},
	})

	rootCmd.AddCommand(migrate.GetMigrateCmd(config.DB.URL()))

	return rootCmd
}
