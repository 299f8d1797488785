package migrate

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/dinerozz/productivity-tracker-backend/migrations"
)

func GetMigrateCmd(dbURL string) *cobra.Command {
	var down bool

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Run: func(cmd *cobra.Command, args []string) {
			src, err := iofs.New(migrations.FS, ".")
			if err != nil {
				log.Fatal("❌ Failed to read embedded migrations:", err)
			}

			m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
			if err != nil {
				log.Fatal("❌ Failed to initialize migrations:", err)
			}
			defer m.Close()

			if down {
				err := m.Down()
				if err != nil {
					if errors.Is(err, migrate.ErrNoChange) {
						fmt.Println("⚠️ No migrations to rollback.")
						return
					} else if strings.Contains(err.Error(), "dirty") {
						fmt.Println("⚠️ Database is in a dirty state. Forcing version fix...")
						_ = m.Force(0)
						_ = m.Down()
					} else {
						log.Fatal("❌ Failed to apply down migrations:", err)
					}
				} else {
					fmt.Println("✅ Migrations rolled back successfully!")
				}
				return
			}

			err = m.Up()
			if err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Println("⚠️ No new migrations to apply.")
					return
				}
				log.Fatal("❌ Failed to apply up migrations:", err)
			}

			fmt.Println("✅ Migrations applied successfully!")
		},
	}

	migrateCmd.Flags().BoolVarP(&down, "down", "d", false, "Rollback migrations")

	return migrateCmd
}
