package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	database "gymku_backend/internals/databases"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "AutoMigrate semua tabel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("✅ Migrasi selesai")
			return nil
		},
	}
}
