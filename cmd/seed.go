package cmd

import (
	"time"

	"github.com/spf13/cobra"

	database "gymku_backend/internals/databases"
	"gymku_backend/internals/seeds"
)

func seedCmd() *cobra.Command {
	var (
		dir     string
		migrate bool
	)
	c := &cobra.Command{
		Use:   "seed",
		Short: "Isi data awal (user, paket, kelas, trainer) dari file JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if migrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}
			return seeds.RunAllSeeds(cmd.Context(), db, dir, time.Now(), cfg.Location())
		},
	}
	c.Flags().StringVar(&dir, "dir", seeds.DefaultDir, "folder file JSON seed")
	c.Flags().BoolVar(&migrate, "migrate", false, "jalankan AutoMigrate sebelum seed")
	return c
}
