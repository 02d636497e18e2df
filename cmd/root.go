// Package cmd entrypoint CLI: serve, migrate, seed, jobs.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"gymku_backend/internals/configs"
	database "gymku_backend/internals/databases"
)

var rootCmd = &cobra.Command{
	Use:           "gymku",
	Short:         "Gymku backend: membership, kelas, personal trainer & pembayaran",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), jobsCmd())
}

// Execute dipanggil dari main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("❌ command gagal")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap: env -> logger -> DB. Dipakai semua subcommand.
func bootstrap() (*configs.Config, *gorm.DB, error) {
	cfg, err := configs.LoadEnv()
	if err != nil {
		return nil, nil, err
	}
	configs.SetupLogger(cfg)

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	database.TunePool(db, cfg.DB)
	return cfg, db, nil
}
