package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"gymku_backend/internals/configs"
	database "gymku_backend/internals/databases"
	membershipService "gymku_backend/internals/features/memberships/service"
	trainerService "gymku_backend/internals/features/trainers/service"
	authService "gymku_backend/internals/features/users/auth/service"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/metrics"
	"gymku_backend/internals/jobs"
)

func newRunner(cfg *configs.Config, db *gorm.DB, c cache.Cache, m *metrics.Metrics) *jobs.Runner {
	return &jobs.Runner{
		Assignments: trainerService.NewAssignmentService(db, c, cfg.Location()),
		Histories:   membershipService.NewHistoryService(db, c),
		Auth:        authService.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL, cfg.GoogleClientID),
		Metrics:     m,
		Now:         time.Now,
	}
}

func jobsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "jobs",
		Short: "Job terjadwal (biasanya jalan otomatis di dalam serve)",
	}
	c.AddCommand(&cobra.Command{
		Use:   "run <name>",
		Short: fmt.Sprintf("Jalankan satu job sekali: %s", strings.Join([]string{jobs.JobDayLeft, jobs.JobMembers, jobs.JobBlacklist}, ", ")),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ch, err := cache.New(cfg.RedisURL)
			if err != nil {
				return err
			}
			return newRunner(cfg, db, ch, nil).Run(cmd.Context(), args[0])
		},
	})
	return c
}
