// Package jobs: pekerjaan terjadwal (cron) untuk sisa hari assignment PT,
// membership kadaluarsa dan pembersihan token blacklist.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"gymku_backend/internals/configs"
	membershipService "gymku_backend/internals/features/memberships/service"
	trainerService "gymku_backend/internals/features/trainers/service"
	authService "gymku_backend/internals/features/users/auth/service"
	"gymku_backend/internals/helpers/metrics"
)

const (
	JobDayLeft   = "assignment_day_left"
	JobMembers   = "membership_expiry"
	JobBlacklist = "token_blacklist_cleanup"

	defaultTimeout = 4 * time.Minute
)

type Runner struct {
	Assignments *trainerService.AssignmentService
	Histories   *membershipService.HistoryService
	Auth        *authService.AuthService
	Metrics     *metrics.Metrics
	Now         func() time.Time
	Timeout     time.Duration
}

func (r *Runner) jobs() map[string]func(ctx context.Context, now time.Time) error {
	return map[string]func(ctx context.Context, now time.Time) error{
		JobDayLeft: func(ctx context.Context, now time.Time) error {
			updated, completed, err := r.Assignments.RecomputeDayLeft(ctx, now)
			if err == nil {
				log.Info().Int("updated", updated).Int("completed", completed).Msg("[JOB] day_left assignment diperbarui")
			}
			return err
		},
		JobMembers: func(ctx context.Context, now time.Time) error {
			expired, deactivated, err := r.Histories.ExpireDue(ctx, now)
			if err == nil {
				log.Info().Int64("expired", expired).Int64("deactivated", deactivated).Msg("[JOB] membership kadaluarsa diproses")
			}
			return err
		},
		JobBlacklist: func(ctx context.Context, now time.Time) error {
			n, err := r.Auth.CleanupExpiredBlacklist(ctx, now)
			if err == nil && n > 0 {
				log.Info().Int64("deleted", n).Msg("[JOB] token blacklist dibersihkan")
			}
			return err
		},
	}
}

// Names daftar job yang bisa dijalankan manual (CLI).
func (r *Runner) Names() []string {
	var out []string
	for name := range r.jobs() {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run menjalankan satu job sekali; hasilnya dicatat ke metrics.
func (r *Runner) Run(ctx context.Context, name string) error {
	fn, ok := r.jobs()[name]
	if !ok {
		return fmt.Errorf("job tidak dikenal: %s", name)
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx, now())
	r.Metrics.IncJob(name, err)
	if err != nil {
		log.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("[JOB] gagal")
		return err
	}
	return nil
}

// Start mendaftarkan semua job lalu menyalakan scheduler. Panggil Stop saat shutdown.
func Start(r *Runner, cfg configs.JobsConfig, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	cl := log.With().Str("component", "cron").Logger()
	logger := cron.PrintfLogger(&cl)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	schedules := []struct{ expr, job string }{
		{cfg.DailySchedule, JobDayLeft},
		{cfg.DailySchedule, JobMembers},
		{cfg.BlacklistSchedule, JobBlacklist},
	}
	for _, s := range schedules {
		name := s.job
		if _, err := c.AddFunc(s.expr, func() { _ = r.Run(context.Background(), name) }); err != nil {
			return nil, fmt.Errorf("daftar job %s (%q): %w", name, s.expr, err)
		}
		log.Info().Str("job", name).Str("schedule", s.expr).Msg("[JOB] terdaftar")
	}
	c.Start()
	return c, nil
}

// Stop menunggu job yang sedang berjalan selesai (maks ctx).
func Stop(ctx context.Context, c *cron.Cron) {
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
		log.Info().Msg("[JOB] scheduler berhenti")
	case <-ctx.Done():
		log.Warn().Msg("[JOB] scheduler dihentikan paksa")
	}
}
