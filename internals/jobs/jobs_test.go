package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/configs"
	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	membershipService "gymku_backend/internals/features/memberships/service"
	trainerModel "gymku_backend/internals/features/trainers/model"
	trainerService "gymku_backend/internals/features/trainers/service"
	authModel "gymku_backend/internals/features/users/auth/model"
	authService "gymku_backend/internals/features/users/auth/service"
	"gymku_backend/internals/helpers/metrics"
)

func TestRunnerRunsJobsAndCountsMetrics(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	m := metrics.New()
	r := &Runner{
		Assignments: trainerService.NewAssignmentService(db, nil, time.UTC),
		Histories:   membershipService.NewHistoryService(db, nil),
		Auth:        authService.NewAuthService(db, "secret", time.Hour, ""),
		Metrics:     m,
		Now:         func() time.Time { return now },
	}
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "A", constants.RoleMember)
	coach := dbtest.CreateUser(t, db, "Coach", constants.RoleTrainer)
	pt := trainerModel.PersonalTrainerModel{UserPersonalTrainerID: coach.ID, Nickname: "Coach", Slug: "coach"}
	require.NoError(t, db.Create(&pt).Error)
	end := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	a := trainerModel.PersonalTrainerAssignmentModel{
		UserID: u.ID, PersonalTrainerID: pt.ID, PersonalTrainerPackageID: 1,
		StartDate: end.AddDate(0, 0, -10), EndDate: &end, DayLeft: 3, Status: trainerModel.AssignmentActive,
	}
	require.NoError(t, db.Create(&a).Error)

	require.NoError(t, db.Create(&authModel.TokenBlacklistModel{TokenHash: "old", ExpiredAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&authModel.TokenBlacklistModel{TokenHash: "fresh", ExpiredAt: now.Add(time.Hour)}).Error)

	for _, name := range r.Names() {
		require.NoError(t, r.Run(ctx, name), name)
	}
	assert.Equal(t, []string{JobDayLeft, JobMembers, JobBlacklist}, r.Names())

	require.NoError(t, db.First(&a, a.ID).Error)
	assert.Equal(t, trainerModel.AssignmentCompleted, a.Status)
	assert.Equal(t, 0, a.DayLeft)

	var n int64
	db.Model(&authModel.TokenBlacklistModel{}).Count(&n)
	assert.EqualValues(t, 1, n)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns.WithLabelValues(JobDayLeft, "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns.WithLabelValues(JobBlacklist, "ok")))

	assert.Error(t, r.Run(ctx, "nope"))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	_, err := Start(&Runner{}, configs.JobsConfig{DailySchedule: "not a cron", BlacklistSchedule: "@hourly"}, time.UTC)
	assert.Error(t, err)

	c, err := Start(&Runner{}, configs.JobsConfig{DailySchedule: "5 0 * * *", BlacklistSchedule: "@hourly"}, time.UTC)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 3)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	Stop(ctx, c)
}
