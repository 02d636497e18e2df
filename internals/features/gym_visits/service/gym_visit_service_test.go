package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	visitDTO "gymku_backend/internals/features/gym_visits/dto"
	"gymku_backend/internals/features/gym_visits/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	membershipService "gymku_backend/internals/features/memberships/service"
	helper "gymku_backend/internals/helpers"
)

var now = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestVisitStatusFollowsExitTime(t *testing.T) {
	v := model.GymVisitModel{}
	v.SetExit(nil)
	assert.Equal(t, model.VisitInGym, v.Status)
	assert.Nil(t, v.ExitTime)

	exit := now
	v.SetExit(&exit)
	assert.Equal(t, model.VisitLeft, v.Status)
	require.NotNil(t, v.ExitTime)
}

func TestCheckInOut(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewGymVisitService(db, nil, time.UTC)
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "Member", constants.RoleMember)

	_, err := svc.CheckIn(ctx, u.ID, now)
	assert.Equal(t, fiber.StatusForbidden, statusOf(t, err))

	pkg := membershipModel.MembershipPackageModel{Name: "Bulanan", Slug: "bulanan", Duration: 30, Price: 1, Status: membershipModel.PackageActive}
	require.NoError(t, db.Create(&pkg).Error)
	_, err = membershipService.ActivateMembership(db, u.ID, pkg, nil, now.Add(-time.Hour))
	require.NoError(t, err)

	v, err := svc.CheckIn(ctx, u.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.VisitInGym, v.Status)
	assert.Nil(t, v.ExitTime)
	assert.True(t, v.VisitDate.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))

	_, err = svc.CheckIn(ctx, u.ID, now.Add(time.Minute))
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	out, err := svc.CheckOut(ctx, u.ID, now.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.VisitLeft, out.Status)
	require.NotNil(t, out.ExitTime)

	_, err = svc.CheckOut(ctx, u.ID, now.Add(2*time.Hour))
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	// koreksi admin: buka lagi lalu exit sebelum entry ditolak
	reopened, err := svc.Update(ctx, out.ID, visitDTO.UpdateVisitRequest{ExitTime: func() *string { s := ""; return &s }()}, now)
	require.NoError(t, err)
	assert.Equal(t, model.VisitInGym, reopened.Status)
	assert.Nil(t, reopened.ExitTime)

	bad := now.Add(-time.Hour).Format(time.RFC3339)
	_, err = svc.Update(ctx, out.ID, visitDTO.UpdateVisitRequest{ExitTime: &bad}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "exit_time")

	rows, total, err := svc.List(ctx, visitDTO.ListVisitQuery{UserID: u.ID, From: "2025-01-15", To: "2025-01-15"}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)
}
