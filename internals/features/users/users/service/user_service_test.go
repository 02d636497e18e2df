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
	visitModel "gymku_backend/internals/features/gym_visits/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	userDTO "gymku_backend/internals/features/users/users/dto"
	"gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
)

func strPtr(s string) *string { return &s }

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestCreateListUpdate(t *testing.T) {
	db := dbtest.Open(t)
	mem := cache.NewMemory(16)
	svc := NewUserService(db, mem)
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

	require.NoError(t, mem.Set(ctx, cache.DashboardPrefix+"admin", []byte("1"), time.Minute))

	admin, err := svc.Create(ctx, userDTO.CreateUserRequest{
		Name: "Admin Dua", Email: "ADMIN2@gym.id", Password: "rahasia123", Role: "admin",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, "admin2@gym.id", admin.Email)
	assert.Equal(t, constants.RoleAdmin, admin.Role)

	// dashboard cache ikut dibuang
	_, ok, _ := mem.Get(ctx, cache.DashboardPrefix+"admin")
	assert.False(t, ok)

	member, err := svc.Create(ctx, userDTO.CreateUserRequest{Name: "Budi Santoso", Email: "budi@gym.id", Password: "rahasia123"}, now)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleMember, member.Role)

	_, err = svc.Create(ctx, userDTO.CreateUserRequest{Name: "Trainer", Email: "t@gym.id", Password: "rahasia123", Role: "trainer"}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "role")

	_, err = svc.Create(ctx, userDTO.CreateUserRequest{Name: "Budi Lagi", Email: "budi@gym.id", Password: "rahasia123"}, now)
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")

	rows, total, err := svc.List(ctx, userDTO.ListUserQuery{Q: "BUDI"}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, member.ID, rows[0].ID)

	rows, total, err = svc.List(ctx, userDTO.ListUserQuery{Role: "admin"}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, admin.ID, rows[0].ID)

	updated, err := svc.Update(ctx, member.ID, userDTO.UpdateUserRequest{
		Name: strPtr("Budi S"), Phone: strPtr("0812"), Password: strPtr("passwordbaru"),
	}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Budi S", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "0812", *updated.Phone)
	assert.True(t, helper.CheckPassword(updated.Password, "passwordbaru"))

	_, err = svc.Update(ctx, member.ID, userDTO.UpdateUserRequest{Email: strPtr("admin2@gym.id")}, now)
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")
}

func TestUpdateRoleOfTrainerIsConflict(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "Coach Rudi", constants.RoleTrainer)
	require.NoError(t, db.Create(&trainerModel.PersonalTrainerModel{
		UserPersonalTrainerID: u.ID, Nickname: "Rudi", Slug: "rudi",
	}).Error)

	_, err := svc.Update(ctx, u.ID, userDTO.UpdateUserRequest{Role: strPtr("member")}, time.Now())
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))

	admin := dbtest.CreateUser(t, db, "Admin", constants.RoleAdmin)
	err = svc.Delete(ctx, u.ID, admin.ID)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestDeleteIsSoftAndNotSelf(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	admin := dbtest.CreateUser(t, db, "Admin", constants.RoleAdmin)
	member := dbtest.CreateUser(t, db, "Member", constants.RoleMember)

	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, svc.Delete(ctx, admin.ID, admin.ID)))
	require.NoError(t, svc.Delete(ctx, member.ID, admin.ID))

	_, err := svc.Get(ctx, member.ID)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))

	var raw model.UserModel
	require.NoError(t, db.Unscoped().First(&raw, member.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)

	rows, total, err := svc.List(ctx, userDTO.ListUserQuery{WithDeleted: true}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
}

func TestRelationListings(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "Member", constants.RoleMember)
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		v := visitModel.GymVisitModel{UserID: u.ID, VisitDate: now, EntryTime: now.Add(time.Duration(i) * time.Hour)}
		v.SetExit(nil)
		require.NoError(t, db.Create(&v).Error)
	}

	rows, total, err := svc.Visits(ctx, u.ID, helper.Paging{Page: 1, PerPage: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 2)

	txs, total, err := svc.Transactions(ctx, u.ID, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, txs)

	_, _, err = svc.Memberships(ctx, 9999, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}
