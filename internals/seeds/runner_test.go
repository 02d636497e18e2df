package seeds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	classModel "gymku_backend/internals/features/gym_classes/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
)

func TestRunAllSeedsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, RunAllSeeds(ctx, db, ".", now, time.UTC))
	// jalan kedua tidak boleh menggandakan data
	require.NoError(t, RunAllSeeds(ctx, db, ".", now, time.UTC))

	var n int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&n).Error)
	assert.EqualValues(t, 4, n)
	require.NoError(t, db.Model(&membershipModel.MembershipPackageModel{}).Count(&n).Error)
	assert.EqualValues(t, 4, n)
	require.NoError(t, db.Model(&classModel.GymClassModel{}).Count(&n).Error)
	assert.EqualValues(t, 3, n)
	require.NoError(t, db.Model(&classModel.GymClassScheduleModel{}).Count(&n).Error)
	assert.EqualValues(t, 4, n)
	require.NoError(t, db.Model(&trainerModel.PersonalTrainerPackageModel{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	var coach userModel.UserModel
	require.NoError(t, db.Where("email = ?", "andi.coach@gymku.id").First(&coach).Error)
	assert.Equal(t, constants.RoleTrainer, coach.Role)

	var admin userModel.UserModel
	require.NoError(t, db.Where("email = ?", "admin@gymku.id").First(&admin).Error)
	assert.Equal(t, constants.RoleAdmin, admin.Role)
	assert.True(t, helper.CheckPassword(admin.Password, "admin12345"))

	var yoga classModel.GymClassModel
	require.NoError(t, db.Where("name = ?", "Yoga Pagi").First(&yoga).Error)
	var sc classModel.GymClassScheduleModel
	require.NoError(t, db.Where("gym_class_id = ?", yoga.ID).Order("date ASC").First(&sc).Error)
	assert.Equal(t, "2025-03-11", sc.Date.Format("2006-01-02"))
	assert.Equal(t, 15, sc.AvailableSlot)
}

func TestRunAllSeedsMissingFile(t *testing.T) {
	db := dbtest.Open(t)
	err := RunAllSeeds(context.Background(), db, t.TempDir(), time.Now(), nil)
	assert.Error(t, err)
}
