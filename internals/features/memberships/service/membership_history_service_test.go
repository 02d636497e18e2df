package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
)

func TestActivateMembershipExtendsFromActiveEnd(t *testing.T) {
	db := dbtest.Open(t)
	u := dbtest.CreateUser(t, db, "Member", constants.RoleMember)
	pkg := model.MembershipPackageModel{Name: "Bulanan", Slug: "bulanan", Duration: 30, Price: 100000, Status: model.PackageActive}
	require.NoError(t, db.Create(&pkg).Error)

	h1, err := ActivateMembership(db, u.ID, pkg, nil, now)
	require.NoError(t, err)
	assert.True(t, h1.StartDate.Equal(now))
	assert.True(t, h1.EndDate.Equal(now.AddDate(0, 0, 30)))

	// beli lagi di tengah periode -> disambung
	h2, err := ActivateMembership(db, u.ID, pkg, nil, now.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.True(t, h2.StartDate.Equal(h1.EndDate))
	assert.True(t, h2.EndDate.Equal(h1.EndDate.AddDate(0, 0, 30)))

	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, u.ID).Error)
	assert.Equal(t, userModel.MembershipActive, fresh.MembershipStatus)
}

func TestExpireDueDeactivatesUsers(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewHistoryService(db, nil)
	ctx := context.Background()

	pkg := model.MembershipPackageModel{Name: "Harian", Slug: "harian", Duration: 1, Price: 10000, Status: model.PackageActive}
	require.NoError(t, db.Create(&pkg).Error)

	short := dbtest.CreateUser(t, db, "Short", constants.RoleMember)
	long := dbtest.CreateUser(t, db, "Long", constants.RoleMember)
	_, err := ActivateMembership(db, short.ID, pkg, nil, now)
	require.NoError(t, err)
	pkg30 := pkg
	pkg30.Duration = 30
	_, err = ActivateMembership(db, long.ID, pkg30, nil, now)
	require.NoError(t, err)

	expired, deactivated, err := svc.ExpireDue(ctx, now.Add(36*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)
	assert.EqualValues(t, 1, deactivated)

	var s, l userModel.UserModel
	require.NoError(t, db.First(&s, short.ID).Error)
	require.NoError(t, db.First(&l, long.ID).Error)
	assert.Equal(t, userModel.MembershipInactive, s.MembershipStatus)
	assert.Equal(t, userModel.MembershipActive, l.MembershipStatus)

	active, err := svc.Active(ctx, long.ID, now.Add(36*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, active)
	require.NotNil(t, active.MembershipPackage)
	assert.Equal(t, "Harian", active.MembershipPackage.Name)

	none, err := svc.Active(ctx, short.ID, now.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, none)

	rows, total, err := svc.List(ctx, membershipDTO.ListHistoryQuery{UserID: short.ID, Status: "expired"}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, model.HistoryExpired, rows[0].Status)
}
