package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	gymClassModel "gymku_backend/internals/features/gym_classes/model"
	visitModel "gymku_backend/internals/features/gym_visits/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	membershipService "gymku_backend/internals/features/memberships/service"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	"gymku_backend/internals/helpers/cache"
)

// Rabu
var now = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func paidTx(t *testing.T, db *gorm.DB, code string, userID uint, amount int64, status txModel.PaymentStatus, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&txModel.TransactionModel{
		Code: code, UserID: userID, Amount: amount, PaymentStatus: status,
		PurchasableType: txModel.PurchasableMembershipPackage, PurchasableID: 1,
		CreatedAt: at, UpdatedAt: at,
	}).Error)
}

func TestAdminDashboardCachedUntilInvalidated(t *testing.T) {
	db := dbtest.Open(t)
	c := cache.NewMemory(16)
	svc := NewDashboardService(db, c, time.UTC)
	ctx := context.Background()

	m1 := dbtest.CreateUser(t, db, "A", constants.RoleMember)
	m2 := dbtest.CreateUser(t, db, "B", constants.RoleMember)
	coach := dbtest.CreateUser(t, db, "Coach", constants.RoleTrainer)
	require.NoError(t, db.Model(&m1).Update("membership_status", "active").Error)
	require.NoError(t, db.Create(&trainerModel.PersonalTrainerModel{UserPersonalTrainerID: coach.ID, Nickname: "Coach", Slug: "coach"}).Error)

	paidTx(t, db, "MP-20250110-U1-AAAA", m1.ID, 250000, txModel.PaymentPaid, now.AddDate(0, 0, -5))
	paidTx(t, db, "MP-20250111-U2-BBBB", m2.ID, 100000, txModel.PaymentPending, now.AddDate(0, 0, -4))
	paidTx(t, db, "MP-20241220-U2-CCCC", m2.ID, 999999, txModel.PaymentPaid, now.AddDate(0, -1, 0))

	require.NoError(t, db.Create(&gymClassModel.GymClassModel{Name: "Yoga", Slug: "yoga", Price: 1, Status: gymClassModel.ClassActive}).Error)
	require.NoError(t, db.Create(&gymClassModel.GymClassModel{Name: "Old", Slug: "old", Price: 1, Status: gymClassModel.ClassInactive}).Error)

	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&visitModel.GymVisitModel{UserID: m1.ID, VisitDate: today, EntryTime: now, Status: visitModel.VisitInGym}).Error)
	require.NoError(t, db.Create(&visitModel.GymVisitModel{UserID: m1.ID, VisitDate: today.AddDate(0, 0, -1), EntryTime: now.AddDate(0, 0, -1), Status: visitModel.VisitInGym}).Error)

	d, err := svc.Admin(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.TotalUsers)
	assert.EqualValues(t, 1, d.ActiveMembers)
	assert.EqualValues(t, 250000, d.MonthlyRevenue)
	assert.EqualValues(t, 1, d.ActiveClasses)
	assert.EqualValues(t, 1, d.TodayVisits)
	assert.EqualValues(t, 1, d.ActiveTrainers)

	// masih dari cache
	dbtest.CreateUser(t, db, "C", constants.RoleMember)
	d, err = svc.Admin(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.TotalUsers)

	cache.Invalidate(ctx, c, cache.DashboardPrefix)
	d, err = svc.Admin(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, d.TotalUsers)
}

func TestTrainerDashboard(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewDashboardService(db, nil, time.UTC)
	ctx := context.Background()

	coach := dbtest.CreateUser(t, db, "Coach", constants.RoleTrainer)
	pt := trainerModel.PersonalTrainerModel{UserPersonalTrainerID: coach.ID, Nickname: "Coach", Slug: "coach"}
	require.NoError(t, db.Create(&pt).Error)
	basic := trainerModel.PersonalTrainerPackageModel{PersonalTrainerID: pt.ID, Name: "Basic", Slug: "basic", DayDuration: 10, Price: 1, Status: trainerModel.PackageActive}
	pro := trainerModel.PersonalTrainerPackageModel{PersonalTrainerID: pt.ID, Name: "Pro", Slug: "pro", DayDuration: 30, Price: 2, Status: trainerModel.PackageActive}
	require.NoError(t, db.Create(&basic).Error)
	require.NoError(t, db.Create(&pro).Error)

	m1 := dbtest.CreateUser(t, db, "A", constants.RoleMember)
	m2 := dbtest.CreateUser(t, db, "B", constants.RoleMember)
	assign := func(userID uint, pkg trainerModel.PersonalTrainerPackageModel) trainerModel.PersonalTrainerAssignmentModel {
		a := trainerModel.PersonalTrainerAssignmentModel{
			UserID: userID, PersonalTrainerID: pt.ID, PersonalTrainerPackageID: pkg.ID,
			StartDate: now, DayLeft: pkg.DayDuration, Status: trainerModel.AssignmentActive,
		}
		require.NoError(t, db.Create(&a).Error)
		return a
	}
	a1 := assign(m1.ID, pro)
	assign(m1.ID, pro)
	assign(m2.ID, basic)

	session := func(at time.Time, st trainerModel.SessionStatus) {
		require.NoError(t, db.Create(&trainerModel.PersonalTrainerScheduleModel{
			PersonalTrainerAssignmentID: a1.ID, ScheduledAt: at, Status: st,
		}).Error)
	}
	// 15 & 12 & 25 Jan masuk bulan ini; hanya 15 Jan yang masuk minggu ini (mulai Senin 13 Jan)
	session(now.Add(2*time.Hour), trainerModel.SessionScheduled)
	session(now.AddDate(0, 0, -3), trainerModel.SessionCompleted)
	session(now.AddDate(0, 0, 10), trainerModel.SessionMissed)
	session(now.AddDate(0, 1, 0), trainerModel.SessionScheduled)

	d, err := svc.Trainer(ctx, pt.ID, now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.SessionsThisMonth)
	assert.EqualValues(t, 1, d.SessionsThisWeek)
	assert.EqualValues(t, 2, d.TotalClients)
	assert.EqualValues(t, 2, d.SessionsByStatus["scheduled"])
	assert.EqualValues(t, 1, d.SessionsByStatus["completed"])
	require.NotNil(t, d.MostTakenPackage)
	assert.Equal(t, "Pro", d.MostTakenPackage.Name)
	assert.EqualValues(t, 2, d.MostTakenPackage.Total)

	// trainer tanpa assignment
	other := dbtest.CreateUser(t, db, "Other", constants.RoleTrainer)
	pt2 := trainerModel.PersonalTrainerModel{UserPersonalTrainerID: other.ID, Nickname: "Other", Slug: "other"}
	require.NoError(t, db.Create(&pt2).Error)
	d, err = svc.Trainer(ctx, pt2.ID, now)
	require.NoError(t, err)
	assert.Nil(t, d.MostTakenPackage)
	assert.Empty(t, d.SessionsByStatus)
}

func TestMemberDashboard(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewDashboardService(db, cache.NewMemory(16), time.UTC)
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "A", constants.RoleMember)
	d, err := svc.Member(ctx, u.ID, now)
	require.NoError(t, err)
	assert.Nil(t, d.ActiveMembership)
	assert.Zero(t, d.TotalSpent)

	pkg := membershipModel.MembershipPackageModel{Name: "Bulanan", Slug: "bulanan", Duration: 30, Price: 250000, Status: membershipModel.PackageActive}
	require.NoError(t, db.Create(&pkg).Error)
	_, err = membershipService.ActivateMembership(db, u.ID, pkg, nil, now.AddDate(0, 0, -10))
	require.NoError(t, err)
	paidTx(t, db, "MP-20250105-U1-AAAA", u.ID, 250000, txModel.PaymentPaid, now.AddDate(0, 0, -10))
	paidTx(t, db, "MP-20250106-U1-BBBB", u.ID, 50000, txModel.PaymentFailed, now.AddDate(0, 0, -9))
	require.NoError(t, db.Create(&visitModel.GymVisitModel{UserID: u.ID, VisitDate: now, EntryTime: now, Status: visitModel.VisitInGym}).Error)

	cache.Invalidate(ctx, svc.Cache, MemberKey(u.ID))
	d, err = svc.Member(ctx, u.ID, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.TotalVisits)
	assert.EqualValues(t, 250000, d.TotalSpent)
	require.NotNil(t, d.ActiveMembership)
	assert.Equal(t, "Bulanan", d.ActiveMembership.PackageName)
	assert.Equal(t, 20, d.ActiveMembership.DaysLeft)
}
