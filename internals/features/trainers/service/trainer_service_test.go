package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/storage"
)

var now = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

func roleOf(t *testing.T, svc *TrainerService, userID uint) string {
	t.Helper()
	var u userModel.UserModel
	require.NoError(t, svc.DB.First(&u, userID).Error)
	return u.Role
}

func TestTrainerCreateAndDeleteFlipsRole(t *testing.T) {
	db := dbtest.Open(t)
	disk := storage.NewMemoryDisk()
	svc := NewTrainerService(db, disk, nil)
	pkgs := NewTrainerPackageService(db, disk, nil)
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "Budi", constants.RoleMember)
	tr, err := svc.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: u.ID, Nickname: "Coach Budi"}, now)
	require.NoError(t, err)
	assert.Equal(t, "coach-budi", tr.Slug)
	require.NotNil(t, tr.Code)
	assert.Equal(t, TrainerCode(tr.ID, u.ID), *tr.Code)
	assert.Regexp(t, `^PT-\d{6}$`, *tr.Code)
	assert.Equal(t, constants.RoleTrainer, roleOf(t, svc, u.ID))

	// sudah trainer -> 422 di user_id
	_, err = svc.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: u.ID, Nickname: "Lagi"}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "user_id")

	admin := dbtest.CreateUser(t, db, "Admin", constants.RoleAdmin)
	_, err = svc.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: admin.ID, Nickname: "Boss"}, now)
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "user_id")

	p, err := pkgs.Create(ctx, trainerDTO.CreateTrainerPackageRequest{
		PersonalTrainerID: tr.ID, Name: "8 Sesi", DayDuration: 30, Price: 800000, Status: "active",
	}, now)
	require.NoError(t, err)
	require.NotNil(t, p.Code)
	assert.Equal(t, TrainerPackageCode(p.ID), *p.Code)
	disk.Add("/uploads/trainers/a.webp")
	require.NoError(t, db.Model(tr).Update("images", datatypes.JSONSlice[string]{"/uploads/trainers/a.webp"}).Error)

	require.NoError(t, svc.Delete(ctx, tr.ID, now))
	assert.Equal(t, constants.RoleMember, roleOf(t, svc, u.ID))
	var n int64
	db.Model(&model.PersonalTrainerPackageModel{}).Count(&n)
	assert.Zero(t, n)
	assert.Contains(t, disk.DeletedURLs(), "/uploads/trainers/a.webp")
}

func TestTrainerDeleteGuardedBySoldPackage(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewTrainerService(db, nil, nil)
	pkgs := NewTrainerPackageService(db, nil, nil)
	ctx := context.Background()

	u := dbtest.CreateUser(t, db, "Sari", constants.RoleMember)
	tr, err := svc.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: u.ID, Nickname: "Sari"}, now)
	require.NoError(t, err)
	p, err := pkgs.Create(ctx, trainerDTO.CreateTrainerPackageRequest{
		PersonalTrainerID: tr.ID, Name: "Intro", DayDuration: 7, Price: 100000, Status: "active",
	}, now)
	require.NoError(t, err)

	buyer := dbtest.CreateUser(t, db, "Buyer", constants.RoleMember)
	require.NoError(t, db.Create(&txModel.TransactionModel{
		Code: "PTP-20250115-U2-AAAA", UserID: buyer.ID, Amount: p.Price, PaymentStatus: txModel.PaymentPending,
		PurchasableType: txModel.PurchasablePersonalTrainerPackage, PurchasableID: p.ID,
	}).Error)

	assert.Equal(t, fiber.StatusConflict, statusOf(t, svc.Delete(ctx, tr.ID, now)))
	assert.Equal(t, fiber.StatusConflict, statusOf(t, pkgs.Delete(ctx, p.ID)))
	assert.Equal(t, constants.RoleTrainer, roleOf(t, svc, u.ID))
}

func TestAssignmentPauseResumeAndRecompute(t *testing.T) {
	db := dbtest.Open(t)
	trainers := NewTrainerService(db, nil, nil)
	pkgs := NewTrainerPackageService(db, nil, nil)
	asg := NewAssignmentService(db, nil, time.UTC)
	ctx := context.Background()

	coach := dbtest.CreateUser(t, db, "Coach", constants.RoleMember)
	tr, err := trainers.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: coach.ID, Nickname: "Coach"}, now)
	require.NoError(t, err)
	p, err := pkgs.Create(ctx, trainerDTO.CreateTrainerPackageRequest{
		PersonalTrainerID: tr.ID, Name: "10 Hari", DayDuration: 10, Price: 1, Status: "active",
	}, now)
	require.NoError(t, err)
	member := dbtest.CreateUser(t, db, "Member", constants.RoleMember)

	a, err := asg.Create(ctx, trainerDTO.CreateAssignmentRequest{UserID: member.ID, PersonalTrainerPackageID: p.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentActive, a.Status)
	assert.Equal(t, 10, a.DayLeft)
	assert.Equal(t, "2025-01-25", a.EndDate.Format("2006-01-02"))

	// trainer diturunkan dari paket; user trainer terjangkau lewat PersonalTrainer
	assert.Equal(t, tr.ID, a.PersonalTrainerID)
	got, err := asg.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PersonalTrainer)
	assert.Equal(t, coach.ID, got.PersonalTrainer.UserPersonalTrainerID)
	require.NotNil(t, got.User)
	assert.Equal(t, member.ID, got.User.ID)

	// 3 hari kemudian: sisa 7
	updated, completed, err := asg.RecomputeDayLeft(ctx, now.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Zero(t, completed)

	a, err = asg.Pause(ctx, a.ID, now.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentPaused, a.Status)
	assert.Equal(t, 7, a.DayLeft)

	// paused tidak disentuh job
	updated, _, err = asg.RecomputeDayLeft(ctx, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Zero(t, updated)

	_, err = asg.Pause(ctx, a.ID, now)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	a, err = asg.Resume(ctx, a.ID, now.AddDate(0, 0, 20))
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentActive, a.Status)
	assert.Equal(t, "2025-02-11", a.EndDate.Format("2006-01-02"))

	_, completed, err = asg.RecomputeDayLeft(ctx, now.AddDate(0, 0, 40))
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	a, err = asg.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentCompleted, a.Status)
	assert.Zero(t, a.DayLeft)
}

func TestSessionOwnershipCheckOutAndFeedback(t *testing.T) {
	db := dbtest.Open(t)
	trainers := NewTrainerService(db, nil, nil)
	pkgs := NewTrainerPackageService(db, nil, nil)
	asg := NewAssignmentService(db, nil, time.UTC)
	sessions := NewSessionService(db, nil)
	ctx := context.Background()

	c1 := dbtest.CreateUser(t, db, "C1", constants.RoleMember)
	c2 := dbtest.CreateUser(t, db, "C2", constants.RoleMember)
	t1, err := trainers.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: c1.ID, Nickname: "Satu"}, now)
	require.NoError(t, err)
	t2, err := trainers.Create(ctx, trainerDTO.CreateTrainerRequest{UserID: c2.ID, Nickname: "Dua"}, now)
	require.NoError(t, err)
	p, err := pkgs.Create(ctx, trainerDTO.CreateTrainerPackageRequest{
		PersonalTrainerID: t1.ID, Name: "PT", DayDuration: 30, Price: 1, Status: "active",
	}, now)
	require.NoError(t, err)
	member := dbtest.CreateUser(t, db, "M", constants.RoleMember)
	a, err := asg.Create(ctx, trainerDTO.CreateAssignmentRequest{UserID: member.ID, PersonalTrainerPackageID: p.ID}, now)
	require.NoError(t, err)

	in := trainerDTO.CreateSessionRequest{ScheduledAt: "2025-01-16T07:00:00+07:00"}
	_, err = sessions.Create(ctx, a.ID, t2.ID, in, now)
	assert.Equal(t, fiber.StatusForbidden, statusOf(t, err))

	sess, err := sessions.Create(ctx, a.ID, t1.ID, in, now)
	require.NoError(t, err)
	assert.Equal(t, model.SessionScheduled, sess.Status)

	_, err = sessions.Feedback(ctx, sess.ID, member.ID, trainerDTO.FeedbackRequest{MemberFeedback: "Mantap"}, now)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	_, err = sessions.CheckOut(ctx, sess.ID, t1.ID, now)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	_, err = sessions.CheckIn(ctx, sess.ID, t1.ID, now)
	require.NoError(t, err)
	sess, err = sessions.CheckOut(ctx, sess.ID, t1.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, sess.Status)
	require.NotNil(t, sess.CheckOutTime)

	// bukan pemilik assignment -> 404
	_, err = sessions.Feedback(ctx, sess.ID, c2.ID, trainerDTO.FeedbackRequest{MemberFeedback: "x"}, now)
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, err))

	sess, err = sessions.Feedback(ctx, sess.ID, member.ID, trainerDTO.FeedbackRequest{MemberFeedback: "Mantap"}, now)
	require.NoError(t, err)
	require.NotNil(t, sess.MemberFeedback)
	assert.Equal(t, "Mantap", *sess.MemberFeedback)
}
