package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/storage"
)

var now = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

func newClass(t *testing.T, svc *GymClassService, name string) *model.GymClassModel {
	t.Helper()
	g, err := svc.Create(context.Background(), classDTO.CreateGymClassRequest{Name: name, Price: 75000, Status: "active"}, now)
	require.NoError(t, err)
	return g
}

func TestCreateClassCodeAndSlug(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewGymClassService(db, storage.NewMemoryDisk(), nil)
	ctx := context.Background()

	g := newClass(t, svc, "Yoga Pagi")
	assert.Equal(t, helper.Slugify(g.Name, 120), g.Slug)
	assert.Equal(t, "yoga-pagi", g.Slug)
	require.NotNil(t, g.Code)
	assert.Regexp(t, `^GC-[0-9A-F]{13}$`, *g.Code)

	g2 := newClass(t, svc, "Yoga Pagi")
	assert.Equal(t, "yoga-pagi-2", g2.Slug)
	assert.NotEqual(t, *g.Code, *g2.Code)

	g, err := svc.Update(ctx, g.ID, classDTO.UpdateGymClassRequest{Name: strPtr("Zumba Sore")}, now)
	require.NoError(t, err)
	assert.Equal(t, "zumba-sore", g.Slug)

	// nama sama -> slug tetap
	g, err = svc.Update(ctx, g.ID, classDTO.UpdateGymClassRequest{Name: strPtr("Zumba Sore"), Price: func() *int64 { v := int64(1); return &v }()}, now)
	require.NoError(t, err)
	assert.Equal(t, "zumba-sore", g.Slug)
	assert.EqualValues(t, 1, g.Price)
}

func TestScheduleSlotsAndAttendance(t *testing.T) {
	db := dbtest.Open(t)
	classes := NewGymClassService(db, nil, nil)
	schedules := NewScheduleService(db)
	att := NewAttendanceService(db, nil)
	ctx := context.Background()

	g := newClass(t, classes, "HIIT")
	sc, err := schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{Date: "2025-01-20", StartTime: "07:00", EndTime: "08:00", Slot: 1}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sc.AvailableSlot)

	_, err = schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{Date: "2025-01-20", StartTime: "09:00", EndTime: "08:00", Slot: 1}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "end_time")

	u1 := dbtest.CreateUser(t, db, "A", constants.RoleMember)
	u2 := dbtest.CreateUser(t, db, "B", constants.RoleMember)

	a, err := att.Create(ctx, sc.ID, classDTO.CreateAttendanceRequest{UserID: u1.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceAssigned, a.Status)

	_, err = att.Create(ctx, sc.ID, classDTO.CreateAttendanceRequest{UserID: u2.ID}, now)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	// attended -> attended_at terisi, pindah status -> dikosongkan
	a, err = att.UpdateStatus(ctx, a.ID, classDTO.UpdateAttendanceStatusRequest{Status: "attended"}, now)
	require.NoError(t, err)
	require.NotNil(t, a.AttendedAt)
	a, err = att.UpdateStatus(ctx, a.ID, classDTO.UpdateAttendanceStatusRequest{Status: "missed"}, now)
	require.NoError(t, err)
	assert.Nil(t, a.AttendedAt)

	// cancel melepas slot
	_, err = att.UpdateStatus(ctx, a.ID, classDTO.UpdateAttendanceStatusRequest{Status: "cancelled"}, now)
	require.NoError(t, err)
	var fresh model.GymClassScheduleModel
	require.NoError(t, db.First(&fresh, sc.ID).Error)
	assert.Equal(t, 1, fresh.AvailableSlot)

	_, err = att.Create(ctx, sc.ID, classDTO.CreateAttendanceRequest{UserID: u2.ID}, now)
	require.NoError(t, err)

	// slot tidak boleh di bawah yang terpakai
	_, err = schedules.Update(ctx, sc.ID, classDTO.UpdateScheduleRequest{Slot: func() *int { v := 3; return &v }()}, now)
	require.NoError(t, err)
	require.NoError(t, db.First(&fresh, sc.ID).Error)
	assert.Equal(t, 3, fresh.Slot)
	assert.Equal(t, 2, fresh.AvailableSlot)
}

func TestScheduleClockSingleDigitHour(t *testing.T) {
	db := dbtest.Open(t)
	schedules := NewScheduleService(db)
	ctx := context.Background()
	g := newClass(t, NewGymClassService(db, nil, nil), "Pilates")

	late, err := schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{Date: "2025-01-20", StartTime: "10:00", EndTime: "11:00", Slot: 5}, now)
	require.NoError(t, err)

	early, err := schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{Date: "2025-01-20", StartTime: "9:30", EndTime: "10:30", Slot: 5}, now)
	require.NoError(t, err)
	assert.Equal(t, "09:30", early.StartTime)
	assert.Equal(t, "10:30", early.EndTime)

	// 10:00 -> 9:30 mundur, harus ditolak walau secara string "9:30" > "10:00"
	_, err = schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{Date: "2025-01-20", StartTime: "10:00", EndTime: "9:30", Slot: 5}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "end_time")

	rows, err := schedules.ListByClass(ctx, g.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, early.ID, rows[0].ID)
	assert.Equal(t, late.ID, rows[1].ID)

	late, err = schedules.Update(ctx, late.ID, classDTO.UpdateScheduleRequest{StartTime: strPtr("8:15"), EndTime: strPtr("9:00")}, now)
	require.NoError(t, err)
	assert.Equal(t, "08:15", late.StartTime)
	assert.Equal(t, "09:00", late.EndTime)
}

func TestDeleteClassCascadesAndGuardsTransactions(t *testing.T) {
	db := dbtest.Open(t)
	disk := storage.NewMemoryDisk()
	classes := NewGymClassService(db, disk, nil)
	schedules := NewScheduleService(db)
	att := NewAttendanceService(db, nil)
	ctx := context.Background()

	g := newClass(t, classes, "Pilates")
	sc, err := schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{Date: "2025-01-20", StartTime: "07:00", EndTime: "08:00", Slot: 5}, now)
	require.NoError(t, err)
	u := dbtest.CreateUser(t, db, "A", constants.RoleMember)
	_, err = att.Create(ctx, sc.ID, classDTO.CreateAttendanceRequest{UserID: u.ID}, now)
	require.NoError(t, err)

	require.NoError(t, classes.Delete(ctx, g.ID))
	var n int64
	db.Model(&model.GymClassScheduleModel{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&model.GymClassAttendanceModel{}).Count(&n)
	assert.Zero(t, n)

	sold := newClass(t, classes, "Boxing")
	require.NoError(t, db.Create(&txModel.TransactionModel{
		Code: "GC-20250115-U1-ZZZZ", UserID: u.ID, Amount: 1, PaymentStatus: txModel.PaymentPaid,
		PurchasableType: txModel.PurchasableGymClass, PurchasableID: sold.ID,
	}).Error)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, classes.Delete(ctx, sold.ID)))
}

func TestReserveSlotIssuesConditionalUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	q := regexp.QuoteMeta(`UPDATE "gym_class_schedules" SET "available_slot"=available_slot - 1 WHERE id = $1 AND available_slot > 0`)
	mock.ExpectExec(q).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ReserveSlot(gdb, 7))
	assert.Equal(t, fiber.StatusConflict, statusOf(t, ReserveSlot(gdb, 8)))
	require.NoError(t, mock.ExpectationsWereMet())
}
