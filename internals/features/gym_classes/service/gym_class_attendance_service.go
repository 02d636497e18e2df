package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
)

type AttendanceService struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewAttendanceService(db *gorm.DB, c cache.Cache) *AttendanceService {
	return &AttendanceService{DB: db, Cache: c}
}

func attendanceNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Booking kelas tidak ditemukan")
	}
	return err
}

// holdsSlot: booking yang masih memakai kursi (semua kecuali cancelled).
func holdsSlot(s model.AttendanceStatus) bool {
	return s != model.AttendanceCancelled
}

// AssignAttendance membuat booking status assigned. Slot sudah di-reserve pemanggil.
func AssignAttendance(tx *gorm.DB, userID, scheduleID uint, transactionID *uint, now time.Time) (*model.GymClassAttendanceModel, error) {
	now = now.UTC()
	a := model.GymClassAttendanceModel{
		UserID:             userID,
		GymClassScheduleID: scheduleID,
		TransactionID:      transactionID,
		Status:             model.AttendanceAssigned,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	return &a, nil
}

func (s *AttendanceService) List(ctx context.Context, q classDTO.ListAttendanceQuery, pg helper.Paging) ([]model.GymClassAttendanceModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if q.UserID > 0 {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.ScheduleID > 0 {
		db = db.Where("gym_class_schedule_id = ?", q.ScheduleID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	rows, total, err := helper.Paged[model.GymClassAttendanceModel](db, "created_at DESC", pg, "GymClassSchedule.GymClass")
	if err != nil {
		return nil, 0, fmt.Errorf("list attendances: %w", err)
	}
	return rows, total, nil
}

func (s *AttendanceService) Get(ctx context.Context, id uint) (*model.GymClassAttendanceModel, error) {
	var a model.GymClassAttendanceModel
	if err := s.DB.WithContext(ctx).Preload("GymClassSchedule.GymClass").First(&a, id).Error; err != nil {
		return nil, attendanceNotFound(err)
	}
	return &a, nil
}

// Create booking manual oleh admin (tanpa transaksi), tetap memotong slot.
func (s *AttendanceService) Create(ctx context.Context, scheduleID uint, in classDTO.CreateAttendanceRequest, now time.Time) (*model.GymClassAttendanceModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var out *model.GymClassAttendanceModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sc model.GymClassScheduleModel
		if err := tx.First(&sc, scheduleID).Error; err != nil {
			return scheduleNotFound(err)
		}
		var u userModel.UserModel
		if err := tx.Select("id").First(&u, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewFieldError("user_id", "User tidak ditemukan.")
			}
			return err
		}
		if err := ReserveSlot(tx, scheduleID); err != nil {
			return err
		}
		a, err := AssignAttendance(tx, in.UserID, scheduleID, nil, now)
		out = a
		return err
	})
	if err != nil {
		return nil, helper.Wrap("create attendance", err)
	}
	return out, nil
}

// UpdateStatus: attended_at mengikuti status; cancel melepas slot, batal-cancel memakai slot lagi.
func (s *AttendanceService) UpdateStatus(ctx context.Context, id uint, in classDTO.UpdateAttendanceStatusRequest, now time.Time) (*model.GymClassAttendanceModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	next := model.AttendanceStatus(in.Status)
	now = now.UTC()

	var a model.GymClassAttendanceModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error; err != nil {
			return attendanceNotFound(err)
		}
		switch {
		case holdsSlot(a.Status) && !holdsSlot(next):
			if err := ReleaseSlot(tx, a.GymClassScheduleID); err != nil {
				return err
			}
		case !holdsSlot(a.Status) && holdsSlot(next):
			if err := ReserveSlot(tx, a.GymClassScheduleID); err != nil {
				return err
			}
		}
		a.ApplyStatus(next, now)
		return tx.Model(&a).Updates(map[string]any{
			"status":      a.Status,
			"attended_at": a.AttendedAt,
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		return nil, helper.Wrap("update attendance", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return &a, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.GymClassAttendanceModel
		if err := tx.First(&a, id).Error; err != nil {
			return attendanceNotFound(err)
		}
		if holdsSlot(a.Status) {
			if err := ReleaseSlot(tx, a.GymClassScheduleID); err != nil {
				return err
			}
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		return helper.Wrap("delete attendance", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return nil
}
