package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/dbtime"
)

var ErrSlotFull = fiber.NewError(fiber.StatusConflict, "Slot kelas sudah penuh")

// ReserveSlot mengurangi available_slot secara atomik (satu UPDATE bersyarat).
// Dua checkout bersamaan untuk slot terakhir: hanya satu yang dapat baris ter-update.
func ReserveSlot(tx *gorm.DB, scheduleID uint) error {
	res := tx.Model(&model.GymClassScheduleModel{}).
		Where("id = ? AND available_slot > 0", scheduleID).
		UpdateColumn("available_slot", gorm.Expr("available_slot - 1"))
	if res.Error != nil {
		return fmt.Errorf("reserve slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSlotFull
	}
	return nil
}

// ReleaseSlot kebalikan ReserveSlot, tidak pernah melebihi kapasitas.
func ReleaseSlot(tx *gorm.DB, scheduleID uint) error {
	err := tx.Model(&model.GymClassScheduleModel{}).
		Where("id = ? AND available_slot < slot", scheduleID).
		UpdateColumn("available_slot", gorm.Expr("available_slot + 1")).Error
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}

type ScheduleService struct {
	DB *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{DB: db}
}

func scheduleNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Jadwal kelas tidak ditemukan")
	}
	return err
}

// checkClock mengembalikan jam dalam bentuk kanonik HH:MM ("9:30" -> "09:30")
// supaya perbandingan & ORDER BY start_time konsisten.
func checkClock(start, end string) (string, string, error) {
	st, err := time.Parse(dbtime.ClockLayout, strings.TrimSpace(start))
	if err != nil {
		return "", "", helper.NewFieldError("start_time", "Format start_time harus HH:MM.")
	}
	et, err := time.Parse(dbtime.ClockLayout, strings.TrimSpace(end))
	if err != nil {
		return "", "", helper.NewFieldError("end_time", "Format end_time harus HH:MM.")
	}
	if !et.After(st) {
		return "", "", helper.NewFieldError("end_time", "end_time harus setelah start_time.")
	}
	return st.Format(dbtime.ClockLayout), et.Format(dbtime.ClockLayout), nil
}

// ListByClass; from != nil -> hanya jadwal mulai tanggal tsb (katalog publik).
func (s *ScheduleService) ListByClass(ctx context.Context, classID uint, from *time.Time, activeOnly bool) ([]model.GymClassScheduleModel, error) {
	var g model.GymClassModel
	q := s.DB.WithContext(ctx)
	if activeOnly {
		q = q.Where("status = ?", model.ClassActive)
	}
	if err := q.First(&g, classID).Error; err != nil {
		return nil, classNotFound(err)
	}

	db := s.DB.WithContext(ctx).Where("gym_class_id = ?", classID)
	if from != nil {
		db = db.Where("date >= ?", from.UTC())
	}
	rows := make([]model.GymClassScheduleModel, 0)
	if err := db.Order("date ASC, start_time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return rows, nil
}

func (s *ScheduleService) Get(ctx context.Context, id uint) (*model.GymClassScheduleModel, error) {
	var sc model.GymClassScheduleModel
	if err := s.DB.WithContext(ctx).Preload("GymClass").First(&sc, id).Error; err != nil {
		return nil, scheduleNotFound(err)
	}
	return &sc, nil
}

func (s *ScheduleService) Create(ctx context.Context, classID uint, in classDTO.CreateScheduleRequest, now time.Time) (*model.GymClassScheduleModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	startTime, endTime, err := checkClock(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	date, err := dbtime.ParseDate(in.Date)
	if err != nil {
		return nil, helper.NewFieldError("date", err.Error())
	}

	var g model.GymClassModel
	if err := s.DB.WithContext(ctx).First(&g, classID).Error; err != nil {
		return nil, classNotFound(err)
	}
	now = now.UTC()
	sc := model.GymClassScheduleModel{
		GymClassID:    classID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		Slot:          in.Slot,
		AvailableSlot: in.Slot,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.DB.WithContext(ctx).Create(&sc).Error; err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return &sc, nil
}

// Update: perubahan slot menggeser available_slot dengan selisih yang sama;
// kapasitas tidak boleh turun di bawah jumlah yang sudah terpakai.
func (s *ScheduleService) Update(ctx context.Context, id uint, in classDTO.UpdateScheduleRequest, now time.Time) (*model.GymClassScheduleModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var sc model.GymClassScheduleModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sc, id).Error; err != nil {
			return scheduleNotFound(err)
		}
		start, end := sc.StartTime, sc.EndTime
		if in.StartTime != nil {
			start = *in.StartTime
		}
		if in.EndTime != nil {
			end = *in.EndTime
		}
		start, end, err := checkClock(start, end)
		if err != nil {
			return err
		}
		patch := map[string]any{"start_time": start, "end_time": end, "updated_at": now.UTC()}
		if in.Date != nil {
			d, err := dbtime.ParseDate(*in.Date)
			if err != nil {
				return helper.NewFieldError("date", err.Error())
			}
			patch["date"] = d
		}
		if in.Slot != nil && *in.Slot != sc.Slot {
			used := sc.Slot - sc.AvailableSlot
			if *in.Slot < used {
				return helper.NewFieldError("slot", fmt.Sprintf("slot minimal %d (sudah terpakai).", used))
			}
			patch["slot"] = *in.Slot
			patch["available_slot"] = *in.Slot - used
		}
		if err := tx.Model(&sc).Updates(patch).Error; err != nil {
			return err
		}
		return tx.First(&sc, id).Error
	})
	if err != nil {
		return nil, helper.Wrap("update schedule", err)
	}
	return &sc, nil
}

// Delete: attendance ikut terhapus; jadwal yang dirujuk transaksi -> 409.
func (s *ScheduleService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sc model.GymClassScheduleModel
		if err := tx.First(&sc, id).Error; err != nil {
			return scheduleNotFound(err)
		}
		var n int64
		if err := tx.Model(&txModel.TransactionModel{}).Where("gym_class_schedule_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Jadwal sudah memiliki transaksi")
		}
		if err := tx.Where("gym_class_schedule_id = ?", id).Delete(&model.GymClassAttendanceModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sc).Error
	})
	return helper.Wrap("delete schedule", err)
}
