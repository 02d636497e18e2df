package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/dbtime"
)

type AssignmentService struct {
	DB    *gorm.DB
	Cache cache.Cache
	Loc   *time.Location
}

func NewAssignmentService(db *gorm.DB, c cache.Cache, loc *time.Location) *AssignmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &AssignmentService{DB: db, Cache: c, Loc: loc}
}

func assignmentNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Assignment tidak ditemukan")
	}
	return err
}

// StartAssignment membuat assignment aktif mulai start (tanggal) selama day_duration hari.
// Dipakai fulfilment transaksi paket PT dan assignment manual admin; harus di dalam tx.
func StartAssignment(tx *gorm.DB, userID uint, pkg model.PersonalTrainerPackageModel, transactionID *uint, start, now time.Time) (*model.PersonalTrainerAssignmentModel, error) {
	now = now.UTC()
	end := start.AddDate(0, 0, pkg.DayDuration)
	a := model.PersonalTrainerAssignmentModel{
		UserID:                   userID,
		PersonalTrainerID:        pkg.PersonalTrainerID,
		PersonalTrainerPackageID: pkg.ID,
		TransactionID:            transactionID,
		StartDate:                start,
		EndDate:                  &end,
		DayLeft:                  pkg.DayDuration,
		Status:                   model.AssignmentActive,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := tx.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return &a, nil
}

// dayLeft sisa hari dari today sampai end_date, tidak pernah negatif.
func dayLeft(today time.Time, end *time.Time) int {
	if end == nil {
		return 0
	}
	if d := dbtime.DaysBetween(today, *end); d > 0 {
		return d
	}
	return 0
}

/* ==========================
   READ
========================== */

func (s *AssignmentService) List(ctx context.Context, q trainerDTO.ListAssignmentQuery, pg helper.Paging) ([]model.PersonalTrainerAssignmentModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if q.UserID > 0 {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.TrainerID > 0 {
		db = db.Where("personal_trainer_id = ?", q.TrainerID)
	}
	if st := strings.ToLower(strings.TrimSpace(q.Status)); st != "" {
		db = db.Where("status = ?", st)
	}
	rows, total, err := helper.Paged[model.PersonalTrainerAssignmentModel](db, "created_at DESC", pg,
		"PersonalTrainerPackage", "PersonalTrainer", "User")
	if err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	return rows, total, nil
}

func (s *AssignmentService) Get(ctx context.Context, id uint) (*model.PersonalTrainerAssignmentModel, error) {
	var a model.PersonalTrainerAssignmentModel
	err := s.DB.WithContext(ctx).
		Preload("PersonalTrainerPackage").Preload("PersonalTrainer").Preload("User").
		First(&a, id).Error
	if err != nil {
		return nil, assignmentNotFound(err)
	}
	return &a, nil
}

/* ==========================
   ADMIN WRITE
========================== */

// Create assignment manual (tanpa transaksi), misal paket yang dibayar offline.
func (s *AssignmentService) Create(ctx context.Context, in trainerDTO.CreateAssignmentRequest, now time.Time) (*model.PersonalTrainerAssignmentModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	start := dbtime.DateOnly(now, s.Loc)
	if in.StartDate != "" {
		d, err := dbtime.ParseDate(in.StartDate)
		if err != nil {
			return nil, helper.NewFieldError("start_date", err.Error())
		}
		start = d
	}

	var a *model.PersonalTrainerAssignmentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fe := helper.FieldErrors{}
		var u userModel.UserModel
		if err := tx.Select("id").First(&u, in.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			fe = fe.Add("user_id", "User tidak ditemukan.")
		}
		var pkg model.PersonalTrainerPackageModel
		if err := tx.First(&pkg, in.PersonalTrainerPackageID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			fe = fe.Add("personal_trainer_package_id", "Paket trainer tidak ditemukan.")
		}
		if len(fe) > 0 {
			return fe
		}
		var err error
		a, err = StartAssignment(tx, in.UserID, pkg, nil, start, now)
		if err != nil {
			return err
		}
		// start di masa lalu: sisa hari dihitung dari hari ini
		today := dbtime.DateOnly(now, s.Loc)
		if start.Before(today) {
			a.DayLeft = dayLeft(today, a.EndDate)
			if a.DayLeft == 0 {
				a.Status = model.AssignmentCompleted
			}
			return tx.Model(a).Updates(map[string]any{"day_left": a.DayLeft, "status": a.Status}).Error
		}
		return nil
	})
	if err != nil {
		return nil, helper.Wrap("create assignment", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return a, nil
}

// Pause: simpan sisa hari lalu status paused. Hanya dari active.
func (s *AssignmentService) Pause(ctx context.Context, id uint, now time.Time) (*model.PersonalTrainerAssignmentModel, error) {
	today := dbtime.DateOnly(now, s.Loc)
	return s.transition(ctx, id, now, func(a *model.PersonalTrainerAssignmentModel) (map[string]any, error) {
		if a.Status != model.AssignmentActive {
			return nil, fiber.NewError(fiber.StatusConflict, "Hanya assignment aktif yang bisa di-pause")
		}
		a.DayLeft = dayLeft(today, a.EndDate)
		a.Status = model.AssignmentPaused
		return map[string]any{"day_left": a.DayLeft, "status": a.Status}, nil
	})
}

// Resume: end_date digeser ke today + day_left.
func (s *AssignmentService) Resume(ctx context.Context, id uint, now time.Time) (*model.PersonalTrainerAssignmentModel, error) {
	today := dbtime.DateOnly(now, s.Loc)
	return s.transition(ctx, id, now, func(a *model.PersonalTrainerAssignmentModel) (map[string]any, error) {
		if a.Status != model.AssignmentPaused {
			return nil, fiber.NewError(fiber.StatusConflict, "Hanya assignment yang di-pause yang bisa dilanjutkan")
		}
		end := today.AddDate(0, 0, a.DayLeft)
		a.EndDate = &end
		a.Status = model.AssignmentActive
		if a.DayLeft == 0 {
			a.Status = model.AssignmentCompleted
		}
		return map[string]any{"end_date": end, "status": a.Status}, nil
	})
}

func (s *AssignmentService) Complete(ctx context.Context, id uint, now time.Time) (*model.PersonalTrainerAssignmentModel, error) {
	return s.transition(ctx, id, now, func(a *model.PersonalTrainerAssignmentModel) (map[string]any, error) {
		if a.Status == model.AssignmentCompleted {
			return nil, fiber.NewError(fiber.StatusConflict, "Assignment sudah selesai")
		}
		a.Status = model.AssignmentCompleted
		a.DayLeft = 0
		return map[string]any{"day_left": 0, "status": a.Status}, nil
	})
}

func (s *AssignmentService) transition(ctx context.Context, id uint, now time.Time, fn func(*model.PersonalTrainerAssignmentModel) (map[string]any, error)) (*model.PersonalTrainerAssignmentModel, error) {
	var a model.PersonalTrainerAssignmentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error; err != nil {
			return assignmentNotFound(err)
		}
		patch, err := fn(&a)
		if err != nil {
			return err
		}
		patch["updated_at"] = now.UTC()
		return tx.Model(&a).Updates(patch).Error
	})
	if err != nil {
		return nil, helper.Wrap("assignment transition", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("assignment_id", id).Str("status", string(a.Status)).Msg("[ASSIGNMENT] status berubah")
	return &a, nil
}

// Delete assignment beserta sesi-sesinya.
func (s *AssignmentService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.PersonalTrainerAssignmentModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Assignment tidak ditemukan")
		}
		return tx.Where("personal_trainer_assignment_id = ?", id).Delete(&model.PersonalTrainerScheduleModel{}).Error
	})
	if err != nil {
		return helper.Wrap("delete assignment", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return nil
}

/* ==========================
   JOB
========================== */

// RecomputeDayLeft menghitung ulang day_left semua assignment aktif; yang habis -> completed.
// Assignment paused tidak disentuh (sisa harinya dibekukan).
func (s *AssignmentService) RecomputeDayLeft(ctx context.Context, now time.Time) (updated, completed int, err error) {
	today := dbtime.DateOnly(now, s.Loc)
	var rows []model.PersonalTrainerAssignmentModel
	if err := s.DB.WithContext(ctx).
		Select("id", "end_date", "day_left", "status").
		Where("status = ?", model.AssignmentActive).
		Find(&rows).Error; err != nil {
		return 0, 0, fmt.Errorf("load active assignments: %w", err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range rows {
			left := dayLeft(today, a.EndDate)
			patch := map[string]any{}
			if left != a.DayLeft {
				patch["day_left"] = left
			}
			if left == 0 {
				patch["status"] = model.AssignmentCompleted
			}
			if len(patch) == 0 {
				continue
			}
			patch["updated_at"] = now.UTC()
			if err := tx.Model(&model.PersonalTrainerAssignmentModel{}).Where("id = ?", a.ID).Updates(patch).Error; err != nil {
				return err
			}
			updated++
			if left == 0 {
				completed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("recompute day_left: %w", err)
	}
	if updated > 0 {
		cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	}
	return updated, completed, nil
}
