package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
)

// SessionService mengelola PersonalTrainerSchedule (sesi latihan per assignment).
// trainerID = 0 berarti pemanggil admin (tanpa cek kepemilikan).
type SessionService struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewSessionService(db *gorm.DB, c cache.Cache) *SessionService {
	return &SessionService{DB: db, Cache: c}
}

func sessionNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	return err
}

func ownedAssignment(tx *gorm.DB, id, trainerID uint) (*model.PersonalTrainerAssignmentModel, error) {
	var a model.PersonalTrainerAssignmentModel
	if err := tx.First(&a, id).Error; err != nil {
		return nil, assignmentNotFound(err)
	}
	if trainerID > 0 && a.PersonalTrainerID != trainerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Assignment ini bukan milik Anda")
	}
	return &a, nil
}

func (s *SessionService) lockOwned(tx *gorm.DB, id, trainerID uint) (*model.PersonalTrainerScheduleModel, error) {
	var sess model.PersonalTrainerScheduleModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sess, id).Error; err != nil {
		return nil, sessionNotFound(err)
	}
	if _, err := ownedAssignment(tx, sess.PersonalTrainerAssignmentID, trainerID); err != nil {
		return nil, err
	}
	return &sess, nil
}

func parseRFC3339(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, helper.NewFieldError(field, field+" harus berformat RFC3339.")
	}
	return t.UTC(), nil
}

func (s *SessionService) ListByAssignment(ctx context.Context, assignmentID, trainerID uint, pg helper.Paging) ([]model.PersonalTrainerScheduleModel, int64, error) {
	if _, err := ownedAssignment(s.DB.WithContext(ctx), assignmentID, trainerID); err != nil {
		return nil, 0, err
	}
	db := s.DB.WithContext(ctx).Where("personal_trainer_assignment_id = ?", assignmentID)
	rows, total, err := helper.Paged[model.PersonalTrainerScheduleModel](db, "scheduled_at ASC", pg)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	return rows, total, nil
}

// Create sesi baru; assignment harus aktif.
func (s *SessionService) Create(ctx context.Context, assignmentID, trainerID uint, in trainerDTO.CreateSessionRequest, now time.Time) (*model.PersonalTrainerScheduleModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	at, err := parseRFC3339("scheduled_at", in.ScheduledAt)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	sess := model.PersonalTrainerScheduleModel{
		PersonalTrainerAssignmentID: assignmentID,
		ScheduledAt:                 at,
		Status:                      model.SessionScheduled,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := ownedAssignment(tx, assignmentID, trainerID)
		if err != nil {
			return err
		}
		if a.Status != model.AssignmentActive {
			return fiber.NewError(fiber.StatusConflict, "Assignment tidak aktif")
		}
		return tx.Create(&sess).Error
	})
	if err != nil {
		return nil, helper.Wrap("create session", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return &sess, nil
}

func (s *SessionService) Update(ctx context.Context, id, trainerID uint, in trainerDTO.UpdateSessionRequest, now time.Time) (*model.PersonalTrainerScheduleModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var sess *model.PersonalTrainerScheduleModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sess, err = s.lockOwned(tx, id, trainerID); err != nil {
			return err
		}
		patch := map[string]any{}
		if in.ScheduledAt != nil {
			at, err := parseRFC3339("scheduled_at", *in.ScheduledAt)
			if err != nil {
				return err
			}
			patch["scheduled_at"] = at
		}
		if in.Status != nil {
			patch["status"] = model.SessionStatus(*in.Status)
		}
		if in.TrainingLog != nil {
			patch["training_log"] = datatypes.JSONMap(*in.TrainingLog)
		}
		if in.TrainerNotes != nil {
			patch["trainer_notes"] = *in.TrainerNotes
		}
		if len(patch) == 0 {
			return nil
		}
		patch["updated_at"] = now.UTC()
		if err := tx.Model(sess).Updates(patch).Error; err != nil {
			return err
		}
		return tx.First(sess, id).Error
	})
	if err != nil {
		return nil, helper.Wrap("update session", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return sess, nil
}

// CheckIn menandai sesi dimulai; hanya untuk sesi scheduled yang belum check-in.
func (s *SessionService) CheckIn(ctx context.Context, id, trainerID uint, now time.Time) (*model.PersonalTrainerScheduleModel, error) {
	now = now.UTC()
	var sess *model.PersonalTrainerScheduleModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sess, err = s.lockOwned(tx, id, trainerID); err != nil {
			return err
		}
		if sess.Status != model.SessionScheduled || sess.CheckInTime != nil {
			return fiber.NewError(fiber.StatusConflict, "Sesi sudah dimulai atau tidak lagi terjadwal")
		}
		sess.CheckInTime = &now
		return tx.Model(sess).Updates(map[string]any{"check_in_time": now, "updated_at": now}).Error
	})
	if err != nil {
		return nil, helper.Wrap("session check-in", err)
	}
	return sess, nil
}

// CheckOut menutup sesi -> completed.
func (s *SessionService) CheckOut(ctx context.Context, id, trainerID uint, now time.Time) (*model.PersonalTrainerScheduleModel, error) {
	now = now.UTC()
	var sess *model.PersonalTrainerScheduleModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sess, err = s.lockOwned(tx, id, trainerID); err != nil {
			return err
		}
		if sess.CheckInTime == nil || sess.CheckOutTime != nil {
			return fiber.NewError(fiber.StatusConflict, "Sesi belum check-in atau sudah selesai")
		}
		sess.CheckOutTime = &now
		sess.Status = model.SessionCompleted
		return tx.Model(sess).Updates(map[string]any{
			"check_out_time": now,
			"status":         sess.Status,
			"updated_at":     now,
		}).Error
	})
	if err != nil {
		return nil, helper.Wrap("session check-out", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return sess, nil
}

// Feedback dari member pemilik assignment, hanya untuk sesi yang sudah completed.
func (s *SessionService) Feedback(ctx context.Context, id, userID uint, in trainerDTO.FeedbackRequest, now time.Time) (*model.PersonalTrainerScheduleModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var sess model.PersonalTrainerScheduleModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sess, id).Error; err != nil {
			return sessionNotFound(err)
		}
		var n int64
		if err := tx.Model(&model.PersonalTrainerAssignmentModel{}).
			Where("id = ? AND user_id = ?", sess.PersonalTrainerAssignmentID, userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		if sess.Status != model.SessionCompleted {
			return fiber.NewError(fiber.StatusConflict, "Feedback hanya untuk sesi yang sudah selesai")
		}
		sess.MemberFeedback = &in.MemberFeedback
		return tx.Model(&sess).Updates(map[string]any{"member_feedback": in.MemberFeedback, "updated_at": now.UTC()}).Error
	})
	if err != nil {
		return nil, helper.Wrap("session feedback", err)
	}
	return &sess, nil
}

func (s *SessionService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&model.PersonalTrainerScheduleModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return nil
}
