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

	visitDTO "gymku_backend/internals/features/gym_visits/dto"
	"gymku_backend/internals/features/gym_visits/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/dbtime"
)

type GymVisitService struct {
	DB    *gorm.DB
	Cache cache.Cache
	Loc   *time.Location
}

func NewGymVisitService(db *gorm.DB, c cache.Cache, loc *time.Location) *GymVisitService {
	if loc == nil {
		loc = time.UTC
	}
	return &GymVisitService{DB: db, Cache: c, Loc: loc}
}

func visitNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Data kunjungan tidak ditemukan")
	}
	return err
}

// CheckIn: butuh membership aktif dan belum ada kunjungan yang masih terbuka.
func (s *GymVisitService) CheckIn(ctx context.Context, userID uint, now time.Time) (*model.GymVisitModel, error) {
	now = now.UTC()
	var v model.GymVisitModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// kunci baris user supaya dua check-in bersamaan tidak sama-sama lolos
		var u userModel.UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "membership_status").First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
			}
			return err
		}

		var active int64
		if err := tx.Model(&membershipModel.MembershipHistoryModel{}).
			Where("user_id = ? AND status = ? AND start_date <= ? AND end_date > ?", userID, membershipModel.HistoryActive, now, now).
			Count(&active).Error; err != nil {
			return err
		}
		if active == 0 || u.MembershipStatus != userModel.MembershipActive {
			return fiber.NewError(fiber.StatusForbidden, "Membership tidak aktif")
		}

		var open int64
		if err := tx.Model(&model.GymVisitModel{}).
			Where("user_id = ? AND status = ?", userID, model.VisitInGym).Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return fiber.NewError(fiber.StatusConflict, "Masih tercatat di dalam gym, check-out dulu")
		}

		v = model.GymVisitModel{
			UserID:    userID,
			VisitDate: dbtime.DateOnly(now, s.Loc),
			EntryTime: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		v.SetExit(nil)
		return tx.Create(&v).Error
	})
	if err != nil {
		return nil, helper.Wrap("check-in", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("user_id", userID).Uint("visit_id", v.ID).Msg("[VISIT] check-in")
	return &v, nil
}

// CheckOut menutup kunjungan terbuka milik user.
func (s *GymVisitService) CheckOut(ctx context.Context, userID uint, now time.Time) (*model.GymVisitModel, error) {
	now = now.UTC()
	var v model.GymVisitModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, model.VisitInGym).
			Order("entry_time DESC").First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusConflict, "Tidak sedang berada di gym")
		}
		if err != nil {
			return err
		}
		return s.close(tx, &v, &now, now)
	})
	if err != nil {
		return nil, helper.Wrap("check-out", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return &v, nil
}

func (s *GymVisitService) close(tx *gorm.DB, v *model.GymVisitModel, exit *time.Time, now time.Time) error {
	if exit != nil && exit.Before(v.EntryTime) {
		return helper.NewFieldError("exit_time", "exit_time tidak boleh sebelum entry_time.")
	}
	v.SetExit(exit)
	return tx.Model(v).Updates(map[string]any{
		"exit_time":  v.ExitTime,
		"status":     v.Status,
		"updated_at": now,
	}).Error
}

/* ==========================
   ADMIN
========================== */

func (s *GymVisitService) List(ctx context.Context, q visitDTO.ListVisitQuery, pg helper.Paging) ([]model.GymVisitModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if q.UserID > 0 {
		db = db.Where("user_id = ?", q.UserID)
	}
	if st := strings.ToLower(strings.TrimSpace(q.Status)); st != "" {
		db = db.Where("status = ?", st)
	}
	if q.From != "" {
		d, err := dbtime.ParseDate(q.From)
		if err != nil {
			return nil, 0, helper.NewFieldError("from", err.Error())
		}
		db = db.Where("visit_date >= ?", d)
	}
	if q.To != "" {
		d, err := dbtime.ParseDate(q.To)
		if err != nil {
			return nil, 0, helper.NewFieldError("to", err.Error())
		}
		db = db.Where("visit_date <= ?", d)
	}
	rows, total, err := helper.Paged[model.GymVisitModel](db, "entry_time DESC", pg)
	if err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}
	return rows, total, nil
}

func (s *GymVisitService) Get(ctx context.Context, id uint) (*model.GymVisitModel, error) {
	var v model.GymVisitModel
	if err := s.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, visitNotFound(err)
	}
	return &v, nil
}

// Update koreksi exit_time (RFC3339); string kosong membuka kembali kunjungan.
func (s *GymVisitService) Update(ctx context.Context, id uint, in visitDTO.UpdateVisitRequest, now time.Time) (*model.GymVisitModel, error) {
	if in.ExitTime == nil {
		return s.Get(ctx, id)
	}
	var exit *time.Time
	if raw := strings.TrimSpace(*in.ExitTime); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, helper.NewFieldError("exit_time", "exit_time harus berformat RFC3339.")
		}
		t = t.UTC()
		exit = &t
	}
	var v model.GymVisitModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error; err != nil {
			return visitNotFound(err)
		}
		if exit == nil {
			var open int64
			if err := tx.Model(&model.GymVisitModel{}).
				Where("user_id = ? AND status = ? AND id <> ?", v.UserID, model.VisitInGym, v.ID).Count(&open).Error; err != nil {
				return err
			}
			if open > 0 {
				return fiber.NewError(fiber.StatusConflict, "User sudah punya kunjungan terbuka lain")
			}
		}
		return s.close(tx, &v, exit, now.UTC())
	})
	if err != nil {
		return nil, helper.Wrap("update visit", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return &v, nil
}

func (s *GymVisitService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&model.GymVisitModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete visit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Data kunjungan tidak ditemukan")
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return nil
}
