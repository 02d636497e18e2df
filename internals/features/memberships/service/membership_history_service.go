package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
)

type HistoryService struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewHistoryService(db *gorm.DB, c cache.Cache) *HistoryService {
	return &HistoryService{DB: db, Cache: c}
}

// ActivateMembership dipanggil saat transaksi paket membership menjadi paid.
// Harus dijalankan di dalam tx pemanggil. Kalau user masih punya membership aktif,
// periode baru disambung setelah end_date yang terakhir.
func ActivateMembership(tx *gorm.DB, userID uint, pkg model.MembershipPackageModel, transactionID *uint, now time.Time) (*model.MembershipHistoryModel, error) {
	now = now.UTC()
	start := now

	var last model.MembershipHistoryModel
	err := tx.Where("user_id = ? AND status = ? AND end_date > ?", userID, model.HistoryActive, now).
		Order("end_date DESC").First(&last).Error
	switch {
	case err == nil:
		start = last.EndDate.UTC()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("cek membership aktif: %w", err)
	}

	h := model.MembershipHistoryModel{
		UserID:              userID,
		MembershipPackageID: pkg.ID,
		TransactionID:       transactionID,
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, pkg.Duration),
		Status:              model.HistoryActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := tx.Create(&h).Error; err != nil {
		return nil, fmt.Errorf("create membership history: %w", err)
	}
	if err := tx.Model(&userModel.UserModel{}).Where("id = ?", userID).
		Updates(map[string]any{"membership_status": userModel.MembershipActive, "updated_at": now}).Error; err != nil {
		return nil, fmt.Errorf("aktifkan user: %w", err)
	}
	return &h, nil
}

// ExpireDue: riwayat aktif yang end_date-nya lewat -> expired, lalu user tanpa
// riwayat aktif tersisa -> inactive. Dipanggil cron.
func (s *HistoryService) ExpireDue(ctx context.Context, now time.Time) (expired int64, deactivated int64, err error) {
	now = now.UTC()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.MembershipHistoryModel{}).
			Where("status = ? AND end_date <= ?", model.HistoryActive, now).
			Updates(map[string]any{"status": model.HistoryExpired, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		expired = res.RowsAffected

		res = tx.Model(&userModel.UserModel{}).
			Where("membership_status = ?", userModel.MembershipActive).
			Where(`NOT EXISTS (SELECT 1 FROM membership_histories h
				WHERE h.user_id = users.id AND h.status = ? AND h.deleted_at IS NULL)`, model.HistoryActive).
			Updates(map[string]any{"membership_status": userModel.MembershipInactive, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		deactivated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("expire memberships: %w", err)
	}
	if expired > 0 || deactivated > 0 {
		cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
		log.Info().Int64("expired", expired).Int64("users_inactive", deactivated).Msg("[JOB] membership expiry")
	}
	return expired, deactivated, nil
}

// Active membership aktif user saat ini (nil kalau tidak ada).
func (s *HistoryService) Active(ctx context.Context, userID uint, now time.Time) (*model.MembershipHistoryModel, error) {
	var h model.MembershipHistoryModel
	err := s.DB.WithContext(ctx).Preload("MembershipPackage").
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date > ?", userID, model.HistoryActive, now.UTC(), now.UTC()).
		Order("end_date DESC").First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HistoryService) List(ctx context.Context, q membershipDTO.ListHistoryQuery, pg helper.Paging) ([]model.MembershipHistoryModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if q.UserID > 0 {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	rows, total, err := helper.Paged[model.MembershipHistoryModel](db, "start_date DESC", pg, "MembershipPackage")
	if err != nil {
		return nil, 0, fmt.Errorf("list membership histories: %w", err)
	}
	return rows, total, nil
}

// Delete soft delete oleh admin; status membership user dihitung ulang.
func (s *HistoryService) Delete(ctx context.Context, id uint, now time.Time) error {
	now = now.UTC()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h model.MembershipHistoryModel
		if err := tx.First(&h, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Riwayat membership tidak ditemukan")
			}
			return err
		}
		if err := tx.Delete(&h).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.MembershipHistoryModel{}).
			Where("user_id = ? AND status = ?", h.UserID, model.HistoryActive).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return tx.Model(&userModel.UserModel{}).Where("id = ?", h.UserID).
				Updates(map[string]any{"membership_status": userModel.MembershipInactive, "updated_at": now}).Error
		}
		return nil
	})
	if err != nil {
		return helper.Wrap("delete membership history", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return nil
}
