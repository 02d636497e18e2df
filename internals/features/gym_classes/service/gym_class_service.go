package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/storage"
)

const (
	slugMaxLen = 120
	imageDir   = "gym-classes"
)

type GymClassService struct {
	DB    *gorm.DB
	Disk  storage.Disk
	Cache cache.Cache
}

func NewGymClassService(db *gorm.DB, disk storage.Disk, c cache.Cache) *GymClassService {
	return &GymClassService{DB: db, Disk: disk, Cache: c}
}

var ClassSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
}

// NewClassCode GC- + 13 hex uppercase dari uuid acak.
func NewClassCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "GC-" + strings.ToUpper(raw[:13])
}

func classSlugSpec(excludeID uint) helper.SlugSpec {
	return helper.SlugSpec{Table: (model.GymClassModel{}).TableName(), ExcludeID: excludeID, MaxLen: slugMaxLen, Fallback: "kelas"}
}

func classNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
	}
	return err
}

/* ==========================
   READ
========================== */

func (s *GymClassService) List(ctx context.Context, q classDTO.ListGymClassQuery, pg helper.Paging) ([]model.GymClassModel, int64, error) {
	db := s.DB.WithContext(ctx).Model(&model.GymClassModel{})
	if q.ActiveOnly {
		db = db.Where("status = ?", model.ClassActive)
	} else if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+kw+"%")
	}
	order := q.OrderBy
	if order == "" {
		order = "created_at DESC"
	}
	rows, total, err := helper.Paged[model.GymClassModel](db, order, pg)
	if err != nil {
		return nil, 0, fmt.Errorf("list gym classes: %w", err)
	}
	return rows, total, nil
}

func (s *GymClassService) Get(ctx context.Context, id uint) (*model.GymClassModel, error) {
	var g model.GymClassModel
	if err := s.DB.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, classNotFound(err)
	}
	return &g, nil
}

// GetBySlug publik: kelas aktif + jadwal mulai hari ini.
func (s *GymClassService) GetBySlug(ctx context.Context, slug string, today time.Time) (*model.GymClassModel, error) {
	var g model.GymClassModel
	err := s.DB.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= ?", today.UTC()).Order("date ASC, start_time ASC")
		}).
		Where("LOWER(slug) = ? AND status = ?", strings.ToLower(strings.TrimSpace(slug)), model.ClassActive).
		First(&g).Error
	if err != nil {
		return nil, classNotFound(err)
	}
	return &g, nil
}

/* ==========================
   CREATE / UPDATE
========================== */

func (s *GymClassService) Create(ctx context.Context, in classDTO.CreateGymClassRequest, now time.Time) (*model.GymClassModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	now = now.UTC()
	code := NewClassCode()
	g := model.GymClassModel{
		Code:        &code,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Status:      model.ClassStatus(in.Status),
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := helper.UniqueSlug(ctx, tx, classSlugSpec(0), g.Name)
		if err != nil {
			return err
		}
		g.Slug = slug
		return tx.Create(&g).Error
	})
	if err != nil {
		return nil, helper.Wrap("create gym class", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("id", g.ID).Str("code", code).Msg("[CLASS] kelas dibuat")
	return &g, nil
}

func (s *GymClassService) Update(ctx context.Context, id uint, in classDTO.UpdateGymClassRequest, now time.Time) (*model.GymClassModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var (
		g       model.GymClassModel
		removed []string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, id).Error; err != nil {
			return classNotFound(err)
		}
		patch := map[string]any{}
		if in.Name != nil && *in.Name != g.Name {
			slug, err := helper.UniqueSlug(ctx, tx, classSlugSpec(g.ID), *in.Name)
			if err != nil {
				return err
			}
			patch["name"] = *in.Name
			patch["slug"] = slug
		}
		if in.Description != nil {
			patch["description"] = *in.Description
		}
		if in.Price != nil {
			patch["price"] = *in.Price
		}
		if in.Status != nil {
			patch["status"] = *in.Status
		}
		if in.Images != nil {
			if err := storage.CheckSubset(g.Images, *in.Images); err != nil {
				return err
			}
			removed = storage.Removed(g.Images, *in.Images)
			patch["images"] = datatypes.JSONSlice[string](*in.Images)
		}
		if len(patch) == 0 {
			return nil
		}
		patch["updated_at"] = now.UTC()
		if err := tx.Model(&g).Updates(patch).Error; err != nil {
			return err
		}
		return tx.First(&g, id).Error
	})
	if err != nil {
		return nil, helper.Wrap("update gym class", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, removed)
	if in.Status != nil {
		cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	}
	return &g, nil
}

func (s *GymClassService) AddImage(ctx context.Context, id uint, fh *multipart.FileHeader, now time.Time) (*model.GymClassModel, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.Disk.Put(ctx, imageDir, fh)
	if err != nil {
		return nil, err
	}
	var g model.GymClassModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, id).Error; err != nil {
			return classNotFound(err)
		}
		g.Images = append(g.Images, url)
		return tx.Model(&g).Updates(map[string]any{"images": g.Images, "updated_at": now.UTC()}).Error
	})
	if err != nil {
		storage.DeleteManyBestEffort(ctx, s.Disk, []string{url})
		return nil, helper.Wrap("add gym class image", err)
	}
	return &g, nil
}

/* ==========================
   DELETE
========================== */

// Delete: jadwal + attendance ikut terhapus; kelas yang sudah ada transaksinya -> 409.
func (s *GymClassService) Delete(ctx context.Context, id uint) error {
	var g model.GymClassModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&g, id).Error; err != nil {
			return classNotFound(err)
		}
		var n int64
		if err := tx.Model(&txModel.TransactionModel{}).
			Where("purchasable_type = ? AND purchasable_id = ?", txModel.PurchasableGymClass, id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Kelas sudah memiliki transaksi, nonaktifkan saja")
		}
		sub := tx.Model(&model.GymClassScheduleModel{}).Select("id").Where("gym_class_id = ?", id)
		if err := tx.Where("gym_class_schedule_id IN (?)", sub).Delete(&model.GymClassAttendanceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gym_class_id = ?", id).Delete(&model.GymClassScheduleModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
	if err != nil {
		return helper.Wrap("delete gym class", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, g.Images)
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("id", id).Msg("[CLASS] kelas dihapus beserta jadwal")
	return nil
}
