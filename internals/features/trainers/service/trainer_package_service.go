package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/storage"
)

const packageImageDir = "trainer-packages"

type TrainerPackageService struct {
	DB    *gorm.DB
	Disk  storage.Disk
	Cache cache.Cache
}

func NewTrainerPackageService(db *gorm.DB, disk storage.Disk, c cache.Cache) *TrainerPackageService {
	return &TrainerPackageService{DB: db, Disk: disk, Cache: c}
}

func TrainerPackageCode(id uint) string {
	return fmt.Sprintf("PTP-%03d", id)
}

var TrainerPackageSortColumns = map[string]string{
	"created_at":   "created_at",
	"name":         "name",
	"price":        "price",
	"day_duration": "day_duration",
}

func packageNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Paket trainer tidak ditemukan")
	}
	return err
}

func (s *TrainerPackageService) List(ctx context.Context, q trainerDTO.ListTrainerPackageQuery, pg helper.Paging) ([]model.PersonalTrainerPackageModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if q.TrainerID > 0 {
		db = db.Where("personal_trainer_id = ?", q.TrainerID)
	}
	switch {
	case q.ActiveOnly:
		db = db.Where("status = ?", model.PackageActive)
	case q.Status != "":
		db = db.Where("status = ?", strings.ToLower(strings.TrimSpace(q.Status)))
	}
	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+kw+"%")
	}
	order := q.OrderBy
	if order == "" {
		order = "created_at DESC"
	}
	rows, total, err := helper.Paged[model.PersonalTrainerPackageModel](db, order, pg, "PersonalTrainer")
	if err != nil {
		return nil, 0, fmt.Errorf("list trainer packages: %w", err)
	}
	return rows, total, nil
}

func (s *TrainerPackageService) Get(ctx context.Context, id uint) (*model.PersonalTrainerPackageModel, error) {
	var p model.PersonalTrainerPackageModel
	if err := s.DB.WithContext(ctx).Preload("PersonalTrainer").First(&p, id).Error; err != nil {
		return nil, packageNotFound(err)
	}
	return &p, nil
}

func (s *TrainerPackageService) GetBySlug(ctx context.Context, slug string) (*model.PersonalTrainerPackageModel, error) {
	var p model.PersonalTrainerPackageModel
	err := s.DB.WithContext(ctx).Preload("PersonalTrainer").
		Where("LOWER(slug) = ? AND status = ?", strings.ToLower(strings.TrimSpace(slug)), model.PackageActive).
		First(&p).Error
	if err != nil {
		return nil, packageNotFound(err)
	}
	return &p, nil
}

func (s *TrainerPackageService) Create(ctx context.Context, in trainerDTO.CreateTrainerPackageRequest, now time.Time) (*model.PersonalTrainerPackageModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	now = now.UTC()
	p := model.PersonalTrainerPackageModel{
		PersonalTrainerID: in.PersonalTrainerID,
		Name:              in.Name,
		Description:       in.Description,
		DayDuration:       in.DayDuration,
		Price:             in.Price,
		Status:            model.PackageStatus(in.Status),
		Images:            []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.PersonalTrainerModel{}).Where("id = ?", in.PersonalTrainerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return helper.NewFieldError("personal_trainer_id", "Trainer tidak ditemukan.")
		}
		slug, err := helper.UniqueSlug(ctx, tx, slugSpec(p.TableName(), "paket-pt", 0), p.Name)
		if err != nil {
			return err
		}
		p.Slug = slug
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		code := TrainerPackageCode(p.ID)
		p.Code = &code
		return tx.Model(&p).Update("code", code).Error
	})
	if err != nil {
		return nil, helper.Wrap("create trainer package", err)
	}
	return &p, nil
}

func (s *TrainerPackageService) Update(ctx context.Context, id uint, in trainerDTO.UpdateTrainerPackageRequest, now time.Time) (*model.PersonalTrainerPackageModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var (
		p       model.PersonalTrainerPackageModel
		removed []string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return packageNotFound(err)
		}
		patch := map[string]any{}
		if in.Name != nil && *in.Name != p.Name {
			slug, err := helper.UniqueSlug(ctx, tx, slugSpec(p.TableName(), "paket-pt", p.ID), *in.Name)
			if err != nil {
				return err
			}
			patch["name"] = *in.Name
			patch["slug"] = slug
		}
		if in.Description != nil {
			patch["description"] = *in.Description
		}
		if in.DayDuration != nil {
			patch["day_duration"] = *in.DayDuration
		}
		if in.Price != nil {
			patch["price"] = *in.Price
		}
		if in.Status != nil {
			patch["status"] = *in.Status
		}
		if in.Images != nil {
			if err := storage.CheckSubset(p.Images, *in.Images); err != nil {
				return err
			}
			removed = storage.Removed(p.Images, *in.Images)
			patch["images"] = datatypes.JSONSlice[string](*in.Images)
		}
		if len(patch) == 0 {
			return nil
		}
		patch["updated_at"] = now.UTC()
		if err := tx.Model(&p).Updates(patch).Error; err != nil {
			return err
		}
		return tx.First(&p, id).Error
	})
	if err != nil {
		return nil, helper.Wrap("update trainer package", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, removed)
	return &p, nil
}

func (s *TrainerPackageService) AddImage(ctx context.Context, id uint, fh *multipart.FileHeader, now time.Time) (*model.PersonalTrainerPackageModel, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.Disk.Put(ctx, packageImageDir, fh)
	if err != nil {
		return nil, err
	}
	var p model.PersonalTrainerPackageModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return packageNotFound(err)
		}
		p.Images = append(p.Images, url)
		return tx.Model(&p).Updates(map[string]any{"images": p.Images, "updated_at": now.UTC()}).Error
	})
	if err != nil {
		storage.DeleteManyBestEffort(ctx, s.Disk, []string{url})
		return nil, helper.Wrap("add trainer package image", err)
	}
	return &p, nil
}

// Delete ditolak kalau paket sudah dibeli atau sudah pernah di-assign.
func (s *TrainerPackageService) Delete(ctx context.Context, id uint) error {
	var p model.PersonalTrainerPackageModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return packageNotFound(err)
		}
		var n int64
		if err := tx.Model(&txModel.TransactionModel{}).
			Where("purchasable_type = ? AND purchasable_id = ?", txModel.PurchasablePersonalTrainerPackage, id).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			if err := tx.Model(&model.PersonalTrainerAssignmentModel{}).
				Where("personal_trainer_package_id = ?", id).Count(&n).Error; err != nil {
				return err
			}
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Paket sudah dipakai transaksi/assignment, tidak bisa dihapus")
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return helper.Wrap("delete trainer package", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, p.Images)
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return nil
}
