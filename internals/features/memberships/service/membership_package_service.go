package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/storage"
)

const (
	slugMaxLen = 120
	imageDir   = "membership-packages"
)

type PackageService struct {
	DB    *gorm.DB
	Disk  storage.Disk
	Cache cache.Cache
}

func NewPackageService(db *gorm.DB, disk storage.Disk, c cache.Cache) *PackageService {
	return &PackageService{DB: db, Disk: disk, Cache: c}
}

// PackageCode MP-001, MP-042, MP-1234
func PackageCode(id uint) string {
	return fmt.Sprintf("MP-%03d", id)
}

var PackageSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
	"duration":   "duration",
}

func packageSlugSpec(excludeID uint) helper.SlugSpec {
	return helper.SlugSpec{Table: (model.MembershipPackageModel{}).TableName(), ExcludeID: excludeID, MaxLen: slugMaxLen, Fallback: "paket"}
}

/* ==========================
   READ
========================== */

func (s *PackageService) List(ctx context.Context, q membershipDTO.ListPackageQuery, pg helper.Paging) ([]model.MembershipPackageModel, int64, error) {
	db := s.DB.WithContext(ctx).Model(&model.MembershipPackageModel{})
	if q.ActiveOnly {
		db = db.Where("status = ?", model.PackageActive)
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
	rows, total, err := helper.Paged[model.MembershipPackageModel](db, order, pg)
	if err != nil {
		return nil, 0, fmt.Errorf("list membership packages: %w", err)
	}
	return rows, total, nil
}

func (s *PackageService) Get(ctx context.Context, id uint) (*model.MembershipPackageModel, error) {
	var p model.MembershipPackageModel
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetBySlug untuk katalog publik: hanya paket aktif.
func (s *PackageService) GetBySlug(ctx context.Context, slug string) (*model.MembershipPackageModel, error) {
	var p model.MembershipPackageModel
	err := s.DB.WithContext(ctx).
		Where("LOWER(slug) = ? AND status = ?", strings.ToLower(strings.TrimSpace(slug)), model.PackageActive).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

/* ==========================
   CREATE
========================== */

func (s *PackageService) Create(ctx context.Context, in membershipDTO.CreateMembershipPackageRequest, now time.Time) (*model.MembershipPackageModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	now = now.UTC()

	p := model.MembershipPackageModel{
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Price:       in.Price,
		Status:      model.PackageStatus(in.Status),
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := helper.UniqueSlug(ctx, tx, packageSlugSpec(0), p.Name)
		if err != nil {
			return err
		}
		p.Slug = slug
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		// kode butuh id -> tulis kedua di transaksi yang sama
		code := PackageCode(p.ID)
		p.Code = &code
		return tx.Model(&p).Update("code", code).Error
	})
	if err != nil {
		return nil, helper.Wrap("create membership package", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("id", p.ID).Str("code", *p.Code).Msg("[MEMBERSHIP] paket dibuat")
	return &p, nil
}

/* ==========================
   UPDATE
========================== */

func (s *PackageService) Update(ctx context.Context, id uint, in membershipDTO.UpdateMembershipPackageRequest, now time.Time) (*model.MembershipPackageModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var (
		p       model.MembershipPackageModel
		removed []string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return notFound(err)
		}
		patch := map[string]any{}
		if in.Name != nil && *in.Name != p.Name {
			slug, err := helper.UniqueSlug(ctx, tx, packageSlugSpec(p.ID), *in.Name)
			if err != nil {
				return err
			}
			patch["name"] = *in.Name
			patch["slug"] = slug
		}
		if in.Description != nil {
			patch["description"] = *in.Description
		}
		if in.Duration != nil {
			patch["duration"] = *in.Duration
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
		return nil, helper.Wrap("update membership package", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, removed)
	return &p, nil
}

// AddImage upload -> webp -> url ditambahkan ke daftar gambar paket.
func (s *PackageService) AddImage(ctx context.Context, id uint, fh *multipart.FileHeader, now time.Time) (*model.MembershipPackageModel, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.Disk.Put(ctx, imageDir, fh)
	if err != nil {
		return nil, err
	}

	var p model.MembershipPackageModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return notFound(err)
		}
		p.Images = append(p.Images, url)
		return tx.Model(&p).Updates(map[string]any{"images": p.Images, "updated_at": now.UTC()}).Error
	})
	if err != nil {
		storage.DeleteManyBestEffort(ctx, s.Disk, []string{url})
		return nil, helper.Wrap("add membership package image", err)
	}
	return &p, nil
}

/* ==========================
   DELETE
========================== */

// Delete: paket yang sudah pernah dibeli (transaksi / riwayat) tidak bisa dihapus.
func (s *PackageService) Delete(ctx context.Context, id uint) error {
	var p model.MembershipPackageModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err)
		}
		var n int64
		if err := tx.Model(&txModel.TransactionModel{}).
			Where("purchasable_type = ? AND purchasable_id = ?", txModel.PurchasableMembershipPackage, id).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			if err := tx.Unscoped().Model(&model.MembershipHistoryModel{}).
				Where("membership_package_id = ?", id).Count(&n).Error; err != nil {
				return err
			}
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Paket sudah dipakai transaksi/riwayat membership, nonaktifkan saja")
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return helper.Wrap("delete membership package", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, p.Images)
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("id", id).Int("images", len(p.Images)).Msg("[MEMBERSHIP] paket dihapus")
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Paket membership tidak ditemukan")
	}
	return err
}
