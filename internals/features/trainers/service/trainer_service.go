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

	"gymku_backend/internals/constants"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/storage"
)

const (
	slugMaxLen      = 120
	trainerImageDir = "trainers"
)

type TrainerService struct {
	DB    *gorm.DB
	Disk  storage.Disk
	Cache cache.Cache
}

func NewTrainerService(db *gorm.DB, disk storage.Disk, c cache.Cache) *TrainerService {
	return &TrainerService{DB: db, Disk: disk, Cache: c}
}

// TrainerCode PT-<pad3 id><pad3 user id>, mis. PT-004012
func TrainerCode(id, userID uint) string {
	return fmt.Sprintf("PT-%03d%03d", id, userID)
}

var TrainerSortColumns = map[string]string{
	"created_at": "created_at",
	"nickname":   "nickname",
}

func slugSpec(table, fallback string, excludeID uint) helper.SlugSpec {
	return helper.SlugSpec{Table: table, ExcludeID: excludeID, MaxLen: slugMaxLen, Fallback: fallback}
}

func trainerNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Trainer tidak ditemukan")
	}
	return err
}

// TrainerByUser profil trainer milik user login (dipakai endpoint /trainer).
func TrainerByUser(ctx context.Context, db *gorm.DB, userID uint) (*model.PersonalTrainerModel, error) {
	var t model.PersonalTrainerModel
	err := db.WithContext(ctx).Where("user_personal_trainer_id = ?", userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Akun ini belum terdaftar sebagai trainer")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* ==========================
   READ
========================== */

func (s *TrainerService) List(ctx context.Context, q trainerDTO.ListTrainerQuery, pg helper.Paging) ([]model.PersonalTrainerModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		db = db.Where("LOWER(nickname) LIKE ?", "%"+kw+"%")
	}
	order := q.OrderBy
	if order == "" {
		order = "created_at DESC"
	}
	rows, total, err := helper.Paged[model.PersonalTrainerModel](db, order, pg, "User")
	if err != nil {
		return nil, 0, fmt.Errorf("list trainers: %w", err)
	}
	return rows, total, nil
}

func (s *TrainerService) Get(ctx context.Context, id uint) (*model.PersonalTrainerModel, error) {
	var t model.PersonalTrainerModel
	if err := s.DB.WithContext(ctx).Preload("User").Preload("Packages").First(&t, id).Error; err != nil {
		return nil, trainerNotFound(err)
	}
	return &t, nil
}

// GetBySlug publik: paket yang ditampilkan hanya yang aktif.
func (s *TrainerService) GetBySlug(ctx context.Context, slug string) (*model.PersonalTrainerModel, error) {
	var t model.PersonalTrainerModel
	err := s.DB.WithContext(ctx).
		Preload("User").
		Preload("Packages", "status = ?", model.PackageActive).
		Where("LOWER(slug) = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&t).Error
	if err != nil {
		return nil, trainerNotFound(err)
	}
	return &t, nil
}

/* ==========================
   CREATE
========================== */

// Create: insert -> stamp kode -> role user jadi trainer, semuanya satu transaksi.
func (s *TrainerService) Create(ctx context.Context, in trainerDTO.CreateTrainerRequest, now time.Time) (*model.PersonalTrainerModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	now = now.UTC()

	t := model.PersonalTrainerModel{
		UserPersonalTrainerID: in.UserID,
		Nickname:              in.Nickname,
		Description:           in.Description,
		Metadata:              datatypes.JSONMap(in.Metadata),
		Images:                []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u userModel.UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewFieldError("user_id", "User tidak ditemukan.")
			}
			return err
		}
		if u.Role == constants.RoleAdmin {
			return helper.NewFieldError("user_id", "Admin tidak bisa dijadikan trainer.")
		}
		var n int64
		if err := tx.Model(&model.PersonalTrainerModel{}).Where("user_personal_trainer_id = ?", in.UserID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.NewFieldError("user_id", "User sudah terdaftar sebagai trainer.")
		}

		slug, err := helper.UniqueSlug(ctx, tx, slugSpec(t.TableName(), "trainer", 0), t.Nickname)
		if err != nil {
			return err
		}
		t.Slug = slug
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		code := TrainerCode(t.ID, u.ID)
		t.Code = &code
		if err := tx.Model(&t).Update("code", code).Error; err != nil {
			return err
		}
		return tx.Model(&u).Updates(map[string]any{"role": constants.RoleTrainer, "updated_at": now}).Error
	})
	if err != nil {
		return nil, helper.Wrap("create trainer", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("trainer_id", t.ID).Uint("user_id", in.UserID).Msg("[TRAINER] user dijadikan trainer")
	return &t, nil
}

/* ==========================
   UPDATE
========================== */

func (s *TrainerService) Update(ctx context.Context, id uint, in trainerDTO.UpdateTrainerRequest, now time.Time) (*model.PersonalTrainerModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	var (
		t       model.PersonalTrainerModel
		removed []string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
			return trainerNotFound(err)
		}
		patch := map[string]any{}
		if in.Nickname != nil && *in.Nickname != t.Nickname {
			slug, err := helper.UniqueSlug(ctx, tx, slugSpec(t.TableName(), "trainer", t.ID), *in.Nickname)
			if err != nil {
				return err
			}
			patch["nickname"] = *in.Nickname
			patch["slug"] = slug
		}
		if in.Description != nil {
			patch["description"] = *in.Description
		}
		if in.Metadata != nil {
			patch["metadata"] = datatypes.JSONMap(*in.Metadata)
		}
		if in.Images != nil {
			if err := storage.CheckSubset(t.Images, *in.Images); err != nil {
				return err
			}
			removed = storage.Removed(t.Images, *in.Images)
			patch["images"] = datatypes.JSONSlice[string](*in.Images)
		}
		if len(patch) == 0 {
			return nil
		}
		patch["updated_at"] = now.UTC()
		if err := tx.Model(&t).Updates(patch).Error; err != nil {
			return err
		}
		return tx.First(&t, id).Error
	})
	if err != nil {
		return nil, helper.Wrap("update trainer", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, removed)
	return &t, nil
}

func (s *TrainerService) AddImage(ctx context.Context, id uint, fh *multipart.FileHeader, now time.Time) (*model.PersonalTrainerModel, error) {
	var exists int64
	if err := s.DB.WithContext(ctx).Model(&model.PersonalTrainerModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Trainer tidak ditemukan")
	}
	url, err := s.Disk.Put(ctx, trainerImageDir, fh)
	if err != nil {
		return nil, err
	}
	var t model.PersonalTrainerModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
			return trainerNotFound(err)
		}
		t.Images = append(t.Images, url)
		return tx.Model(&t).Updates(map[string]any{"images": t.Images, "updated_at": now.UTC()}).Error
	})
	if err != nil {
		storage.DeleteManyBestEffort(ctx, s.Disk, []string{url})
		return nil, helper.Wrap("add trainer image", err)
	}
	return &t, nil
}

/* ==========================
   DELETE
========================== */

// Delete: role user kembali member; paket, assignment dan sesinya ikut terhapus.
// Trainer yang paketnya sudah punya transaksi tidak bisa dihapus (409).
func (s *TrainerService) Delete(ctx context.Context, id uint, now time.Time) error {
	var (
		t      model.PersonalTrainerModel
		images []string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Packages").First(&t, id).Error; err != nil {
			return trainerNotFound(err)
		}
		pkgIDs := make([]uint, 0, len(t.Packages))
		for _, p := range t.Packages {
			pkgIDs = append(pkgIDs, p.ID)
		}
		if len(pkgIDs) > 0 {
			var n int64
			if err := tx.Model(&txModel.TransactionModel{}).
				Where("purchasable_type = ? AND purchasable_id IN ?", txModel.PurchasablePersonalTrainerPackage, pkgIDs).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return fiber.NewError(fiber.StatusConflict, "Paket trainer sudah memiliki transaksi, trainer tidak bisa dihapus")
			}
		}

		assignments := tx.Model(&model.PersonalTrainerAssignmentModel{}).Select("id").Where("personal_trainer_id = ?", id)
		if err := tx.Where("personal_trainer_assignment_id IN (?)", assignments).Delete(&model.PersonalTrainerScheduleModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("personal_trainer_id = ?", id).Delete(&model.PersonalTrainerAssignmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("personal_trainer_id = ?", id).Delete(&model.PersonalTrainerPackageModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.PersonalTrainerModel{}, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&userModel.UserModel{}).Where("id = ?", t.UserPersonalTrainerID).
			Updates(map[string]any{"role": constants.RoleMember, "updated_at": now.UTC()}).Error; err != nil {
			return err
		}

		images = append(images, t.Images...)
		for _, p := range t.Packages {
			images = append(images, p.Images...)
		}
		return nil
	})
	if err != nil {
		return helper.Wrap("delete trainer", err)
	}
	storage.DeleteManyBestEffort(ctx, s.Disk, images)
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("trainer_id", id).Uint("user_id", t.UserPersonalTrainerID).Msg("[TRAINER] dihapus, role kembali member")
	return nil
}
