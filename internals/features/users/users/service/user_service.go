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

	"gymku_backend/internals/constants"
	visitModel "gymku_backend/internals/features/gym_visits/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	userDTO "gymku_backend/internals/features/users/users/dto"
	"gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
)

type UserService struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewUserService(db *gorm.DB, c cache.Cache) *UserService {
	return &UserService{DB: db, Cache: c}
}

// UserSortColumns whitelist ?sort_by= untuk list user.
var UserSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"email":      "email",
}

func (s *UserService) List(ctx context.Context, q userDTO.ListUserQuery, pg helper.Paging) ([]model.UserModel, int64, error) {
	db := s.DB.WithContext(ctx).Model(&model.UserModel{})
	if q.WithDeleted {
		db = db.Unscoped()
	}
	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		like := "%" + kw + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if q.Role != "" {
		db = db.Where("role = ?", q.Role)
	}
	if q.MembershipStatus != "" {
		db = db.Where("membership_status = ?", q.MembershipStatus)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	order := q.OrderBy
	if order == "" {
		order = "created_at DESC"
	}
	var rows []model.UserModel
	if err := db.Order(order).Offset(pg.Offset).Limit(pg.Limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return rows, total, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.UserModel, error) {
	var u model.UserModel
	err := s.DB.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *UserService) Create(ctx context.Context, in userDTO.CreateUserRequest, now time.Time) (*model.UserModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = constants.RoleMember
	}
	hashed, err := helper.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	u := model.UserModel{
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		Password:         hashed,
		Role:             in.Role,
		MembershipStatus: model.MembershipInactive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewFieldError("email", "Email sudah terdaftar.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("user_id", u.ID).Str("role", u.Role).Msg("[USER] dibuat admin")
	return &u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in userDTO.UpdateUserRequest, now time.Time) (*model.UserModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var u model.UserModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
			}
			return err
		}

		patch := map[string]any{}
		if in.Name != nil {
			patch["name"] = *in.Name
		}
		if in.Email != nil && *in.Email != u.Email {
			patch["email"] = *in.Email
		}
		if in.Phone != nil {
			if *in.Phone == "" {
				patch["phone"] = nil
			} else {
				patch["phone"] = *in.Phone
			}
		}
		if in.Password != nil {
			hashed, err := helper.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			patch["password"] = hashed
		}
		if in.MembershipStatus != nil {
			patch["membership_status"] = *in.MembershipStatus
		}
		if in.Role != nil && *in.Role != u.Role {
			// role trainer terikat ke baris personal_trainers
			if u.Role == constants.RoleTrainer {
				return fiber.NewError(fiber.StatusConflict, "User masih terdaftar sebagai trainer, hapus data trainer terlebih dahulu")
			}
			patch["role"] = *in.Role
		}
		if len(patch) == 0 {
			return nil
		}
		patch["updated_at"] = now.UTC()
		if err := tx.Model(&u).Updates(patch).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.NewFieldError("email", "Email sudah terdaftar.")
			}
			return err
		}
		return tx.First(&u, id).Error
	})
	if err != nil {
		return nil, helper.Wrap("update user", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	return &u, nil
}

// Delete soft delete. Admin tidak bisa menghapus dirinya sendiri, trainer harus dilepas dulu.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return fiber.NewError(fiber.StatusForbidden, "Tidak bisa menghapus akun sendiri")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.UserModel
		if err := tx.First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
			}
			return err
		}
		var n int64
		if err := tx.Model(&trainerModel.PersonalTrainerModel{}).
			Where("user_personal_trainer_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "User masih terdaftar sebagai trainer")
		}
		return tx.Delete(&u).Error
	})
	if err != nil {
		return helper.Wrap("delete user", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Uint("user_id", id).Uint("by", actorID).Msg("[USER] soft delete")
	return nil
}

/* ==========================
   RELASI
========================== */

func (s *UserService) ensureExists(ctx context.Context, id uint) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
	}
	return nil
}

func (s *UserService) Visits(ctx context.Context, userID uint, pg helper.Paging) ([]visitModel.GymVisitModel, int64, error) {
	if err := s.ensureExists(ctx, userID); err != nil {
		return nil, 0, err
	}
	return helper.Paged[visitModel.GymVisitModel](s.DB.WithContext(ctx).Where("user_id = ?", userID), "entry_time DESC", pg)
}

func (s *UserService) Memberships(ctx context.Context, userID uint, pg helper.Paging) ([]membershipModel.MembershipHistoryModel, int64, error) {
	if err := s.ensureExists(ctx, userID); err != nil {
		return nil, 0, err
	}
	return helper.Paged[membershipModel.MembershipHistoryModel](
		s.DB.WithContext(ctx).Where("user_id = ?", userID), "start_date DESC", pg, "MembershipPackage",
	)
}

func (s *UserService) Transactions(ctx context.Context, userID uint, pg helper.Paging) ([]txModel.TransactionModel, int64, error) {
	if err := s.ensureExists(ctx, userID); err != nil {
		return nil, 0, err
	}
	return helper.Paged[txModel.TransactionModel](s.DB.WithContext(ctx).Where("user_id = ?", userID), "created_at DESC", pg)
}
