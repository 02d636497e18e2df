package users

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	userDTO "gymku_backend/internals/features/users/users/dto"
	"gymku_backend/internals/features/users/users/model"
	userService "gymku_backend/internals/features/users/users/service"
)

type UserSeed struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

// SeedUsersFromJSON insert user dari file JSON; email yang sudah ada dilewati.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string, now time.Time) error {
	log.Info().Msgf("📥 Membaca file user: %s", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	svc := userService.NewUserService(db, nil)
	for _, data := range inputs {
		var existing model.UserModel
		err := db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", data.Email).First(&existing).Error
		if err == nil {
			log.Info().Msgf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := svc.Create(ctx, userDTO.CreateUserRequest{
			Name:     data.Name,
			Email:    data.Email,
			Phone:    data.Phone,
			Password: data.Password,
			Role:     data.Role,
		}, now); err != nil {
			return fmt.Errorf("insert user '%s': %w", data.Email, err)
		}
		log.Info().Msgf("✅ Berhasil insert user '%s'", data.Email)
	}
	return nil
}
