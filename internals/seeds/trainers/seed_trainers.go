package trainers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	trainerService "gymku_backend/internals/features/trainers/service"
	userModel "gymku_backend/internals/features/users/users/model"
)

type TrainerPackageSeed struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	DayDuration int     `json:"day_duration"`
	Price       int64   `json:"price"`
	Status      string  `json:"status"`
}

type TrainerSeed struct {
	// user harus sudah ada (lihat seed users)
	Email       string               `json:"email"`
	Nickname    string               `json:"nickname"`
	Description *string              `json:"description"`
	Metadata    map[string]any       `json:"metadata"`
	Packages    []TrainerPackageSeed `json:"packages"`
}

// SeedTrainersFromJSON: user -> trainer (role ikut berubah) + paket PT miliknya.
func SeedTrainersFromJSON(ctx context.Context, db *gorm.DB, filePath string, now time.Time) error {
	log.Info().Msgf("📥 Membaca file trainer: %s", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []TrainerSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	trainers := trainerService.NewTrainerService(db, nil, nil)
	packages := trainerService.NewTrainerPackageService(db, nil, nil)

	for _, data := range inputs {
		var u userModel.UserModel
		if err := db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", data.Email).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn().Msgf("⚠️ User '%s' belum ada, trainer dilewati.", data.Email)
				continue
			}
			return err
		}

		var existing model.PersonalTrainerModel
		err := db.WithContext(ctx).Where("user_personal_trainer_id = ?", u.ID).First(&existing).Error
		if err == nil {
			log.Info().Msgf("ℹ️ Trainer untuk '%s' sudah ada, dilewati.", data.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		t, err := trainers.Create(ctx, trainerDTO.CreateTrainerRequest{
			UserID:      u.ID,
			Nickname:    data.Nickname,
			Description: data.Description,
			Metadata:    data.Metadata,
		}, now)
		if err != nil {
			return fmt.Errorf("insert trainer '%s': %w", data.Email, err)
		}

		for _, p := range data.Packages {
			if _, err := packages.Create(ctx, trainerDTO.CreateTrainerPackageRequest{
				PersonalTrainerID: t.ID,
				Name:              p.Name,
				Description:       p.Description,
				DayDuration:       p.DayDuration,
				Price:             p.Price,
				Status:            p.Status,
			}, now); err != nil {
				return fmt.Errorf("insert paket PT '%s': %w", p.Name, err)
			}
		}
		log.Info().Msgf("✅ Berhasil insert trainer '%s' dengan %d paket", t.Nickname, len(data.Packages))
	}
	return nil
}
