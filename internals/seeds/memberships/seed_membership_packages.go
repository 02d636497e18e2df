package memberships

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/model"
	membershipService "gymku_backend/internals/features/memberships/service"
)

type PackageSeed struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Duration    int     `json:"duration"`
	Price       int64   `json:"price"`
	Status      string  `json:"status"`
}

// SeedMembershipPackagesFromJSON: nama paket unik (case-insensitive) jadi kunci idempotensi.
func SeedMembershipPackagesFromJSON(ctx context.Context, db *gorm.DB, filePath string, now time.Time) error {
	log.Info().Msgf("📥 Membaca file paket membership: %s", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []PackageSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	svc := membershipService.NewPackageService(db, nil, nil)
	for _, data := range inputs {
		var existing model.MembershipPackageModel
		err := db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", data.Name).First(&existing).Error
		if err == nil {
			log.Info().Msgf("ℹ️ Paket '%s' sudah ada, dilewati.", data.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p, err := svc.Create(ctx, membershipDTO.CreateMembershipPackageRequest{
			Name:        data.Name,
			Description: data.Description,
			Duration:    data.Duration,
			Price:       data.Price,
			Status:      data.Status,
		}, now)
		if err != nil {
			return fmt.Errorf("insert paket '%s': %w", data.Name, err)
		}
		log.Info().Msgf("✅ Berhasil insert paket '%s' (%s)", p.Name, *p.Code)
	}
	return nil
}
