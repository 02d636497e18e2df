package gym_classes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/model"
	classService "gymku_backend/internals/features/gym_classes/service"
	"gymku_backend/internals/helpers/dbtime"
)

type ScheduleSeed struct {
	// hari relatif terhadap tanggal seed (0 = hari ini)
	DayOffset int    `json:"day_offset"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Slot      int    `json:"slot"`
}

type ClassSeed struct {
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Price       int64          `json:"price"`
	Status      string         `json:"status"`
	Schedules   []ScheduleSeed `json:"schedules"`
}

// SeedGymClassesFromJSON insert kelas + jadwalnya. Kelas yang sudah ada dilewati
// berikut jadwalnya, supaya seed bisa dijalankan ulang.
func SeedGymClassesFromJSON(ctx context.Context, db *gorm.DB, filePath string, now time.Time, loc *time.Location) error {
	log.Info().Msgf("📥 Membaca file kelas: %s", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []ClassSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	classes := classService.NewGymClassService(db, nil, nil)
	schedules := classService.NewScheduleService(db)
	today := dbtime.DateOnly(now, loc)

	for _, data := range inputs {
		var existing model.GymClassModel
		err := db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", data.Name).First(&existing).Error
		if err == nil {
			log.Info().Msgf("ℹ️ Kelas '%s' sudah ada, dilewati.", data.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		g, err := classes.Create(ctx, classDTO.CreateGymClassRequest{
			Name:        data.Name,
			Description: data.Description,
			Price:       data.Price,
			Status:      data.Status,
		}, now)
		if err != nil {
			return fmt.Errorf("insert kelas '%s': %w", data.Name, err)
		}

		for _, sc := range data.Schedules {
			if _, err := schedules.Create(ctx, g.ID, classDTO.CreateScheduleRequest{
				Date:      today.AddDate(0, 0, sc.DayOffset).Format("2006-01-02"),
				StartTime: sc.StartTime,
				EndTime:   sc.EndTime,
				Slot:      sc.Slot,
			}, now); err != nil {
				return fmt.Errorf("insert jadwal kelas '%s': %w", data.Name, err)
			}
		}
		log.Info().Msgf("✅ Berhasil insert kelas '%s' dengan %d jadwal", g.Name, len(data.Schedules))
	}
	return nil
}
