package seeds

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	classes "gymku_backend/internals/seeds/gym_classes"
	memberships "gymku_backend/internals/seeds/memberships"
	trainers "gymku_backend/internals/seeds/trainers"
	users "gymku_backend/internals/seeds/users"
)

// DefaultDir lokasi file JSON relatif dari root repo.
const DefaultDir = "internals/seeds"

// RunAllSeeds menjalankan semua seeder berurutan. Trainer butuh user,
// jadi urutan di bawah jangan diacak.
func RunAllSeeds(ctx context.Context, db *gorm.DB, dir string, now time.Time, loc *time.Location) error {
	if dir == "" {
		dir = DefaultDir
	}
	if loc == nil {
		loc = time.UTC
	}

	//* User
	if err := users.SeedUsersFromJSON(ctx, db, filepath.Join(dir, "users", "data_users.json"), now); err != nil {
		return err
	}

	//* Membership
	if err := memberships.SeedMembershipPackagesFromJSON(ctx, db, filepath.Join(dir, "memberships", "data_membership_packages.json"), now); err != nil {
		return err
	}

	//* Kelas + jadwal
	if err := classes.SeedGymClassesFromJSON(ctx, db, filepath.Join(dir, "gym_classes", "data_gym_classes.json"), now, loc); err != nil {
		return err
	}

	//* Trainer + paket PT
	if err := trainers.SeedTrainersFromJSON(ctx, db, filepath.Join(dir, "trainers", "data_trainers.json"), now); err != nil {
		return err
	}

	log.Info().Msg("🌱 Seed selesai")
	return nil
}
