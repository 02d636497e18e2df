package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	gymClassModel "gymku_backend/internals/features/gym_classes/model"
	visitModel "gymku_backend/internals/features/gym_visits/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	authModel "gymku_backend/internals/features/users/auth/model"
	userModel "gymku_backend/internals/features/users/users/model"
)

// Models semua tabel yang dikelola AutoMigrate.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklistModel{},
		&membershipModel.MembershipPackageModel{},
		&membershipModel.MembershipHistoryModel{},
		&gymClassModel.GymClassModel{},
		&gymClassModel.GymClassScheduleModel{},
		&gymClassModel.GymClassAttendanceModel{},
		&visitModel.GymVisitModel{},
		&trainerModel.PersonalTrainerModel{},
		&trainerModel.PersonalTrainerPackageModel{},
		&trainerModel.PersonalTrainerAssignmentModel{},
		&trainerModel.PersonalTrainerScheduleModel{},
		&txModel.TransactionModel{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Int("tables", len(Models())).Msg("✅ Migrasi selesai")
	return nil
}
