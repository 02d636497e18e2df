package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	gymClassModel "gymku_backend/internals/features/gym_classes/model"
	gymClassService "gymku_backend/internals/features/gym_classes/service"
	membershipModel "gymku_backend/internals/features/memberships/model"
	membershipService "gymku_backend/internals/features/memberships/service"
	"gymku_backend/internals/features/payment/transactions/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	trainerService "gymku_backend/internals/features/trainers/service"
	"gymku_backend/internals/helpers/dbtime"
)

// Purchasable item yang bisa dibeli lewat checkout.
type Purchasable struct {
	Type     model.PurchasableType
	ID       uint
	Name     string
	Price    int64
	Category string
}

// resolver memuat item aktif (nil, nil = tidak ada / tidak aktif) dan menjalankan
// fulfilment saat transaksi paid. Semua fungsi dijalankan di dalam tx pemanggil.
type resolver struct {
	load    func(tx *gorm.DB, id uint) (*Purchasable, error)
	fulfill func(tx *gorm.DB, t *model.TransactionModel, now time.Time, loc *time.Location) error
}

func first[T any](tx *gorm.DB, out *T, query string, args ...any) (bool, error) {
	err := tx.Where(query, args...).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

var resolvers = map[model.PurchasableType]resolver{
	model.PurchasableMembershipPackage: {
		load: func(tx *gorm.DB, id uint) (*Purchasable, error) {
			var p membershipModel.MembershipPackageModel
			ok, err := first(tx, &p, "id = ? AND status = ?", id, membershipModel.PackageActive)
			if !ok {
				return nil, err
			}
			return &Purchasable{Type: model.PurchasableMembershipPackage, ID: p.ID, Name: p.Name, Price: p.Price, Category: "membership"}, nil
		},
		fulfill: func(tx *gorm.DB, t *model.TransactionModel, now time.Time, _ *time.Location) error {
			var p membershipModel.MembershipPackageModel
			if err := tx.First(&p, t.PurchasableID).Error; err != nil {
				return fmt.Errorf("load membership package: %w", err)
			}
			_, err := membershipService.ActivateMembership(tx, t.UserID, p, &t.ID, now)
			return err
		},
	},
	model.PurchasableGymClass: {
		load: func(tx *gorm.DB, id uint) (*Purchasable, error) {
			var g gymClassModel.GymClassModel
			ok, err := first(tx, &g, "id = ? AND status = ?", id, gymClassModel.ClassActive)
			if !ok {
				return nil, err
			}
			return &Purchasable{Type: model.PurchasableGymClass, ID: g.ID, Name: g.Name, Price: g.Price, Category: "class"}, nil
		},
		fulfill: func(tx *gorm.DB, t *model.TransactionModel, now time.Time, _ *time.Location) error {
			if t.GymClassScheduleID == nil {
				return errors.New("transaksi kelas tanpa jadwal")
			}
			_, err := gymClassService.AssignAttendance(tx, t.UserID, *t.GymClassScheduleID, &t.ID, now)
			return err
		},
	},
	model.PurchasablePersonalTrainerPackage: {
		load: func(tx *gorm.DB, id uint) (*Purchasable, error) {
			var p trainerModel.PersonalTrainerPackageModel
			ok, err := first(tx, &p, "id = ? AND status = ?", id, trainerModel.PackageActive)
			if !ok {
				return nil, err
			}
			return &Purchasable{Type: model.PurchasablePersonalTrainerPackage, ID: p.ID, Name: p.Name, Price: p.Price, Category: "personal_trainer"}, nil
		},
		fulfill: func(tx *gorm.DB, t *model.TransactionModel, now time.Time, loc *time.Location) error {
			var p trainerModel.PersonalTrainerPackageModel
			if err := tx.First(&p, t.PurchasableID).Error; err != nil {
				return fmt.Errorf("load trainer package: %w", err)
			}
			_, err := trainerService.StartAssignment(tx, t.UserID, p, &t.ID, dbtime.DateOnly(now, loc), now)
			return err
		},
	},
}
