package model

import (
	"time"

	userModel "gymku_backend/internals/features/users/users/model"
)

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentPaused    AssignmentStatus = "paused"
	AssignmentCompleted AssignmentStatus = "completed"
)

type PersonalTrainerAssignmentModel struct {
	ID                       uint             `gorm:"primaryKey" json:"id"`
	UserID                   uint             `gorm:"not null;index" json:"user_id"` // member
	PersonalTrainerID        uint             `gorm:"not null;index" json:"personal_trainer_id"`
	PersonalTrainerPackageID uint             `gorm:"not null;index" json:"personal_trainer_package_id"`
	TransactionID            *uint            `gorm:"index" json:"transaction_id,omitempty"`
	StartDate                time.Time        `gorm:"type:date;not null" json:"start_date"`
	EndDate                  *time.Time       `gorm:"type:date" json:"end_date"`
	DayLeft                  int              `gorm:"not null;default:0" json:"day_left"`
	Status                   AssignmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	PersonalTrainerPackage *PersonalTrainerPackageModel `gorm:"foreignKey:PersonalTrainerPackageID" json:"personal_trainer_package,omitempty"`
	PersonalTrainer        *PersonalTrainerModel        `gorm:"foreignKey:PersonalTrainerID" json:"personal_trainer,omitempty"`
	User                   *userModel.UserModel         `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersonalTrainerAssignmentModel) TableName() string {
	return "personal_trainer_assignments"
}
