package model

import (
	"time"

	"gorm.io/datatypes"
)

type PackageStatus string

const (
	PackageActive   PackageStatus = "active"
	PackageInactive PackageStatus = "inactive"
)

type PersonalTrainerPackageModel struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	Code              *string                     `gorm:"size:20;uniqueIndex" json:"code"`
	PersonalTrainerID uint                        `gorm:"not null;index" json:"personal_trainer_id"`
	Name              string                      `gorm:"size:100;not null" json:"name"`
	Slug              string                      `gorm:"size:120;not null;index" json:"slug"`
	Description       *string                     `gorm:"type:text" json:"description,omitempty"`
	DayDuration       int                         `gorm:"not null" json:"day_duration"`
	Price             int64                       `gorm:"not null" json:"price"`
	Status            PackageStatus               `gorm:"type:varchar(20);not null;index" json:"status"`
	Images            datatypes.JSONSlice[string] `json:"images"`

	PersonalTrainer *PersonalTrainerModel `gorm:"foreignKey:PersonalTrainerID" json:"personal_trainer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersonalTrainerPackageModel) TableName() string {
	return "personal_trainer_packages"
}
