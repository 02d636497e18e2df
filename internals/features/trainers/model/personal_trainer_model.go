package model

import (
	"time"

	"gorm.io/datatypes"

	userModel "gymku_backend/internals/features/users/users/model"
)

type PersonalTrainerModel struct {
	ID                    uint                        `gorm:"primaryKey" json:"id"`
	Code                  *string                     `gorm:"size:20;uniqueIndex" json:"code"`
	UserPersonalTrainerID uint                        `gorm:"not null;uniqueIndex" json:"user_personal_trainer_id"`
	Nickname              string                      `gorm:"size:100;not null" json:"nickname"`
	Slug                  string                      `gorm:"size:120;not null;index" json:"slug"`
	Description           *string                     `gorm:"type:text" json:"description,omitempty"`
	Metadata              datatypes.JSONMap           `json:"metadata,omitempty"`
	Images                datatypes.JSONSlice[string] `json:"images"`

	User     *userModel.UserModel          `gorm:"foreignKey:UserPersonalTrainerID" json:"user,omitempty"`
	Packages []PersonalTrainerPackageModel `gorm:"foreignKey:PersonalTrainerID" json:"packages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersonalTrainerModel) TableName() string {
	return "personal_trainers"
}
