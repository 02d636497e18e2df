package model

import (
	"time"

	"gorm.io/datatypes"
)

type ClassStatus string

const (
	ClassActive   ClassStatus = "active"
	ClassInactive ClassStatus = "inactive"
)

type GymClassModel struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Code        *string                     `gorm:"size:20;uniqueIndex" json:"code"`
	Name        string                      `gorm:"size:100;not null" json:"name"`
	Slug        string                      `gorm:"size:120;not null;index" json:"slug"`
	Description *string                     `gorm:"type:text" json:"description,omitempty"`
	Price       int64                       `gorm:"not null" json:"price"`
	Status      ClassStatus                 `gorm:"type:varchar(20);not null;index" json:"status"`
	Images      datatypes.JSONSlice[string] `json:"images"`

	Schedules []GymClassScheduleModel `gorm:"foreignKey:GymClassID" json:"schedules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GymClassModel) TableName() string {
	return "gym_classes"
}
