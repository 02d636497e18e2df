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

type MembershipPackageModel struct {
	ID          uint                       `gorm:"primaryKey" json:"id"`
	Code        *string                    `gorm:"size:20;uniqueIndex" json:"code"`
	Name        string                     `gorm:"size:100;not null" json:"name"`
	Slug        string                     `gorm:"size:120;not null;index" json:"slug"`
	Description *string                    `gorm:"type:text" json:"description,omitempty"`
	Duration    int                        `gorm:"not null" json:"duration"` // hari
	Price       int64                      `gorm:"not null" json:"price"`
	Status      PackageStatus              `gorm:"type:varchar(20);not null;index" json:"status"`
	Images      datatypes.JSONSlice[string] `json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MembershipPackageModel) TableName() string {
	return "membership_packages"
}
