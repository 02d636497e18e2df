package model

import (
	"time"

	"gorm.io/gorm"
)

type HistoryStatus string

const (
	HistoryActive  HistoryStatus = "active"
	HistoryExpired HistoryStatus = "expired"
)

type MembershipHistoryModel struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	UserID              uint          `gorm:"not null;index" json:"user_id"`
	MembershipPackageID uint          `gorm:"not null;index" json:"membership_package_id"`
	TransactionID       *uint         `gorm:"index" json:"transaction_id,omitempty"`
	StartDate           time.Time     `gorm:"not null" json:"start_date"`
	EndDate             time.Time     `gorm:"not null;index" json:"end_date"`
	Status              HistoryStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	MembershipPackage *MembershipPackageModel `gorm:"foreignKey:MembershipPackageID" json:"membership_package,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MembershipHistoryModel) TableName() string {
	return "membership_histories"
}
