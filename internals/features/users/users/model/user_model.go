package model

import (
	"time"

	"gorm.io/gorm"
)

type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
)

// UserModel merepresentasikan tabel users
type UserModel struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"size:100;not null" json:"name"`
	Email            string           `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone            *string          `gorm:"size:30" json:"phone,omitempty"`
	Password         string           `gorm:"not null" json:"-"`
	GoogleID         *string          `gorm:"size:255;uniqueIndex" json:"-"`
	ProfileImage     *string          `gorm:"size:500" json:"profile_image,omitempty"`
	Role             string           `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`
	MembershipStatus MembershipStatus `gorm:"type:varchar(20);not null;default:'inactive'" json:"membership_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}
