package model

import "time"

// TokenBlacklistModel menyimpan hash (sha256 hex) access token yang sudah logout.
type TokenBlacklistModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiredAt time.Time `gorm:"not null;index" json:"expired_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
