package model

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

type PurchasableType string

const (
	PurchasableMembershipPackage      PurchasableType = "membership_package"
	PurchasableGymClass               PurchasableType = "gym_class"
	PurchasablePersonalTrainerPackage PurchasableType = "personal_trainer_package"
)

// CodePrefix prefix kode transaksi per tipe; TX untuk tipe tak dikenal.
func (t PurchasableType) CodePrefix() string {
	switch t {
	case PurchasableMembershipPackage:
		return "MP"
	case PurchasableGymClass:
		return "GC"
	case PurchasablePersonalTrainerPackage:
		return "PTP"
	default:
		return "TX"
	}
}

type TransactionModel struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	Code               string            `gorm:"size:40;not null;uniqueIndex" json:"code"`
	UserID             uint              `gorm:"not null;index" json:"user_id"`
	Amount             int64             `gorm:"not null" json:"amount"`
	PaymentStatus      PaymentStatus     `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PaymentDate        *time.Time        `json:"payment_date"`
	PurchasableType    PurchasableType   `gorm:"type:varchar(40);not null;index:idx_tx_purchasable" json:"purchasable_type"`
	PurchasableID      uint              `gorm:"not null;index:idx_tx_purchasable" json:"purchasable_id"`
	GymClassScheduleID *uint             `gorm:"index" json:"gym_class_schedule_id,omitempty"`
	SnapToken          *string           `gorm:"size:100" json:"snap_token,omitempty"`
	RedirectURL        *string           `gorm:"size:500" json:"redirect_url,omitempty"`
	GatewayPayload     datatypes.JSONMap `json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}
