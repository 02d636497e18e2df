package dto

import (
	"strings"

	helper "gymku_backend/internals/helpers"
)

// CheckoutRequest body POST /payments/checkout.
// gym_class_schedule_id wajib untuk pembelian gym_class.
type CheckoutRequest struct {
	PurchasableType    string `json:"purchasable_type" validate:"required,oneof=membership_package gym_class personal_trainer_package"`
	PurchasableID      uint   `json:"purchasable_id" validate:"required,gt=0"`
	GymClassScheduleID *uint  `json:"gym_class_schedule_id" validate:"omitempty,gt=0"`
}

// CrossCheck aturan antar-field, dijalankan setelah validasi per-field lolos.
func (r CheckoutRequest) CrossCheck() error {
	if r.PurchasableType == "gym_class" && r.GymClassScheduleID == nil {
		return helper.NewFieldError("gym_class_schedule_id", "gym_class_schedule_id wajib diisi untuk pembelian kelas.")
	}
	return nil
}

func (r *CheckoutRequest) Normalize() {
	r.PurchasableType = strings.ToLower(strings.TrimSpace(r.PurchasableType))
}

type UpdateStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending unpaid paid failed expired refunded cancelled"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.PaymentStatus = strings.ToLower(strings.TrimSpace(r.PaymentStatus))
}

type ListTransactionQuery struct {
	UserID          uint
	PaymentStatus   string
	PurchasableType string
	Q               string // cari by code
	OrderBy         string
}

// MidtransNotification payload webhook; field lain diabaikan.
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// CheckoutResponse token & url Snap untuk diteruskan ke frontend.
type CheckoutResponse struct {
	ID            uint   `json:"id"`
	Code          string `json:"code"`
	Amount        int64  `json:"amount"`
	PaymentStatus string `json:"payment_status"`
	SnapToken     string `json:"snap_token"`
	RedirectURL   string `json:"redirect_url"`
}
