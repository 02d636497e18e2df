package dto

// AdminCheckInRequest admin mencatat kunjungan atas nama member.
type AdminCheckInRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

// UpdateVisitRequest koreksi manual oleh admin. ExitTime "" = kosongkan (kembali in_gym).
type UpdateVisitRequest struct {
	ExitTime *string `json:"exit_time" validate:"omitempty"`
}

type ListVisitQuery struct {
	UserID uint
	Status string
	From   string // YYYY-MM-DD
	To     string
}
