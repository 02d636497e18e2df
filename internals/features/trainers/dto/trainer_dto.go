package dto

import "strings"

/* ===== Trainer ===== */

type CreateTrainerRequest struct {
	UserID      uint           `json:"user_id" validate:"required,gt=0"`
	Nickname    string         `json:"nickname" validate:"required,min=2,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Metadata    map[string]any `json:"metadata"`
}

func (r *CreateTrainerRequest) Normalize() {
	r.Nickname = strings.TrimSpace(r.Nickname)
	r.Description = trimPtr(r.Description)
}

type UpdateTrainerRequest struct {
	Nickname    *string         `json:"nickname" validate:"omitempty,min=2,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Metadata    *map[string]any `json:"metadata"`
	Images      *[]string       `json:"images"`
}

func (r *UpdateTrainerRequest) Normalize() {
	r.Nickname = trimPtr(r.Nickname)
	r.Description = trimPtr(r.Description)
}

type ListTrainerQuery struct {
	Q       string
	OrderBy string
}

/* ===== Package ===== */

type CreateTrainerPackageRequest struct {
	PersonalTrainerID uint    `json:"personal_trainer_id" validate:"required,gt=0"`
	Name              string  `json:"name" validate:"required,min=2,max=100"`
	Description       *string `json:"description" validate:"omitempty,max=2000"`
	DayDuration       int     `json:"day_duration" validate:"required,gt=0,max=3650"`
	Price             int64   `json:"price" validate:"gte=0"`
	Status            string  `json:"status" validate:"required,oneof=active inactive"`
}

func (r *CreateTrainerPackageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Description = trimPtr(r.Description)
}

type UpdateTrainerPackageRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	DayDuration *int      `json:"day_duration" validate:"omitempty,gt=0,max=3650"`
	Price       *int64    `json:"price" validate:"omitempty,gte=0"`
	Status      *string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Images      *[]string `json:"images"`
}

func (r *UpdateTrainerPackageRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Description = trimPtr(r.Description)
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
}

type ListTrainerPackageQuery struct {
	TrainerID  uint
	Status     string
	ActiveOnly bool
	Q          string
	OrderBy    string
}

/* ===== Assignment ===== */

// CreateAssignmentRequest admin menugaskan paket PT ke member tanpa transaksi.
type CreateAssignmentRequest struct {
	UserID                   uint   `json:"user_id" validate:"required,gt=0"`
	PersonalTrainerPackageID uint   `json:"personal_trainer_package_id" validate:"required,gt=0"`
	StartDate                string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

type ListAssignmentQuery struct {
	UserID    uint
	TrainerID uint
	Status    string
}

/* ===== Session (PT schedule) ===== */

type CreateSessionRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type UpdateSessionRequest struct {
	ScheduledAt  *string         `json:"scheduled_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Status       *string         `json:"status" validate:"omitempty,oneof=scheduled completed cancelled missed"`
	TrainingLog  *map[string]any `json:"training_log"`
	TrainerNotes *string         `json:"trainer_notes" validate:"omitempty,max=5000"`
}

type FeedbackRequest struct {
	MemberFeedback string `json:"member_feedback" validate:"required,max=5000"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
