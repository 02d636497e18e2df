package dto

import "strings"

/* ===== Class ===== */

type CreateGymClassRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       int64   `json:"price" validate:"gte=0"`
	Status      string  `json:"status" validate:"required,oneof=active inactive"`
}

func (r *CreateGymClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Description = trimPtr(r.Description)
}

type UpdateGymClassRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Price       *int64    `json:"price" validate:"omitempty,gte=0"`
	Status      *string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Images      *[]string `json:"images"`
}

func (r *UpdateGymClassRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Description = trimPtr(r.Description)
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
}

type ListGymClassQuery struct {
	Q          string
	Status     string
	ActiveOnly bool
	OrderBy    string
}

/* ===== Schedule ===== */

type CreateScheduleRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Slot      int    `json:"slot" validate:"required,gt=0,max=1000"`
}

type UpdateScheduleRequest struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Slot      *int    `json:"slot" validate:"omitempty,gt=0,max=1000"`
}

/* ===== Attendance ===== */

type CreateAttendanceRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

type UpdateAttendanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned attended missed cancelled"`
}

type ListAttendanceQuery struct {
	UserID     uint
	ScheduleID uint
	Status     string
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
