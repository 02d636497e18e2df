package dto

import (
	"strings"
)

/* ===== Package ===== */

type CreateMembershipPackageRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Duration    int     `json:"duration" validate:"required,gt=0,max=3650"`
	Price       int64   `json:"price" validate:"gte=0"`
	Status      string  `json:"status" validate:"required,oneof=active inactive"`
}

func (r *CreateMembershipPackageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Description = trimPtr(r.Description)
}

// UpdateMembershipPackageRequest PATCH; Images (kalau dikirim) menggantikan daftar gambar,
// url yang hilang dari daftar akan dihapus dari storage.
type UpdateMembershipPackageRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Duration    *int      `json:"duration" validate:"omitempty,gt=0,max=3650"`
	Price       *int64    `json:"price" validate:"omitempty,gte=0"`
	Status      *string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Images      *[]string `json:"images"`
}

func (r *UpdateMembershipPackageRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Description = trimPtr(r.Description)
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
}

type ListPackageQuery struct {
	Q          string
	Status     string
	ActiveOnly bool
	OrderBy    string
}

/* ===== History ===== */

type ListHistoryQuery struct {
	UserID uint
	Status string
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
