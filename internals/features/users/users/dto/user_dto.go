package dto

import (
	"strings"
	"time"

	"gymku_backend/internals/features/users/users/model"
)

// ===== Request =====

// Role trainer tidak bisa di-set langsung: lewat pembuatan PersonalTrainer.
type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required,min=3,max=100"`
	Email    string  `json:"email" validate:"required,email,max=150"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role" validate:"omitempty,oneof=member admin"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Phone != nil {
		p := strings.TrimSpace(*r.Phone)
		if p == "" {
			r.Phone = nil
		} else {
			r.Phone = &p
		}
	}
}

// UpdateUserRequest: PATCH, field nil = tidak diubah.
type UpdateUserRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=3,max=100"`
	Email            *string `json:"email" validate:"omitempty,email,max=150"`
	Phone            *string `json:"phone" validate:"omitempty,max=30"`
	Password         *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role             *string `json:"role" validate:"omitempty,oneof=member admin"`
	MembershipStatus *string `json:"membership_status" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateUserRequest) Normalize() {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.Name = trim(r.Name)
	r.Phone = trim(r.Phone)
	r.Password = trim(r.Password)
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Role != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Role))
		r.Role = &v
	}
}

// ListUserQuery filter GET /admin/users
type ListUserQuery struct {
	Q                string
	Role             string
	MembershipStatus string
	WithDeleted      bool
	OrderBy          string
}

// ===== Response =====

type UserResponse struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone,omitempty"`
	ProfileImage     *string    `json:"profile_image,omitempty"`
	Role             string     `json:"role"`
	MembershipStatus string     `json:"membership_status"`
	HasGoogle        bool       `json:"has_google"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

func FromModel(u *model.UserModel) UserResponse {
	out := UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		ProfileImage:     u.ProfileImage,
		Role:             u.Role,
		MembershipStatus: string(u.MembershipStatus),
		HasGoogle:        u.GoogleID != nil,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		out.DeletedAt = &t
	}
	return out
}

func FromModelList(list []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
