package model

import "time"

type VisitStatus string

const (
	VisitInGym VisitStatus = "in_gym"
	VisitLeft  VisitStatus = "left"
)

type GymVisitModel struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	VisitDate time.Time   `gorm:"type:date;not null;index" json:"visit_date"`
	EntryTime time.Time   `gorm:"not null" json:"entry_time"`
	ExitTime  *time.Time  `json:"exit_time"`
	Status    VisitStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GymVisitModel) TableName() string {
	return "gym_visits"
}

// SetExit menjaga invariant: status left <=> exit_time terisi.
func (v *GymVisitModel) SetExit(exit *time.Time) {
	v.ExitTime = exit
	if exit != nil {
		v.Status = VisitLeft
	} else {
		v.Status = VisitInGym
	}
}
