package model

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionMissed    SessionStatus = "missed"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionCancelled, SessionMissed:
		return true
	}
	return false
}

// PersonalTrainerScheduleModel satu sesi latihan dalam assignment.
type PersonalTrainerScheduleModel struct {
	ID                          uint              `gorm:"primaryKey" json:"id"`
	PersonalTrainerAssignmentID uint              `gorm:"not null;index" json:"personal_trainer_assignment_id"`
	ScheduledAt                 time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Status                      SessionStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CheckInTime                 *time.Time        `json:"check_in_time"`
	CheckOutTime                *time.Time        `json:"check_out_time"`
	TrainingLog                 datatypes.JSONMap `json:"training_log,omitempty"`
	TrainerNotes                *string           `gorm:"type:text" json:"trainer_notes,omitempty"`
	MemberFeedback              *string           `gorm:"type:text" json:"member_feedback,omitempty"`

	Assignment *PersonalTrainerAssignmentModel `gorm:"foreignKey:PersonalTrainerAssignmentID" json:"assignment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersonalTrainerScheduleModel) TableName() string {
	return "personal_trainer_schedules"
}
