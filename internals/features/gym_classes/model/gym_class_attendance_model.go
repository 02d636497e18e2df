package model

import "time"

type AttendanceStatus string

const (
	AttendanceAssigned  AttendanceStatus = "assigned"
	AttendanceAttended  AttendanceStatus = "attended"
	AttendanceMissed    AttendanceStatus = "missed"
	AttendanceCancelled AttendanceStatus = "cancelled"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceAssigned, AttendanceAttended, AttendanceMissed, AttendanceCancelled:
		return true
	}
	return false
}

type GymClassAttendanceModel struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	UserID             uint             `gorm:"not null;index" json:"user_id"`
	GymClassScheduleID uint             `gorm:"not null;index" json:"gym_class_schedule_id"`
	TransactionID      *uint            `gorm:"index" json:"transaction_id,omitempty"`
	Status             AttendanceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AttendedAt         *time.Time       `json:"attended_at"`

	GymClassSchedule *GymClassScheduleModel `gorm:"foreignKey:GymClassScheduleID" json:"gym_class_schedule,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GymClassAttendanceModel) TableName() string {
	return "gym_class_attendances"
}

// ApplyStatus: attended_at hanya terisi selama status = attended.
func (a *GymClassAttendanceModel) ApplyStatus(s AttendanceStatus, now time.Time) {
	if s == AttendanceAttended && a.Status != AttendanceAttended {
		t := now
		a.AttendedAt = &t
	}
	if s != AttendanceAttended {
		a.AttendedAt = nil
	}
	a.Status = s
}
