package model

import "time"

type GymClassScheduleModel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	GymClassID    uint      `gorm:"not null;index" json:"gym_class_id"`
	Date          time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime     string    `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime       string    `gorm:"size:5;not null" json:"end_time"`
	Slot          int       `gorm:"not null" json:"slot"`
	AvailableSlot int       `gorm:"not null" json:"available_slot"`

	GymClass *GymClassModel `gorm:"foreignKey:GymClassID" json:"gym_class,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GymClassScheduleModel) TableName() string {
	return "gym_class_schedules"
}
