package models

import "time"

// Canteen is a serving location and the tenancy boundary for staff.
type Canteen struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"unique;not null"`
	Location     string    `json:"location"`
	Description  string    `json:"description" gorm:"type:text"`
	OpeningHours string    `json:"opening_hours"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
