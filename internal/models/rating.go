package models

import "time"

type OrderRating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;uniqueIndex"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CanteenID uint      `json:"canteen_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	MinRating = 1
	MaxRating = 5
)
