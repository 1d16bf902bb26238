package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CanteenID   uint            `json:"canteen_id" gorm:"not null;index"`
	Canteen     *Canteen        `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Category    MenuCategory    `json:"category" gorm:"type:varchar(16);not null"` // veg, nonveg, snacks, beverages
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type MenuCategory string

const (
	CategoryVeg       MenuCategory = "veg"
	CategoryNonVeg    MenuCategory = "nonveg"
	CategorySnacks    MenuCategory = "snacks"
	CategoryBeverages MenuCategory = "beverages"
)

func (c MenuCategory) Valid() bool {
	switch c {
	case CategoryVeg, CategoryNonVeg, CategorySnacks, CategoryBeverages:
		return true
	}
	return false
}
