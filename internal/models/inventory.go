package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CanteenID    uint            `json:"canteen_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"not null"`
	Unit         string          `json:"unit"` // kg, l, pcs
	Quantity     float64         `json:"quantity" gorm:"not null"`
	ReorderLevel float64         `json:"reorder_level" gorm:"not null"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit" gorm:"type:numeric(10,2)"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the item has fallen to its reorder threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}
