package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is immutable once written; Name and Price are snapshots taken at checkout.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null;index"`
	Name       string          `json:"name" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
