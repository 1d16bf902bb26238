package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CanteenID   uint            `json:"canteen_id" gorm:"not null;index"`
	Description string          `json:"description" gorm:"not null"`
	Category    string          `json:"category"` // supplies, utilities, salaries, maintenance, other
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	ExpenseDate time.Time       `json:"expense_date" gorm:"type:date;not null"`
	CreatedBy   uint            `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SalesReport holds one canteen's totals for a single day.
type SalesReport struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CanteenID    uint            `json:"canteen_id" gorm:"not null;uniqueIndex:idx_sales_canteen_date"`
	Date         time.Time       `json:"date" gorm:"type:date;not null;uniqueIndex:idx_sales_canteen_date"`
	TotalOrders  int             `json:"total_orders"`
	ItemsSold    int             `json:"items_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue" gorm:"type:numeric(12,2);not null"`
	Notes        string          `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Day truncates t to midnight UTC, the key used for SalesReport.Date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
