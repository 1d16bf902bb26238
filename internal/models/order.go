package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	CanteenID   uint            `json:"canteen_id" gorm:"not null;index"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(16);not null;default:'received';index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Notes       string          `json:"notes" gorm:"type:text"`
	Version     uint            `json:"version" gorm:"not null;default:1"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderReceived  OrderStatus = "received"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderReceived, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return st, true
	}
	return "", false
}

// IsActive reports whether the order is still moving through the kitchen.
func (s OrderStatus) IsActive() bool {
	return s == OrderReceived || s == OrderPreparing || s == OrderReady
}

// lifecycle holds every edge staff and admins may take.
var lifecycle = map[OrderStatus][]OrderStatus{
	OrderReceived:  {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderCompleted},
}

// customerEdges is the subset of lifecycle open to the ordering customer.
var customerEdges = map[OrderStatus][]OrderStatus{
	OrderReceived:  {OrderCancelled},
	OrderPreparing: {OrderCancelled},
	OrderReady:     {OrderCompleted},
}

// CanTransition reports whether to is reachable from from in one step by anyone.
func CanTransition(from, to OrderStatus) bool {
	return slices.Contains(lifecycle[from], to)
}

func CustomerCanTransition(from, to OrderStatus) bool {
	return slices.Contains(customerEdges[from], to)
}

// NextStatuses lists the states reachable from s.
func NextStatuses(s OrderStatus) []OrderStatus {
	return slices.Clone(lifecycle[s])
}
