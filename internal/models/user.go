package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;default:'customer'"` // customer, staff, admin
	IsAdmin      bool      `json:"is_admin"`
	CanteenID    *uint     `json:"canteen_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole returns false for anything outside customer, staff, admin.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return r, true
	}
	return "", false
}

// SyncAdminFlag keeps the legacy IsAdmin column equal to Role == admin.
func (u *User) SyncAdminFlag() {
	u.IsAdmin = u.Role == RoleAdmin
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.SyncAdminFlag()
	return nil
}
