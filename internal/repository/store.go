// Package repository defines the storage capabilities the services depend on and
// implements them on top of gorm. The memory subpackage offers an in-process
// implementation of the same Store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"

	"gorm.io/gorm"
)

// Store groups the per-entity repositories. WithinTx runs fn against a Store whose
// writes commit together or not at all.
type Store interface {
	Users() UserRepository
	Canteens() CanteenRepository
	MenuItems() MenuItemRepository
	Orders() OrderRepository
	Ratings() RatingRepository
	Inventory() InventoryRepository
	Expenses() ExpenseRepository
	SalesReports() SalesReportRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type UserFilter struct {
	Role      models.Role
	CanteenID *uint
}

type MenuFilter struct {
	CanteenID     *uint
	Category      models.MenuCategory
	AvailableOnly bool
}

type OrderFilter struct {
	UserID      *uint
	CanteenID   *uint
	Statuses    []models.OrderStatus
	CreatedFrom time.Time
	CreatedTo   time.Time // exclusive
}

type RatingFilter struct {
	UserID    *uint
	CanteenID *uint
}

type ExpenseFilter struct {
	CanteenID *uint
	From      time.Time
	To        time.Time // exclusive
}

type gormStore struct {
	db *gorm.DB
}

var _ Store = (*gormStore)(nil)

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository               { return &userRepository{db: s.db} }
func (s *gormStore) Canteens() CanteenRepository         { return &canteenRepository{db: s.db} }
func (s *gormStore) MenuItems() MenuItemRepository       { return &menuItemRepository{db: s.db} }
func (s *gormStore) Orders() OrderRepository             { return &orderRepository{db: s.db} }
func (s *gormStore) Ratings() RatingRepository           { return &ratingRepository{db: s.db} }
func (s *gormStore) Inventory() InventoryRepository      { return &inventoryRepository{db: s.db} }
func (s *gormStore) Expenses() ExpenseRepository         { return &expenseRepository{db: s.db} }
func (s *gormStore) SalesReports() SalesReportRepository { return &salesReportRepository{db: s.db} }

func (s *gormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// translate maps gorm errors onto the apperr taxonomy.
func translate(err error, entity string, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s already exists", entity)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// deleteByID removes one row and reports ErrNotFound when nothing matched.
func deleteByID(db *gorm.DB, model interface{}, entity string, id uint) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return translate(res.Error, entity, id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

// saveExisting updates a row that must already exist; gorm's Save would insert it otherwise.
func saveExisting(db *gorm.DB, model interface{}, entity string, id uint) error {
	var count int64
	if err := db.Session(&gorm.Session{}).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err, entity, id)
	}
	if count == 0 {
		return apperr.NotFound(entity, id)
	}
	return translate(db.Session(&gorm.Session{}).Save(model).Error, entity, id)
}
