package repository

import (
	"context"

	"canteen_manager/internal/models"

	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uint) (*models.InventoryItem, error)
	List(ctx context.Context, canteenID *uint) ([]models.InventoryItem, error)
	// ListLowStock returns the canteen's items whose quantity is at or below the reorder level.
	ListLowStock(ctx context.Context, canteenID uint) ([]models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uint) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error, "inventory item", item.ID)
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err, "inventory item", id)
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, canteenID *uint) ([]models.InventoryItem, error) {
	q := r.db.WithContext(ctx)
	if canteenID != nil {
		q = q.Where("canteen_id = ?", *canteenID)
	}
	var items []models.InventoryItem
	err := q.Order("name").Find(&items).Error
	return items, translate(err, "inventory item", 0)
}

func (r *inventoryRepository) ListLowStock(ctx context.Context, canteenID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("canteen_id = ? AND quantity <= reorder_level", canteenID).
		Order("name").Find(&items).Error
	return items, translate(err, "inventory item", 0)
}

func (r *inventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	return saveExisting(r.db.WithContext(ctx), item, "inventory item", item.ID)
}

func (r *inventoryRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.InventoryItem{}, "inventory item", id)
}
