package repository

import (
	"context"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"

	"gorm.io/gorm"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	// Delete refuses with apperr.ErrConflict once any order references the item.
	Delete(ctx context.Context, id uint) error
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Canteen{}).Where("id = ?", item.CanteenID).Count(&count).Error; err != nil {
			return translate(err, "canteen", item.CanteenID)
		}
		if count == 0 {
			return apperr.NotFound("canteen", item.CanteenID)
		}
		return translate(tx.Omit("Canteen").Create(item).Error, "menu item", item.ID)
	})
}

func (r *menuItemRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err, "menu item", id)
	}
	return &item, nil
}

func (r *menuItemRepository) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx)
	if filter.CanteenID != nil {
		q = q.Where("canteen_id = ?", *filter.CanteenID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := q.Order("canteen_id, category, name").Find(&items).Error
	return items, translate(err, "menu item", 0)
}

func (r *menuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return saveExisting(r.db.WithContext(ctx).Omit("Canteen"), item, "menu item", item.ID)
}

func (r *menuItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&count).Error; err != nil {
			return translate(err, "menu item", id)
		}
		if count > 0 {
			return apperr.Conflict("menu item %d appears in %d orders; mark it unavailable instead", id, count)
		}
		return deleteByID(tx, &models.MenuItem{}, "menu item", id)
	})
}
