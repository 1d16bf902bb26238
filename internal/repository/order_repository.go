package repository

import (
	"context"
	"time"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateStatus moves the order to status only if its version still equals
	// version, failing with apperr.ErrConflict otherwise.
	UpdateStatus(ctx context.Context, id, version uint, status models.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.Status == "" {
		order.Status = models.OrderReceived
	}
	if order.Version == 0 {
		order.Version = 1
	}
	return translate(r.db.WithContext(ctx).Create(order).Error, "order", order.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err, "order", id)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.CanteenID != nil {
		q = q.Where("canteen_id = ?", *filter.CanteenID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if !filter.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		q = q.Where("created_at < ?", filter.CreatedTo)
	}
	var orders []models.Order
	err := q.Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, translate(err, "order", 0)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, version uint, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error, "order", id)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translate(err, "order", id)
		}
		if count == 0 {
			return apperr.NotFound("order", id)
		}
		return apperr.Conflict("order %d was modified concurrently", id)
	}
	return nil
}
