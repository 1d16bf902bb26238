package repository

import (
	"context"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"

	"gorm.io/gorm"
)

type CanteenRepository interface {
	Create(ctx context.Context, canteen *models.Canteen) error
	GetByID(ctx context.Context, id uint) (*models.Canteen, error)
	List(ctx context.Context) ([]models.Canteen, error)
	Update(ctx context.Context, canteen *models.Canteen) error
	// Delete refuses with apperr.ErrConflict while anything still belongs to the canteen.
	Delete(ctx context.Context, id uint) error
}

type canteenRepository struct {
	db *gorm.DB
}

func NewCanteenRepository(db *gorm.DB) CanteenRepository {
	return &canteenRepository{db: db}
}

func (r *canteenRepository) Create(ctx context.Context, canteen *models.Canteen) error {
	return translate(r.db.WithContext(ctx).Create(canteen).Error, "canteen", canteen.ID)
}

func (r *canteenRepository) GetByID(ctx context.Context, id uint) (*models.Canteen, error) {
	var canteen models.Canteen
	if err := r.db.WithContext(ctx).First(&canteen, id).Error; err != nil {
		return nil, translate(err, "canteen", id)
	}
	return &canteen, nil
}

func (r *canteenRepository) List(ctx context.Context) ([]models.Canteen, error) {
	var canteens []models.Canteen
	err := r.db.WithContext(ctx).Order("name").Find(&canteens).Error
	return canteens, translate(err, "canteen", 0)
}

func (r *canteenRepository) Update(ctx context.Context, canteen *models.Canteen) error {
	return saveExisting(r.db.WithContext(ctx), canteen, "canteen", canteen.ID)
}

func (r *canteenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []struct {
			name  string
			model interface{}
		}{
			{"menu items", &models.MenuItem{}},
			{"orders", &models.Order{}},
			{"inventory items", &models.InventoryItem{}},
			{"expenses", &models.Expense{}},
			{"sales reports", &models.SalesReport{}},
			{"staff", &models.User{}},
		}
		for _, d := range dependents {
			var count int64
			if err := tx.Model(d.model).Where("canteen_id = ?", id).Count(&count).Error; err != nil {
				return translate(err, "canteen", id)
			}
			if count > 0 {
				return apperr.Conflict("canteen %d still has %d %s", id, count, d.name)
			}
		}
		return deleteByID(tx, &models.Canteen{}, "canteen", id)
	})
}
