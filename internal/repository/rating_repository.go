package repository

import (
	"context"

	"canteen_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Upsert stores the rating for rating.OrderID, replacing any earlier one.
	Upsert(ctx context.Context, rating *models.OrderRating) error
	GetByOrderID(ctx context.Context, orderID uint) (*models.OrderRating, error)
	List(ctx context.Context, filter RatingFilter) ([]models.OrderRating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.OrderRating) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return translate(err, "rating", rating.OrderID)
	}
	var stored models.OrderRating
	if err := db.Where("order_id = ?", rating.OrderID).First(&stored).Error; err != nil {
		return translate(err, "rating", rating.OrderID)
	}
	*rating = stored
	return nil
}

func (r *ratingRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.OrderRating, error) {
	var rating models.OrderRating
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&rating).Error; err != nil {
		return nil, translate(err, "rating for order", orderID)
	}
	return &rating, nil
}

func (r *ratingRepository) List(ctx context.Context, filter RatingFilter) ([]models.OrderRating, error) {
	q := r.db.WithContext(ctx)
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.CanteenID != nil {
		q = q.Where("canteen_id = ?", *filter.CanteenID)
	}
	var ratings []models.OrderRating
	err := q.Order("created_at DESC").Find(&ratings).Error
	return ratings, translate(err, "rating", 0)
}
