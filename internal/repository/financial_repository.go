package repository

import (
	"context"

	"canteen_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id uint) (*models.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uint) error
}

type SalesReportRepository interface {
	// Upsert writes the report for (CanteenID, Date), replacing the totals of an existing one.
	Upsert(ctx context.Context, report *models.SalesReport) error
	GetByID(ctx context.Context, id uint) (*models.SalesReport, error)
	List(ctx context.Context, canteenID *uint) ([]models.SalesReport, error)
	Delete(ctx context.Context, id uint) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return translate(r.db.WithContext(ctx).Create(expense).Error, "expense", expense.ID)
}

func (r *expenseRepository) GetByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, translate(err, "expense", id)
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	q := r.db.WithContext(ctx)
	if filter.CanteenID != nil {
		q = q.Where("canteen_id = ?", *filter.CanteenID)
	}
	if !filter.From.IsZero() {
		q = q.Where("expense_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("expense_date < ?", filter.To)
	}
	var expenses []models.Expense
	err := q.Order("expense_date DESC, id DESC").Find(&expenses).Error
	return expenses, translate(err, "expense", 0)
}

func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return saveExisting(r.db.WithContext(ctx), expense, "expense", expense.ID)
}

func (r *expenseRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Expense{}, "expense", id)
}

type salesReportRepository struct {
	db *gorm.DB
}

func NewSalesReportRepository(db *gorm.DB) SalesReportRepository {
	return &salesReportRepository{db: db}
}

func (r *salesReportRepository) Upsert(ctx context.Context, report *models.SalesReport) error {
	report.Date = models.Day(report.Date)
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canteen_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_orders", "items_sold", "total_revenue", "notes", "updated_at"}),
	}).Create(report).Error
	if err != nil {
		return translate(err, "sales report", report.ID)
	}
	var stored models.SalesReport
	if err := db.Where("canteen_id = ? AND date = ?", report.CanteenID, report.Date).First(&stored).Error; err != nil {
		return translate(err, "sales report", report.ID)
	}
	*report = stored
	return nil
}

func (r *salesReportRepository) GetByID(ctx context.Context, id uint) (*models.SalesReport, error) {
	var report models.SalesReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, translate(err, "sales report", id)
	}
	return &report, nil
}

func (r *salesReportRepository) List(ctx context.Context, canteenID *uint) ([]models.SalesReport, error) {
	q := r.db.WithContext(ctx)
	if canteenID != nil {
		q = q.Where("canteen_id = ?", *canteenID)
	}
	var reports []models.SalesReport
	err := q.Order("date DESC, canteen_id").Find(&reports).Error
	return reports, translate(err, "sales report", 0)
}

func (r *salesReportRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.SalesReport{}, "sales report", id)
}
