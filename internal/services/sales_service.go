package services

import (
	"context"
	"log/slog"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"

	"github.com/shopspring/decimal"
)

type SalesReportInput struct {
	CanteenID    *uint           `json:"canteen_id"`
	Date         string          `json:"date"`
	TotalOrders  int             `json:"total_orders"`
	ItemsSold    int             `json:"items_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Notes        string          `json:"notes"`
}

type SalesService interface {
	ListReports(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.SalesReport, error)
	GetReport(ctx context.Context, actor *access.Actor, id uint) (*models.SalesReport, error)
	// UpsertReport stores a manually entered report, replacing the one for the same day.
	UpsertReport(ctx context.Context, actor *access.Actor, in SalesReportInput) (*models.SalesReport, error)
	DeleteReport(ctx context.Context, actor *access.Actor, id uint) error
	// GenerateDailyReport totals the completed orders placed on date.
	GenerateDailyReport(ctx context.Context, actor *access.Actor, canteenID *uint, date string) (*models.SalesReport, error)
}

type salesService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewSalesService(store repository.Store, logger *slog.Logger) SalesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &salesService{store: store, logger: logger}
}

func (s *salesService) ListReports(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.SalesReport, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	scoped, err := access.ScopeCanteenFilter(actor, canteenID)
	if err != nil {
		return nil, err
	}
	return s.store.SalesReports().List(ctx, scoped)
}

func (s *salesService) GetReport(ctx context.Context, actor *access.Actor, id uint) (*models.SalesReport, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	r, err := s.store.SalesReports().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckCanteen(actor, r.CanteenID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *salesService) UpsertReport(ctx context.Context, actor *access.Actor, in SalesReportInput) (*models.SalesReport, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	canteenID, err := access.ScopeCanteen(actor, in.CanteenID)
	if err != nil {
		return nil, err
	}
	day, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.TotalOrders < 0 || in.ItemsSold < 0 || in.TotalRevenue.IsNegative() {
		return nil, apperr.Validation("report figures cannot be negative")
	}
	if err := requireCanteen(ctx, s.store, canteenID); err != nil {
		return nil, err
	}
	r := &models.SalesReport{
		CanteenID:    canteenID,
		Date:         day,
		TotalOrders:  in.TotalOrders,
		ItemsSold:    in.ItemsSold,
		TotalRevenue: in.TotalRevenue,
		Notes:        in.Notes,
	}
	if err := s.store.SalesReports().Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *salesService) DeleteReport(ctx context.Context, actor *access.Actor, id uint) error {
	if _, err := s.GetReport(ctx, actor, id); err != nil {
		return err
	}
	return s.store.SalesReports().Delete(ctx, id)
}

func (s *salesService) GenerateDailyReport(ctx context.Context, actor *access.Actor, canteenID *uint, date string) (*models.SalesReport, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	id, err := access.ScopeCanteen(actor, canteenID)
	if err != nil {
		return nil, err
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if err := requireCanteen(ctx, s.store, id); err != nil {
		return nil, err
	}

	orders, err := s.store.Orders().List(ctx, repository.OrderFilter{
		CanteenID:   &id,
		Statuses:    []models.OrderStatus{models.OrderCompleted},
		CreatedFrom: day,
		CreatedTo:   day.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	report := &models.SalesReport{CanteenID: id, Date: day, TotalRevenue: decimal.Zero, Notes: "generated from completed orders"}
	for _, o := range orders {
		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(o.TotalAmount)
		for _, it := range o.Items {
			report.ItemsSold += it.Quantity
		}
	}
	if err := s.store.SalesReports().Upsert(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info("daily sales report generated", "canteen_id", id, "date", day.Format(DateLayout), "orders", report.TotalOrders, "revenue", report.TotalRevenue.StringFixed(2))
	return report, nil
}
