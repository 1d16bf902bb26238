package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// parseDate reads a calendar day; empty means today (UTC), which only creates rely on.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return models.Day(time.Now()), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Validation("date %q must look like %s", s, DateLayout)
	}
	return t, nil
}

type ExpenseInput struct {
	CanteenID   *uint           `json:"canteen_id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
}

type ExpenseUpdate struct {
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	ExpenseDate *string          `json:"expense_date"`
}

type ExpenseQuery struct {
	CanteenID *uint
	From      string
	To        string // inclusive day
}

type ExpenseService interface {
	ListExpenses(ctx context.Context, actor *access.Actor, q ExpenseQuery) ([]models.Expense, error)
	GetExpense(ctx context.Context, actor *access.Actor, id uint) (*models.Expense, error)
	CreateExpense(ctx context.Context, actor *access.Actor, in ExpenseInput) (*models.Expense, error)
	UpdateExpense(ctx context.Context, actor *access.Actor, id uint, in ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, actor *access.Actor, id uint) error
}

type expenseService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewExpenseService(store repository.Store, logger *slog.Logger) ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &expenseService{store: store, logger: logger}
}

func (s *expenseService) ListExpenses(ctx context.Context, actor *access.Actor, q ExpenseQuery) ([]models.Expense, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	scoped, err := access.ScopeCanteenFilter(actor, q.CanteenID)
	if err != nil {
		return nil, err
	}
	filter := repository.ExpenseFilter{CanteenID: scoped}
	if q.From != "" {
		if filter.From, err = parseDate(q.From); err != nil {
			return nil, err
		}
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return nil, err
		}
		filter.To = to.AddDate(0, 0, 1)
	}
	return s.store.Expenses().List(ctx, filter)
}

func (s *expenseService) load(ctx context.Context, actor *access.Actor, id uint) (*models.Expense, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	e, err := s.store.Expenses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckCanteen(actor, e.CanteenID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *expenseService) GetExpense(ctx context.Context, actor *access.Actor, id uint) (*models.Expense, error) {
	return s.load(ctx, actor, id)
}

func validateExpense(e *models.Expense) error {
	if strings.TrimSpace(e.Description) == "" {
		return apperr.Validation("expense description is required")
	}
	if !e.Amount.IsPositive() {
		return apperr.Validation("expense amount must be greater than zero")
	}
	return nil
}

func (s *expenseService) CreateExpense(ctx context.Context, actor *access.Actor, in ExpenseInput) (*models.Expense, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	canteenID, err := access.ScopeCanteen(actor, in.CanteenID)
	if err != nil {
		return nil, err
	}
	day, err := parseDate(in.ExpenseDate)
	if err != nil {
		return nil, err
	}
	e := &models.Expense{
		CanteenID:   canteenID,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		ExpenseDate: day,
		CreatedBy:   actor.UserID,
	}
	if err := validateExpense(e); err != nil {
		return nil, err
	}
	if err := requireCanteen(ctx, s.store, canteenID); err != nil {
		return nil, err
	}
	if err := s.store.Expenses().Create(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("expense recorded", "expense_id", e.ID, "canteen_id", canteenID, "amount", e.Amount.StringFixed(2))
	return e, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, actor *access.Actor, id uint, in ExpenseUpdate) (*models.Expense, error) {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		e.Category = strings.TrimSpace(*in.Category)
	}
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if in.ExpenseDate != nil {
		if strings.TrimSpace(*in.ExpenseDate) == "" {
			return nil, apperr.Validation("expense_date must not be empty")
		}
		if e.ExpenseDate, err = parseDate(*in.ExpenseDate); err != nil {
			return nil, err
		}
	}
	if err := validateExpense(e); err != nil {
		return nil, err
	}
	if err := s.store.Expenses().Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, actor *access.Actor, id uint) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	return s.store.Expenses().Delete(ctx, id)
}
