package services

import (
	"context"
	"log/slog"
	"strings"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"

	"github.com/shopspring/decimal"
)

type MenuQuery struct {
	CanteenID     *uint
	Category      string
	AvailableOnly bool
}

type MenuItemInput struct {
	CanteenID   *uint           `json:"canteen_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	// IsAvailable defaults to true.
	IsAvailable *bool `json:"is_available"`
}

type MenuItemUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	IsAvailable *bool            `json:"is_available"`
}

type MenuService interface {
	ListMenu(ctx context.Context, actor *access.Actor, q MenuQuery) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, actor *access.Actor, id uint) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, actor *access.Actor, in MenuItemInput) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, actor *access.Actor, id uint, in MenuItemUpdate) (*models.MenuItem, error)
	SetAvailability(ctx context.Context, actor *access.Actor, id uint, available bool) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, actor *access.Actor, id uint) error
}

type menuService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewMenuService(store repository.Store, logger *slog.Logger) MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &menuService{store: store, logger: logger}
}

func parseCategory(s string) (models.MenuCategory, error) {
	c := models.MenuCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", apperr.Validation("unknown menu category %q", s)
	}
	return c, nil
}

func validPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return apperr.Validation("price must be greater than zero")
	}
	return nil
}

func (s *menuService) ListMenu(ctx context.Context, actor *access.Actor, q MenuQuery) ([]models.MenuItem, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	filter := repository.MenuFilter{CanteenID: q.CanteenID, AvailableOnly: q.AvailableOnly || actor.IsCustomer()}
	if q.Category != "" {
		c, err := parseCategory(q.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = c
	}
	return s.store.MenuItems().List(ctx, filter)
}

func (s *menuService) GetMenuItem(ctx context.Context, actor *access.Actor, id uint) (*models.MenuItem, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	item, err := s.store.MenuItems().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsCustomer() && !item.IsAvailable {
		return nil, apperr.NotFound("menu item", id)
	}
	return item, nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, actor *access.Actor, in MenuItemInput) (*models.MenuItem, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	canteenID, err := access.ScopeCanteen(actor, in.CanteenID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("menu item name is required")
	}
	if err := validPrice(in.Price); err != nil {
		return nil, err
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		CanteenID:   canteenID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Category:    category,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.store.MenuItems().Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("menu item created", "menu_item_id", item.ID, "canteen_id", canteenID, "by", actor.UserID)
	return item, nil
}

// loadOwned fetches a menu item the actor may edit.
func (s *menuService) loadOwned(ctx context.Context, actor *access.Actor, id uint) (*models.MenuItem, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	item, err := s.store.MenuItems().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckCanteen(actor, item.CanteenID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, actor *access.Actor, id uint, in MenuItemUpdate) (*models.MenuItem, error) {
	item, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("menu item name is required")
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return nil, err
		}
		item.Price = *in.Price
	}
	if in.Category != nil {
		c, err := parseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		item.Category = c
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.store.MenuItems().Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) SetAvailability(ctx context.Context, actor *access.Actor, id uint, available bool) (*models.MenuItem, error) {
	return s.UpdateMenuItem(ctx, actor, id, MenuItemUpdate{IsAvailable: &available})
}

func (s *menuService) DeleteMenuItem(ctx context.Context, actor *access.Actor, id uint) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.MenuItems().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("menu item deleted", "menu_item_id", id, "by", actor.UserID)
	return nil
}
