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

type InventoryInput struct {
	CanteenID    *uint           `json:"canteen_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     float64         `json:"quantity"`
	ReorderLevel float64         `json:"reorder_level"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

type InventoryUpdate struct {
	Name         *string          `json:"name"`
	Unit         *string          `json:"unit"`
	Quantity     *float64         `json:"quantity"`
	ReorderLevel *float64         `json:"reorder_level"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit"`
}

type InventoryService interface {
	ListInventory(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.InventoryItem, error)
	// GetLowStock lists the canteen's items at or below their reorder level.
	GetLowStock(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, actor *access.Actor, id uint) (*models.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, actor *access.Actor, in InventoryInput) (*models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, actor *access.Actor, id uint, in InventoryUpdate) (*models.InventoryItem, error)
	AdjustQuantity(ctx context.Context, actor *access.Actor, id uint, delta float64) (*models.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, actor *access.Actor, id uint) error
}

type inventoryService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewInventoryService(store repository.Store, logger *slog.Logger) InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &inventoryService{store: store, logger: logger}
}

func requireCanteen(ctx context.Context, store repository.Store, id uint) error {
	_, err := store.Canteens().GetByID(ctx, id)
	return err
}

func (s *inventoryService) ListInventory(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.InventoryItem, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	scoped, err := access.ScopeCanteenFilter(actor, canteenID)
	if err != nil {
		return nil, err
	}
	return s.store.Inventory().List(ctx, scoped)
}

func (s *inventoryService) GetLowStock(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.InventoryItem, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	id, err := access.ScopeCanteen(actor, canteenID)
	if err != nil {
		return nil, err
	}
	return s.store.Inventory().ListLowStock(ctx, id)
}

func (s *inventoryService) load(ctx context.Context, store repository.Store, actor *access.Actor, id uint) (*models.InventoryItem, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	item, err := store.Inventory().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckCanteen(actor, item.CanteenID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) GetInventoryItem(ctx context.Context, actor *access.Actor, id uint) (*models.InventoryItem, error) {
	return s.load(ctx, s.store, actor, id)
}

func validateStock(item *models.InventoryItem) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return apperr.Validation("inventory item name is required")
	case item.Quantity < 0:
		return apperr.Validation("quantity cannot be negative")
	case item.ReorderLevel < 0:
		return apperr.Validation("reorder level cannot be negative")
	case item.CostPerUnit.IsNegative():
		return apperr.Validation("cost per unit cannot be negative")
	}
	return nil
}

func (s *inventoryService) CreateInventoryItem(ctx context.Context, actor *access.Actor, in InventoryInput) (*models.InventoryItem, error) {
	if err := access.RequireStaff(actor); err != nil {
		return nil, err
	}
	canteenID, err := access.ScopeCanteen(actor, in.CanteenID)
	if err != nil {
		return nil, err
	}
	item := &models.InventoryItem{
		CanteenID:    canteenID,
		Name:         strings.TrimSpace(in.Name),
		Unit:         strings.TrimSpace(in.Unit),
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		CostPerUnit:  in.CostPerUnit,
	}
	if err := validateStock(item); err != nil {
		return nil, err
	}
	if err := requireCanteen(ctx, s.store, canteenID); err != nil {
		return nil, err
	}
	if err := s.store.Inventory().Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("inventory item created", "inventory_id", item.ID, "canteen_id", canteenID)
	return item, nil
}

func (s *inventoryService) UpdateInventoryItem(ctx context.Context, actor *access.Actor, id uint, in InventoryUpdate) (*models.InventoryItem, error) {
	item, err := s.load(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.CostPerUnit != nil {
		item.CostPerUnit = *in.CostPerUnit
	}
	if err := validateStock(item); err != nil {
		return nil, err
	}
	if err := s.store.Inventory().Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustQuantity books stock in (positive delta) or out (negative delta).
func (s *inventoryService) AdjustQuantity(ctx context.Context, actor *access.Actor, id uint, delta float64) (*models.InventoryItem, error) {
	if delta == 0 {
		return nil, apperr.Validation("delta must not be zero")
	}
	var item *models.InventoryItem
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		it, err := s.load(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if it.Quantity+delta < 0 {
			return apperr.Validation("only %g %s of %s in stock", it.Quantity, it.Unit, it.Name)
		}
		it.Quantity += delta
		if err := tx.Inventory().Update(ctx, it); err != nil {
			return err
		}
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	if item.IsLowStock() {
		s.logger.Warn("inventory low", "inventory_id", item.ID, "canteen_id", item.CanteenID, "quantity", item.Quantity, "reorder_level", item.ReorderLevel)
	}
	return item, nil
}

func (s *inventoryService) DeleteInventoryItem(ctx context.Context, actor *access.Actor, id uint) error {
	if _, err := s.load(ctx, s.store, actor, id); err != nil {
		return err
	}
	return s.store.Inventory().Delete(ctx, id)
}
