package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/metrics"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderLine struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
	// Price, when sent, must match the current menu price.
	Price *decimal.Decimal `json:"price,omitempty"`
}

type PlaceOrderInput struct {
	Items       []OrderLine      `json:"items"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Notes       string           `json:"notes"`
}

type OrderQuery struct {
	CanteenID  *uint
	Status     string
	ActiveOnly bool
}

type RatingSummary struct {
	CanteenID uint    `json:"canteen_id"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, actor *access.Actor, in PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, actor *access.Actor, q OrderQuery) ([]models.Order, error)
	UpdateStatus(ctx context.Context, actor *access.Actor, id uint, status string) (*models.Order, error)
	CancelOrder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error)
	CompleteOrder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error)
	Reorder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error)

	RateOrder(ctx context.Context, actor *access.Actor, orderID uint, rating int, comment string) (*models.OrderRating, error)
	GetRating(ctx context.Context, actor *access.Actor, orderID uint) (*models.OrderRating, error)
	ListRatings(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.OrderRating, error)
	CanteenRating(ctx context.Context, actor *access.Actor, canteenID uint) (*RatingSummary, error)
}

type orderService struct {
	store    repository.Store
	notifier OrderNotifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewOrderService(store repository.Store, notifier OrderNotifier, m *metrics.Metrics, logger *slog.Logger) OrderService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{store: store, notifier: notifier, metrics: m, logger: logger}
}

func (s *orderService) PlaceOrder(ctx context.Context, actor *access.Actor, in PlaceOrderInput) (*models.Order, error) {
	if err := access.Authorize(actor, models.RoleCustomer); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	for i, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("item %d: quantity must be positive", i+1)
		}
	}

	var order *models.Order
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		built, err := priceLines(ctx, tx, in.Items)
		if err != nil {
			return err
		}
		if in.TotalAmount != nil && !in.TotalAmount.Equal(built.TotalAmount) {
			return apperr.Validation("total %s does not match computed total %s", in.TotalAmount.StringFixed(2), built.TotalAmount.StringFixed(2))
		}
		built.UserID = actor.UserID
		built.Notes = in.Notes
		if err := tx.Orders().Create(ctx, built); err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced(order.CanteenID)
	s.logger.Info("order placed", "order_id", order.ID, "user_id", actor.UserID, "canteen_id", order.CanteenID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

// priceLines resolves every line against the menu and returns an unsaved order in
// the received state whose total is recomputed from menu prices.
func priceLines(ctx context.Context, tx repository.Store, lines []OrderLine) (*models.Order, error) {
	order := &models.Order{Status: models.OrderReceived, TotalAmount: decimal.Zero}
	for i, line := range lines {
		item, err := tx.MenuItems().GetByID(ctx, line.MenuItemID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("item %d: menu item %d does not exist", i+1, line.MenuItemID)
		}
		if err != nil {
			return nil, err
		}
		if !item.IsAvailable {
			return nil, apperr.Validation("item %d: %s is not available", i+1, item.Name)
		}
		if i == 0 {
			order.CanteenID = item.CanteenID
		} else if item.CanteenID != order.CanteenID {
			return nil, apperr.Validation("all items must come from the same canteen")
		}
		if line.Price != nil && !line.Price.Equal(item.Price) {
			return nil, apperr.Validation("item %d: price %s does not match menu price %s", i+1, line.Price.StringFixed(2), item.Price.StringFixed(2))
		}

		oi := models.OrderItem{MenuItemID: item.ID, Name: item.Name, Quantity: line.Quantity, Price: item.Price}
		order.Items = append(order.Items, oi)
		order.TotalAmount = order.TotalAmount.Add(oi.LineTotal())
	}
	return order, nil
}

// canView applies the read side of the role gate to a single order.
func canView(actor *access.Actor, order *models.Order) error {
	switch {
	case actor == nil:
		return apperr.ErrUnauthenticated
	case actor.IsAdmin():
		return nil
	case actor.IsStaff():
		return access.CheckCanteen(actor, order.CanteenID)
	case order.UserID != actor.UserID:
		return apperr.Forbidden("order %d belongs to another customer", order.ID)
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if actor.IsStaff() {
		if _, err := access.StaffCanteen(actor); err != nil {
			return nil, err
		}
	}
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canView(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor *access.Actor, q OrderQuery) ([]models.Order, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	var filter repository.OrderFilter
	if actor.IsCustomer() {
		filter.UserID = &actor.UserID
		filter.CanteenID = q.CanteenID
	} else {
		scoped, err := access.ScopeCanteenFilter(actor, q.CanteenID)
		if err != nil {
			return nil, err
		}
		filter.CanteenID = scoped
	}

	switch {
	case q.Status != "":
		st, ok := models.ParseOrderStatus(q.Status)
		if !ok {
			return nil, apperr.Validation("unknown order status %q", q.Status)
		}
		filter.Statuses = []models.OrderStatus{st}
	case q.ActiveOnly:
		filter.Statuses = []models.OrderStatus{models.OrderReceived, models.OrderPreparing, models.OrderReady}
	}
	return s.store.Orders().List(ctx, filter)
}

func (s *orderService) UpdateStatus(ctx context.Context, actor *access.Actor, id uint, status string) (*models.Order, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	target, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.Validation("unknown order status %q", status)
	}
	return s.transition(ctx, actor, id, target, false)
}

func (s *orderService) CancelOrder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.transition(ctx, actor, id, models.OrderCancelled, true)
}

func (s *orderService) CompleteOrder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.transition(ctx, actor, id, models.OrderCompleted, true)
}

// transition performs one lifecycle step. The read, the checks and the versioned
// write share a transaction; losing the version race yields apperr.ErrConflict.
func (s *orderService) transition(ctx context.Context, actor *access.Actor, id uint, target models.OrderStatus, ownerOnly bool) (*models.Order, error) {
	if actor.IsStaff() {
		if _, err := access.StaffCanteen(actor); err != nil {
			return nil, err
		}
	}

	var (
		from    models.OrderStatus
		updated *models.Order
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !models.CanTransition(order.Status, target) {
			return fmt.Errorf("%w: order %d cannot go from %s to %s", apperr.ErrInvalidTransition, order.ID, order.Status, target)
		}
		if err := authorizeTransition(actor, order, target, ownerOnly); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order.ID, order.Version, target); err != nil {
			return err
		}
		from = order.Status
		updated, err = tx.Orders().GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(from, target)
	s.logger.Info("order status changed", "order_id", id, "from", from, "to", target, "user_id", actor.UserID)
	if target == models.OrderReady {
		s.notifyReady(ctx, updated)
	}
	return updated, nil
}

func authorizeTransition(actor *access.Actor, order *models.Order, target models.OrderStatus, ownerOnly bool) error {
	if ownerOnly && order.UserID != actor.UserID {
		return apperr.Forbidden("order %d belongs to another customer", order.ID)
	}
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsStaff():
		return access.CheckCanteen(actor, order.CanteenID)
	case actor.IsCustomer():
		if order.UserID != actor.UserID {
			return apperr.Forbidden("order %d belongs to another customer", order.ID)
		}
		if !models.CustomerCanTransition(order.Status, target) {
			return apperr.Forbidden("customers may not move an order from %s to %s", order.Status, target)
		}
		return nil
	}
	return apperr.Forbidden("role %s may not change orders", actor.Role)
}

func (s *orderService) notifyReady(ctx context.Context, order *models.Order) {
	customer, err := s.store.Users().GetByID(ctx, order.UserID)
	if err != nil {
		s.logger.Warn("order ready: customer lookup failed", "order_id", order.ID, "error", err)
		return
	}
	if err := s.notifier.OrderReady(ctx, order, customer); err != nil {
		s.logger.Warn("order ready notification failed", "order_id", order.ID, "user_id", customer.ID, "error", err)
	}
}

// Reorder places a fresh order with the lines and prices of an earlier one.
func (s *orderService) Reorder(ctx context.Context, actor *access.Actor, id uint) (*models.Order, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}

	var order *models.Order
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		source, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if source.UserID != actor.UserID {
			return apperr.Forbidden("order %d belongs to another customer", source.ID)
		}

		fresh := &models.Order{
			UserID:      actor.UserID,
			CanteenID:   source.CanteenID,
			Status:      models.OrderReceived,
			TotalAmount: decimal.Zero,
			Notes:       source.Notes,
		}
		for _, it := range source.Items {
			line := models.OrderItem{MenuItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity, Price: it.Price}
			fresh.Items = append(fresh.Items, line)
			fresh.TotalAmount = fresh.TotalAmount.Add(line.LineTotal())
		}
		if len(fresh.Items) == 0 {
			return fmt.Errorf("%w: order %d has no items", apperr.ErrInvalidState, source.ID)
		}
		if err := tx.Orders().Create(ctx, fresh); err != nil {
			return err
		}
		order = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced(order.CanteenID)
	s.logger.Info("order re-placed", "order_id", order.ID, "source_order_id", id, "user_id", actor.UserID)
	return order, nil
}

func (s *orderService) RateOrder(ctx context.Context, actor *access.Actor, orderID uint, rating int, comment string) (*models.OrderRating, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, apperr.Validation("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, apperr.Forbidden("only the customer who placed order %d may rate it", order.ID)
	}
	if order.Status != models.OrderCompleted {
		return nil, fmt.Errorf("%w: order %d is %s, only completed orders can be rated", apperr.ErrInvalidState, order.ID, order.Status)
	}

	r := &models.OrderRating{
		OrderID:   order.ID,
		UserID:    actor.UserID,
		CanteenID: order.CanteenID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.store.Ratings().Upsert(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("order rated", "order_id", order.ID, "user_id", actor.UserID, "rating", rating)
	return r, nil
}

func (s *orderService) GetRating(ctx context.Context, actor *access.Actor, orderID uint) (*models.OrderRating, error) {
	order, err := s.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return s.store.Ratings().GetByOrderID(ctx, order.ID)
}

func (s *orderService) ListRatings(ctx context.Context, actor *access.Actor, canteenID *uint) ([]models.OrderRating, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	filter := repository.RatingFilter{CanteenID: canteenID}
	if actor.IsCustomer() {
		filter.UserID = &actor.UserID
	} else {
		scoped, err := access.ScopeCanteenFilter(actor, canteenID)
		if err != nil {
			return nil, err
		}
		filter.CanteenID = scoped
	}
	return s.store.Ratings().List(ctx, filter)
}

// CanteenRating is public to any signed-in user.
func (s *orderService) CanteenRating(ctx context.Context, actor *access.Actor, canteenID uint) (*RatingSummary, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if _, err := s.store.Canteens().GetByID(ctx, canteenID); err != nil {
		return nil, err
	}
	ratings, err := s.store.Ratings().List(ctx, repository.RatingFilter{CanteenID: &canteenID})
	if err != nil {
		return nil, err
	}
	summary := &RatingSummary{CanteenID: canteenID, Count: len(ratings)}
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Rating
		}
		summary.Average = float64(sum) / float64(len(ratings))
	}
	return summary, nil
}
