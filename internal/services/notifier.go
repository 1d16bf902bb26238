package services

import (
	"context"
	"fmt"

	"canteen_manager/internal/models"
	"canteen_manager/pkg/whatsapp"
)

// OrderNotifier tells a customer their order can be picked up.
type OrderNotifier interface {
	OrderReady(ctx context.Context, order *models.Order, customer *models.User) error
}

type whatsappNotifier struct {
	client *whatsapp.Client
}

func NewWhatsAppNotifier(client *whatsapp.Client) OrderNotifier {
	return &whatsappNotifier{client: client}
}

func (n *whatsappNotifier) OrderReady(ctx context.Context, order *models.Order, customer *models.User) error {
	if customer.PhoneNumber == "" {
		return nil
	}
	msg := fmt.Sprintf("Hi %s, your order #%d (%s) is ready for pick-up.", customer.Name, order.ID, order.TotalAmount.StringFixed(2))
	if _, err := n.client.SendText(ctx, customer.PhoneNumber, msg); err != nil {
		return fmt.Errorf("notify order %d ready: %w", order.ID, err)
	}
	return nil
}

type noopNotifier struct{}

func NewNoopNotifier() OrderNotifier { return noopNotifier{} }

func (noopNotifier) OrderReady(context.Context, *models.Order, *models.User) error { return nil }
