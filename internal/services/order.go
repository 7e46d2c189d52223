package services

import (
	"context"

	"campus-canteen/internal/models"
)

// OrderService reads the order ledger
type OrderService struct {
	orders OrderRepository
}

func NewOrderService(orders OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// History returns the principal's own orders, newest first
func (s *OrderService) History(ctx context.Context, p *models.Principal) ([]*models.Order, error) {
	if !models.CanUseShop(p) {
		return nil, models.ErrUnauthorized
	}
	return s.orders.ListByUser(ctx, p.UserID)
}

// AllOrders returns every order with its customer, newest first
func (s *OrderService) AllOrders(ctx context.Context, p *models.Principal) ([]*models.Order, error) {
	if !models.CanAdminister(p) {
		return nil, models.ErrForbidden
	}
	return s.orders.ListAll(ctx)
}
