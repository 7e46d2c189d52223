package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"campus-canteen/internal/events"
	"campus-canteen/internal/logger"
	"campus-canteen/internal/metrics"
	"campus-canteen/internal/models"
)

// CheckoutConfig holds the settings the checkout paths need
type CheckoutConfig struct {
	BaseURL  string
	Currency string
	// State signs the card success URL. Nil leaves the callback unverified.
	State *CallbackState
}

// CheckoutService turns a cart into an order, paid from the wallet or by card
type CheckoutService struct {
	carts     *CartService
	orders    OrderRepository
	payments  PaymentService
	publisher events.Publisher
	metrics   *metrics.Metrics
	config    CheckoutConfig
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts *CartService,
	orders OrderRepository,
	payments PaymentService,
	publisher events.Publisher,
	m *metrics.Metrics,
	config CheckoutConfig,
) *CheckoutService {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Currency == "" {
		config.Currency = "inr"
	}
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		metrics:   m,
		config:    config,
	}
}

func (s *CheckoutService) priced(ctx context.Context, p *models.Principal, cart *models.Cart) (*models.CartView, error) {
	if !models.CanUseShop(p) {
		return nil, models.ErrUnauthorized
	}
	view, err := s.carts.View(ctx, cart)
	if err != nil {
		return nil, err
	}
	if view.IsEmpty() {
		return nil, models.ErrEmptyCart
	}
	return view, nil
}

// WalletCheckout pays for the cart from the principal's wallet. On any
// failure the wallet and the cart are left as they were.
func (s *CheckoutService) WalletCheckout(ctx context.Context, p *models.Principal, cart *models.Cart) (*models.Order, error) {
	view, err := s.priced(ctx, p, cart)
	if err != nil {
		s.metrics.ObserveCheckout(string(models.PaymentWallet), outcome(err), 0)
		return nil, err
	}

	order, err := s.orders.PlaceWalletOrder(ctx, &models.OrderCreateRequest{
		UserID:        p.UserID,
		Status:        models.OrderPaid,
		PaymentMethod: models.PaymentWallet,
		Items:         view.OrderItems(),
	})
	if err != nil {
		s.metrics.ObserveCheckout(string(models.PaymentWallet), outcome(err), view.Total)
		return nil, err
	}

	cart.Clear()
	s.committed(ctx, order)
	return order, nil
}

// StartCardCheckout asks the payment provider for a hosted session and
// returns it. Nothing is persisted until the success callback.
func (s *CheckoutService) StartCardCheckout(ctx context.Context, p *models.Principal, cart *models.Cart) (*CheckoutSession, error) {
	view, err := s.priced(ctx, p, cart)
	if err != nil {
		s.metrics.ObserveCheckout(string(models.PaymentCard), outcome(err), 0)
		return nil, err
	}

	req := &CheckoutSessionRequest{
		LineItems: lineItems(view),
		Currency:  s.config.Currency,
		CancelURL: s.config.BaseURL + "/cart",
	}

	success := s.config.BaseURL + "/payment_success"
	if s.config.State != nil {
		token, err := s.config.State.Issue(p.UserID, req.TotalMinor())
		if err != nil {
			return nil, err
		}
		success += "?" + url.Values{"state": {token}}.Encode()
	}
	req.SuccessURL = success

	session, err := s.payments.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.metrics.ObserveCheckout(string(models.PaymentCard), "provider_error", 0)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.metrics.ObserveCheckout(string(models.PaymentCard), "redirected", 0)
	return session, nil
}

// CompleteCardCheckout records the order after the provider redirects back.
// The cart is re-read and re-priced here; no payment reference is checked
// unless callback state signing is configured.
func (s *CheckoutService) CompleteCardCheckout(ctx context.Context, p *models.Principal, cart *models.Cart, state string) (*models.Order, error) {
	view, err := s.priced(ctx, p, cart)
	if err != nil {
		return nil, err
	}

	if s.config.State != nil {
		if err := s.config.State.Verify(state, p.UserID, totalMinor(lineItems(view))); err != nil {
			s.metrics.ObserveCheckout(string(models.PaymentCard), "invalid_state", 0)
			return nil, err
		}
	}

	order, err := s.orders.Create(ctx, &models.OrderCreateRequest{
		UserID:        p.UserID,
		Status:        models.OrderPaid,
		PaymentMethod: models.PaymentCard,
		Items:         view.OrderItems(),
	})
	if err != nil {
		s.metrics.ObserveCheckout(string(models.PaymentCard), outcome(err), view.Total)
		return nil, err
	}

	cart.Clear()
	s.committed(ctx, order)
	return order, nil
}

func lineItems(view *models.CartView) []LineItem {
	items := make([]LineItem, 0, len(view.Lines))
	for _, line := range view.Lines {
		items = append(items, LineItem{
			Name:            line.Product.Name,
			UnitAmountMinor: ToMinorUnits(line.Product.Price),
			Quantity:        line.Quantity,
		})
	}
	return items
}

// committed runs after the order transaction. Publish failures are logged only.
func (s *CheckoutService) committed(ctx context.Context, order *models.Order) {
	log := logger.FromContext(ctx)
	s.metrics.ObserveCheckout(string(order.PaymentMethod), "success", order.TotalAmount)

	log.Info("order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"method", order.PaymentMethod,
		"total", order.TotalAmount,
	)

	if err := s.publisher.PublishOrder(ctx, events.NewOrderPlaced(order)); err != nil {
		log.Error("failed to publish order event", "order_id", order.ID, "error", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}
