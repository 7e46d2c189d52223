package services

import (
	"context"
	"fmt"
	"sync"

	"campus-canteen/internal/logger"

	"github.com/google/uuid"
)

// mockHistorySize bounds how many session requests the mock remembers
const mockHistorySize = 50

// MockPaymentService approves every session by sending the customer straight
// to the success URL. Used when no Stripe key is configured.
type MockPaymentService struct {
	mu       sync.Mutex
	sessions []*CheckoutSessionRequest
}

func NewMockPaymentService() *MockPaymentService {
	return &MockPaymentService{}
}

// Sessions returns the most recent session requests, oldest first
func (s *MockPaymentService) Sessions() []*CheckoutSessionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*CheckoutSessionRequest(nil), s.sessions...)
}

func (s *MockPaymentService) remember(req *CheckoutSessionRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) == mockHistorySize {
		copy(s.sessions, s.sessions[1:])
		s.sessions = s.sessions[:mockHistorySize-1]
	}
	s.sessions = append(s.sessions, req)
}

func (s *MockPaymentService) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	if len(req.LineItems) == 0 {
		return nil, fmt.Errorf("no line items: %w", ErrPaymentProvider)
	}
	s.remember(req)

	id := "mock_" + uuid.NewString()
	logger.FromContext(ctx).Info("mock checkout session created", "session_id", id, "amount_minor", req.TotalMinor())

	return &CheckoutSession{ID: id, URL: req.SuccessURL}, nil
}

// NewPaymentService picks Stripe when a secret key is configured, the mock otherwise.
func NewPaymentService(config StripeConfig) PaymentService {
	if config.SecretKey == "" {
		logger.Warn("payment service: using mock (no Stripe secret key configured)")
		return NewMockPaymentService()
	}
	logger.Info("payment service: using Stripe checkout")
	return NewStripeService(config)
}
