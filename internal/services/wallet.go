package services

import (
	"context"
	"fmt"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/metrics"
	"campus-canteen/internal/models"
)

// WalletService credits user wallets on behalf of an admin
type WalletService struct {
	users   UserRepository
	metrics *metrics.Metrics
}

func NewWalletService(users UserRepository, m *metrics.Metrics) *WalletService {
	return &WalletService{users: users, metrics: m}
}

// Recharge adds rawAmount to the user's wallet and returns the updated user
// with the parsed amount. Malformed amounts count as 0.
func (s *WalletService) Recharge(ctx context.Context, p *models.Principal, userID int, rawAmount string) (*models.User, float64, error) {
	if !models.CanAdminister(p) {
		return nil, 0, models.ErrForbidden
	}

	amount := ParseAmount(rawAmount)
	if amount < 0 {
		return nil, 0, models.NewValidationError("amount", "amount cannot be negative")
	}
	if userID <= 0 {
		return nil, 0, models.ErrUserNotFound
	}

	user, err := s.users.Credit(ctx, userID, amount)
	if err != nil {
		return nil, 0, fmt.Errorf("recharge user %d: %w", userID, err)
	}

	s.metrics.ObserveRecharge(amount)
	logger.FromContext(ctx).Info("wallet recharged",
		"user_id", user.ID,
		"amount", amount,
		"balance", user.Wallet,
		"admin_id", p.UserID,
	)
	return user, amount, nil
}

// Users lists the accounts an admin can recharge
func (s *WalletService) Users(ctx context.Context, p *models.Principal) ([]*models.User, error) {
	if !models.CanAdminister(p) {
		return nil, models.ErrForbidden
	}
	return s.users.List(ctx)
}
