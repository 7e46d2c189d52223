package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCallbackState = errors.New("invalid payment callback state")

// CallbackState signs the success URL so the callback can only complete a
// checkout started by the same user. A nil *CallbackState disables the check.
type CallbackState struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type callbackClaims struct {
	TotalMinor int64 `json:"total_minor"`
	jwt.RegisteredClaims
}

// NewCallbackState returns nil when secret is empty.
func NewCallbackState(secret string, ttl time.Duration) *CallbackState {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CallbackState{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID.
func (s *CallbackState) Issue(userID int, totalMinor int64) (string, error) {
	now := s.now()
	claims := callbackClaims{
		TotalMinor: totalMinor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			Issuer:    "canteen-checkout",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign callback state: %w", err)
	}
	return token, nil
}

// Verify checks the token signature, expiry, owner and the cart total it was issued for.
func (s *CallbackState) Verify(token string, userID int, totalMinor int64) error {
	if token == "" {
		return fmt.Errorf("missing state: %w", ErrInvalidCallbackState)
	}

	claims := &callbackClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("canteen-checkout"),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCallbackState, err)
	}

	if claims.Subject != strconv.Itoa(userID) {
		return fmt.Errorf("state belongs to another user: %w", ErrInvalidCallbackState)
	}
	if claims.TotalMinor != totalMinor {
		return fmt.Errorf("cart total changed since checkout: %w", ErrInvalidCallbackState)
	}
	return nil
}
