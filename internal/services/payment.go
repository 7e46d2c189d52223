package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// PaymentService creates hosted checkout sessions with an external provider
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
}

// LineItem is one priced entry sent to the provider
type LineItem struct {
	Name            string `json:"name"`
	UnitAmountMinor int64  `json:"unit_amount_minor"`
	Quantity        int    `json:"quantity"`
}

// CheckoutSessionRequest represents a hosted checkout request
type CheckoutSessionRequest struct {
	LineItems  []LineItem `json:"line_items"`
	Currency   string     `json:"currency"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
}

// CheckoutSession is the provider's answer: where to send the customer
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

var ErrPaymentProvider = errors.New("payment provider error")

// ToMinorUnits converts a price to integer minor units, truncating fractions of a unit.
func ToMinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Truncate(0).IntPart()
}

// TotalMinor sums the line items in minor units.
func (r *CheckoutSessionRequest) TotalMinor() int64 {
	return totalMinor(r.LineItems)
}

func totalMinor(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitAmountMinor * int64(item.Quantity)
	}
	return total
}
