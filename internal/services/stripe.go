package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campus-canteen/internal/logger"
)

// StripeConfig represents Stripe checkout configuration
type StripeConfig struct {
	SecretKey string
	APIURL    string // defaults to https://api.stripe.com/v1
}

// StripeService creates Stripe Checkout sessions over the REST API
type StripeService struct {
	config  StripeConfig
	client  *http.Client
	baseURL string
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(config StripeConfig) *StripeService {
	baseURL := strings.TrimRight(config.APIURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}

	return &StripeService{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// StripeError represents an error response from Stripe
type StripeError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *StripeError) Error() string {
	return fmt.Sprintf("stripe error (%d %s): %s", e.StatusCode, e.Type, e.Message)
}

func (e *StripeError) Unwrap() error { return ErrPaymentProvider }

// encodeSessionForm builds the form body for POST /checkout/sessions.
func encodeSessionForm(req *CheckoutSessionRequest) url.Values {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)

	for i, item := range req.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", req.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmountMinor, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}
	return form
}

// CreateCheckoutSession creates a hosted checkout session and returns its URL
func (s *StripeService) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	log := logger.FromContext(ctx)

	body := encodeSessionForm(req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/checkout/sessions", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send checkout request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, s.handleAPIError(resp.StatusCode, bodyBytes)
	}

	var session CheckoutSession
	if err := json.Unmarshal(bodyBytes, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("checkout session %s has no url: %w", session.ID, ErrPaymentProvider)
	}

	log.Info("stripe checkout session created",
		"session_id", session.ID,
		"line_items", len(req.LineItems),
		"amount_minor", req.TotalMinor(),
		"currency", req.Currency,
	)

	return &session, nil
}

func (s *StripeService) handleAPIError(statusCode int, body []byte) error {
	var envelope struct {
		Error StripeError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return &StripeError{StatusCode: statusCode, Type: "api_error", Message: strings.TrimSpace(string(body))}
	}
	envelope.Error.StatusCode = statusCode
	return &envelope.Error
}
