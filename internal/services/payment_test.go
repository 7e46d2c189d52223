package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{20, 2000},
		{10.5, 1050},
		{0.29, 29},
		{19.999, 1999},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.price), "price %v", tt.price)
	}
}

func sampleSessionRequest() *CheckoutSessionRequest {
	return &CheckoutSessionRequest{
		LineItems: []LineItem{
			{Name: "Samosa", UnitAmountMinor: 2000, Quantity: 2},
			{Name: "Tea", UnitAmountMinor: 1000, Quantity: 1},
		},
		Currency:   "inr",
		SuccessURL: "http://canteen.test/payment_success",
		CancelURL:  "http://canteen.test/cart",
	}
}

func TestStripeService_CreateCheckoutSession(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "cs_test_1", "url": "https://checkout.stripe.test/pay/cs_test_1"})
	}))
	defer server.Close()

	svc := NewStripeService(StripeConfig{SecretKey: "sk_test_123", APIURL: server.URL + "/v1/"})
	session, err := svc.CreateCheckoutSession(context.Background(), sampleSessionRequest())
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.test/pay/cs_test_1", session.URL)

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "card", form.Get("payment_method_types[0]"))
	assert.Equal(t, "http://canteen.test/payment_success", form.Get("success_url"))
	assert.Equal(t, "http://canteen.test/cart", form.Get("cancel_url"))
	assert.Equal(t, "Samosa", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "2000", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "inr", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "Tea", form.Get("line_items[1][price_data][product_data][name]"))
	assert.Equal(t, "1", form.Get("line_items[1][quantity]"))
}

func TestStripeService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	}))
	defer server.Close()

	svc := NewStripeService(StripeConfig{SecretKey: "sk_bad", APIURL: server.URL})
	_, err := svc.CreateCheckoutSession(context.Background(), sampleSessionRequest())

	var stripeErr *StripeError
	require.ErrorAs(t, err, &stripeErr)
	assert.Equal(t, http.StatusUnauthorized, stripeErr.StatusCode)
	assert.Equal(t, "invalid_request_error", stripeErr.Type)
	assert.ErrorIs(t, err, ErrPaymentProvider)
}

func TestStripeService_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewStripeService(StripeConfig{SecretKey: "sk", APIURL: server.URL}).CreateCheckoutSession(context.Background(), sampleSessionRequest())
	var stripeErr *StripeError
	require.ErrorAs(t, err, &stripeErr)
	assert.Equal(t, "bad gateway", stripeErr.Message)
}

func TestNewPaymentService(t *testing.T) {
	_, isMock := NewPaymentService(StripeConfig{}).(*MockPaymentService)
	assert.True(t, isMock)

	_, isStripe := NewPaymentService(StripeConfig{SecretKey: "sk_test"}).(*StripeService)
	assert.True(t, isStripe)
}

func TestMockPaymentService(t *testing.T) {
	svc := NewMockPaymentService()

	session, err := svc.CreateCheckoutSession(context.Background(), sampleSessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "http://canteen.test/payment_success", session.URL)
	assert.Contains(t, session.ID, "mock_")

	_, err = svc.CreateCheckoutSession(context.Background(), &CheckoutSessionRequest{})
	assert.ErrorIs(t, err, ErrPaymentProvider)
}

func TestMockPaymentService_ConcurrentSessions(t *testing.T) {
	svc := NewMockPaymentService()

	var wg sync.WaitGroup
	for i := 0; i < 2*mockHistorySize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateCheckoutSession(context.Background(), sampleSessionRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Sessions(), mockHistorySize)
}

func TestCallbackState(t *testing.T) {
	assert.Nil(t, NewCallbackState("", time.Hour))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	state := NewCallbackState("secret", 10*time.Minute)
	state.now = func() time.Time { return now }

	token, err := state.Issue(2, 5000)
	require.NoError(t, err)

	assert.NoError(t, state.Verify(token, 2, 5000))
	assert.ErrorIs(t, state.Verify(token, 3, 5000), ErrInvalidCallbackState)
	assert.ErrorIs(t, state.Verify(token, 2, 4000), ErrInvalidCallbackState)
	assert.ErrorIs(t, state.Verify("", 2, 5000), ErrInvalidCallbackState)

	other := NewCallbackState("other-secret", 10*time.Minute)
	other.now = state.now
	assert.ErrorIs(t, other.Verify(token, 2, 5000), ErrInvalidCallbackState)

	now = now.Add(11 * time.Minute)
	assert.ErrorIs(t, state.Verify(token, 2, 5000), ErrInvalidCallbackState)
}
