package services

import (
	"context"
	"testing"

	"campus-canteen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_History(t *testing.T) {
	orders := newFakeOrders(map[int]float64{customer.UserID: 500, 9: 500})
	ctx := context.Background()
	for _, userID := range []int{customer.UserID, 9, customer.UserID} {
		_, err := orders.PlaceWalletOrder(ctx, &models.OrderCreateRequest{
			UserID:        userID,
			Status:        models.OrderPaid,
			PaymentMethod: models.PaymentWallet,
			Items:         []models.OrderItemRequest{{ProductID: 1, ProductName: "Samosa", Quantity: 1, Price: 20}},
		})
		require.NoError(t, err)
	}
	svc := NewOrderService(orders)

	mine, err := svc.History(ctx, customer)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 3, mine[0].ID, "newest first")

	_, err = svc.History(ctx, nil)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	all, err := svc.AllOrders(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.AllOrders(ctx, customer)
	assert.ErrorIs(t, err, models.ErrForbidden)
}
