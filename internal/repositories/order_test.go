package repositories

import (
	"context"
	"testing"

	"campus-canteen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walletRequest(userID int, items ...models.OrderItemRequest) *models.OrderCreateRequest {
	return &models.OrderCreateRequest{
		UserID:        userID,
		Status:        models.OrderPaid,
		PaymentMethod: models.PaymentWallet,
		Items:         items,
	}
}

func TestOrderRepository_PlaceWalletOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "pooja@example.com", 100)
	samosa := createTestProduct(t, db, "Samosa", 20)
	tea := createTestProduct(t, db, "Tea", 10)

	repo := NewOrderRepository(db)
	order, err := repo.PlaceWalletOrder(ctx, walletRequest(user.ID,
		models.OrderItemRequest{ProductID: samosa.ID, ProductName: "Samosa", Quantity: 2, Price: 20},
		models.OrderItemRequest{ProductID: tea.ID, ProductName: "Tea", Quantity: 1, Price: 10},
	))
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.TotalAmount)
	assert.Equal(t, models.OrderPaid, order.Status)
	assert.Equal(t, models.PaymentWallet, order.PaymentMethod)
	require.Len(t, order.Items, 2)
	assert.Equal(t, order.TotalAmount, order.ItemsTotal())

	after, err := NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, after.Wallet)
}

func TestOrderRepository_PlaceWalletOrder_InsufficientFundsRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "broke@example.com", 5)
	samosa := createTestProduct(t, db, "Samosa", 20)

	repo := NewOrderRepository(db)
	_, err := repo.PlaceWalletOrder(ctx, walletRequest(user.ID,
		models.OrderItemRequest{ProductID: samosa.ID, ProductName: "Samosa", Quantity: 2, Price: 20},
	))
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	after, err := NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, after.Wallet)

	orders, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_PlaceWalletOrder_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.PlaceWalletOrder(context.Background(), walletRequest(999,
		models.OrderItemRequest{ProductID: 1, ProductName: "Ghost", Quantity: 1, Price: 1},
	))
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestOrderRepository_PlaceWalletOrder_ItemFailureRestoresWallet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "atomic@example.com", 100)
	repo := NewOrderRepository(db)

	// product 999 violates the order_items foreign key after the debit ran
	_, err := repo.PlaceWalletOrder(ctx, walletRequest(user.ID,
		models.OrderItemRequest{ProductID: 999, ProductName: "Ghost", Quantity: 1, Price: 10},
	))
	require.Error(t, err)

	after, err := NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, after.Wallet)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOrderRepository_CreateCardOrderLeavesWallet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "card@example.com", 0)
	rice := createTestProduct(t, db, "Fried Rice", 60)

	repo := NewOrderRepository(db)
	order, err := repo.Create(ctx, &models.OrderCreateRequest{
		UserID:        user.ID,
		Status:        models.OrderPaid,
		PaymentMethod: models.PaymentCard,
		Items:         []models.OrderItemRequest{{ProductID: rice.ID, ProductName: "Fried Rice", Quantity: 1, Price: 60}},
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, order.TotalAmount)
	assert.Equal(t, models.PaymentCard, order.PaymentMethod)

	after, err := NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, after.Wallet)
}

func TestOrderRepository_ProductDeletionKeepsSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "snap@example.com", 100)
	samosa := createTestProduct(t, db, "Samosa", 20)

	repo := NewOrderRepository(db)
	order, err := repo.PlaceWalletOrder(ctx, walletRequest(user.ID,
		models.OrderItemRequest{ProductID: samosa.ID, ProductName: "Samosa", Quantity: 2, Price: 20},
	))
	require.NoError(t, err)

	require.NoError(t, NewProductRepository(db).Delete(ctx, samosa.ID))

	reloaded, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, reloaded.TotalAmount)
	require.Len(t, reloaded.Items, 1)
	assert.Nil(t, reloaded.Items[0].ProductID)
	assert.Equal(t, "Samosa", reloaded.Items[0].ProductName)
	assert.Equal(t, 20.0, reloaded.Items[0].Price)
	assert.Equal(t, 2, reloaded.Items[0].Quantity)
}

func TestOrderRepository_Listings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", 100)
	bob := createTestUser(t, db, "bob@example.com", 100)
	tea := createTestProduct(t, db, "Tea", 10)

	repo := NewOrderRepository(db)
	item := models.OrderItemRequest{ProductID: tea.ID, ProductName: "Tea", Quantity: 1, Price: 10}

	first, err := repo.PlaceWalletOrder(ctx, walletRequest(alice.ID, item))
	require.NoError(t, err)
	second, err := repo.PlaceWalletOrder(ctx, walletRequest(alice.ID, item))
	require.NoError(t, err)
	_, err = repo.PlaceWalletOrder(ctx, walletRequest(bob.ID, item))
	require.NoError(t, err)

	mine, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Len(t, mine[0].Items, 1)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bob@example.com", all[0].CustomerEmail)
	assert.Equal(t, "Test alice@example.com", all[2].CustomerName)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
