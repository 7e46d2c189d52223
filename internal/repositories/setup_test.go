package repositories

import (
	"context"
	"database/sql"
	"testing"

	"campus-canteen/internal/database"
	"campus-canteen/internal/models"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func createTestUser(t *testing.T, db *sql.DB, email string, wallet float64) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &models.UserCreateRequest{
		Name:     "Test " + email,
		Email:    email,
		Password: "hash",
		Wallet:   wallet,
	})
	require.NoError(t, err)
	return user
}

func createTestProduct(t *testing.T, db *sql.DB, name string, price float64) *models.Product {
	t.Helper()
	product, err := NewProductRepository(db).Create(context.Background(), &models.ProductCreateRequest{
		Name:  name,
		Price: price,
	})
	require.NoError(t, err)
	return product
}
