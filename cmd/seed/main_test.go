package main

import (
	"context"
	"testing"

	"campus-canteen/internal/database"
	"campus-canteen/internal/repositories"
	"campus-canteen/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	users := repositories.NewUserRepository(db.DB)
	products := repositories.NewProductRepository(db.DB)
	hash := &utils.PasswordHashConfig{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	require.NoError(t, seed(ctx, users, products, hash))
	require.NoError(t, seed(ctx, users, products, hash))

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	pooja, err := users.GetByEmail(ctx, "pooja@example.com")
	require.NoError(t, err)
	assert.False(t, pooja.IsAdmin)
	assert.InDelta(t, 100.0, pooja.Wallet, 0.001)
	ok, err := utils.VerifyPassword("user123", pooja.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	menu, err := products.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 3)
	assert.Equal(t, "Samosa", menu[0].Name)
	assert.Equal(t, 60.0, menu[1].Price)
}
