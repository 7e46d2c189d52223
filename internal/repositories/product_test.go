package repositories

import (
	"context"
	"testing"

	"campus-canteen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_CreateDefaultsAvailable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	product, err := repo.Create(context.Background(), &models.ProductCreateRequest{
		Name:        " Samosa ",
		Description: "Crispy samosa",
		Price:       20,
	})
	require.NoError(t, err)
	assert.Equal(t, "Samosa", product.Name)
	assert.True(t, product.Available)
	assert.Equal(t, 20.0, product.Price)
}

func TestProductRepository_CreateRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	_, err := repo.Create(context.Background(), &models.ProductCreateRequest{Name: "", Price: 1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestProductRepository_ToggleTwiceRestores(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	tea := createTestProduct(t, db, "Tea", 10)
	createTestProduct(t, db, "Samosa", 20)

	toggled, err := repo.ToggleAvailability(ctx, tea.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Available)

	menu, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Samosa", menu[0].Name)

	toggled, err = repo.ToggleAvailability(ctx, tea.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Available)

	menu, err = repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, tea.ID, menu[0].ID, "menu is ordered by id")

	_, err = repo.ToggleAvailability(ctx, 999)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestProductRepository_GetByIDsSkipsMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	a := createTestProduct(t, db, "A", 1)
	b := createTestProduct(t, db, "B", 2)

	found, err := repo.GetByIDs(ctx, []int{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "B", found[b.ID].Name)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := createTestProduct(t, db, "Tea", 10)
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), models.ErrProductNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
