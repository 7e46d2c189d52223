package repositories

import (
	"context"
	"encoding/json"
	"testing"

	"campus-canteen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogRepository_CreateAndRecent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAuditLogRepository(db)

	admin := createTestUser(t, db, "admin@example.com", 0)

	first, err := repo.Create(ctx, &models.AuditLogCreateRequest{
		AdminUserID: admin.ID,
		Action:      models.AuditActionWalletRecharge,
		TargetType:  models.AuditTargetUser,
		TargetID:    7,
		Details:     json.RawMessage(`{"amount":50}`),
		IPAddress:   "127.0.0.1",
	})
	require.NoError(t, err)
	require.NotNil(t, first.AdminUserID)
	assert.Equal(t, admin.ID, *first.AdminUserID)
	assert.JSONEq(t, `{"amount":50}`, string(first.Details))
	assert.False(t, first.CreatedAt.IsZero())

	second, err := repo.Create(ctx, &models.AuditLogCreateRequest{
		AdminUserID: admin.ID,
		Action:      models.AuditActionProductDelete,
		TargetType:  models.AuditTargetProduct,
		TargetID:    3,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(second.Details))

	logs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID)
	assert.Equal(t, "admin@example.com", logs[0].AdminEmail)

	logs, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
