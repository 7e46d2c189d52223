package services

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-canteen/internal/models"
)

// AuditRepository stores admin actions
type AuditRepository interface {
	Create(ctx context.Context, req *models.AuditLogCreateRequest) (*models.AuditLog, error)
	Recent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// RequestMeta identifies where an admin action came from
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditEntry is one admin action to record
type AuditEntry struct {
	Action     string
	TargetType string
	TargetID   int
	Details    map[string]any
}

// AuditService keeps the admin action trail
type AuditService struct {
	logs AuditRepository
}

func NewAuditService(logs AuditRepository) *AuditService {
	return &AuditService{logs: logs}
}

// Record stores entry on behalf of the admin principal.
func (s *AuditService) Record(ctx context.Context, p *models.Principal, entry AuditEntry, meta RequestMeta) error {
	if !models.CanAdminister(p) {
		return models.ErrForbidden
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	if entry.Details == nil {
		details = []byte("{}")
	}

	_, err = s.logs.Create(ctx, &models.AuditLogCreateRequest{
		AdminUserID: p.UserID,
		Action:      entry.Action,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Details:     details,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})
	return err
}

// Recent lists the latest admin actions
func (s *AuditService) Recent(ctx context.Context, p *models.Principal, limit int) ([]*models.AuditLog, error) {
	if !models.CanAdminister(p) {
		return nil, models.ErrForbidden
	}
	return s.logs.Recent(ctx, limit)
}
