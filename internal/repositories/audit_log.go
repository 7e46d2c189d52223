package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"campus-canteen/internal/models"
)

// AuditLogRepository handles audit log data operations
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create creates a new audit log entry. Details are stored as JSON text.
func (r *AuditLogRepository) Create(ctx context.Context, req *models.AuditLogCreateRequest) (*models.AuditLog, error) {
	details := string(req.Details)
	if details == "" {
		details = "{}"
	}

	auditLog := &models.AuditLog{}
	var adminID sql.NullInt64
	var stored string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admin_audit_log (admin_user_id, action, target_type, target_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, admin_user_id, action, target_type, target_id, details, ip_address, user_agent, created_at`,
		req.AdminUserID,
		req.Action,
		req.TargetType,
		req.TargetID,
		details,
		req.IPAddress,
		req.UserAgent,
		time.Now().UTC(),
	).Scan(
		&auditLog.ID,
		&adminID,
		&auditLog.Action,
		&auditLog.TargetType,
		&auditLog.TargetID,
		&stored,
		&auditLog.IPAddress,
		&auditLog.UserAgent,
		scanTime{&auditLog.CreatedAt},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}

	if adminID.Valid {
		id := int(adminID.Int64)
		auditLog.AdminUserID = &id
	}
	auditLog.Details = json.RawMessage(stored)
	return auditLog, nil
}

// Recent returns up to limit entries, newest first, with the acting admin's email
func (r *AuditLogRepository) Recent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT al.id, al.admin_user_id, al.action, al.target_type, al.target_id,
		       al.details, al.ip_address, al.user_agent, al.created_at,
		       COALESCE(u.email, '')
		FROM admin_audit_log al
		LEFT JOIN users u ON al.admin_user_id = u.id
		ORDER BY al.created_at DESC, al.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	auditLogs := []*models.AuditLog{}
	for rows.Next() {
		auditLog := &models.AuditLog{}
		var adminID sql.NullInt64
		var details string

		err := rows.Scan(
			&auditLog.ID,
			&adminID,
			&auditLog.Action,
			&auditLog.TargetType,
			&auditLog.TargetID,
			&details,
			&auditLog.IPAddress,
			&auditLog.UserAgent,
			scanTime{&auditLog.CreatedAt},
			&auditLog.AdminEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		if adminID.Valid {
			id := int(adminID.Int64)
			auditLog.AdminUserID = &id
		}
		auditLog.Details = json.RawMessage(details)
		auditLogs = append(auditLogs, auditLog)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return auditLogs, nil
}
