package models

import (
	"encoding/json"
	"time"
)

// AuditLog records one administrative action
type AuditLog struct {
	ID          int             `json:"id" db:"id"`
	AdminUserID *int            `json:"admin_user_id,omitempty" db:"admin_user_id"`
	Action      string          `json:"action" db:"action"`
	TargetType  string          `json:"target_type" db:"target_type"`
	TargetID    int             `json:"target_id" db:"target_id"`
	Details     json.RawMessage `json:"details" db:"details"`
	IPAddress   string          `json:"ip_address" db:"ip_address"`
	UserAgent   string          `json:"user_agent" db:"user_agent"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`

	// Filled by the listing join; empty once the admin account is gone
	AdminEmail string `json:"admin_email,omitempty"`
}

// AuditLogCreateRequest represents a request to create an audit log entry
type AuditLogCreateRequest struct {
	AdminUserID int
	Action      string
	TargetType  string
	TargetID    int
	Details     json.RawMessage
	IPAddress   string
	UserAgent   string
}

// Audited admin actions
const (
	AuditActionWalletRecharge = "wallet_recharge"
	AuditActionProductCreate  = "product_create"
	AuditActionProductToggle  = "product_toggle"
	AuditActionProductDelete  = "product_delete"
)

const (
	AuditTargetUser    = "user"
	AuditTargetProduct = "product"
)
