package audit

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogResponse represents an audit row in API responses
type AuditLogResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Details    any        `json:"details,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditLogListFilter represents filter options for the audit list
type AuditLogListFilter struct {
	UserID     string     `form:"user_id" binding:"omitempty,uuid"`
	EntityType string     `form:"entity_type" binding:"omitempty,max=50"`
	EntityID   string     `form:"entity_id" binding:"omitempty,uuid"`
	Action     string     `form:"action" binding:"omitempty,oneof=create update delete status_change login logout stock_adjust upload purge"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurgeRequest asks for rows older than a number of days to be removed
type PurgeRequest struct {
	OlderThanDays int `json:"older_than_days" binding:"required,min=1,max=3650"`
}

// PurgeResult reports a purge outcome
type PurgeResult struct {
	Deleted int64     `json:"deleted"`
	Cutoff  time.Time `json:"cutoff"`
}

// ToAuditLogResponse converts a domain row to a response
func ToAuditLogResponse(l *audit.AuditLog) AuditLogResponse {
	var details any
	if err := l.DecodeDetails(&details); err != nil {
		details = l.Details
	}
	return AuditLogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     string(l.Action),
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    details,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		CreatedAt:  l.CreatedAt,
	}
}
