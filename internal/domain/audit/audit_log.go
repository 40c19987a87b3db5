package audit

import (
	"encoding/json"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is what happened to the audited entity
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status_change"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
	ActionStockAdjust  Action = "stock_adjust"
	ActionUpload       Action = "upload"
	ActionPurge        Action = "purge"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionStatusChange, ActionLogin,
		ActionLogout, ActionStockAdjust, ActionUpload, ActionPurge:
		return true
	}
	return false
}

// Entity types recorded in the audit trail
const (
	EntityClient     = "client"
	EntitySupplier   = "supplier"
	EntityProduct    = "product"
	EntityOrder      = "order"
	EntityReturn     = "return"
	EntityAccounting = "accounting_entry"
	EntityUser       = "user"
	EntityAuditLog   = "audit_log"
)

// AuditLog (historique) is an append-only record of a mutation.
// A nil UserID means the system did it.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Action     Action     `gorm:"type:varchar(30);not null;index"`
	EntityType string     `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity"`
	EntityID   *uuid.UUID `gorm:"type:uuid;index:idx_audit_logs_entity"`
	Details    string     `gorm:"type:text"`
	IPAddress  string     `gorm:"type:varchar(45)"`
	UserAgent  string     `gorm:"type:varchar(500)"`
	CreatedAt  time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog builds a row for the actor. Details are stored as JSON; a value
// that cannot be marshalled is recorded as an error string.
func NewAuditLog(actor shared.Actor, action Action, entityType string, entityID *uuid.UUID, details any) *AuditLog {
	userAgent := actor.UserAgent
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}
	return &AuditLog{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    encodeDetails(details),
		IPAddress:  actor.IPAddress,
		UserAgent:  userAgent,
		CreatedAt:  time.Now(),
	}
}

// DecodeDetails unmarshals the JSON details into v
func (l *AuditLog) DecodeDetails(v any) error {
	if l.Details == "" {
		return nil
	}
	return json.Unmarshal([]byte(l.Details), v)
}

func encodeDetails(details any) string {
	if details == nil {
		return ""
	}
	if s, ok := details.(string); ok {
		details = map[string]string{"message": s}
	}
	data, err := json.Marshal(details)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return string(data)
}
