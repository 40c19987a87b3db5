package audit

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for audit log persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuditLog, error)
	// FindAll supports filter keys: user_id, entity_type, entity_id, action
	FindAll(ctx context.Context, filter shared.Filter) ([]AuditLog, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, log *AuditLog) error
	// DeleteOlderThan removes rows created before cutoff and returns how many
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
