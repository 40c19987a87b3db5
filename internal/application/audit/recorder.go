package audit

import (
	"context"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder writes audit rows for operations whose primary write already
// committed. A failed write is logged and swallowed.
type Recorder struct {
	repo audit.Repository
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record stores one row for the actor found in ctx
func (r *Recorder) Record(ctx context.Context, action audit.Action, entityType string, entityID uuid.UUID, details any) {
	var id *uuid.UUID
	if entityID != uuid.Nil {
		id = &entityID
	}
	entry := audit.NewAuditLog(shared.ActorFromContext(ctx), action, entityType, id, details)
	if err := r.repo.Save(ctx, entry); err != nil {
		logger.L(ctx).Error("Failed to write audit log",
			zap.String("action", string(action)),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err),
		)
	}
}
