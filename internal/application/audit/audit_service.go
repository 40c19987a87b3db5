package audit

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService exposes the audit history
type AuditService struct {
	repo audit.Repository
	now  func() time.Time
}

// NewAuditService creates a new AuditService
func NewAuditService(repo audit.Repository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// List returns one page of audit rows
func (s *AuditService) List(ctx context.Context, filter AuditLogListFilter) ([]AuditLogResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		DateFrom: filter.DateFrom,
		DateTo:   shared.DayAfter(filter.DateTo),
		Filters:  make(map[string]any),
	}
	if filter.UserID != "" {
		domainFilter.Filters["user_id"] = filter.UserID
	}
	if filter.EntityType != "" {
		domainFilter.Filters["entity_type"] = filter.EntityType
	}
	if filter.EntityID != "" {
		domainFilter.Filters["entity_id"] = filter.EntityID
	}
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}

	logs, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]AuditLogResponse, len(logs))
	for i := range logs {
		items[i] = ToAuditLogResponse(&logs[i])
	}
	return items, total, nil
}

// GetByID returns one audit row
func (s *AuditService) GetByID(ctx context.Context, id uuid.UUID) (*AuditLogResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAuditLogResponse(l)
	return &response, nil
}

// Purge deletes rows older than the given number of days and records a
// purge row carrying the count. The purge row itself is newer than the cutoff.
func (s *AuditService) Purge(ctx context.Context, olderThanDays int) (*PurgeResult, error) {
	if olderThanDays < 1 {
		return nil, shared.NewBadRequestError("INVALID_RETENTION", "Retention must be at least one day")
	}
	cutoff := s.now().AddDate(0, 0, -olderThanDays)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	row := audit.NewAuditLog(shared.ActorFromContext(ctx), audit.ActionPurge, audit.EntityAuditLog, nil, map[string]any{
		"deleted":         deleted,
		"cutoff":          cutoff.Format(time.RFC3339),
		"older_than_days": olderThanDays,
	})
	if err := s.repo.Save(ctx, row); err != nil {
		logger.L(ctx).Error("Failed to record audit purge", zap.Error(err))
	}

	logger.L(ctx).Info("Audit logs purged",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return &PurgeResult{Deleted: deleted, Cutoff: cutoff}, nil
}
