package persistence

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// FindByID finds an audit row by ID
func (r *GormAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	var log audit.AuditLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "AUDIT_LOG_NOT_FOUND", "Audit log not found")
	}
	return &log, nil
}

// FindAll returns one page of audit rows, newest first by default
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.AuditLog, error) {
	var logs []audit.AuditLog
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}
	query := page(r.filtered(ctx, filter), filter, AuditLogSortFields, "created_at")
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Count counts audit rows matching the filter
func (r *GormAuditLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// Save appends an audit row
func (r *GormAuditLogRepository) Save(ctx context.Context, log *audit.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// DeleteOlderThan removes rows created before cutoff
func (r *GormAuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&audit.AuditLog{})
	return result.RowsAffected, result.Error
}

func (r *GormAuditLogRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&audit.AuditLog{})
	query = search(query, filter.Search, "details", "entity_type")
	query = equals(query, filter, "user_id", "entity_type", "entity_id", "action")
	return dateRange(query, "created_at", filter)
}

var _ audit.Repository = (*GormAuditLogRepository)(nil)
