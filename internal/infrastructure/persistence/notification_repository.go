package persistence

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/notification"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "NOTIFICATION_NOT_FOUND", "Notification not found")
	}
	return &n, nil
}

// FindForUser returns the user's own and broadcast notifications
func (r *GormNotificationRepository) FindForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]notification.Notification, error) {
	var items []notification.Notification
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}
	query := page(r.visible(ctx, userID, unreadOnly), filter, NotificationSortFields, "created_at")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountForUser counts notifications visible to the user
func (r *GormNotificationRepository) CountForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) (int64, error) {
	var count int64
	err := r.visible(ctx, userID, unreadOnly).Count(&count).Error
	return count, err
}

// MarkAllRead stamps read_at on every unread notification visible to the user
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.visible(ctx, userID, true).
		Updates(map[string]any{"read_at": now, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// Delete deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("NOTIFICATION_NOT_FOUND", "Notification not found")
	}
	return nil
}

// DeleteReadBefore removes read notifications created before cutoff
func (r *GormNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("read_at IS NOT NULL AND created_at < ?", cutoff).
		Delete(&notification.Notification{})
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) visible(ctx context.Context, userID uuid.UUID, unreadOnly bool) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("(user_id = ? OR user_id IS NULL)", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	return query
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
