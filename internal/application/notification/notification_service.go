package notification

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/notification"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService serves the notifications of the authenticated user
type NotificationService struct {
	repo notification.Repository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListMine returns the caller's own and broadcast notifications, newest first
func (s *NotificationService) ListMine(ctx context.Context, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, 0, err
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	items, err := s.repo.FindForUser(ctx, userID, filter.Unread, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForUser(ctx, userID, filter.Unread)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses, total, nil
}

// CountUnread counts the caller's unread notifications
func (s *NotificationService) CountUnread(ctx context.Context) (*UnreadCountResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountForUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// MarkRead marks one notification visible to the caller as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead() {
		n.MarkRead()
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

// MarkAllRead marks every unread notification visible to the caller as read
func (s *NotificationService) MarkAllRead(ctx context.Context) (*MarkAllReadResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: updated}, nil
}

// Delete removes a notification visible to the caller
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findVisible(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Create stores a system notification for one user or for everyone
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*NotificationResponse, error) {
	n, err := notification.NewNotification(notification.TypeSystem, req.Title, req.Message)
	if err != nil {
		return nil, err
	}
	n.ForUser(req.UserID)
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

// PurgeRead deletes read notifications older than the given number of days
func (s *NotificationService) PurgeRead(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays < 1 {
		return 0, shared.NewBadRequestError("INVALID_RETENTION", "Retention must be at least one day")
	}
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	deleted, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.L(ctx).Info("Read notifications purged",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return deleted, nil
}

// findVisible hides notifications addressed to someone else behind NotFound
func (s *NotificationService) findVisible(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.VisibleTo(userID) {
		return nil, shared.NewNotFoundError("NOTIFICATION_NOT_FOUND", "Notification not found")
	}
	return n, nil
}

func currentUser(ctx context.Context) (uuid.UUID, error) {
	actor := shared.ActorFromContext(ctx)
	if actor.UserID == nil {
		return uuid.Nil, shared.NewUnauthorizedError("UNAUTHORIZED", "Authentication required")
	}
	return *actor.UserID, nil
}
