package notification

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindForUser returns the user's own and broadcast notifications, newest first
	FindForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]Notification, error)

	// CountForUser counts what FindForUser would return without paging
	CountForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) (int64, error)

	// MarkAllRead marks every unread notification visible to the user as read
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	Save(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteReadBefore removes read notifications older than cutoff
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
