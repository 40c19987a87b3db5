package notification

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/notification"
	"github.com/google/uuid"
)

// CreateNotificationRequest creates a system notification.
// A nil UserID broadcasts it to all staff.
type CreateNotificationRequest struct {
	UserID  *uuid.UUID `json:"user_id"`
	Title   string     `json:"title" binding:"required,min=1,max=200"`
	Message string     `json:"message" binding:"required,min=1,max=2000"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	EntityType string     `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Broadcast  bool       `json:"broadcast"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NotificationListFilter represents filter options for the notification list
type NotificationListFilter struct {
	Unread   bool `form:"unread"`
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UnreadCountResponse carries the unread counter shown in the UI badge
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications changed
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a domain notification to a response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		Broadcast:  n.IsBroadcast(),
		Read:       n.IsRead(),
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
