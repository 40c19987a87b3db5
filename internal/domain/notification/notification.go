package notification

import (
	"strings"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies a notification
type Type string

const (
	TypeOrderCreated    Type = "order_created"
	TypeStockLow        Type = "stock_low"
	TypeReturnRequested Type = "return_requested"
	TypeSystem          Type = "system"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeOrderCreated, TypeStockLow, TypeReturnRequested, TypeSystem:
		return true
	}
	return false
}

// Notification is a message shown to staff. A nil UserID broadcasts it to everyone;
// the read state of a broadcast is shared.
type Notification struct {
	shared.BaseEntity
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Type       Type       `gorm:"type:varchar(30);not null;index"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:text;not null"`
	EntityType string     `gorm:"type:varchar(50)"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	ReadAt     *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread broadcast notification
func NewNotification(notificationType Type, title, message string) (*Notification, error) {
	if !notificationType.IsValid() {
		return nil, shared.NewBadRequestError("INVALID_TYPE", "Unknown notification type")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewBadRequestError("INVALID_TITLE", "Notification title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewBadRequestError("INVALID_TITLE", "Notification title cannot exceed 200 characters")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewBadRequestError("INVALID_MESSAGE", "Notification message is required")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Type:       notificationType,
		Title:      title,
		Message:    message,
	}, nil
}

// ForUser addresses the notification to one user; nil makes it a broadcast
func (n *Notification) ForUser(userID *uuid.UUID) *Notification {
	n.UserID = userID
	return n
}

// About links the notification to an entity
func (n *Notification) About(entityType string, entityID uuid.UUID) *Notification {
	n.EntityType = entityType
	n.EntityID = &entityID
	return n
}

// IsBroadcast reports whether every user sees the notification
func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

// VisibleTo reports whether the user may see the notification
func (n *Notification) VisibleTo(userID uuid.UUID) bool {
	return n.IsBroadcast() || *n.UserID == userID
}

// IsRead reports whether the notification was read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead marks the notification as read. Marking twice keeps the first timestamp.
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}
