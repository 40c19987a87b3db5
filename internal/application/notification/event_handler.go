package notification

import (
	"context"
	"fmt"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/notification"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"go.uber.org/zap"
)

// StaffAlertHandler turns business events into broadcast notifications for staff
type StaffAlertHandler struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewStaffAlertHandler creates a new StaffAlertHandler
func NewStaffAlertHandler(repo notification.Repository, logger *zap.Logger) *StaffAlertHandler {
	return &StaffAlertHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *StaffAlertHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		catalog.EventTypeProductStockLow,
		trade.EventTypeReturnRequested,
	}
}

// Handle stores one broadcast notification for the event
func (h *StaffAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	n, err := h.build(event)
	if err != nil {
		return err
	}
	if err := h.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	h.logger.Debug("staff notification created",
		zap.String("event_type", event.EventType()),
		zap.String("notification_id", n.ID.String()),
	)
	return nil
}

func (h *StaffAlertHandler) build(event shared.DomainEvent) (*notification.Notification, error) {
	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		n, err := notification.NewNotification(notification.TypeOrderCreated,
			"Nouvelle commande "+e.OrderNumber,
			fmt.Sprintf("Commande %s de %d ligne(s), total %s", e.OrderNumber, e.LineCount, e.TotalAmount.StringFixed(2)))
		if err != nil {
			return nil, err
		}
		return n.About(audit.EntityOrder, e.OrderID), nil

	case *catalog.ProductStockLowEvent:
		n, err := notification.NewNotification(notification.TypeStockLow,
			"Stock bas : "+e.Reference,
			fmt.Sprintf("%s (%s) : %d en stock, seuil %d", e.Name, e.Reference, e.Stock, e.MinStock))
		if err != nil {
			return nil, err
		}
		return n.About(audit.EntityProduct, e.ProductID), nil

	case *trade.ReturnRequestedEvent:
		n, err := notification.NewNotification(notification.TypeReturnRequested,
			"Demande de retour "+e.OrderNumber,
			fmt.Sprintf("Retour demandé pour la commande %s : %s", e.OrderNumber, e.Reason))
		if err != nil {
			return nil, err
		}
		return n.About(audit.EntityReturn, e.ReturnID), nil
	}
	return nil, fmt.Errorf("unexpected event type: %s", event.EventType())
}

var _ shared.EventHandler = (*StaffAlertHandler)(nil)
