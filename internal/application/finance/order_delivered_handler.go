package finance

import (
	"context"
	"fmt"

	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderDeliveredHandler books the sale income of a delivered order
type OrderDeliveredHandler struct {
	entryRepo finance.AccountingEntryRepository
	logger    *zap.Logger
}

// NewOrderDeliveredHandler creates a new handler for order delivered events
func NewOrderDeliveredHandler(entryRepo finance.AccountingEntryRepository, logger *zap.Logger) *OrderDeliveredHandler {
	return &OrderDeliveredHandler{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderDeliveredHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderDelivered}
}

// Handle creates one income/sale entry per order. Redelivered events are ignored.
func (h *OrderDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	delivered, ok := event.(*trade.OrderDeliveredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderDelivered, event.EventType())
	}

	exists, err := h.entryRepo.ExistsForOrder(ctx, finance.CategorySale, delivered.OrderID)
	if err != nil {
		return fmt.Errorf("failed to check existing sale entry: %w", err)
	}
	if exists {
		h.logger.Warn("sale entry already exists for order, skipping",
			zap.String("order_id", delivered.OrderID.String()),
			zap.String("order_number", delivered.OrderNumber),
		)
		return nil
	}

	if !delivered.TotalAmount.IsPositive() {
		h.logger.Info("skipping sale entry, order total is zero",
			zap.String("order_number", delivered.OrderNumber),
		)
		return nil
	}

	entry, err := finance.NewSaleIncome(delivered.OrderID, delivered.OrderNumber, delivered.TotalAmount, delivered.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to build sale entry: %w", err)
	}
	if err := h.entryRepo.Save(ctx, entry); err != nil {
		if shared.KindOf(err) == shared.KindConflict {
			h.logger.Warn("sale entry booked concurrently for order, skipping",
				zap.String("order_number", delivered.OrderNumber),
			)
			return nil
		}
		return fmt.Errorf("failed to save sale entry: %w", err)
	}

	h.logger.Info("sale entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("order_number", delivered.OrderNumber),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	return nil
}

var _ shared.EventHandler = (*OrderDeliveredHandler)(nil)
