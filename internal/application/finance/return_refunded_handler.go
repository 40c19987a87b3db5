package finance

import (
	"context"
	"fmt"

	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"go.uber.org/zap"
)

// ReturnRefundedHandler books the refund of a return as an expense
type ReturnRefundedHandler struct {
	entryRepo finance.AccountingEntryRepository
	logger    *zap.Logger
}

// NewReturnRefundedHandler creates a new handler for return refunded events
func NewReturnRefundedHandler(entryRepo finance.AccountingEntryRepository, logger *zap.Logger) *ReturnRefundedHandler {
	return &ReturnRefundedHandler{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReturnRefundedHandler) EventTypes() []string {
	return []string{trade.EventTypeReturnRefunded}
}

// Handle creates one expense/refund entry per return. A zero refund books nothing.
func (h *ReturnRefundedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	refunded, ok := event.(*trade.ReturnRefundedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeReturnRefunded, event.EventType())
	}

	if !refunded.RefundAmount.IsPositive() {
		h.logger.Info("skipping refund entry, nothing was paid back",
			zap.String("return_id", refunded.ReturnID.String()),
		)
		return nil
	}

	exists, err := h.entryRepo.ExistsForReturn(ctx, finance.CategoryRefund, refunded.ReturnID)
	if err != nil {
		return fmt.Errorf("failed to check existing refund entry: %w", err)
	}
	if exists {
		h.logger.Warn("refund entry already exists for return, skipping",
			zap.String("return_id", refunded.ReturnID.String()),
		)
		return nil
	}

	entry, err := finance.NewRefundExpense(refunded.ReturnID, refunded.OrderID, refunded.OrderNumber, refunded.RefundAmount, refunded.ProcessedBy)
	if err != nil {
		return fmt.Errorf("failed to build refund entry: %w", err)
	}
	if err := h.entryRepo.Save(ctx, entry); err != nil {
		if shared.KindOf(err) == shared.KindConflict {
			h.logger.Warn("refund entry booked concurrently for return, skipping",
				zap.String("return_id", refunded.ReturnID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to save refund entry: %w", err)
	}

	h.logger.Info("refund entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("return_id", refunded.ReturnID.String()),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	return nil
}

var _ shared.EventHandler = (*ReturnRefundedHandler)(nil)
