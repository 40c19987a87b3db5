package trade

import (
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeReturnRequested = "ReturnRequested"
	EventTypeReturnRefunded  = "ReturnRefunded"
)

// ReturnRequestedEvent is raised when a client asks to return an order
type ReturnRequestedEvent struct {
	shared.BaseDomainEvent
	ReturnID    uuid.UUID `json:"return_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewReturnRequestedEvent creates a new ReturnRequestedEvent
func NewReturnRequestedEvent(r *Return) *ReturnRequestedEvent {
	return &ReturnRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRequested, AggregateTypeReturn, r.ID),
		ReturnID:        r.ID,
		OrderID:         r.OrderID,
		OrderNumber:     r.OrderNumber,
		Reason:          r.Reason,
	}
}

// ReturnRefundedEvent is raised when the refund of a return is recorded
type ReturnRefundedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	ProcessedBy  *uuid.UUID      `json:"processed_by,omitempty"`
}

// NewReturnRefundedEvent creates a new ReturnRefundedEvent
func NewReturnRefundedEvent(r *Return) *ReturnRefundedEvent {
	return &ReturnRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRefunded, AggregateTypeReturn, r.ID),
		ReturnID:        r.ID,
		OrderID:         r.OrderID,
		OrderNumber:     r.OrderNumber,
		RefundAmount:    r.RefundAmount,
		ProcessedBy:     r.ProcessedBy,
	}
}
