package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a return
type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
	ReturnStatusRefunded  ReturnStatus = "refunded"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusRequested, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusRequested:
		return target == ReturnStatusApproved || target == ReturnStatusRejected
	case ReturnStatusApproved:
		return target == ReturnStatusRefunded
	}
	return false
}

// Return (retour) records a client sending back a delivered order.
// An order has at most one return; the unique index on order_id enforces it.
type Return struct {
	shared.AggregateRoot
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber  string          `gorm:"type:varchar(30);not null"`
	Reason       string          `gorm:"type:text;not null"`
	Status       ReturnStatus    `gorm:"type:varchar(20);not null;default:'requested';index"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Restock      bool            `gorm:"not null;default:false"`
	RejectReason string          `gorm:"type:varchar(500)"`
	RequestedBy  *uuid.UUID      `gorm:"type:uuid"`
	ProcessedBy  *uuid.UUID      `gorm:"type:uuid"`
	ProcessedAt  *time.Time
	RefundedAt   *time.Time
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn opens a return for a delivered order. A nil refund amount means
// the full order total.
func NewReturn(order *Order, reason string, refundAmount *decimal.Decimal, restock bool, requestedBy *uuid.UUID) (*Return, error) {
	if order == nil {
		return nil, shared.NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
	}
	if order.Status != OrderStatusDelivered {
		return nil, shared.NewBusinessRuleError("ORDER_NOT_DELIVERED",
			fmt.Sprintf("Order %s is %s; only delivered orders can be returned", order.OrderNumber, order.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewBadRequestError("INVALID_REASON", "Return reason is required")
	}
	if len(reason) > 1000 {
		return nil, shared.NewBadRequestError("INVALID_REASON", "Return reason cannot exceed 1000 characters")
	}

	amount := order.TotalAmount
	if refundAmount != nil {
		amount = refundAmount.Round(2)
	}
	if amount.IsNegative() || amount.GreaterThan(order.TotalAmount) {
		return nil, shared.NewBadRequestError("INVALID_REFUND_AMOUNT",
			fmt.Sprintf("Refund amount must be between 0 and %s", order.TotalAmount.StringFixed(2)))
	}

	r := &Return{
		AggregateRoot: shared.NewAggregateRoot(),
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Reason:        reason,
		Status:        ReturnStatusRequested,
		RefundAmount:  amount,
		Restock:       restock,
		RequestedBy:   requestedBy,
	}
	r.AddDomainEvent(NewReturnRequestedEvent(r))
	return r, nil
}

// Approve accepts the return. Stock is given back by the caller when Restock is set.
func (r *Return) Approve(processedBy *uuid.UUID) error {
	if err := r.transition(ReturnStatusApproved); err != nil {
		return err
	}
	r.markProcessed(processedBy)
	return nil
}

// Reject refuses the return with a reason
func (r *Return) Reject(processedBy *uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewBadRequestError("INVALID_REASON", "Reject reason is required")
	}
	if err := r.transition(ReturnStatusRejected); err != nil {
		return err
	}
	r.RejectReason = reason
	r.markProcessed(processedBy)
	return nil
}

// Refund records that the client was paid back and raises ReturnRefunded
func (r *Return) Refund(processedBy *uuid.UUID) error {
	if err := r.transition(ReturnStatusRefunded); err != nil {
		return err
	}
	r.markProcessed(processedBy)
	r.RefundedAt = r.ProcessedAt
	r.AddDomainEvent(NewReturnRefundedEvent(r))
	return nil
}

// CanDelete reports whether the return may be removed
func (r *Return) CanDelete() bool {
	return r.Status == ReturnStatusRequested
}

func (r *Return) transition(target ReturnStatus) error {
	if !r.Status.CanTransitionTo(target) {
		return shared.NewBusinessRuleError("INVALID_STATE",
			fmt.Sprintf("Cannot move return from %s to %s", r.Status, target))
	}
	r.Status = target
	return nil
}

func (r *Return) markProcessed(by *uuid.UUID) {
	now := time.Now()
	r.ProcessedBy = by
	r.ProcessedAt = &now
	r.UpdatedAt = now
}
