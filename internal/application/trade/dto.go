package trade

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Order DTOs
// =============================================================================

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	ClientID        uuid.UUID                `json:"client_id" binding:"required"`
	ShippingAddress string                   `json:"shipping_address" binding:"max=500"`
	Notes           string                   `json:"notes"`
	Lines           []CreateOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateOrderLineRequest is one requested product. UnitPrice overrides the
// product sale price when set.
type CreateOrderLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed shipped delivered cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductReference string          `json:"product_reference"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order with its lines
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	ClientID        uuid.UUID           `json:"client_id"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	Notes           string              `json:"notes"`
	CreatedBy       *uuid.UUID          `json:"created_by,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	Lines           []OrderLineResponse `json:"lines"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	ClientID    uuid.UUID       `json:"client_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search   string     `form:"search"`
	ClientID string     `form:"client_id" binding:"omitempty,uuid"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:               line.ID,
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			ProductReference: line.ProductReference,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			Subtotal:         line.Subtotal,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ClientID:        o.ClientID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		CreatedBy:       o.CreatedBy,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		Lines:           lines,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts a domain order to a list item
func ToOrderListItemResponse(o *trade.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt,
	}
}

// =============================================================================
// Return DTOs
// =============================================================================

// CreateReturnRequest opens a return for a delivered order.
// RefundAmount defaults to the order total.
type CreateReturnRequest struct {
	OrderID      uuid.UUID        `json:"order_id" binding:"required"`
	Reason       string           `json:"reason" binding:"required,min=1,max=1000"`
	RefundAmount *decimal.Decimal `json:"refund_amount"`
	Restock      bool             `json:"restock"`
}

// RejectReturnRequest carries the rejection reason
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ReturnResponse represents a return in API responses
type ReturnResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Reason       string          `json:"reason"`
	Status       string          `json:"status"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Restock      bool            `json:"restock"`
	RejectReason string          `json:"reject_reason,omitempty"`
	RequestedBy  *uuid.UUID      `json:"requested_by,omitempty"`
	ProcessedBy  *uuid.UUID      `json:"processed_by,omitempty"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	RefundedAt   *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ReturnListFilter represents filter options for the return list
type ReturnListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=requested approved rejected refunded"`
	OrderID  string `form:"order_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToReturnResponse converts a domain return to a response
func ToReturnResponse(r *trade.Return) ReturnResponse {
	return ReturnResponse{
		ID:           r.ID,
		OrderID:      r.OrderID,
		OrderNumber:  r.OrderNumber,
		Reason:       r.Reason,
		Status:       string(r.Status),
		RefundAmount: r.RefundAmount,
		Restock:      r.Restock,
		RejectReason: r.RejectReason,
		RequestedBy:  r.RequestedBy,
		ProcessedBy:  r.ProcessedBy,
		ProcessedAt:  r.ProcessedAt,
		RefundedAt:   r.RefundedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
