package report

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one printed line of an invoice
type InvoiceLine struct {
	Reference string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Invoice is the read model printed for a single order
type Invoice struct {
	OrderNumber     string
	OrderDate       time.Time
	Status          trade.OrderStatus
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	ClientAddress   string
	ShippingAddress string
	Notes           string
	Lines           []InvoiceLine
	TotalQuantity   int
	Total           decimal.Decimal
	GeneratedAt     time.Time
}

// NewInvoice builds the invoice of an order. The order must be loaded with its lines.
func NewInvoice(order *trade.Order, client *partner.Client, now time.Time) *Invoice {
	inv := &Invoice{
		OrderNumber:     order.OrderNumber,
		OrderDate:       order.CreatedAt,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		Lines:           make([]InvoiceLine, 0, len(order.Lines)),
		Total:           order.TotalAmount,
		GeneratedAt:     now,
	}
	if client != nil {
		inv.ClientName = client.FullName()
		inv.ClientEmail = client.Email
		inv.ClientPhone = client.Phone
		inv.ClientAddress = client.Address
	}
	if inv.ShippingAddress == "" {
		inv.ShippingAddress = inv.ClientAddress
	}

	for _, l := range order.Lines {
		inv.Lines = append(inv.Lines, InvoiceLine{
			Reference: l.ProductReference,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
		inv.TotalQuantity += l.Quantity
	}
	return inv
}
