package report

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// statusOrder fixes the row order of the status table
var statusOrder = []trade.OrderStatus{
	trade.OrderStatusPending,
	trade.OrderStatusConfirmed,
	trade.OrderStatusShipped,
	trade.OrderStatusDelivered,
	trade.OrderStatusCancelled,
}

// StatusLine is the number and amount of orders in one status
type StatusLine struct {
	Status trade.OrderStatus
	Count  int64
	Amount decimal.Decimal
}

// ProductRanking is one row of the best sellers table
type ProductRanking struct {
	Rank      int
	Reference string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

// SalesReport summarizes the activity of a period
type SalesReport struct {
	From        time.Time
	To          time.Time
	GeneratedAt time.Time

	ByStatus    []StatusLine
	OrderCount  int64
	SalesCount  int64 // orders not cancelled
	Revenue     decimal.Decimal
	AverageCart decimal.Decimal

	TopProducts []ProductRanking
	Accounting  *finance.Summary
}

// NewSalesReport folds repository aggregates into a report.
// Revenue counts every order that was not cancelled.
func NewSalesReport(
	from, to time.Time,
	counts []trade.StatusCount,
	top []trade.ProductSales,
	accounting *finance.Summary,
	now time.Time,
) *SalesReport {
	r := &SalesReport{
		From:        from,
		To:          to,
		GeneratedAt: now,
		ByStatus:    make([]StatusLine, 0, len(statusOrder)),
		Revenue:     decimal.Zero,
		AverageCart: decimal.Zero,
		TopProducts: make([]ProductRanking, 0, len(top)),
		Accounting:  accounting,
	}

	byStatus := make(map[trade.OrderStatus]trade.StatusCount, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c
	}
	for _, status := range statusOrder {
		c, ok := byStatus[status]
		line := StatusLine{Status: status, Amount: decimal.Zero}
		if ok {
			line.Count = c.Count
			line.Amount = c.Amount
		}
		r.ByStatus = append(r.ByStatus, line)

		r.OrderCount += line.Count
		if status != trade.OrderStatusCancelled {
			r.SalesCount += line.Count
			r.Revenue = r.Revenue.Add(line.Amount)
		}
	}
	if r.SalesCount > 0 {
		r.AverageCart = r.Revenue.Div(decimal.NewFromInt(r.SalesCount)).Round(2)
	}

	for i, p := range top {
		r.TopProducts = append(r.TopProducts, ProductRanking{
			Rank:      i + 1,
			Reference: p.ProductReference,
			Name:      p.ProductName,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue,
		})
	}

	if r.Accounting == nil {
		r.Accounting = finance.NewSummary(&from, &to, nil)
	}
	return r
}
