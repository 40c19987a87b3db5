package report

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// StockLine is one product row of the stock report
type StockLine struct {
	Reference     string
	Name          string
	Category      string
	Status        catalog.ProductStatus
	Stock         int
	MinStock      int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	// Value is the stock valued at purchase price
	Value decimal.Decimal
	Low   bool
}

// StockReport lists every product with its stock level
type StockReport struct {
	GeneratedAt   time.Time
	Lines         []StockLine
	ProductCount  int
	TotalUnits    int64
	TotalValue    decimal.Decimal
	LowStockCount int
	OutOfStock    int
}

// NewStockReport builds the report from products in display order
func NewStockReport(products []catalog.Product, now time.Time) *StockReport {
	r := &StockReport{
		GeneratedAt:  now,
		Lines:        make([]StockLine, 0, len(products)),
		ProductCount: len(products),
		TotalValue:   decimal.Zero,
	}
	for i := range products {
		p := &products[i]
		value := p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock)))
		line := StockLine{
			Reference:     p.Reference,
			Name:          p.Name,
			Category:      p.Category,
			Status:        p.Status,
			Stock:         p.Stock,
			MinStock:      p.MinStock,
			PurchasePrice: p.PurchasePrice,
			SalePrice:     p.SalePrice,
			Value:         value,
			Low:           p.IsLowStock(),
		}
		r.Lines = append(r.Lines, line)

		r.TotalUnits += int64(p.Stock)
		r.TotalValue = r.TotalValue.Add(value)
		if line.Low {
			r.LowStockCount++
		}
		if p.Stock == 0 {
			r.OutOfStock++
		}
	}
	return r
}
