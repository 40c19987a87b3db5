package report

import (
	"testing"
	"time"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	client, err := partner.NewClient("Amina", "Benali", "amina@example.com")
	require.NoError(t, err)
	require.NoError(t, client.SetContact("0555 12 34 56", "12 rue Didouche Mourad"))

	order, err := trade.NewOrder(client.ID, nil)
	require.NoError(t, err)
	_, err = order.AddLine(uuid.New(), "Clavier", "KB-01", 2, decimal.RequireFromString("49.90"))
	require.NoError(t, err)
	_, err = order.AddLine(uuid.New(), "Souris", "MS-01", 3, decimal.RequireFromString("19.99"))
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	inv := NewInvoice(order, client, now)

	assert.Equal(t, order.OrderNumber, inv.OrderNumber)
	assert.Equal(t, "Amina Benali", inv.ClientName)
	assert.Equal(t, "12 rue Didouche Mourad", inv.ShippingAddress, "falls back to the client address")
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "KB-01", inv.Lines[0].Reference)
	assert.Equal(t, 5, inv.TotalQuantity)
	assert.True(t, decimal.RequireFromString("159.77").Equal(inv.Total))
	assert.Equal(t, now, inv.GeneratedAt)
}

func TestNewInvoice_WithoutClient(t *testing.T) {
	order, err := trade.NewOrder(uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, order.SetShipping("5 avenue Pasteur", ""))

	inv := NewInvoice(order, nil, time.Now())
	assert.Empty(t, inv.ClientName)
	assert.Equal(t, "5 avenue Pasteur", inv.ShippingAddress)
	assert.Empty(t, inv.Lines)
}

func TestNewSalesReport(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	counts := []trade.StatusCount{
		{Status: trade.OrderStatusDelivered, Count: 3, Amount: decimal.NewFromInt(300)},
		{Status: trade.OrderStatusPending, Count: 1, Amount: decimal.NewFromInt(50)},
		{Status: trade.OrderStatusCancelled, Count: 2, Amount: decimal.NewFromInt(999)},
	}
	top := []trade.ProductSales{
		{ProductReference: "KB-01", ProductName: "Clavier", Quantity: 7, Revenue: decimal.NewFromInt(210)},
		{ProductReference: "MS-01", ProductName: "Souris", Quantity: 4, Revenue: decimal.NewFromInt(80)},
	}

	r := NewSalesReport(from, to, counts, top, nil, to)

	require.Len(t, r.ByStatus, 5)
	assert.Equal(t, trade.OrderStatusPending, r.ByStatus[0].Status)
	assert.Equal(t, int64(0), r.ByStatus[1].Count, "missing statuses are zero rows")
	assert.Equal(t, int64(6), r.OrderCount)
	assert.Equal(t, int64(4), r.SalesCount)
	assert.True(t, decimal.NewFromInt(350).Equal(r.Revenue), "cancelled orders are excluded")
	assert.True(t, decimal.RequireFromString("87.5").Equal(r.AverageCart))

	require.Len(t, r.TopProducts, 2)
	assert.Equal(t, 1, r.TopProducts[0].Rank)
	assert.Equal(t, 2, r.TopProducts[1].Rank)

	require.NotNil(t, r.Accounting)
	assert.True(t, r.Accounting.Balance.IsZero())
}

func TestNewSalesReport_EmptyPeriod(t *testing.T) {
	now := time.Now()
	summary := finance.NewSummary(nil, nil, []finance.TypeTotal{
		{EntryType: finance.EntryTypeIncome, Total: decimal.NewFromInt(100), Count: 1},
	})

	r := NewSalesReport(now.AddDate(0, -1, 0), now, nil, nil, summary, now)
	assert.Equal(t, int64(0), r.OrderCount)
	assert.True(t, r.AverageCart.IsZero())
	assert.Empty(t, r.TopProducts)
	assert.Same(t, summary, r.Accounting)
}

func TestNewStockReport(t *testing.T) {
	mk := func(ref string, stock, min int, purchase string) catalog.Product {
		p, err := catalog.NewProduct(ref, "Produit "+ref, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, p.SetPrices(decimal.RequireFromString(purchase), decimal.NewFromInt(10)))
		require.NoError(t, p.SetInitialStock(stock))
		require.NoError(t, p.SetMinStock(min))
		return *p
	}

	products := []catalog.Product{
		mk("A-1", 20, 5, "2.50"),
		mk("B-2", 3, 5, "4"),
		mk("C-3", 0, 0, "1"),
	}
	r := NewStockReport(products, time.Now())

	assert.Equal(t, 3, r.ProductCount)
	assert.Equal(t, int64(23), r.TotalUnits)
	assert.True(t, decimal.NewFromInt(62).Equal(r.TotalValue))
	assert.Equal(t, 2, r.LowStockCount)
	assert.Equal(t, 1, r.OutOfStock)
	assert.False(t, r.Lines[0].Low)
	assert.True(t, r.Lines[1].Low)
	assert.True(t, r.Lines[2].Low, "zero stock with zero threshold is at the threshold")
}
