package integration

import (
	"net/http"
	"sync"
	"testing"

	auditapp "github.com/exonyb/backoffice/internal/application/audit"
	catalogapp "github.com/exonyb/backoffice/internal/application/catalog"
	financeapp "github.com/exonyb/backoffice/internal/application/finance"
	notificationapp "github.com/exonyb/backoffice/internal/application/notification"
	partnerapp "github.com/exonyb/backoffice/internal/application/partner"
	tradeapp "github.com/exonyb/backoffice/internal/application/trade"
	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogSeed struct {
	token   string
	client  partnerapp.ClientResponse
	product catalogapp.ProductResponse
}

func seedCatalog(t *testing.T, app *testApp, stock int) catalogSeed {
	t.Helper()
	token := app.login(t, adminEmail, adminPassword).AccessToken

	var client partnerapp.ClientResponse
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/clients", token, map[string]any{
		"first_name": "Amina", "last_name": "Benali", "email": "amina@example.com",
	}, &client)

	var supplier partnerapp.SupplierResponse
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/suppliers", token, map[string]any{
		"name": "Périphériques SARL", "email": "contact@peripheriques.example",
	}, &supplier)

	var product catalogapp.ProductResponse
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/products", token, map[string]any{
		"reference":      "KB-01",
		"name":           "Clavier mécanique",
		"purchase_price": "30",
		"sale_price":     "50",
		"stock":          stock,
		"min_stock":      1,
		"supplier_id":    supplier.ID,
	}, &product)

	return catalogSeed{token: token, client: client, product: product}
}

func (a *testApp) stockOf(t *testing.T, token string, productID uuid.UUID) int {
	t.Helper()
	var p catalogapp.ProductResponse
	a.must(t, http.StatusOK, http.MethodGet, "/api/v1/products/"+productID.String(), token, nil, &p)
	return p.Stock
}

func TestOrderFlow_DeliveryAndRefund(t *testing.T) {
	app := newTestApp(t)
	seed := seedCatalog(t, app, 10)
	token := seed.token

	var order tradeapp.OrderResponse
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"client_id":        seed.client.ID,
		"shipping_address": "12 rue Didouche Mourad, Alger",
		"lines":            []map[string]any{{"product_id": seed.product.ID, "quantity": 3}},
	}, &order)
	assert.True(t, decimal.NewFromInt(150).Equal(order.TotalAmount))
	assert.Equal(t, 7, app.stockOf(t, token, seed.product.ID))

	for _, status := range []string{"confirmed", "shipped", "delivered"} {
		app.must(t, http.StatusOK, http.MethodPatch, "/api/v1/orders/"+order.ID.String()+"/status", token,
			map[string]string{"status": status}, &order)
	}
	assert.Equal(t, "delivered", order.Status)

	// delivery books the sale
	var entries []financeapp.EntryResponse
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/accounting/entries?entry_type=income", token, nil, &entries)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Automatic)
	assert.Equal(t, string(finance.CategorySale), entries[0].Category)
	require.NotNil(t, entries[0].OrderID)
	assert.Equal(t, order.ID, *entries[0].OrderID)

	// automatic entries are read-only
	w := app.do(http.MethodDelete, "/api/v1/accounting/entries/"+entries[0].ID.String(), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var ret tradeapp.ReturnResponse
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/returns", token, map[string]any{
		"order_id": order.ID, "reason": "Touches défectueuses", "restock": true,
	}, &ret)
	app.must(t, http.StatusOK, http.MethodPost, "/api/v1/returns/"+ret.ID.String()+"/approve", token, nil, &ret)
	app.must(t, http.StatusOK, http.MethodPost, "/api/v1/returns/"+ret.ID.String()+"/refund", token, nil, &ret)
	assert.Equal(t, "refunded", ret.Status)
	assert.Equal(t, 10, app.stockOf(t, token, seed.product.ID))

	var summary finance.Summary
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/accounting/summary", token, nil, &summary)
	assert.True(t, decimal.NewFromInt(150).Equal(summary.TotalIncome))
	assert.True(t, decimal.NewFromInt(150).Equal(summary.TotalExpense))
	assert.True(t, decimal.Zero.Equal(summary.Balance))
	assert.Equal(t, int64(2), summary.Count)

	// the whole lifecycle is audited
	var logs []auditapp.AuditLogResponse
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/audit-logs?entity_type=order&entity_id="+order.ID.String(), token, nil, &logs)
	actions := make(map[string]int)
	for _, l := range logs {
		actions[l.Action]++
	}
	assert.Equal(t, 1, actions["create"])
	assert.Equal(t, 3, actions["status_change"])

	// staff got a broadcast for the new order and the return
	var feed []notificationapp.NotificationResponse
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/notifications", token, nil, &feed)
	types := make(map[string]bool)
	for _, n := range feed {
		types[n.Type] = true
		assert.True(t, n.Broadcast)
	}
	assert.True(t, types["order_created"])
	assert.True(t, types["return_requested"])

	// invoice renders for the delivered order
	w = app.do(http.MethodGet, "/api/v1/reports/orders/"+order.ID.String()+"/invoice", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), order.OrderNumber)
}

func TestOrderFlow_CancelRestoresStock(t *testing.T) {
	app := newTestApp(t)
	seed := seedCatalog(t, app, 4)

	var order tradeapp.OrderResponse
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/orders", seed.token, map[string]any{
		"client_id": seed.client.ID,
		"lines":     []map[string]any{{"product_id": seed.product.ID, "quantity": 4}},
	}, &order)
	assert.Zero(t, app.stockOf(t, seed.token, seed.product.ID))

	app.must(t, http.StatusOK, http.MethodPatch, "/api/v1/orders/"+order.ID.String()+"/status", seed.token,
		map[string]string{"status": "cancelled", "reason": "Client injoignable"}, &order)
	assert.Equal(t, 4, app.stockOf(t, seed.token, seed.product.ID))

	// cancelled is terminal
	w := app.do(http.MethodPatch, "/api/v1/orders/"+order.ID.String()+"/status", seed.token, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// no sale was booked
	var entries []financeapp.EntryResponse
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/accounting/entries", seed.token, nil, &entries)
	assert.Empty(t, entries)
}

func TestOrderFlow_ConcurrentOrdersNeverOversell(t *testing.T) {
	app := newTestApp(t)
	seed := seedCatalog(t, app, 5)

	const buyers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[int]int)
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := app.do(http.MethodPost, "/api/v1/orders", seed.token, map[string]any{
				"client_id": seed.client.ID,
				"lines":     []map[string]any{{"product_id": seed.product.ID, "quantity": 1}},
			})
			mu.Lock()
			statuses[w.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, statuses[http.StatusCreated])
	assert.Equal(t, buyers-5, statuses[http.StatusUnprocessableEntity])
	assert.Zero(t, app.stockOf(t, seed.token, seed.product.ID))
}
