package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	reportapp "github.com/exonyb/backoffice/internal/application/report"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrinter struct {
	printed []string
	err     error
}

func (p *fakePrinter) Print(_ context.Context, name string, _ any) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.printed = append(p.printed, name)
	return []byte("%PDF-1.7 " + name), nil
}

func setupReportRouter(t *testing.T, printer *fakePrinter) *gin.Engine {
	t.Helper()
	db := newTestDB(t)
	product, err := catalog.NewProduct("KB-01", "Clavier", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(db).Save(context.Background(), product))

	service := reportapp.NewReportService(
		persistence.NewGormOrderRepository(db),
		persistence.NewGormClientRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormAccountingEntryRepository(db),
		printer,
	)
	h := NewReportHandler(service)

	r := newTestRouter(nil)
	r.GET("/reports/orders/:id/invoice", h.Invoice)
	r.GET("/reports/sales", h.Sales)
	r.GET("/reports/stock", h.Stock)
	return r
}

func TestReportHandler_Stock(t *testing.T) {
	printer := &fakePrinter{}
	r := setupReportRouter(t, printer)

	w := doRequest(r, http.MethodGet, "/reports/stock", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="stock-\d{8}\.pdf"$`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "%PDF-1.7")
	assert.Len(t, printer.printed, 1)
}

func TestReportHandler_Sales(t *testing.T) {
	printer := &fakePrinter{}
	r := setupReportRouter(t, printer)

	w := doRequest(r, http.MethodGet, "/reports/sales?from=2026-01-01&to=2026-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename="ventes-20260101-20260131.pdf"`, w.Header().Get("Content-Disposition"))

	w = doRequest(r, http.MethodGet, "/reports/sales?from=01/01/2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/reports/sales?from=2026-02-01&to=2026-01-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PERIOD", envelope(t, w, nil).Error.Code)
}

func TestReportHandler_Invoice(t *testing.T) {
	t.Run("unknown order", func(t *testing.T) {
		r := setupReportRouter(t, &fakePrinter{})
		w := doRequest(r, http.MethodGet, "/reports/orders/"+uuid.NewString()+"/invoice", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("printer failure hides the cause", func(t *testing.T) {
		r := setupReportRouter(t, &fakePrinter{err: errors.New("chrome exited")})
		w := doRequest(r, http.MethodGet, "/reports/stock", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := envelope(t, w, nil)
		assert.Equal(t, "PDF_GENERATION_FAILED", resp.Error.Code)
		assert.NotContains(t, w.Body.String(), "chrome exited")
	})
}
