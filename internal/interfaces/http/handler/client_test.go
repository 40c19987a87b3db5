package handler

import (
	"net/http"
	"testing"

	partnerapp "github.com/exonyb/backoffice/internal/application/partner"
	tradeapp "github.com/exonyb/backoffice/internal/application/trade"
	"github.com/exonyb/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupClientRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	clientRepo := persistence.NewGormClientRepository(db)
	orderService := tradeapp.NewOrderService(persistence.NewGormOrderRepository(db), clientRepo, persistence.NewGormTransactionScope(db))
	h := NewClientHandler(partnerapp.NewClientService(clientRepo, newTestRecorder(db)), orderService)

	r := newTestRouter(nil)
	r.GET("/clients", h.List)
	r.GET("/clients/:id", h.GetByID)
	r.GET("/clients/:id/orders", h.ListOrders)
	r.POST("/clients", h.Create)
	r.PUT("/clients/:id", h.Update)
	r.DELETE("/clients/:id", h.Delete)
	return r, db
}

func TestClientHandler_Create(t *testing.T) {
	r, _ := setupClientRouter(t)

	t.Run("creates and returns the client", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/clients", map[string]any{
			"first_name": "Amina",
			"last_name":  "Benali",
			"email":      "Amina@Example.com",
			"phone":      "0555 12 34 56",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var client partnerapp.ClientResponse
		resp := envelope(t, w, &client)
		assert.True(t, resp.Success)
		assert.Equal(t, "amina@example.com", client.Email)
		assert.Equal(t, "Amina Benali", client.FullName)
		assert.NotEqual(t, uuid.Nil, client.ID)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/clients", map[string]any{
			"first_name": "Autre",
			"last_name":  "Personne",
			"email":      "amina@example.com",
		})
		require.Equal(t, http.StatusConflict, w.Code)
		resp := envelope(t, w, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	})

	t.Run("invalid body lists field errors", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/clients", map[string]any{
			"first_name": "",
			"email":      "not-an-email",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := envelope(t, w, nil)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "first_name")
		assert.Contains(t, fields, "last_name")
		assert.Contains(t, fields, "email")
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/clients", `{"first_name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_JSON", envelope(t, w, nil).Error.Code)
	})
}

func TestClientHandler_GetByID(t *testing.T) {
	r, _ := setupClientRouter(t)

	t.Run("invalid id", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/clients/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ID", envelope(t, w, nil).Error.Code)
	})

	t.Run("unknown client", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/clients/"+uuid.NewString(), nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "CLIENT_NOT_FOUND", envelope(t, w, nil).Error.Code)
	})
}

func TestClientHandler_ListAndUpdate(t *testing.T) {
	r, _ := setupClientRouter(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		w := doRequest(r, http.MethodPost, "/clients", map[string]any{
			"first_name": "Client", "last_name": email[:1], "email": email,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(r, http.MethodGet, "/clients?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []partnerapp.ClientResponse
	resp := envelope(t, w, &items)
	assert.Len(t, items, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	w = doRequest(r, http.MethodGet, "/clients?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := items[0].ID.String()
	w = doRequest(r, http.MethodPut, "/clients/"+id, map[string]any{"status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated partnerapp.ClientResponse
	envelope(t, w, &updated)
	assert.Equal(t, "inactive", updated.Status)

	w = doRequest(r, http.MethodGet, "/clients/"+id+"/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []tradeapp.OrderListItemResponse
	envelope(t, w, &orders)
	assert.Empty(t, orders)

	w = doRequest(r, http.MethodDelete, "/clients/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(r, http.MethodGet, "/clients/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
