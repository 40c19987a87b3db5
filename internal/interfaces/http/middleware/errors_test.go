package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	r := newTestEngine()
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(shared.NewNotFoundError("ORDER_NOT_FOUND", "Order not found"))
	})
	r.GET("/stock", func(c *gin.Context) {
		_ = c.Error(shared.ErrInsufficientStock)
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})
	r.NoRoute(NoRoute)

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("domain error", func(t *testing.T) {
		w := serve("/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "ORDER_NOT_FOUND", resp.Error.Code)
		assert.Equal(t, w.Header().Get(RequestIDHeader), resp.Error.RequestID)
	})

	t.Run("business rule", func(t *testing.T) {
		w := serve("/stock")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", decodeResponse(t, w).Error.Code)
	})

	t.Run("internal error hides details", func(t *testing.T) {
		w := serve("/boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	})

	t.Run("response already written", func(t *testing.T) {
		w := serve("/written")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		w := serve("/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeResponse(t, w).Error.Code)
	})
}
