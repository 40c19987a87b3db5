package handler

import (
	"net/http"
	"testing"

	notificationapp "github.com/exonyb/backoffice/internal/application/notification"
	"github.com/exonyb/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotificationRouter(t *testing.T, actor *uuid.UUID) (*gin.Engine, *notificationapp.NotificationService) {
	t.Helper()
	service := notificationapp.NewNotificationService(persistence.NewGormNotificationRepository(newTestDB(t)))
	h := NewNotificationHandler(service)

	r := newTestRouter(actor)
	r.GET("/notifications", h.List)
	r.GET("/notifications/unread-count", h.UnreadCount)
	r.POST("/notifications", h.Create)
	r.PATCH("/notifications/read-all", h.MarkAllRead)
	r.PATCH("/notifications/:id/read", h.MarkRead)
	r.DELETE("/notifications/:id", h.Delete)
	return r, service
}

func unreadCount(t *testing.T, r *gin.Engine) int64 {
	t.Helper()
	w := doRequest(r, http.MethodGet, "/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var count notificationapp.UnreadCountResponse
	envelope(t, w, &count)
	return count.Count
}

func TestNotificationHandler_Feed(t *testing.T) {
	me, someoneElse := uuid.New(), uuid.New()
	r, _ := setupNotificationRouter(t, &me)

	for _, body := range []map[string]any{
		{"user_id": me, "title": "Pour moi", "message": "Bonjour"},
		{"title": "Pour tous", "message": "Maintenance ce soir"},
		{"user_id": someoneElse, "title": "Pas pour moi", "message": "Privé"},
	} {
		w := doRequest(r, http.MethodPost, "/notifications", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doRequest(r, http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []notificationapp.NotificationResponse
	resp := envelope(t, w, &items)
	assert.Equal(t, int64(2), resp.Meta.Total)
	for _, n := range items {
		assert.NotEqual(t, "Pas pour moi", n.Title)
		assert.Equal(t, "system", n.Type)
	}
	assert.Equal(t, int64(2), unreadCount(t, r))

	w = doRequest(r, http.MethodPatch, "/notifications/"+items[0].ID.String()+"/read", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var read notificationapp.NotificationResponse
	envelope(t, w, &read)
	assert.True(t, read.Read)
	assert.Equal(t, int64(1), unreadCount(t, r))

	w = doRequest(r, http.MethodPatch, "/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all notificationapp.MarkAllReadResponse
	envelope(t, w, &all)
	assert.Equal(t, int64(1), all.Updated)
	assert.Zero(t, unreadCount(t, r))

	w = doRequest(r, http.MethodGet, "/notifications?unread=true", nil)
	assert.Equal(t, int64(0), envelope(t, w, nil).Meta.Total)
}

func TestNotificationHandler_Validation(t *testing.T) {
	me := uuid.New()
	r, _ := setupNotificationRouter(t, &me)

	w := doRequest(r, http.MethodPost, "/notifications", map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, envelope(t, w, nil).Error.Details, 2)

	w = doRequest(r, http.MethodPatch, "/notifications/"+uuid.NewString()+"/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationHandler_RequiresCaller(t *testing.T) {
	r, _ := setupNotificationRouter(t, nil)

	w := doRequest(r, http.MethodGet, "/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
