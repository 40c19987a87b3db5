package handler

import (
	notificationapp "github.com/exonyb/backoffice/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the caller's notification feed
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// @Summary      List my notifications
// @Description  Personal notifications plus broadcasts, newest first
// @Tags         notifications
// @Produce      json
// @Param        unread query bool false "Only unread"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]notificationapp.NotificationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.NotificationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.notificationService.ListMine(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// UnreadCount godoc
// @Summary      Count my unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=notificationapp.UnreadCountResponse}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	resp, err := h.notificationService.CountUnread(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      Send a system notification
// @Description  Without user_id the notification is broadcast to all staff
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.CreateNotificationRequest true "Notification"
// @Success      201 {object} dto.Response{data=notificationapp.NotificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req notificationapp.CreateNotificationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.notificationService.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, resp)
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=notificationapp.NotificationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.notificationService.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkAllRead godoc
// @Summary      Mark all my notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=notificationapp.MarkAllReadResponse}
// @Security     BearerAuth
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	resp, err := h.notificationService.MarkAllRead(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}
