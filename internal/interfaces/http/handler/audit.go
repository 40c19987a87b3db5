package handler

import (
	auditapp "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the audit history
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// @Summary      List audit rows
// @Tags         audit
// @Produce      json
// @Param        user_id query string false "Acting user ID"
// @Param        entity_type query string false "Entity type"
// @Param        entity_id query string false "Entity ID"
// @Param        action query string false "Action"
// @Param        date_from query string false "From date (YYYY-MM-DD)"
// @Param        date_to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]auditapp.AuditLogResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter auditapp.AuditLogListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get an audit row
// @Tags         audit
// @Produce      json
// @Param        id path string true "Audit row ID"
// @Success      200 {object} dto.Response{data=auditapp.AuditLogResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs/{id} [get]
func (h *AuditHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.auditService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Purge godoc
// @Summary      Purge old audit rows
// @Description  Deletes rows older than the given number of days and records the purge
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        request body auditapp.PurgeRequest true "Retention"
// @Success      200 {object} dto.Response{data=auditapp.PurgeResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs/purge [post]
func (h *AuditHandler) Purge(c *gin.Context) {
	var req auditapp.PurgeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.auditService.Purge(c.Request.Context(), req.OlderThanDays)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}
