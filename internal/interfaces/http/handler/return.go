package handler

import (
	"context"

	tradeapp "github.com/exonyb/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReturnHandler handles return endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// List godoc
// @Summary      List returns
// @Tags         returns
// @Produce      json
// @Param        search query string false "Search in reason"
// @Param        status query string false "requested, approved, rejected or refunded"
// @Param        order_id query string false "Order ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]tradeapp.ReturnResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	var filter tradeapp.ReturnListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a return
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	h.transition(c, h.returnService.GetByID)
}

// Create godoc
// @Summary      Open a return
// @Description  Only delivered orders can be returned, once
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateReturnRequest true "Return"
// @Success      201 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	var req tradeapp.CreateReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, resp)
}

// Approve godoc
// @Summary      Approve a return
// @Description  Restocks the returned products when the return asks for it
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *gin.Context) {
	h.transition(c, h.returnService.Approve)
}

// Reject godoc
// @Summary      Reject a return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body tradeapp.RejectReturnRequest true "Reason"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req tradeapp.RejectReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.returnService.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Refund godoc
// @Summary      Refund an approved return
// @Description  Books the refund as an accounting expense
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id}/refund [post]
func (h *ReturnHandler) Refund(c *gin.Context) {
	h.transition(c, h.returnService.Refund)
}

// Delete godoc
// @Summary      Delete a return
// @Tags         returns
// @Param        id path string true "Return ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id} [delete]
func (h *ReturnHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.returnService.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ReturnHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*tradeapp.ReturnResponse, error)) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}
