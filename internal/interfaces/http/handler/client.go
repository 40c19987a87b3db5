package handler

import (
	partnerapp "github.com/exonyb/backoffice/internal/application/partner"
	tradeapp "github.com/exonyb/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService *partnerapp.ClientService
	orderService  *tradeapp.OrderService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService, orderService *tradeapp.OrderService) *ClientHandler {
	return &ClientHandler{clientService: clientService, orderService: orderService}
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        search query string false "Search in name, email and phone"
// @Param        status query string false "active or inactive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]partnerapp.ClientResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var filter partnerapp.ClientListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// ListOrders godoc
// @Summary      List a client's orders
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        status query string false "Order status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderListItemResponse,meta=dto.Meta}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id}/orders [get]
func (h *ClientHandler) ListOrders(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.orderService.ListByClient(c.Request.Context(), id, filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateClientRequest true "Client"
// @Success      201 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body partnerapp.UpdateClientRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a client
// @Description  Clients with orders cannot be deleted
// @Tags         clients
// @Param        id path string true "Client ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}
