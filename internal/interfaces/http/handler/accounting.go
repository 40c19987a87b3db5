package handler

import (
	financeapp "github.com/exonyb/backoffice/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// AccountingHandler handles accounting entry endpoints
type AccountingHandler struct {
	BaseHandler
	entryService *financeapp.EntryService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(entryService *financeapp.EntryService) *AccountingHandler {
	return &AccountingHandler{entryService: entryService}
}

// List godoc
// @Summary      List accounting entries
// @Tags         accounting
// @Produce      json
// @Param        search query string false "Search in description"
// @Param        entry_type query string false "income or expense"
// @Param        category query string false "sale, refund, purchase, salary or other"
// @Param        date_from query string false "From date (YYYY-MM-DD)"
// @Param        date_to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]financeapp.EntryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries [get]
func (h *AccountingHandler) List(c *gin.Context) {
	var filter financeapp.EntryListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.entryService.List(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get an accounting entry
// @Tags         accounting
// @Produce      json
// @Param        id path string true "Entry ID"
// @Success      200 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries/{id} [get]
func (h *AccountingHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.entryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      Record a manual entry
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateEntryRequest true "Entry"
// @Success      201 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries [post]
func (h *AccountingHandler) Create(c *gin.Context) {
	var req financeapp.CreateEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.entryService.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @Summary      Update a manual entry
// @Description  Entries booked from orders and returns are read-only
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID"
// @Param        request body financeapp.UpdateEntryRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries/{id} [put]
func (h *AccountingHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req financeapp.UpdateEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.entryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a manual entry
// @Tags         accounting
// @Param        id path string true "Entry ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/entries/{id} [delete]
func (h *AccountingHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.entryService.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}

// Summary godoc
// @Summary      Income, expense and balance
// @Tags         accounting
// @Produce      json
// @Param        from query string false "From date, inclusive (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=finance.Summary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/summary [get]
func (h *AccountingHandler) Summary(c *gin.Context) {
	var filter financeapp.SummaryFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	resp, err := h.entryService.Summary(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}
