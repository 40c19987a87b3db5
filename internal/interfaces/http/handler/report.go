package handler

import (
	"fmt"
	"net/http"

	reportapp "github.com/exonyb/backoffice/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the printable PDF documents
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Invoice godoc
// @Summary      Download an order invoice
// @Tags         reports
// @Produce      application/pdf
// @Param        id path string true "Order ID"
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/orders/{id}/invoice [get]
func (h *ReportHandler) Invoice(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	doc, err := h.reportService.Invoice(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.attachment(c, doc)
}

// Sales godoc
// @Summary      Download the sales report
// @Description  Both bounds are inclusive; the default period is the current month to date
// @Tags         reports
// @Produce      application/pdf
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	var filter reportapp.SalesFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	doc, err := h.reportService.Sales(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.attachment(c, doc)
}

// Stock godoc
// @Summary      Download the stock report
// @Tags         reports
// @Produce      application/pdf
// @Success      200 {file} file
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/stock [get]
func (h *ReportHandler) Stock(c *gin.Context) {
	doc, err := h.reportService.Stock(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.attachment(c, doc)
}

func (h *ReportHandler) attachment(c *gin.Context, doc *reportapp.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
