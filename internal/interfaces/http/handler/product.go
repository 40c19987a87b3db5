package handler

import (
	"errors"
	"io"
	"net/http"

	catalogapp "github.com/exonyb/backoffice/internal/application/catalog"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// imageField is the multipart field carrying the product image
const imageField = "image"

// ProductHandler handles product, stock and image endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ImageService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, imageService *catalogapp.ImageService) *ProductHandler {
	return &ProductHandler{productService: productService, imageService: imageService}
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Search in reference and name"
// @Param        category query string false "Category"
// @Param        supplier_id query string false "Supplier ID"
// @Param        status query string false "active or inactive"
// @Param        low_stock query bool false "Only products at or below their threshold"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @Summary      Update a product
// @Description  Stock is not editable here, use the stock endpoint
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock godoc
// @Summary      Adjust stock
// @Description  Adds a signed delta to the stock. The stock never goes below zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.AdjustStockRequest true "Delta and reason"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req catalogapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.productService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadImage godoc
// @Summary      Upload the product image
// @Description  JPEG, PNG or WebP. Replaces the previous image.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        image formData file true "Image file"
// @Success      200 {object} dto.Response{data=catalogapp.ImageURLResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	header, err := c.FormFile(imageField)
	if err != nil {
		h.Fail(c, imageFormError(err))
		return
	}
	if header.Size > h.imageService.MaxSize() {
		h.Fail(c, shared.NewBadRequestError("INVALID_IMAGE_SIZE", "Image exceeds the maximum allowed size"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.Fail(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.imageService.MaxSize()+1))
	if err != nil {
		h.Fail(c, err)
		return
	}
	resp, err := h.imageService.Upload(c.Request.Context(), id, data)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// GetImage godoc
// @Summary      Get the product image URL
// @Description  Returns a download URL, presigned when images live in S3
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ImageURLResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/image [get]
func (h *ProductHandler) GetImage(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.imageService.GetURL(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// imageFormError keeps body-size errors intact so they render as 413
func imageFormError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	if errors.Is(err, http.ErrMissingFile) {
		return shared.NewValidationError("Request validation failed",
			shared.FieldError{Field: imageField, Message: "This field is required"})
	}
	return shared.NewBadRequestError("INVALID_INPUT", "Expected a multipart/form-data body")
}
