package handler

import (
	"net/http"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/interfaces/http/dto"
	"github.com/exonyb/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultPageSize = 20

// BaseHandler provides common handler utilities. Errors are attached with
// c.Error and rendered by middleware.ErrorHandler.
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail hands err to the error middleware
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// BindJSON binds and validates the body, failing the request on error
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Fail(c, middleware.BindingError(err))
		return false
	}
	return true
}

// BindQuery binds and validates the query string, failing the request on error
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Fail(c, middleware.BindingError(err))
		return false
	}
	return true
}

// ParamID parses the ":id" path parameter
func (h *BaseHandler) ParamID(c *gin.Context) (uuid.UUID, bool) {
	return h.ParamUUID(c, "id")
}

// ParamUUID parses a UUID path parameter
func (h *BaseHandler) ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Fail(c, shared.NewBadRequestError("INVALID_ID", "Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}
