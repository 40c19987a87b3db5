package middleware

import (
	"net/http"

	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/exonyb/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached with c.Error as the JSON
// envelope. Handlers never write error responses themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, info := dto.ErrorInfoOf(err, GetRequestID(c))
		if status >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("Request failed",
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Error(err),
			)
		}
		c.AbortWithStatusJSON(status, dto.Response{Success: false, Error: info})
	}
}

// NoRoute answers unknown paths with the JSON envelope
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Resource not found", GetRequestID(c)))
}

// NoMethod answers known paths called with the wrong method
func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeMethodNotAllowed, "Method not allowed", GetRequestID(c)))
}
