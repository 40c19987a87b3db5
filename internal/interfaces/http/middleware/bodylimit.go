package middleware

import (
	"net/http"

	"github.com/exonyb/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects declared oversize bodies up front and caps streamed ones.
// Reading past the cap surfaces an *http.MaxBytesError that ErrorHandler maps to 413.
// routeLimits overrides the limit for matched routes (gin full paths), e.g. uploads.
func BodyLimit(maxBytes int64, routeLimits map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if override, ok := routeLimits[c.FullPath()]; ok {
			limit = override
		}
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
