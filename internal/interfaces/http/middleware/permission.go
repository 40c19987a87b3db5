package middleware

import (
	"slices"

	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequirePermission lets the request through when the caller holds any of the
// permissions. Admins hold every permission.
func RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortWithError(c, shared.NewUnauthorizedError("UNAUTHORIZED", "Authentication required"))
			return
		}
		if !hasAnyPermission(claims, permissions) {
			logger.L(c.Request.Context()).Info("Permission denied",
				zap.String("path", c.FullPath()),
				zap.Strings("required_any", permissions),
				zap.String("role", claims.Role),
			)
			abortWithError(c, shared.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireRole lets the request through for the given roles only
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortWithError(c, shared.NewUnauthorizedError("UNAUTHORIZED", "Authentication required"))
			return
		}
		if !slices.Contains(roles, identity.Role(claims.Role)) {
			abortWithError(c, shared.ErrForbidden)
			return
		}
		c.Next()
	}
}

func hasAnyPermission(claims *auth.Claims, required []string) bool {
	if identity.Role(claims.Role) == identity.RoleAdmin {
		return true
	}
	for _, p := range required {
		if slices.Contains(claims.Permissions, p) {
			return true
		}
	}
	return false
}
