package middleware

import (
	"context"
	"strings"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by Auth
const (
	ClaimsKey = "auth_claims"
	UserIDKey = "user_id"
)

const bearerPrefix = "Bearer "

// TokenValidator checks an access token, including revocation
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error)
}

// Auth requires a valid bearer access token. It stores the claims in the gin
// context and completes the request actor used for auditing.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, shared.NewUnauthorizedError("UNAUTHORIZED", "Missing authorization header"))
			return
		}
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			abortWithError(c, shared.NewUnauthorizedError("UNAUTHORIZED", "Invalid authorization header format"))
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			abortWithError(c, shared.NewUnauthorizedError("UNAUTHORIZED", "Missing token"))
			return
		}

		ctx := c.Request.Context()
		claims, err := validator.ValidateAccessToken(ctx, token)
		if err != nil {
			logger.L(ctx).Debug("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abortWithError(c, err)
			return
		}

		userID, err := claims.UserUUID()
		if err != nil {
			abortWithError(c, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid token"))
			return
		}

		actor := shared.ActorFromContext(ctx)
		actor.UserID = &userID
		actor.Email = claims.Email
		if actor.IPAddress == "" {
			actor.IPAddress = c.ClientIP()
			actor.UserAgent = c.Request.UserAgent()
		}
		ctx = shared.WithActor(ctx, actor)
		ctx = logger.WithUserID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// GetClaims returns the claims stored by Auth, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// abortWithError hands err to ErrorHandler and stops the chain
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
