package handler

import (
	identityapp "github.com/exonyb/backoffice/internal/application/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Log in
// @Description  Exchange email and password for an access and a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=identityapp.LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new token pair. Refresh tokens are single use.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=identityapp.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the access token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Param        request body identityapp.LogoutRequest false "Refresh token to revoke"
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req identityapp.LogoutRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Fail(c, shared.NewUnauthorizedError("UNAUTHORIZED", "Authentication required"))
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims, req); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.authService.Me(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword godoc
// @Summary      Change own password
// @Description  Other sessions of the user are revoked
// @Tags         auth
// @Accept       json
// @Param        request body identityapp.ChangePasswordRequest true "Old and new password"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identityapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), req); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}
