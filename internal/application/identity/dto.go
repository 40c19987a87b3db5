package identity

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents a self-service password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// TokenResponse carries a token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// CreateUserRequest represents an admin creating an account
type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email,max=200"`
	Password    string   `json:"password" binding:"required,min=8,max=72"`
	FirstName   string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string   `json:"last_name" binding:"required,min=1,max=100"`
	Role        string   `json:"role" binding:"required,oneof=admin manager employee"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,permission"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	FirstName   *string   `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName    *string   `json:"last_name" binding:"omitempty,min=1,max=100"`
	Role        *string   `json:"role" binding:"omitempty,oneof=admin manager employee"`
	Status      *string   `json:"status" binding:"omitempty,oneof=active disabled"`
	Permissions *[]string `json:"permissions" binding:"omitempty,dive,permission"`
}

// ResetPasswordRequest represents an admin password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Email                string     `json:"email"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	FullName             string     `json:"full_name"`
	Role                 string     `json:"role"`
	Permissions          []string   `json:"permissions"`
	EffectivePermissions []string   `json:"effective_permissions"`
	Status               string     `json:"status"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin manager employee"`
	Status   string `form:"status" binding:"omitempty,oneof=active disabled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		FullName:             u.FullName(),
		Role:                 string(u.Role),
		Permissions:          perms,
		EffectivePermissions: u.EffectivePermissions(),
		Status:               string(u.Status),
		LastLoginAt:          u.LastLoginAt,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}
