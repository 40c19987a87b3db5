package identity

import (
	"context"
	"fmt"

	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// EnsureAdmin creates the first administrator when the users table is empty.
// It returns true when an account was created.
func EnsureAdmin(ctx context.Context, repo identity.UserRepository, email, password string, log *zap.Logger) (bool, error) {
	count, err := repo.Count(ctx, shared.Filter{})
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if email == "" || password == "" {
		log.Warn("No user exists and no bootstrap admin is configured; nobody can log in")
		return false, nil
	}

	admin, err := identity.NewUser(email, password, "Admin", "Backoffice", identity.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("invalid bootstrap admin: %w", err)
	}
	if err := repo.Save(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	log.Info("Bootstrap admin created", zap.String("email", admin.Email))
	return true, nil
}
