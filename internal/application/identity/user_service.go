package identity

import (
	"context"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles staff account administration
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	jwt       *auth.JWTService
	recorder  *appaudit.Recorder
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, jwtService *auth.JWTService, recorder *appaudit.Recorder) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		jwt:       jwtService,
		recorder:  recorder,
	}
}

// Create creates a new account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("EMAIL_ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Password, req.FirstName, req.LastName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if len(req.Permissions) > 0 {
		if err := user.SetPermissions(req.Permissions); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, audit.EntityUser, user.ID, map[string]any{
		"email": user.Email,
		"role":  user.Role,
	})

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves a page of users
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return items, total, nil
}

// Update changes name, role, status or extra permissions. Disabling an account
// or changing what it may do revokes its current sessions.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	self := isSelf(ctx, id)
	revoke := false

	if req.FirstName != nil || req.LastName != nil {
		first, last := user.FirstName, user.LastName
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		if err := user.SetName(first, last); err != nil {
			return nil, err
		}
	}
	if req.Role != nil && identity.Role(*req.Role) != user.Role {
		if self {
			return nil, shared.NewBusinessRuleError("CANNOT_CHANGE_OWN_ROLE", "You cannot change your own role")
		}
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
		revoke = true
	}
	if req.Status != nil && identity.UserStatus(*req.Status) != user.Status {
		if self {
			return nil, shared.NewBusinessRuleError("CANNOT_DISABLE_SELF", "You cannot disable your own account")
		}
		if err := user.SetStatus(identity.UserStatus(*req.Status)); err != nil {
			return nil, err
		}
		revoke = revoke || !user.IsActive()
	}
	if req.Permissions != nil {
		if err := user.SetPermissions(*req.Permissions); err != nil {
			return nil, err
		}
		revoke = true
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSessions(ctx, user.ID)
	}
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntityUser, user.ID, req)

	response := ToUserResponse(user)
	return &response, nil
}

// ResetPassword sets a new password without the old one and revokes sessions
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	// A reset also lifts a lockout.
	user.FailedAttempts = 0
	user.LockedUntil = nil
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntityUser, user.ID, map[string]any{"password_reset": true})
	return nil
}

// Delete removes an account. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if isSelf(ctx, id) {
		return shared.NewBusinessRuleError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.recorder.Record(ctx, audit.ActionDelete, audit.EntityUser, id, map[string]any{"email": user.Email})
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if err := s.blacklist.InvalidateUser(ctx, userID.String(), s.jwt.RefreshTokenExpiration()); err != nil {
		logger.L(ctx).Error("Failed to revoke user sessions",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

func isSelf(ctx context.Context, id uuid.UUID) bool {
	actor := shared.ActorFromContext(ctx)
	return actor.UserID != nil && *actor.UserID == id
}
