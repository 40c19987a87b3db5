package identity

import (
	"context"
	"testing"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type auditSpy struct {
	audit.Repository
	logs []*audit.AuditLog
}

func (a *auditSpy) Save(_ context.Context, l *audit.AuditLog) error {
	a.logs = append(a.logs, l)
	return nil
}

const testPassword = "motdepasse1"

type authFixture struct {
	svc       *AuthService
	users     *UserService
	repo      *MockUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	audit     *auditSpy
}

func newAuthFixture() authFixture {
	f := authFixture{
		repo:      new(MockUserRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		audit:     &auditSpy{},
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "backoffice-test",
		}),
	}
	recorder := appaudit.NewRecorder(f.audit)
	f.svc = NewAuthService(f.repo, f.jwt, f.blacklist, recorder, AuthServiceConfig{MaxLoginAttempts: 3, LockDuration: time.Minute})
	f.users = NewUserService(f.repo, f.blacklist, f.jwt, recorder)
	return f
}

func newUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser("staff@example.com", testPassword, "Nadia", "Haddad", role)
	require.NoError(t, err)
	return u
}

func asUser(u *identity.User) context.Context {
	return shared.WithActor(context.Background(), shared.Actor{UserID: &u.ID, Email: u.Email})
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens carrying effective permissions", func(t *testing.T) {
		f := newAuthFixture()
		user := newUser(t, identity.RoleEmployee)
		f.repo.On("FindByEmail", ctx, "staff@example.com").Return(user, nil)
		f.repo.On("Save", ctx, user).Return(nil)

		resp, err := f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: testPassword})

		require.NoError(t, err)
		claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Contains(t, claims.Permissions, "order:create")
		assert.NotContains(t, claims.Permissions, "user:read")
		assert.NotNil(t, user.LastLoginAt)
		require.Len(t, f.audit.logs, 1)
		assert.Equal(t, audit.ActionLogin, f.audit.logs[0].Action)
		assert.Equal(t, &user.ID, f.audit.logs[0].UserID)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		f := newAuthFixture()
		user := newUser(t, identity.RoleEmployee)
		f.repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.NewNotFoundError("USER_NOT_FOUND", "User not found"))
		f.repo.On("FindByEmail", ctx, "staff@example.com").Return(user, nil)
		f.repo.On("Save", ctx, user).Return(nil)

		_, err := f.svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: testPassword})
		assert.Equal(t, "INVALID_CREDENTIALS", codeOf(t, err))
		_, err = f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: "wrong-pass1"})
		assert.Equal(t, "INVALID_CREDENTIALS", codeOf(t, err))
		assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		f := newAuthFixture()
		user := newUser(t, identity.RoleEmployee)
		f.repo.On("FindByEmail", ctx, "staff@example.com").Return(user, nil)
		f.repo.On("Save", ctx, user).Return(nil)

		for i := 0; i < 2; i++ {
			_, err := f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: "wrong-pass1"})
			assert.Equal(t, "INVALID_CREDENTIALS", codeOf(t, err))
		}
		_, err := f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: "wrong-pass1"})
		assert.Equal(t, "ACCOUNT_LOCKED", codeOf(t, err))

		_, err = f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: testPassword})
		assert.Equal(t, "ACCOUNT_LOCKED", codeOf(t, err))
	})

	t.Run("disabled account", func(t *testing.T) {
		f := newAuthFixture()
		user := newUser(t, identity.RoleEmployee)
		require.NoError(t, user.SetStatus(identity.UserStatusDisabled))
		f.repo.On("FindByEmail", ctx, "staff@example.com").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: testPassword})
		assert.Equal(t, "ACCOUNT_DISABLED", codeOf(t, err))
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := newUser(t, identity.RoleManager)
	f.repo.On("FindByEmail", ctx, "staff@example.com").Return(user, nil)
	f.repo.On("FindByID", ctx, user.ID).Return(user, nil)
	f.repo.On("Save", ctx, user).Return(nil)

	login, err := f.svc.Login(ctx, LoginRequest{Email: "staff@example.com", Password: testPassword})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)

	_, err = f.svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, "TOKEN_REVOKED", codeOf(t, err), "refresh tokens are single use")

	claims, err := f.svc.ValidateAccessToken(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(asUser(user), claims, LogoutRequest{RefreshToken: refreshed.RefreshToken}))

	_, err = f.svc.ValidateAccessToken(ctx, refreshed.AccessToken)
	assert.Equal(t, "TOKEN_REVOKED", codeOf(t, err))
	_, err = f.svc.Refresh(ctx, RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.Equal(t, "TOKEN_REVOKED", codeOf(t, err))
}

func TestAuthService_InvalidToken(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.ValidateAccessToken(context.Background(), "garbage")
	assert.Equal(t, "TOKEN_INVALID", codeOf(t, err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	user := newUser(t, identity.RoleEmployee)
	ctx := asUser(user)
	f.repo.On("FindByID", ctx, user.ID).Return(user, nil)
	f.repo.On("Save", ctx, user).Return(nil)

	err := f.svc.ChangePassword(ctx, ChangePasswordRequest{OldPassword: "nope", NewPassword: "nouveau123"})
	assert.Equal(t, "INVALID_PASSWORD", codeOf(t, err))

	require.NoError(t, f.svc.ChangePassword(ctx, ChangePasswordRequest{OldPassword: testPassword, NewPassword: "nouveau123"}))
	assert.True(t, user.VerifyPassword("nouveau123"))

	invalidated, err := f.blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := f.users.Create(ctx, CreateUserRequest{
		Email:       "new@example.com",
		Password:    testPassword,
		FirstName:   "Yanis",
		LastName:    "Mansouri",
		Role:        "employee",
		Permissions: []string{"report:read"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"report:read"}, resp.Permissions)
	assert.Contains(t, resp.EffectivePermissions, "report:read")
	assert.Contains(t, resp.EffectivePermissions, "client:read")

	f.repo.On("ExistsByEmail", ctx, "dup@example.com").Return(true, nil)
	_, err = f.users.Create(ctx, CreateUserRequest{Email: "dup@example.com", Password: testPassword, FirstName: "A", LastName: "B", Role: "employee"})
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", codeOf(t, err))
}

func TestUserService_SelfProtection(t *testing.T) {
	f := newAuthFixture()
	admin := newUser(t, identity.RoleAdmin)
	ctx := asUser(admin)
	f.repo.On("FindByID", ctx, admin.ID).Return(admin, nil)

	err := f.users.Delete(ctx, admin.ID)
	assert.Equal(t, "CANNOT_DELETE_SELF", codeOf(t, err))
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	disabled := "disabled"
	_, err = f.users.Update(ctx, admin.ID, UpdateUserRequest{Status: &disabled})
	assert.Equal(t, "CANNOT_DISABLE_SELF", codeOf(t, err))
}

func TestUserService_DisableRevokesSessions(t *testing.T) {
	f := newAuthFixture()
	admin := newUser(t, identity.RoleAdmin)
	target := newUser(t, identity.RoleEmployee)
	ctx := asUser(admin)
	f.repo.On("FindByID", ctx, target.ID).Return(target, nil)
	f.repo.On("Save", ctx, target).Return(nil)

	disabled := "disabled"
	resp, err := f.users.Update(ctx, target.ID, UpdateUserRequest{Status: &disabled})

	require.NoError(t, err)
	assert.Equal(t, "disabled", resp.Status)
	invalidated, err := f.blacklist.IsUserTokenInvalidated(ctx, target.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin on empty table", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Count", ctx, shared.Filter{}).Return(int64(0), nil)
		repo.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.RoleAdmin && u.Email == "admin@example.com"
		})).Return(nil)

		created, err := EnsureAdmin(ctx, repo, "admin@example.com", "changeme123", zap.NewNop())
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("leaves existing users alone", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Count", ctx, shared.Filter{}).Return(int64(3), nil)

		created, err := EnsureAdmin(ctx, repo, "admin@example.com", "changeme123", zap.NewNop())
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
