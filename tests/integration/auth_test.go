package integration

import (
	"net/http"
	"testing"

	identityapp "github.com/exonyb/backoffice/internal/application/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_LoginRefreshLogout(t *testing.T) {
	app := newTestApp(t)

	session := app.login(t, adminEmail, adminPassword)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, "admin", session.User.Role)

	var me identityapp.UserResponse
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/auth/me", session.AccessToken, nil, &me)
	assert.Equal(t, adminEmail, me.Email)
	assert.NotNil(t, me.LastLoginAt)

	// refresh tokens are single use
	var refreshed identityapp.TokenResponse
	app.must(t, http.StatusOK, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": session.RefreshToken}, &refreshed)
	require.NotEmpty(t, refreshed.AccessToken)

	w := app.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": session.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", decode(t, w, nil).Error.Code)

	// logout revokes the access token immediately
	app.must(t, http.StatusNoContent, http.MethodPost, "/api/v1/auth/logout", refreshed.AccessToken,
		map[string]string{"refresh_token": refreshed.RefreshToken}, nil)
	w = app.do(http.MethodGet, "/api/v1/auth/me", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_LockoutAfterFailedAttempts(t *testing.T) {
	app := newTestApp(t)
	wrong := map[string]string{"email": adminEmail, "password": "not-the-password"}

	for i := 0; i < app.cfg.Auth.MaxLoginAttempts-1; i++ {
		w := app.do(http.MethodPost, "/api/v1/auth/login", "", wrong)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w, nil).Error.Code)
	}

	w := app.do(http.MethodPost, "/api/v1/auth/login", "", wrong)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", decode(t, w, nil).Error.Code)

	// the right password is refused while the lock holds
	w = app.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", decode(t, w, nil).Error.Code)
}

func TestAuth_EmployeePermissions(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, adminEmail, adminPassword).AccessToken

	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/users", admin, map[string]any{
		"email":      "sofia@backoffice.test",
		"password":   "employee-pass",
		"first_name": "Sofia",
		"last_name":  "Haddad",
		"role":       "employee",
	}, nil)

	employee := app.login(t, "sofia@backoffice.test", "employee-pass").AccessToken

	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/clients", employee, nil, nil)
	app.must(t, http.StatusCreated, http.MethodPost, "/api/v1/clients", employee, map[string]any{
		"first_name": "Yanis", "last_name": "Amrani", "email": "yanis@example.com",
	}, nil)

	for _, path := range []string{"/api/v1/accounting/entries", "/api/v1/audit-logs", "/api/v1/users"} {
		w := app.do(http.MethodGet, path, employee, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	// a disabled account can no longer sign in
	var users []identityapp.UserResponse
	app.must(t, http.StatusOK, http.MethodGet, "/api/v1/users?search=sofia", admin, nil, &users)
	require.Len(t, users, 1)
	app.must(t, http.StatusOK, http.MethodPut, "/api/v1/users/"+users[0].ID.String(), admin,
		map[string]any{"status": "disabled"}, nil)

	w := app.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "sofia@backoffice.test", "password": "employee-pass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_DISABLED", decode(t, w, nil).Error.Code)
}
