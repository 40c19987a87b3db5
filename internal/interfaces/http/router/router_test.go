package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/exonyb/backoffice/internal/interfaces/http/dto"
	"github.com/exonyb/backoffice/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenTable map[string]*auth.Claims

func (t tokenTable) ValidateAccessToken(_ context.Context, token string) (*auth.Claims, error) {
	if claims, ok := t[token]; ok {
		return claims, nil
	}
	return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid token")
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var protectedCalls int
	r := NewRouter(engine, WithAPIVersion("v2"), WithAuth(func(c *gin.Context) {
		protectedCalls++
		c.Next()
	}))

	r.Public(NewDomainGroup("auth", "/auth").POST("/login", "", func(c *gin.Context) {
		c.String(http.StatusOK, "login")
	}))
	r.Register(NewDomainGroup("system", "/system").GET("/ping", "", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v2/auth/login", nil))
	assert.Equal(t, "login", w.Body.String())
	assert.Zero(t, protectedCalls)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/system/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, 1, protectedCalls)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with resource and prefix", func(t *testing.T) {
		g := NewDomainGroup("product", "/products")
		assert.Equal(t, "product", g.Resource())
		assert.Equal(t, "/products", g.Prefix())
	})

	t.Run("maps routes to permissions", func(t *testing.T) {
		g := NewDomainGroup("order", "/orders").
			GET("", "read", nil).
			PATCH("/:id/status", "update", nil).
			GET("/public", "", nil)

		assert.Equal(t, map[string]string{
			"GET /orders":              "order:read",
			"PATCH /orders/:id/status": "order:update",
			"GET /orders/public":       "",
		}, g.Permissions())
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		})
		g.GET("/items", "", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	employee := uuid.New()
	admin := uuid.New()
	tokens := tokenTable{
		"employee": {
			UserID:      employee.String(),
			Role:        "employee",
			Permissions: []string{"client:read", "notification:read"},
			TokenType:   auth.TokenTypeAccess,
		},
		"auditor": {
			UserID:      uuid.NewString(),
			Role:        "manager",
			Permissions: []string{"audit:read", "audit:delete"},
			TokenType:   auth.TokenTypeAccess,
		},
		"admin": {
			UserID:    admin.String(),
			Role:      "admin",
			TokenType: auth.TokenTypeAccess,
		},
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.HTTP.MaxBodySize = 1 << 20
	cfg.Storage.MaxImageSize = 5 << 20

	engine, err := New(cfg, Dependencies{Logger: zap.NewNop(), Tokens: tokens}, Handlers{
		System: handler.NewSystemHandler("test", nil),
	})
	require.NoError(t, err)
	return engine
}

func call(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestNew_Guards(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{"missing token", http.MethodGet, "/api/v1/clients", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown token", http.MethodGet, "/api/v1/orders", "nope", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"employee cannot create suppliers", http.MethodPost, "/api/v1/suppliers", "employee", http.StatusForbidden, "FORBIDDEN"},
		{"employee cannot read accounting", http.MethodGet, "/api/v1/accounting/summary", "employee", http.StatusForbidden, "FORBIDDEN"},
		{"employee cannot purge audit", http.MethodPost, "/api/v1/audit-logs/purge", "employee", http.StatusForbidden, "FORBIDDEN"},
		{"purge is reserved to admins", http.MethodPost, "/api/v1/audit-logs/purge", "auditor", http.StatusForbidden, "FORBIDDEN"},
		{"employee cannot broadcast", http.MethodPost, "/api/v1/notifications", "employee", http.StatusForbidden, "FORBIDDEN"},
		{"employee cannot list users", http.MethodGet, "/api/v1/users", "employee", http.StatusForbidden, "FORBIDDEN"},
		{"unknown route", http.MethodGet, "/api/v1/nothing", "admin", http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", http.MethodPut, "/api/v1/orders", "admin", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(engine, tt.method, tt.path, tt.token)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, w))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNew_PublicRoutes(t *testing.T) {
	engine := newTestEngine(t)

	w := call(engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(engine, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "documentation is disabled by default")
}

func TestAPIGroups_Permissions(t *testing.T) {
	perms := make(map[string]string)
	for _, g := range apiGroups(Handlers{}) {
		for route, perm := range g.Permissions() {
			perms[route] = perm
		}
	}

	assert.Equal(t, "", perms["GET /auth/me"])
	assert.Equal(t, "client:read", perms["GET /clients/:id/orders"])
	assert.Equal(t, "product:update", perms["POST /products/:id/image"])
	assert.Equal(t, "order:update", perms["PATCH /orders/:id/status"])
	assert.Equal(t, "return:update", perms["POST /returns/:id/refund"])
	assert.Equal(t, "audit:delete", perms["POST /audit-logs/purge"])
	assert.Equal(t, "user:update", perms["PUT /users/:id/password"])
	assert.Equal(t, "report:read", perms["GET /reports/orders/:id/invoice"])
	assert.Equal(t, "notification:read", perms["PATCH /notifications/read-all"])
}
