package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"min=1"`
}

type testOrderRequest struct {
	ClientID    string     `json:"client_id" binding:"required,uuid"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Status      string     `json:"status" binding:"omitempty,oneof=pending delivered"`
	Permissions []string   `json:"permissions" binding:"omitempty,dive,permission"`
	Lines       []testLine `json:"lines" binding:"required,min=1,dive"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	require.NoError(t, SetupValidator())

	var bindErr error
	r := gin.New()
	r.POST("/orders", func(c *gin.Context) {
		var req testOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindErr = BindingError(err)
		}
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
	return bindErr
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, shared.KindValidation, domainErr.Kind)
	out := map[string]string{}
	for _, d := range domainErr.Details {
		out[d.Field] = d.Message
	}
	return out
}

func TestBindingError_FieldDetails(t *testing.T) {
	err := bind(t, `{
		"client_id": "nope",
		"email": "not-an-email",
		"status": "lost",
		"permissions": ["order:read", "order:explode"],
		"lines": [{"product_id": "6f1c1f0e-8f5e-4b8e-9a55-2f1f5b1e0c11", "quantity": 0}]
	}`)

	got := details(t, err)
	assert.Equal(t, "Invalid UUID format", got["client_id"])
	assert.Equal(t, "Invalid email format", got["email"])
	assert.Equal(t, "Must be one of: pending delivered", got["status"])
	assert.Equal(t, "Unknown permission code", got["permissions[1]"])
	assert.Equal(t, "Must be at least 1", got["lines[0].quantity"])
	assert.NotContains(t, got, "permissions[0]")
}

func TestBindingError_EmptyLines(t *testing.T) {
	err := bind(t, `{"client_id": "6f1c1f0e-8f5e-4b8e-9a55-2f1f5b1e0c11", "lines": []}`)
	assert.Equal(t, "Must contain at least 1 items", details(t, err)["lines"])
}

func TestBindingError_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind shared.ErrorKind
		code string
	}{
		{"empty body", ``, shared.KindBadRequest, "INVALID_JSON"},
		{"syntax", `{"client_id":`, shared.KindBadRequest, "INVALID_JSON"},
		{"wrong type", `{"client_id": 12}`, shared.KindValidation, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bind(t, tt.body)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.kind, domainErr.Kind)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestBindingError_KeepsMaxBytes(t *testing.T) {
	err := BindingError(&http.MaxBytesError{Limit: 1})
	var maxBytes *http.MaxBytesError
	assert.True(t, errors.As(err, &maxBytes))
}
