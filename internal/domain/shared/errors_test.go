package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := NewNotFoundError("NOT_FOUND", "Client not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrAlreadyExists))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading order: %w", ErrInsufficientStock)
		assert.True(t, errors.Is(err, ErrInsufficientStock))

		var domainErr *DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, KindBusinessRule, domainErr.Kind)
	})
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Request validation failed",
		FieldError{Field: "email", Message: "Invalid email format"},
	)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "email", err.Details[0].Field)
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	f.Page = 3
	assert.Equal(t, 200, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated[int](nil, 0, 1, 20)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestActorContext(t *testing.T) {
	assert.True(t, ActorFromContext(context.Background()).IsSystem())

	id := uuid.New()
	ctx := WithActor(context.Background(), Actor{UserID: &id, IPAddress: "10.0.0.1"})
	actor := ActorFromContext(ctx)
	require.False(t, actor.IsSystem())
	assert.Equal(t, id, *actor.UserID)
	assert.Equal(t, "10.0.0.1", actor.IPAddress)
}
