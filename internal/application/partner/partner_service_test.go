package partner

import (
	"context"
	"errors"
	"testing"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByEmail(ctx context.Context, email string) (*partner.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) HasOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// auditSpy collects saved audit rows
type auditSpy struct {
	logs []*audit.AuditLog
	err  error
}

func (a *auditSpy) FindByID(context.Context, uuid.UUID) (*audit.AuditLog, error) { return nil, nil }
func (a *auditSpy) FindAll(context.Context, shared.Filter) ([]audit.AuditLog, error) {
	return nil, nil
}
func (a *auditSpy) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (a *auditSpy) Save(_ context.Context, l *audit.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.logs = append(a.logs, l)
	return nil
}
func (a *auditSpy) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func newClientService() (*ClientService, *MockClientRepository, *auditSpy) {
	repo := new(MockClientRepository)
	spy := &auditSpy{}
	return NewClientService(repo, appaudit.NewRecorder(spy)), repo, spy
}

func testClient(t *testing.T) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Amina", "Benali", "amina@example.com")
	require.NoError(t, err)
	return client
}

// =============================================================================
// ClientService
// =============================================================================

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates client and records audit row", func(t *testing.T) {
		svc, repo, spy := newClientService()
		repo.On("ExistsByEmail", ctx, "amina@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

		resp, err := svc.Create(ctx, CreateClientRequest{
			FirstName: "Amina",
			LastName:  "Benali",
			Email:     "amina@example.com",
			Phone:     "0555 12 34 56",
		})

		require.NoError(t, err)
		assert.Equal(t, "Amina Benali", resp.FullName)
		assert.Equal(t, "0555 12 34 56", resp.Phone)
		require.Len(t, spy.logs, 1)
		assert.Equal(t, audit.ActionCreate, spy.logs[0].Action)
		assert.Equal(t, audit.EntityClient, spy.logs[0].EntityType)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		svc, repo, spy := newClientService()
		repo.On("ExistsByEmail", ctx, "amina@example.com").Return(true, nil)

		_, err := svc.Create(ctx, CreateClientRequest{FirstName: "A", LastName: "B", Email: "amina@example.com"})

		require.Error(t, err)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
		assert.Empty(t, spy.logs)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("audit failure does not fail the operation", func(t *testing.T) {
		repo := new(MockClientRepository)
		spy := &auditSpy{err: errors.New("db down")}
		svc := NewClientService(repo, appaudit.NewRecorder(spy))
		repo.On("ExistsByEmail", ctx, "amina@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, CreateClientRequest{FirstName: "A", LastName: "B", Email: "amina@example.com"})
		require.NoError(t, err)
	})
}

func TestClientService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newClientService()
	client := testClient(t)

	repo.On("FindByID", ctx, client.ID).Return(client, nil)
	repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
	repo.On("Save", ctx, client).Return(nil)

	newEmail := "new@example.com"
	status := "inactive"
	resp, err := svc.Update(ctx, client.ID, UpdateClientRequest{Email: &newEmail, Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.Equal(t, "inactive", resp.Status)
	assert.Equal(t, "Amina", resp.FirstName)
}

func TestClientService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("client with orders cannot be deleted", func(t *testing.T) {
		svc, repo, _ := newClientService()
		client := testClient(t)
		repo.On("FindByID", ctx, client.ID).Return(client, nil)
		repo.On("HasOrders", ctx, client.ID).Return(true, nil)

		err := svc.Delete(ctx, client.ID)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.NewConflictError("CLIENT_HAS_ORDERS", "")))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing client", func(t *testing.T) {
		svc, repo, _ := newClientService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("CLIENT_NOT_FOUND", "Client not found"))

		err := svc.Delete(ctx, id)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("deletes client", func(t *testing.T) {
		svc, repo, spy := newClientService()
		client := testClient(t)
		repo.On("FindByID", ctx, client.ID).Return(client, nil)
		repo.On("HasOrders", ctx, client.ID).Return(false, nil)
		repo.On("Delete", ctx, client.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, client.ID))
		require.Len(t, spy.logs, 1)
		assert.Equal(t, audit.ActionDelete, spy.logs[0].Action)
	})
}

func TestClientService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newClientService()
	client := testClient(t)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "active" && f.Search == "ami"
	})).Return([]partner.Client{*client}, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	items, total, err := svc.List(ctx, ClientListFilter{Search: "ami", Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, client.ID, items[0].ID)
}

// =============================================================================
// SupplierService
// =============================================================================

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, appaudit.NewRecorder(&auditSpy{}))

	repo.On("ExistsByName", ctx, "Atlas").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	resp, err := svc.Create(ctx, CreateSupplierRequest{Name: " Atlas ", Email: "Sales@Atlas.dz"})

	require.NoError(t, err)
	assert.Equal(t, "Atlas", resp.Name)
	assert.Equal(t, "sales@atlas.dz", resp.Email)
}

func TestSupplierService_Delete_HasProducts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, appaudit.NewRecorder(&auditSpy{}))
	supplier, err := partner.NewSupplier("Atlas")
	require.NoError(t, err)

	repo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	repo.On("HasProducts", ctx, supplier.ID).Return(true, nil)

	err = svc.Delete(ctx, supplier.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "SUPPLIER_HAS_PRODUCTS", domainErr.Code)
}
