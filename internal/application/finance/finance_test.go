package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEntryRepository is a mock implementation of AccountingEntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AccountingEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountingEntry), args.Error(1)
}

func (m *MockEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.AccountingEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.AccountingEntry), args.Error(1)
}

func (m *MockEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) ExistsForOrder(ctx context.Context, category finance.EntryCategory, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, category, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) ExistsForReturn(ctx context.Context, category finance.EntryCategory, returnID uuid.UUID) (bool, error) {
	args := m.Called(ctx, category, returnID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) TotalsByType(ctx context.Context, from, to *time.Time) ([]finance.TypeTotal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]finance.TypeTotal), args.Error(1)
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *finance.AccountingEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

func newEntryService() (*EntryService, *MockEntryRepository, *auditSpy) {
	repo := new(MockEntryRepository)
	spy := &auditSpy{}
	return NewEntryService(repo, appaudit.NewRecorder(spy)), repo, spy
}

func TestEntryService_Create(t *testing.T) {
	ctx := context.Background()
	svc, repo, spy := newEntryService()
	repo.On("Save", ctx, mock.AnythingOfType("*finance.AccountingEntry")).Return(nil)

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.Create(ctx, CreateEntryRequest{
		EntryType:   "expense",
		Category:    "purchase",
		Amount:      decimal.RequireFromString("250.00"),
		Description: "Cartons",
		EntryDate:   &date,
	})

	require.NoError(t, err)
	assert.Equal(t, "expense", resp.EntryType)
	assert.Equal(t, date, resp.EntryDate)
	assert.False(t, resp.Automatic)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, audit.EntityAccounting, spy.logs[0].EntityType)
}

func TestEntryService_AutomaticEntriesAreReadOnly(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newEntryService()
	entry, err := finance.NewSaleIncome(uuid.New(), "CMD-20260101-AAAAAA", decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	repo.On("FindByID", ctx, entry.ID).Return(entry, nil)

	amount := decimal.NewFromInt(5)
	_, err = svc.Update(ctx, entry.ID, UpdateEntryRequest{Amount: &amount})
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "AUTOMATIC_ENTRY", domainErr.Code)

	err = svc.Delete(ctx, entry.ID)
	assert.Equal(t, shared.KindBusinessRule, shared.KindOf(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEntryService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newEntryService()
	entry, err := finance.NewAccountingEntry(finance.EntryTypeExpense, finance.CategorySalary,
		decimal.NewFromInt(1000), "Salaire", time.Now(), nil)
	require.NoError(t, err)
	repo.On("FindByID", ctx, entry.ID).Return(entry, nil)
	repo.On("Save", ctx, entry).Return(nil)

	amount := decimal.RequireFromString("1100.50")
	resp, err := svc.Update(ctx, entry.ID, UpdateEntryRequest{Amount: &amount})

	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(amount))
	assert.Equal(t, "salary", resp.Category)
}

func TestEntryService_Summary(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newEntryService()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	// the last day of the period is included
	endOfPeriod := mock.MatchedBy(func(end *time.Time) bool {
		return end != nil && end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	})
	repo.On("TotalsByType", ctx, &from, endOfPeriod).Return([]finance.TypeTotal{
		{EntryType: finance.EntryTypeIncome, Total: decimal.NewFromInt(900), Count: 4},
		{EntryType: finance.EntryTypeExpense, Total: decimal.NewFromInt(150), Count: 1},
	}, nil)

	summary, err := svc.Summary(ctx, SummaryFilter{From: &from, To: &to})

	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, int64(5), summary.Count)

	_, err = svc.Summary(ctx, SummaryFilter{From: &to, To: &from})
	assert.Equal(t, shared.KindBadRequest, shared.KindOf(err))
}

func deliveredEvent(t *testing.T, total decimal.Decimal) *trade.OrderDeliveredEvent {
	t.Helper()
	o, err := trade.NewOrder(uuid.New(), nil)
	require.NoError(t, err)
	o.TotalAmount = total
	return trade.NewOrderDeliveredEvent(o)
}

func TestOrderDeliveredHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("books sale income", func(t *testing.T) {
		repo := new(MockEntryRepository)
		h := NewOrderDeliveredHandler(repo, zap.NewNop())
		event := deliveredEvent(t, decimal.RequireFromString("149.90"))
		repo.On("ExistsForOrder", ctx, finance.CategorySale, event.OrderID).Return(false, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(e *finance.AccountingEntry) bool {
			return e.EntryType == finance.EntryTypeIncome &&
				e.Category == finance.CategorySale &&
				*e.OrderID == event.OrderID &&
				e.Amount.Equal(decimal.RequireFromString("149.90"))
		})).Return(nil)

		require.NoError(t, h.Handle(ctx, event))
		repo.AssertExpectations(t)
	})

	t.Run("is idempotent", func(t *testing.T) {
		repo := new(MockEntryRepository)
		h := NewOrderDeliveredHandler(repo, zap.NewNop())
		event := deliveredEvent(t, decimal.NewFromInt(10))
		repo.On("ExistsForOrder", ctx, finance.CategorySale, event.OrderID).Return(true, nil)

		require.NoError(t, h.Handle(ctx, event))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a concurrent booking is not an error", func(t *testing.T) {
		repo := new(MockEntryRepository)
		h := NewOrderDeliveredHandler(repo, zap.NewNop())
		event := deliveredEvent(t, decimal.NewFromInt(10))
		repo.On("ExistsForOrder", ctx, finance.CategorySale, event.OrderID).Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(shared.NewConflictError("ENTRY_ALREADY_EXISTS", "exists"))

		assert.NoError(t, h.Handle(ctx, event))
	})

	t.Run("rejects other events", func(t *testing.T) {
		h := NewOrderDeliveredHandler(new(MockEntryRepository), zap.NewNop())
		o, err := trade.NewOrder(uuid.New(), nil)
		require.NoError(t, err)
		assert.Error(t, h.Handle(ctx, trade.NewOrderCreatedEvent(o)))
	})
}

func TestReturnRefundedHandler(t *testing.T) {
	ctx := context.Background()
	event := &trade.ReturnRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeReturnRefunded, trade.AggregateTypeReturn, uuid.New()),
		ReturnID:        uuid.New(),
		OrderID:         uuid.New(),
		OrderNumber:     "CMD-20260101-BBBBBB",
		RefundAmount:    decimal.RequireFromString("40.00"),
	}

	t.Run("books refund expense", func(t *testing.T) {
		repo := new(MockEntryRepository)
		h := NewReturnRefundedHandler(repo, zap.NewNop())
		repo.On("ExistsForReturn", ctx, finance.CategoryRefund, event.ReturnID).Return(false, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(e *finance.AccountingEntry) bool {
			return e.EntryType == finance.EntryTypeExpense && *e.ReturnID == event.ReturnID
		})).Return(nil)

		require.NoError(t, h.Handle(ctx, event))
		repo.AssertExpectations(t)
	})

	t.Run("zero refund books nothing", func(t *testing.T) {
		repo := new(MockEntryRepository)
		h := NewReturnRefundedHandler(repo, zap.NewNop())
		zero := *event
		zero.RefundAmount = decimal.Zero

		require.NoError(t, h.Handle(ctx, &zero))
		repo.AssertNotCalled(t, "ExistsForReturn", mock.Anything, mock.Anything, mock.Anything)
	})
}
