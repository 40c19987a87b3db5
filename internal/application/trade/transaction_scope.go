package trade

import (
	"context"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/trade"
)

// TransactionScope runs a unit of work against repositories sharing one
// database transaction. Returning an error from fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories of one transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	OrderRepo() trade.OrderRepository
	ReturnRepo() trade.ReturnRepository
	AuditRepo() audit.Repository
}

// NoOpTransactionScope calls fn with the plain repositories. Used by unit tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	returnRepo  trade.ReturnRepository
	auditRepo   audit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	returnRepo trade.ReturnRepository,
	auditRepo audit.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		returnRepo:  returnRepo,
		auditRepo:   auditRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository       { return s.orderRepo }
func (s *NoOpTransactionScope) ReturnRepo() trade.ReturnRepository     { return s.returnRepo }
func (s *NoOpTransactionScope) AuditRepo() audit.Repository            { return s.auditRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
