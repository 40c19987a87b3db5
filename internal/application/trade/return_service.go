package trade

import (
	"context"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReturnService handles return (retour) business operations
type ReturnService struct {
	returnRepo     trade.ReturnRepository
	orderRepo      trade.OrderRepository
	txScope        TransactionScope
	recorder       *appaudit.Recorder
	eventPublisher shared.EventPublisher
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returnRepo trade.ReturnRepository,
	orderRepo trade.OrderRepository,
	txScope TransactionScope,
	recorder *appaudit.Recorder,
) *ReturnService {
	return &ReturnService{
		returnRepo:     returnRepo,
		orderRepo:      orderRepo,
		txScope:        txScope,
		recorder:       recorder,
		eventPublisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a return for a delivered order
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	exists, err := s.returnRepo.ExistsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("RETURN_ALREADY_EXISTS", "A return already exists for this order")
	}

	actor := shared.ActorFromContext(ctx)
	ret, err := trade.NewReturn(order, req.Reason, req.RefundAmount, req.Restock, actor.UserID)
	if err != nil {
		return nil, err
	}

	// The unique index on order_id settles concurrent requests.
	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, audit.EntityReturn, ret.ID, map[string]any{
		"order_number":  ret.OrderNumber,
		"refund_amount": ret.RefundAmount.StringFixed(2),
		"restock":       ret.Restock,
	})
	s.publish(ctx, ret)

	response := ToReturnResponse(ret)
	return &response, nil
}

// GetByID retrieves a return
func (s *ReturnService) GetByID(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// List retrieves a page of returns
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.OrderID != "" {
		domainFilter.Filters["order_id"] = filter.OrderID
	}

	returns, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ReturnResponse, len(returns))
	for i := range returns {
		items[i] = ToReturnResponse(&returns[i])
	}
	return items, total, nil
}

// Approve accepts a return. With restock set, every order line's quantity
// goes back to stock in the same transaction as the approval and its audit row.
func (s *ReturnService) Approve(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	actor := shared.ActorFromContext(ctx)

	var ret *trade.Return
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ret, err = repos.ReturnRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := ret.Approve(actor.UserID); err != nil {
			return err
		}
		if err := repos.ReturnRepo().Save(ctx, ret); err != nil {
			return err
		}

		restocked := 0
		if ret.Restock {
			order, err := repos.OrderRepo().FindByID(ctx, ret.OrderID)
			if err != nil {
				return err
			}
			for _, line := range order.Lines {
				if err := repos.ProductRepo().IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return err
				}
				restocked += line.Quantity
			}
		}

		row := audit.NewAuditLog(actor, audit.ActionStatusChange, audit.EntityReturn, &ret.ID, map[string]any{
			"order_number": ret.OrderNumber,
			"to":           string(trade.ReturnStatusApproved),
			"restocked":    restocked,
		})
		return repos.AuditRepo().Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Reject refuses a return with a reason
func (s *ReturnService) Reject(ctx context.Context, id uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ret.Reject(shared.ActorFromContext(ctx).UserID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionStatusChange, audit.EntityReturn, ret.ID, map[string]any{
		"order_number": ret.OrderNumber,
		"to":           string(trade.ReturnStatusRejected),
		"reason":       req.Reason,
	})

	response := ToReturnResponse(ret)
	return &response, nil
}

// Refund marks an approved return as refunded and publishes ReturnRefunded
func (s *ReturnService) Refund(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ret.Refund(shared.ActorFromContext(ctx).UserID); err != nil {
		return nil, err
	}
	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionStatusChange, audit.EntityReturn, ret.ID, map[string]any{
		"order_number":  ret.OrderNumber,
		"to":            string(trade.ReturnStatusRefunded),
		"refund_amount": ret.RefundAmount.StringFixed(2),
	})
	s.publish(ctx, ret)

	response := ToReturnResponse(ret)
	return &response, nil
}

// Delete removes a return that has not been processed yet
func (s *ReturnService) Delete(ctx context.Context, id uuid.UUID) error {
	ret, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ret.CanDelete() {
		return shared.NewBusinessRuleError("INVALID_STATE", "Only requested returns can be deleted")
	}
	if err := s.returnRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, audit.EntityReturn, id, map[string]any{"order_number": ret.OrderNumber})
	return nil
}

func (s *ReturnService) publish(ctx context.Context, ret *trade.Return) {
	events := ret.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish return events",
			zap.String("return_id", ret.ID.String()),
			zap.Error(err),
		)
	}
	ret.ClearDomainEvents()
}
