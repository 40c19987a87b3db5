package partner

import (
	"context"
	"strings"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	recorder   *appaudit.Recorder
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, recorder *appaudit.Recorder) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		recorder:   recorder,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	exists, err := s.clientRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("ALREADY_EXISTS", "A client with this email already exists")
	}

	client, err := partner.NewClient(req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" || req.Address != "" {
		if err := client.SetContact(req.Phone, req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, audit.EntityClient, client.ID, map[string]any{
		"email": client.Email,
		"name":  client.FullName(),
	})

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves a page of clients
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
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

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a client
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		if err := client.Rename(valueOr(req.FirstName, client.FirstName), valueOr(req.LastName, client.LastName)); err != nil {
			return nil, err
		}
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, client.Email) {
		exists, err := s.clientRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewConflictError("ALREADY_EXISTS", "A client with this email already exists")
		}
		if err := client.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Address != nil {
		if err := client.SetContact(valueOr(req.Phone, client.Phone), valueOr(req.Address, client.Address)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := client.SetStatus(partner.ClientStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntityClient, client.ID, req)

	response := ToClientResponse(client)
	return &response, nil
}

// Delete deletes a client that no order references
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasOrders, err := s.clientRepo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		return shared.NewConflictError("CLIENT_HAS_ORDERS", "Client has orders and cannot be deleted")
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, audit.EntityClient, id, map[string]any{"email": client.Email})
	return nil
}
