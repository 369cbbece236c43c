// Package partner contains the application services for clients and
// vendors.
package partner

import (
	"context"
	"strings"

	"github.com/finvoice/backend/internal/domain/partner"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService manages a company's clients
type ClientService struct {
	clientRepo partner.ClientRepository
	logger     *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(clientRepo partner.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// Create adds a client to the company. Codes are unique per company.
func (s *ClientService) Create(ctx context.Context, companyID uuid.UUID, input CreateClientInput) (*partner.Client, error) {
	exists, err := s.clientRepo.ExistsByCode(ctx, companyID, strings.ToUpper(input.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A client with this code already exists")
	}

	client, err := partner.NewClient(companyID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if err := client.Update(input.Name, input.Email, input.Phone, input.Address, input.Notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("company_id", companyID.String()))
	return client, nil
}

// Get returns one client of the company
func (s *ClientService) Get(ctx context.Context, companyID, clientID uuid.UUID) (*partner.Client, error) {
	return s.clientRepo.FindByIDForCompany(ctx, companyID, clientID)
}

// List returns the company's clients with a total count
func (s *ClientService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Client, int64, error) {
	clients, err := s.clientRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Update modifies a client's mutable fields
func (s *ClientService) Update(ctx context.Context, companyID, clientID uuid.UUID, input UpdateClientInput) (*partner.Client, error) {
	client, err := s.clientRepo.FindByIDForCompany(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	if err := client.Update(input.Name, input.Email, input.Phone, input.Address, input.Notes); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Deactivate marks a client inactive without deleting it
func (s *ClientService) Deactivate(ctx context.Context, companyID, clientID uuid.UUID) (*partner.Client, error) {
	client, err := s.clientRepo.FindByIDForCompany(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	if err := client.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, companyID, clientID uuid.UUID) error {
	return s.clientRepo.DeleteForCompany(ctx, companyID, clientID)
}
